package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT claims structure. Tokens are minted by the dashboard's auth service;
// this service only verifies them. TerminalID keys the cart session, so one
// token maps to exactly one open sale at a time.

type Claims struct {
	TerminalID string    `json:"terminal_id"`
	CashierID  uuid.UUID `json:"cashier_id"`
	jwt.RegisteredClaims
}
