package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

type PaymentStatus string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodDigital PaymentMethod = "digital"

	PaymentStatusCompleted PaymentStatus = "completed"
)

// SaleLine is a CartLine expanded with its extended total, frozen at checkout.
type SaleLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SaleRecord is immutable once built: finalize creates it, the sale
// repository persists it, and nothing mutates it afterward. TransactionID is
// fresh per finalize attempt; IdempotencyKey is stable for the whole payment
// attempt so a retried finalize cannot double-persist the same cart.
type SaleRecord struct {
	TransactionID  uuid.UUID        `json:"transaction_id"`
	IdempotencyKey uuid.UUID        `json:"idempotency_key"`
	TerminalID     string           `json:"terminal_id"`
	CashierID      uuid.UUID        `json:"cashier_id"`
	Lines          []SaleLine       `json:"lines"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	TaxAmount      decimal.Decimal  `json:"tax_amount"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	PaymentMethod  PaymentMethod    `json:"payment_method"`
	CashReceived   *decimal.Decimal `json:"cash_received,omitempty"`
	ChangeGiven    *decimal.Decimal `json:"change_given,omitempty"`
	Status         PaymentStatus    `json:"payment_status"`
	Currency       string           `json:"currency"`
	CreatedAt      time.Time        `json:"created_at"`
}

type SelectPaymentMethodRequest struct {
	Method PaymentMethod `json:"method" validate:"required,oneof=cash card digital"`
}

// Amount carries the tendered cash. Sufficiency against the frozen total is a
// business rule checked by the checkout service, not a validator tag.
type SubmitCashRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type FinalizeRequest struct {
	CustomerEmail string `json:"customer_email,omitempty" validate:"omitempty,email"`
}

// CheckoutView reports the session state the payment UI renders against.
type CheckoutView struct {
	State         string           `json:"state"`
	Lines         []CartLine       `json:"lines"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	TaxAmount     decimal.Decimal  `json:"tax_amount"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	PaymentMethod PaymentMethod    `json:"payment_method,omitempty"`
	CashReceived  *decimal.Decimal `json:"cash_received,omitempty"`
	ChangeGiven   *decimal.Decimal `json:"change_given,omitempty"`
}
