package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/errors"
	models "github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const TerminalContextKey = contextKey("terminal")

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {

	return &AuthMiddleware{jwtKey: jwtKey}

}

// Authenticate verifies the terminal token minted by the dashboard's auth
// service and puts the claims (terminal id, cashier id) on the context. The
// terminal id is what keys the cart session downstream.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		// Get token from Authorization header
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		// Token is of format : "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		tokenString := tokenParts[1]

		// Stores the decoded information
		claims := &models.Claims{}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			// check the signing method
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {

				logger.Error("Unexpected signing method used in JWT", slog.Any("alg", t.Header["alg"]))
				return nil, errors.BadRequestError("unexpected signing method")

			}
			return m.jwtKey, nil
		})

		if err != nil {
			logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		if !token.Valid {
			logger.Warn("Invalid token")
			response.Error(w, errors.UnauthorizedError("Invalid token"))
			return
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
			logger.Warn("Expired token", slog.String("terminalId", claims.TerminalID))
			response.Error(w, errors.UnauthorizedError("Token expired"))
			return
		}

		if claims.TerminalID == "" {
			logger.Warn("Token without terminal id")
			response.Error(w, errors.UnauthorizedError("Token is missing the terminal id"))
			return
		}

		ctx := context.WithValue(r.Context(), TerminalContextKey, claims)

		requestScopedLogger := logger.With(slog.String("terminalId", claims.TerminalID))
		ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext returns the authenticated terminal claims, or nil when
// the request skipped authentication.
func ClaimsFromContext(ctx context.Context) *models.Claims {
	if claims, ok := ctx.Value(TerminalContextKey).(*models.Claims); ok {
		return claims
	}

	return nil
}
