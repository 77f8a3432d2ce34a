package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/metrics"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	repository "github.com/aaravmahajanofficial/retail-pos-platform/internal/repositories"
	"github.com/aaravmahajanofficial/retail-pos-platform/pkg/sendgrid"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutService interface {
	BeginCheckout(ctx context.Context, claims *models.Claims) (*models.CheckoutView, error)
	GetCheckout(ctx context.Context, terminalID string) (*models.CheckoutView, error)
	SelectPaymentMethod(ctx context.Context, terminalID string, method models.PaymentMethod) (*models.CheckoutView, error)
	SubmitCash(ctx context.Context, terminalID string, amount decimal.Decimal) (*models.CheckoutView, error)
	Finalize(ctx context.Context, terminalID string, customerEmail string) (*models.SaleRecord, error)
	Cancel(ctx context.Context, terminalID string) (*models.CheckoutView, error)
	GetSale(ctx context.Context, transactionID uuid.UUID) (*models.SaleRecord, error)
}

type checkoutService struct {
	sessions        *SessionStore
	saleRepo        repository.SaleRepository
	receipts        sendgrid.ReceiptSender
	taxRate         decimal.Decimal
	currency        string
	finalizeTimeout time.Duration
}

func NewCheckoutService(sessions *SessionStore, saleRepo repository.SaleRepository, receipts sendgrid.ReceiptSender, taxRate decimal.Decimal, currency string, finalizeTimeout time.Duration) CheckoutService {
	return &checkoutService{
		sessions:        sessions,
		saleRepo:        saleRepo,
		receipts:        receipts,
		taxRate:         taxRate,
		currency:        currency,
		finalizeTimeout: finalizeTimeout,
	}
}

// BeginCheckout fires the shopping -> paying transition. It fails with
// EMPTY_CART on a cart with no lines and freezes a snapshot of the lines and
// totals; later cart mutations cannot change the figures the customer pays
// against. The idempotency key minted here is stable for the whole payment
// attempt, including finalize retries.
func (s *checkoutService) BeginCheckout(ctx context.Context, claims *models.Claims) (*models.CheckoutView, error) {
	sess := s.sessions.Get(claims.TerminalID)
	sess.Lock()
	defer sess.Unlock()

	if sess.State != StateShopping {
		return nil, errors.CheckoutStateError("A checkout is already in progress")
	}

	if sess.Cart.IsEmpty() {
		metrics.CheckoutFailure(errors.ErrCodeEmptyCart)

		return nil, errors.EmptyCartError("Cannot check out an empty cart")
	}

	sess.CashierID = claims.CashierID
	sess.Snapshot = &checkoutSnapshot{
		Lines:  sess.Cart.SnapshotLines(),
		Totals: sess.Cart.Totals(s.taxRate),
	}
	sess.IdempotencyKey = uuid.New()
	sess.State = StateCollectingMethod

	return sess.view(), nil
}

func (s *checkoutService) GetCheckout(ctx context.Context, terminalID string) (*models.CheckoutView, error) {
	sess := s.sessions.Get(terminalID)
	sess.Lock()
	defer sess.Unlock()

	return sess.view(), nil
}

// SelectPaymentMethod picks cash, card or digital. Cash enters the
// amount-collection sub-state; card and digital need no amount and are ready
// to finalize immediately. Re-selection before finalize discards any tendered
// amount.
func (s *checkoutService) SelectPaymentMethod(ctx context.Context, terminalID string, method models.PaymentMethod) (*models.CheckoutView, error) {
	sess := s.sessions.Get(terminalID)
	sess.Lock()
	defer sess.Unlock()

	switch sess.State {
	case StateCollectingMethod, StateCollectingCash, StateReadyToFinalize:
	default:
		return nil, errors.CheckoutStateError("No open checkout to select a payment method for")
	}

	sess.Method = method
	sess.CashReceived = nil
	sess.ChangeGiven = nil

	if method == models.PaymentMethodCash {
		sess.State = StateCollectingCash
	} else {
		sess.State = StateReadyToFinalize
	}

	return sess.view(), nil
}

// SubmitCash validates the tendered amount against the frozen total. An
// insufficient tender is rejected with INSUFFICIENT_CASH and the session
// stays in the amount-collection state so the entry can be retried.
func (s *checkoutService) SubmitCash(ctx context.Context, terminalID string, amount decimal.Decimal) (*models.CheckoutView, error) {
	sess := s.sessions.Get(terminalID)
	sess.Lock()
	defer sess.Unlock()

	if sess.State != StateCollectingCash {
		return nil, errors.CheckoutStateError("Not collecting a cash amount")
	}

	total := sess.Snapshot.Totals.TotalAmount

	if amount.LessThan(total) {
		metrics.CheckoutFailure(errors.ErrCodeInsufficientCash)

		return nil, errors.InsufficientCashError("Cash received is less than the amount due").
			WithDetail("amount due " + total.StringFixed(2))
	}

	change := amount.Sub(total)
	sess.CashReceived = &amount
	sess.ChangeGiven = &change
	sess.State = StateReadyToFinalize

	return sess.view(), nil
}

// Finalize converts the paid-for snapshot into an immutable SaleRecord and
// hands it to the sale repository. Exactly one finalize may be in flight per
// session: a re-entrant call is rejected, not queued. On persistence failure
// the cart is left exactly as it was, the session moves to StateFailed, and a
// retry re-enters here with a fresh transaction id under the same idempotency
// key.
func (s *checkoutService) Finalize(ctx context.Context, terminalID string, customerEmail string) (*models.SaleRecord, error) {
	sess := s.sessions.Get(terminalID)
	sess.Lock()

	if sess.State == StateFinalizing {
		sess.Unlock()

		return nil, errors.CheckoutStateError("A finalize attempt is already in progress")
	}

	if sess.State != StateReadyToFinalize && sess.State != StateFailed {
		sess.Unlock()

		return nil, errors.CheckoutStateError("Checkout is not ready to finalize")
	}

	sale := s.buildSaleRecord(sess)
	sess.State = StateFinalizing
	sess.Unlock()

	dbCtx, cancel := context.WithTimeout(ctx, s.finalizeTimeout)
	defer cancel()

	persisted, err := s.saleRepo.CreateSale(dbCtx, sale)

	sess.Lock()

	if err != nil {
		// Cart untouched: the sale can be retried without re-entering items.
		sess.State = StateFailed
		sess.Unlock()

		metrics.CheckoutFailure(errors.ErrCodePersistenceFailure)

		return nil, errors.PersistenceFailureError("Failed to record the sale").WithError(err)
	}

	sess.Cart = models.NewCart()
	sess.resetPayment()
	sess.Unlock()

	amount, _ := persisted.TotalAmount.Float64()
	metrics.SaleCompleted(string(persisted.PaymentMethod), amount)

	slog.Info("Sale completed",
		slog.String("transactionId", persisted.TransactionID.String()),
		slog.String("terminalId", terminalID),
		slog.String("method", string(persisted.PaymentMethod)),
		slog.String("total", persisted.TotalAmount.StringFixed(2)))

	if customerEmail != "" && s.receipts != nil {
		if err := s.receipts.SendReceipt(ctx, customerEmail, persisted); err != nil {
			slog.Warn("Failed to send receipt email",
				slog.String("transactionId", persisted.TransactionID.String()),
				slog.String("error", err.Error()))
		}
	}

	return persisted, nil
}

// Cancel abandons payment and returns to shopping with the cart intact. Once
// finalize has started it must run to completion before another attempt.
func (s *checkoutService) Cancel(ctx context.Context, terminalID string) (*models.CheckoutView, error) {
	sess := s.sessions.Get(terminalID)
	sess.Lock()
	defer sess.Unlock()

	switch sess.State {
	case StateShopping:
		return nil, errors.CheckoutStateError("No checkout in progress")
	case StateFinalizing:
		return nil, errors.CheckoutStateError("Cannot cancel while a finalize attempt is in progress")
	}

	sess.resetPayment()

	return sess.view(), nil
}

func (s *checkoutService) GetSale(ctx context.Context, transactionID uuid.UUID) (*models.SaleRecord, error) {
	sale, err := s.saleRepo.GetSaleByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, errors.NotFoundError("Sale not found").WithError(err)
	}

	return sale, nil
}

// buildSaleRecord expands the frozen snapshot into the immutable sale. The
// transaction id is fresh per attempt; dedup across retries rides on the
// idempotency key. Caller holds the session lock.
func (s *checkoutService) buildSaleRecord(sess *Session) *models.SaleRecord {
	lines := make([]models.SaleLine, 0, len(sess.Snapshot.Lines))

	for _, line := range sess.Snapshot.Lines {
		lines = append(lines, models.SaleLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
		})
	}

	return &models.SaleRecord{
		TransactionID:  uuid.New(),
		IdempotencyKey: sess.IdempotencyKey,
		TerminalID:     sess.TerminalID,
		CashierID:      sess.CashierID,
		Lines:          lines,
		Subtotal:       sess.Snapshot.Totals.Subtotal,
		TaxAmount:      sess.Snapshot.Totals.TaxAmount,
		TotalAmount:    sess.Snapshot.Totals.TotalAmount,
		PaymentMethod:  sess.Method,
		CashReceived:   sess.CashReceived,
		ChangeGiven:    sess.ChangeGiven,
		Status:         models.PaymentStatusCompleted,
		Currency:       s.currency,
		CreatedAt:      time.Now(),
	}
}
