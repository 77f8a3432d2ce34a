package service

import (
	"sync"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutState is the gate of the shopping -> paying transition. Cart
// mutations are only legal in StateShopping; finalize is only legal once a
// payment method is confirmed.
type CheckoutState string

const (
	StateShopping         CheckoutState = "shopping"
	StateCollectingMethod CheckoutState = "collecting_method"
	StateCollectingCash   CheckoutState = "collecting_cash"
	StateReadyToFinalize  CheckoutState = "ready_to_finalize"
	StateFinalizing       CheckoutState = "finalizing"
	StateFailed           CheckoutState = "failed"
)

type checkoutSnapshot struct {
	Lines  []models.CartLine
	Totals models.CartTotals
}

// Session is the per-terminal sale session: one cart, one checkout state
// machine. mu serializes every operation on the session, which is what makes
// the cart single-writer even though handlers run on arbitrary goroutines.
type Session struct {
	mu sync.Mutex

	TerminalID string
	CashierID  uuid.UUID
	Cart       *models.Cart

	State          CheckoutState
	Snapshot       *checkoutSnapshot
	Method         models.PaymentMethod
	CashReceived   *decimal.Decimal
	ChangeGiven    *decimal.Decimal
	IdempotencyKey uuid.UUID
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// resetPayment drops all payment progress but keeps the cart. Caller holds
// the session lock.
func (s *Session) resetPayment() {
	s.State = StateShopping
	s.Snapshot = nil
	s.Method = ""
	s.CashReceived = nil
	s.ChangeGiven = nil
	s.IdempotencyKey = uuid.Nil
}

// view renders the session for the payment UI. Caller holds the session lock.
func (s *Session) view() *models.CheckoutView {
	view := &models.CheckoutView{
		State:         string(s.State),
		PaymentMethod: s.Method,
		CashReceived:  s.CashReceived,
		ChangeGiven:   s.ChangeGiven,
	}

	if s.Snapshot != nil {
		view.Lines = s.Snapshot.Lines
		view.Subtotal = s.Snapshot.Totals.Subtotal
		view.TaxAmount = s.Snapshot.Totals.TaxAmount
		view.TotalAmount = s.Snapshot.Totals.TotalAmount
	}

	return view
}

// SessionStore keeps the live sale sessions in process memory. Sessions are
// transient working state: a restart drops half-finished carts, never
// persisted sales.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Get returns the session for the terminal, creating an empty shopping
// session on first use.
func (st *SessionStore) Get(terminalID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if sess, ok := st.sessions[terminalID]; ok {
		return sess
	}

	sess := &Session{
		TerminalID: terminalID,
		Cart:       models.NewCart(),
		State:      StateShopping,
	}
	st.sessions[terminalID] = sess

	return sess
}
