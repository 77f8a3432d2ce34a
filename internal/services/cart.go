package service

import (
	"context"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartService interface {
	GetCart(ctx context.Context, terminalID string) (*models.CartView, error)
	AddItem(ctx context.Context, terminalID string, req *models.AddItemRequest) (*models.CartView, error)
	UpdateQuantity(ctx context.Context, terminalID string, req *models.UpdateQuantityRequest) (*models.CartView, error)
	RemoveItem(ctx context.Context, terminalID string, productID uuid.UUID) (*models.CartView, error)
	ClearCart(ctx context.Context, terminalID string) (*models.CartView, error)
}

type cartService struct {
	sessions *SessionStore
	catalog  CatalogService
	taxRate  decimal.Decimal
}

func NewCartService(sessions *SessionStore, catalog CatalogService, taxRate decimal.Decimal) CartService {
	return &cartService{sessions: sessions, catalog: catalog, taxRate: taxRate}
}

func (s *cartService) GetCart(ctx context.Context, terminalID string) (*models.CartView, error) {
	sess := s.sessions.Get(terminalID)
	sess.Lock()
	defer sess.Unlock()

	return s.cartView(sess), nil
}

// AddItem adds one unit of the product, merging into an existing line. The
// stock ceiling comes from the catalog at mutation time; violations surface
// as STOCK_EXCEEDED and leave the cart untouched.
func (s *cartService) AddItem(ctx context.Context, terminalID string, req *models.AddItemRequest) (*models.CartView, error) {
	product, err := s.catalog.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	sess := s.sessions.Get(terminalID)
	sess.Lock()
	defer sess.Unlock()

	if err := s.requireShopping(sess); err != nil {
		return nil, err
	}

	if err := sess.Cart.AddItem(product); err != nil {
		return nil, err
	}

	return s.cartView(sess), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, terminalID string, req *models.UpdateQuantityRequest) (*models.CartView, error) {
	product, err := s.catalog.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	sess := s.sessions.Get(terminalID)
	sess.Lock()
	defer sess.Unlock()

	if err := s.requireShopping(sess); err != nil {
		return nil, err
	}

	if err := sess.Cart.SetQuantity(product, req.Quantity); err != nil {
		return nil, err
	}

	return s.cartView(sess), nil
}

func (s *cartService) RemoveItem(ctx context.Context, terminalID string, productID uuid.UUID) (*models.CartView, error) {
	sess := s.sessions.Get(terminalID)
	sess.Lock()
	defer sess.Unlock()

	if err := s.requireShopping(sess); err != nil {
		return nil, err
	}

	sess.Cart.RemoveItem(productID)

	return s.cartView(sess), nil
}

func (s *cartService) ClearCart(ctx context.Context, terminalID string) (*models.CartView, error) {
	sess := s.sessions.Get(terminalID)
	sess.Lock()
	defer sess.Unlock()

	if err := s.requireShopping(sess); err != nil {
		return nil, err
	}

	sess.Cart.Clear()

	return s.cartView(sess), nil
}

// requireShopping enforces the checkout gate: once payment is open, the
// figures the customer pays against are frozen, so the cart must not move.
func (s *cartService) requireShopping(sess *Session) error {
	if sess.State != StateShopping {
		return errors.CheckoutStateError("Cart is locked while a checkout is in progress")
	}

	return nil
}

func (s *cartService) cartView(sess *Session) *models.CartView {
	totals := sess.Cart.Totals(s.taxRate)

	return &models.CartView{
		Lines:     sess.Cart.SnapshotLines(),
		Subtotal:  totals.Subtotal,
		TaxAmount: totals.TaxAmount,
		Total:     totals.TotalAmount,
	}
}
