package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// testify mocks for the service interfaces, used by the handler tests.

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *CatalogService) ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, pageSize)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, terminalID string) (*models.CartView, error) {
	args := m.Called(ctx, terminalID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartView), args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, terminalID string, req *models.AddItemRequest) (*models.CartView, error) {
	args := m.Called(ctx, terminalID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartView), args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, terminalID string, req *models.UpdateQuantityRequest) (*models.CartView, error) {
	args := m.Called(ctx, terminalID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartView), args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, terminalID string, productID uuid.UUID) (*models.CartView, error) {
	args := m.Called(ctx, terminalID, productID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartView), args.Error(1)
}

func (m *CartService) ClearCart(ctx context.Context, terminalID string) (*models.CartView, error) {
	args := m.Called(ctx, terminalID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartView), args.Error(1)
}

type CheckoutService struct {
	mock.Mock
}

func (m *CheckoutService) BeginCheckout(ctx context.Context, claims *models.Claims) (*models.CheckoutView, error) {
	args := m.Called(ctx, claims)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CheckoutView), args.Error(1)
}

func (m *CheckoutService) GetCheckout(ctx context.Context, terminalID string) (*models.CheckoutView, error) {
	args := m.Called(ctx, terminalID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CheckoutView), args.Error(1)
}

func (m *CheckoutService) SelectPaymentMethod(ctx context.Context, terminalID string, method models.PaymentMethod) (*models.CheckoutView, error) {
	args := m.Called(ctx, terminalID, method)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CheckoutView), args.Error(1)
}

func (m *CheckoutService) SubmitCash(ctx context.Context, terminalID string, amount decimal.Decimal) (*models.CheckoutView, error) {
	args := m.Called(ctx, terminalID, amount)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CheckoutView), args.Error(1)
}

func (m *CheckoutService) Finalize(ctx context.Context, terminalID string, customerEmail string) (*models.SaleRecord, error) {
	args := m.Called(ctx, terminalID, customerEmail)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.SaleRecord), args.Error(1)
}

func (m *CheckoutService) Cancel(ctx context.Context, terminalID string) (*models.CheckoutView, error) {
	args := m.Called(ctx, terminalID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CheckoutView), args.Error(1)
}

func (m *CheckoutService) GetSale(ctx context.Context, transactionID uuid.UUID) (*models.SaleRecord, error) {
	args := m.Called(ctx, transactionID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.SaleRecord), args.Error(1)
}
