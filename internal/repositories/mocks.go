package repository

import (
	"context"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// testify mocks for the repository interfaces, used by the service tests.

type MockProductRepository struct {
	mock.Mock
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{}
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

type MockSaleRepository struct {
	mock.Mock
}

func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{}
}

func (m *MockSaleRepository) CreateSale(ctx context.Context, sale *models.SaleRecord) (*models.SaleRecord, error) {
	args := m.Called(ctx, sale)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.SaleRecord), args.Error(1)
}

func (m *MockSaleRepository) GetSaleByTransactionID(ctx context.Context, transactionID uuid.UUID) (*models.SaleRecord, error) {
	args := m.Called(ctx, transactionID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.SaleRecord), args.Error(1)
}

func (m *MockSaleRepository) GetSaleByIdempotencyKey(ctx context.Context, key uuid.UUID) (*models.SaleRecord, error) {
	args := m.Called(ctx, key)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.SaleRecord), args.Error(1)
}
