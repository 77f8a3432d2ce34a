package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/cache"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	repository "github.com/aaravmahajanofficial/retail-pos-platform/internal/repositories"
	"github.com/google/uuid"
)

type CatalogService interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error)
}

type catalogService struct {
	repo       repository.ProductRepository
	cache      cache.Cache
	productTTL time.Duration
}

func NewCatalogService(repo repository.ProductRepository, productCache cache.Cache, productTTL time.Duration) CatalogService {
	return &catalogService{repo: repo, cache: productCache, productTTL: productTTL}
}

// GetProductByID is cache-aside with a short TTL: the stock ceiling read at
// cart-mutation time must stay close to live inventory.
func (s *catalogService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	key := cache.Key(cache.ProductKeyPrefix, id.String())

	if s.cache != nil {
		product := &models.Product{}

		found, err := s.cache.Get(ctx, key, product)
		if err != nil {
			slog.Warn("Product cache lookup failed", slog.String("error", err.Error()))
		} else if found {
			return product, nil
		}
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, product, s.productTTL); err != nil {
			slog.Warn("Product cache store failed", slog.String("error", err.Error()))
		}
	}

	return product, nil
}

// page means "page number requested"
// pageSize means "number of products to be displayed per page"
func (s *catalogService) ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error) {

	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	products, total, err := s.repo.ListProducts(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}
