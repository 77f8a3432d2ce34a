package handlers

import (
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	service "github.com/aaravmahajanofficial/retail-pos-platform/internal/services"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/utils/response"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// for eg: GET /products?page=1&pageSize=20
func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		if page < 1 {
			page = 1
		}

		if pageSize < 1 {
			pageSize = 20
		}

		products, total, err := h.catalogService.ListProducts(r.Context(), page, pageSize)

		if err != nil {
			logger.Error("Failed to fetch products", "error", err.Error())
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.ProductListResponse{
			Products: products,
			Total:    total,
			Page:     page,
			Size:     pageSize,
		})

	}
}

func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))

		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))
			return
		}

		product, err := h.catalogService.GetProductByID(r.Context(), id)

		if err != nil {
			logger.Warn("Failed to fetch product", "error", err.Error())
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)

	}
}
