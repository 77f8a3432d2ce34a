package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	service "github.com/aaravmahajanofficial/retail-pos-platform/internal/services"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/utils"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.TerminalID)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.TerminalID, &req)

		if err != nil {
			logger.Warn("Add to cart rejected", "productId", req.ProductID.String(), "error", err.Error())
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", "productId", req.ProductID.String())
		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), claims.TerminalID, &req)

		if err != nil {
			logger.Warn("Quantity update rejected", "productId", req.ProductID.String(), "error", err.Error())
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := uuid.Parse(r.PathValue("productId"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), claims.TerminalID, productID)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.ClearCart(r.Context(), claims.TerminalID)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}
