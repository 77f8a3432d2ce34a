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

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validator:       validator.New(),
	}
}

func (h *CheckoutHandler) BeginCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		checkout, err := h.checkoutService.BeginCheckout(r.Context(), claims)

		if err != nil {
			logger.Warn("Checkout rejected", "error", err.Error())
			response.Error(w, err)
			return
		}

		logger.Info("Checkout opened", "total", checkout.TotalAmount.StringFixed(2))
		response.Success(w, http.StatusOK, checkout)

	}
}

func (h *CheckoutHandler) GetCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		checkout, err := h.checkoutService.GetCheckout(r.Context(), claims.TerminalID)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, checkout)

	}
}

func (h *CheckoutHandler) SelectPaymentMethod() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.SelectPaymentMethodRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		checkout, err := h.checkoutService.SelectPaymentMethod(r.Context(), claims.TerminalID, req.Method)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, checkout)

	}
}

func (h *CheckoutHandler) SubmitCash() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.SubmitCashRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.WriteJson(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if req.Amount.IsNegative() {
			response.Error(w, errors.BadRequestError("Cash amount cannot be negative"))
			return
		}

		checkout, err := h.checkoutService.SubmitCash(r.Context(), claims.TerminalID, req.Amount)

		if err != nil {
			logger.Warn("Cash entry rejected", "error", err.Error())
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, checkout)

	}
}

func (h *CheckoutHandler) Finalize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		// The body is optional: a bare finalize is a sale without a receipt.
		var req models.FinalizeRequest

		if r.Body != nil && r.ContentLength > 0 {
			if !utils.ParseAndValidate(r, w, &req, h.validator) {
				return
			}
		}

		sale, err := h.checkoutService.Finalize(r.Context(), claims.TerminalID, req.CustomerEmail)

		if err != nil {
			logger.Error("Finalize failed", "error", err.Error())
			response.Error(w, err)
			return
		}

		logger.Info("Sale finalized", "transactionId", sale.TransactionID.String())
		response.Success(w, http.StatusCreated, sale)

	}
}

func (h *CheckoutHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		checkout, err := h.checkoutService.Cancel(r.Context(), claims.TerminalID)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, checkout)

	}
}

func (h *CheckoutHandler) GetSale() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		transactionID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid transaction id"))
			return
		}

		sale, err := h.checkoutService.GetSale(r.Context(), transactionID)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, sale)

	}
}
