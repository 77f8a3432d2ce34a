package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/retail-pos-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/services/mocks"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckoutHandlerBeginCheckout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		view := &models.CheckoutView{State: "collecting_method", TotalAmount: decimal.RequireFromString("27.00")}
		checkoutService.On("BeginCheckout", mock.Anything, mock.AnythingOfType("*models.Claims")).Return(view, nil)

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout", nil, testTerminal, nil)
		rec := httptest.NewRecorder()

		// Act
		handler.BeginCheckout().ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		checkoutService.On("BeginCheckout", mock.Anything, mock.Anything).
			Return(nil, appErrors.EmptyCartError("Cannot check out an empty cart"))

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout", nil, testTerminal, nil)
		rec := httptest.NewRecorder()

		handler.BeginCheckout().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeEmptyCart, resp.Error.Code)
	})

	t.Run("Failure - No Auth Context", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/checkout", nil, nil)
		rec := httptest.NewRecorder()

		handler.BeginCheckout().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		checkoutService.AssertNotCalled(t, "BeginCheckout", mock.Anything, mock.Anything)
	})
}

func TestCheckoutHandlerSelectPaymentMethod(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		view := &models.CheckoutView{State: "collecting_cash", PaymentMethod: models.PaymentMethodCash}
		checkoutService.On("SelectPaymentMethod", mock.Anything, testTerminal, models.PaymentMethodCash).Return(view, nil)

		body := []byte(`{"method": "cash"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/payment-method", bytes.NewReader(body), testTerminal, nil)
		rec := httptest.NewRecorder()

		handler.SelectPaymentMethod().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		checkoutService.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Method", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		body := []byte(`{"method": "cheque"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/payment-method", bytes.NewReader(body), testTerminal, nil)
		rec := httptest.NewRecorder()

		handler.SelectPaymentMethod().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "Field Method must be one of: cash card digital")
		checkoutService.AssertNotCalled(t, "SelectPaymentMethod", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCheckoutHandlerSubmitCash(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		change := decimal.RequireFromString("3.00")
		view := &models.CheckoutView{State: "ready_to_finalize", ChangeGiven: &change}
		checkoutService.On("SubmitCash", mock.Anything, testTerminal, mock.AnythingOfType("decimal.Decimal")).Return(view, nil)

		body := []byte(`{"amount": "30.00"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/cash", bytes.NewReader(body), testTerminal, nil)
		rec := httptest.NewRecorder()

		// Act
		handler.SubmitCash().ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		checkoutService.AssertExpectations(t)
	})

	t.Run("Failure - Negative Amount", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		body := []byte(`{"amount": "-1.00"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/cash", bytes.NewReader(body), testTerminal, nil)
		rec := httptest.NewRecorder()

		handler.SubmitCash().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		checkoutService.AssertNotCalled(t, "SubmitCash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Insufficient Cash", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		checkoutService.On("SubmitCash", mock.Anything, testTerminal, mock.Anything).
			Return(nil, appErrors.InsufficientCashError("Cash received is less than the amount due"))

		body := []byte(`{"amount": "20.00"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/cash", bytes.NewReader(body), testTerminal, nil)
		rec := httptest.NewRecorder()

		handler.SubmitCash().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeInsufficientCash, resp.Error.Code)
	})
}

func TestCheckoutHandlerFinalize(t *testing.T) {
	t.Run("Success - Without Body", func(t *testing.T) {
		// Arrange
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		sale := &models.SaleRecord{TransactionID: uuid.New(), TotalAmount: decimal.RequireFromString("27.00")}
		checkoutService.On("Finalize", mock.Anything, testTerminal, "").Return(sale, nil)

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/finalize", nil, testTerminal, nil)
		rec := httptest.NewRecorder()

		// Act
		handler.Finalize().ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rec.Code)
		checkoutService.AssertExpectations(t)
	})

	t.Run("Success - With Receipt Email", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		sale := &models.SaleRecord{TransactionID: uuid.New()}
		checkoutService.On("Finalize", mock.Anything, testTerminal, "customer@example.com").Return(sale, nil)

		body := []byte(`{"customer_email": "customer@example.com"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/finalize", bytes.NewReader(body), testTerminal, nil)
		rec := httptest.NewRecorder()

		handler.Finalize().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		checkoutService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Email", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		body := []byte(`{"customer_email": "not-an-email"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/finalize", bytes.NewReader(body), testTerminal, nil)
		rec := httptest.NewRecorder()

		handler.Finalize().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Details, "Field CustomerEmail must be a valid email address")
		checkoutService.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Persistence Failure Maps To Bad Gateway", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		checkoutService.On("Finalize", mock.Anything, testTerminal, "").
			Return(nil, appErrors.PersistenceFailureError("Failed to record the sale"))

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/finalize", nil, testTerminal, nil)
		rec := httptest.NewRecorder()

		handler.Finalize().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodePersistenceFailure, resp.Error.Code)
	})
}

func TestCheckoutHandlerCancel(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		view := &models.CheckoutView{State: "shopping"}
		checkoutService.On("Cancel", mock.Anything, testTerminal).Return(view, nil)

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/cancel", nil, testTerminal, nil)
		rec := httptest.NewRecorder()

		handler.Cancel().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Failure - Nothing To Cancel", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		checkoutService.On("Cancel", mock.Anything, testTerminal).
			Return(nil, appErrors.CheckoutStateError("No checkout in progress"))

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/cancel", nil, testTerminal, nil)
		rec := httptest.NewRecorder()

		handler.Cancel().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCheckoutHandlerGetSale(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		id := uuid.New()
		sale := &models.SaleRecord{TransactionID: id}
		checkoutService.On("GetSale", mock.Anything, id).Return(sale, nil)

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/sales/"+id.String(), nil, testTerminal,
			map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()

		handler.GetSale().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Failure - Invalid ID", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/sales/nope", nil, testTerminal,
			map[string]string{"id": "nope"})
		rec := httptest.NewRecorder()

		handler.GetSale().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		checkoutService.AssertNotCalled(t, "GetSale", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown Sale", func(t *testing.T) {
		checkoutService := &mocks.CheckoutService{}
		handler := handlers.NewCheckoutHandler(checkoutService)

		id := uuid.New()
		checkoutService.On("GetSale", mock.Anything, id).Return(nil, appErrors.NotFoundError("Sale not found"))

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/sales/"+id.String(), nil, testTerminal,
			map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()

		handler.GetSale().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
