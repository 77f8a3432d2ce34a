package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appErrors "github.com/aaravmahajanofficial/retail-pos-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/utils"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Method string `json:"method" validate:"required,oneof=cash card digital"`
}

func TestParseAndValidate(t *testing.T) {
	validate := validator.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email": "a@example.com", "method": "cash"}`))
		rec := httptest.NewRecorder()

		var dest sampleRequest

		// Act
		ok := utils.ParseAndValidate(req, rec, &dest, validate)

		// Assert
		assert.True(t, ok)
		assert.Equal(t, "a@example.com", dest.Email)
		assert.Equal(t, "cash", dest.Method)
	})

	t.Run("Failure - Malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()

		var dest sampleRequest

		ok := utils.ParseAndValidate(req, rec, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp response.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, response.StatusError, resp.Status)
	})

	t.Run("Failure - Empty Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		rec := httptest.NewRecorder()

		var dest sampleRequest

		ok := utils.ParseAndValidate(req, rec, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Failure - Per-Field Validation Messages", func(t *testing.T) {
		// Arrange
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email": "not-an-email", "method": "cheque"}`))
		rec := httptest.NewRecorder()

		var dest sampleRequest

		// Act
		ok := utils.ParseAndValidate(req, rec, &dest, validate)

		// Assert
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp response.APIResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "Field Email must be a valid email address")
		assert.Contains(t, resp.Error.Details, "Field Method must be one of: cash card digital")
	})
}
