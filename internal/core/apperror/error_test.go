package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidStatus_SurvivesWrapping(t *testing.T) {
	base := NewInvalidStatus("Material Request MR-2026-00001 is cancelled or stopped")
	wrapped := fmt.Errorf("update material request: %w", base)

	assert.True(t, IsInvalidStatus(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusExpectationFailed, GetHTTPStatus(wrapped))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidStatus, appErr.Code)
}

func TestWithDetail_InitializesMap(t *testing.T) {
	err := NewValidation("Please enter quantity for Item ITM-1").
		WithDetail("field", "qty").
		WithDetail("row", 2)

	assert.Equal(t, "qty", err.Details["field"])
	assert.Equal(t, 2, err.Details["row"])
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestNewInternal_HidesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause)

	assert.Equal(t, "Internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
}

func TestNewInsufficientStock_Details(t *testing.T) {
	err := NewInsufficientStock("ITM-1", "Stores", 5, 2)

	assert.Equal(t, CodeInsufficientStock, err.Code)
	assert.Equal(t, "ITM-1", err.Details["item_code"])
	assert.Equal(t, "Stores", err.Details["warehouse"])
	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus)
}
