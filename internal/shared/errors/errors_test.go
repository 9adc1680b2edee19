package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "unauthorized: Unauthorized", NewUnauthorizedError("Unauthorized").Error())
	assert.Equal(t, "internal_error: boom (db down)", NewInternalError("boom", "db down").Error())
}

func TestAppError_Codes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewValidationError("x").Code)
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("x").Code)
	assert.Equal(t, http.StatusUnauthorized, NewUnauthorizedError("x").Code)
	assert.Equal(t, http.StatusTooManyRequests, NewTooManyRequestsError("x").Code)
	assert.Equal(t, http.StatusInternalServerError, NewInternalError("x").Code)
}

func TestGetAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading report: %w", NewNotFoundError("no report"))

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeNotFound, appErr.Type)
	assert.True(t, IsNotFoundError(wrapped))
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}
