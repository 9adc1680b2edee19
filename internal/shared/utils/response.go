package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/proxyshop/internal/shared/errors"
)

// ErrorBody is the flat error envelope used by every endpoint:
// {"success": false, "error": "...", "details": "..."}.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse sends an error response with custom status code and message
func ErrorResponse(c *gin.Context, statusCode int, message string, details ...string) {
	body := ErrorBody{Success: false, Error: message}
	if len(details) > 0 {
		body.Details = details[0]
	}
	c.JSON(statusCode, body)
}

// ErrorResponseWithError maps AppError to its status code. Other errors
// become a 500 without internal details.
func ErrorResponseWithError(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		ErrorResponse(c, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, "Internal server error occurred")
}
