package telegram

import (
	"errors"
	"fmt"
)

// APIError represents a structured Telegram Bot API error response.
type APIError struct {
	ErrorCode   int
	Description string
	RetryAfter  int
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram API error %d: %s (retry_after=%ds)", e.ErrorCode, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram API error %d: %s", e.ErrorCode, e.Description)
}

// IsBotBlocked returns true if the user blocked the bot (403).
func IsBotBlocked(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == 403
	}
	return false
}
