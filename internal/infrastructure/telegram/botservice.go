package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	sharedConfig "github.com/orris-inc/proxyshop/internal/shared/config"
)

const defaultAPIBase = "https://api.telegram.org"

// BotService sends messages through the Telegram Bot API.
type BotService struct {
	httpClient *http.Client
	baseURL    string
}

func NewBotService(config sharedConfig.TelegramConfig) *BotService {
	return newBotService(defaultAPIBase, config.BotToken)
}

func newBotService(apiBase, token string) *BotService {
	return &BotService{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: fmt.Sprintf("%s/bot%s", apiBase, token),
	}
}

// SendMessage sends an HTML formatted message to a chat.
func (s *BotService) SendMessage(ctx context.Context, chatID int64, text string) error {
	body := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	return s.makeRequest(ctx, fmt.Sprintf("%s/sendMessage", s.baseURL), body)
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after,omitempty"`
	} `json:"parameters,omitempty"`
}

func (s *BotService) makeRequest(ctx context.Context, url string, body map[string]any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.OK {
		apiErr := &APIError{
			ErrorCode:   result.ErrorCode,
			Description: result.Description,
		}
		if result.Parameters != nil {
			apiErr.RetryAfter = result.Parameters.RetryAfter
		}
		return apiErr
	}

	return nil
}
