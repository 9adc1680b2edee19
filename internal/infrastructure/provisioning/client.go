// Package provisioning talks to the upstream proxy provider ("iproxy")
// that owns the connections behind every proxy we sell.
package provisioning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	sharedConfig "github.com/orris-inc/proxyshop/internal/shared/config"
)

// ErrAccessNotFound is returned when the provider no longer knows an access.
var ErrAccessNotFound = errors.New("proxy access not found")

// Access is one credential set the provider serves for a connection.
type Access struct {
	ID            string `json:"id"`
	ListenService string `json:"listen_service"`
	Port          int    `json:"port"`
	Username      string `json:"username,omitempty"`
}

type listAccessesResponse struct {
	Data  []Access `json:"data"`
	Error string   `json:"error,omitempty"`
}

// APIError carries a non-2xx provider response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether a later attempt can succeed.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client is a thin HTTP client for the provider API. Requests are paced by
// a token bucket shared by all callers.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg sharedConfig.ProvisioningConfig) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// ListAccesses returns every access configured for the connection.
func (c *Client) ListAccesses(ctx context.Context, connectionID string) ([]Access, error) {
	endpoint := fmt.Sprintf("%s/connections/%s/proxy-access", c.baseURL, url.PathEscape(connectionID))

	body, err := c.do(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}

	var resp listAccessesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode access list: %w", err)
	}
	return resp.Data, nil
}

// DeleteAccess removes one access. A 404 maps to ErrAccessNotFound.
func (c *Client) DeleteAccess(ctx context.Context, connectionID, accessID string) error {
	endpoint := fmt.Sprintf("%s/connections/%s/proxy-access/%s",
		c.baseURL, url.PathEscape(connectionID), url.PathEscape(accessID))

	_, err := c.do(ctx, http.MethodDelete, endpoint)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound && method == http.MethodDelete {
		return nil, ErrAccessNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		var decoded listAccessesResponse
		if json.Unmarshal(body, &decoded) == nil && decoded.Error != "" {
			msg = decoded.Error
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return body, nil
}
