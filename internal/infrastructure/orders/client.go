// Package orders implements the HTTP client for the order-management
// collaborator.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

// Client talks to the order-management service over HTTP with bearer-token
// auth. Calls are at-least-once: the caller's idempotence guards absorb
// duplicate deliveries.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *Client) FindOrder(ctx context.Context, orderID string) (*ports.Order, error) {
	var resp orderResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/orders/%s", orderID), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &ports.Order{ID: resp.ID, Status: resp.Status}, nil
}

func (c *Client) MarkOrderShipped(ctx context.Context, orderID string, at time.Time) error {
	body := map[string]string{"shipped_at": at.UTC().Format(time.RFC3339)}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/orders/%s/shipped", orderID), body, nil)
}

func (c *Client) MarkOrderDelivered(ctx context.Context, orderID string, at time.Time) error {
	body := map[string]string{"delivered_at": at.UTC().Format(time.RFC3339)}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/orders/%s/delivered", orderID), body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("orders: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("orders: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("orders: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrOrderNotFound
	case resp.StatusCode >= 400:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("body", string(snippet)).
			Msg("order service returned an error")
		return fmt.Errorf("orders: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("orders: decode response: %w", err)
		}
	}
	return nil
}
