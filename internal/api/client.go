// Package api implements the typed client for the remote item API.
// Every call carries the session id header and is bounded by a fixed
// timeout; there is no automatic retry - failure is surfaced once and the
// caller decides.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricewish/tracker/internal/types"
)

// DefaultTimeout bounds every remote call
const DefaultTimeout = 6 * time.Second

// Client talks to the remote item API
type Client struct {
	baseURL    string
	sessionID  string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger attaches a logger for call logging
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient swaps the underlying HTTP client (tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client bound to baseURL and a session id
func NewClient(baseURL, sessionID string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		sessionID:  sessionID,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the structured error envelope the API may return
type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// do executes one request. Non-2xx responses become *APIError with the
// message from the error envelope when present, else the status line.
// A deadline hit becomes ErrTimeout.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", c.sessionID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn().Str("method", method).Str("path", path).Msg("Request timed out")
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("API call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := resp.Status
		var envelope errorBody
		if raw, err := io.ReadAll(resp.Body); err == nil {
			if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
				message = envelope.Error.Message
			}
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
}

// Health checks the API is reachable
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListItems fetches all tracked items for the session
func (c *Client) ListItems(ctx context.Context) ([]types.Item, error) {
	var out []types.Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateItem creates a tracked item from the creation payload
func (c *Client) CreateItem(ctx context.Context, payload types.CreatePayload) (*types.Item, error) {
	var out types.Item
	if err := c.do(ctx, http.MethodPost, "/items", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchItem applies partial field updates to an item
func (c *Client) PatchItem(ctx context.Context, id string, patch types.ItemPatch) (*types.Item, error) {
	var out types.Item
	if err := c.do(ctx, http.MethodPatch, "/items/"+id, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteItem removes an item
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	var out struct {
		OK bool `json:"ok"`
	}
	return c.do(ctx, http.MethodDelete, "/items/"+id, nil, &out)
}

// refreshRequest is the body of POST /prices/refresh
type refreshRequest struct {
	IDs []string `json:"ids,omitempty"`
}

// refreshResponse is the body of the refresh response
type refreshResponse struct {
	Updated []types.Item `json:"updated"`
}

// RefreshPrices triggers a reprice, optionally scoped to ids, and returns
// the items that actually changed (a partial patch set, not a full list)
func (c *Client) RefreshPrices(ctx context.Context, ids ...string) ([]types.Item, error) {
	var out refreshResponse
	if err := c.do(ctx, http.MethodPost, "/prices/refresh", refreshRequest{IDs: ids}, &out); err != nil {
		return nil, err
	}
	return out.Updated, nil
}

// SimulateDrop asks the server to simulate a price drop on an item
func (c *Client) SimulateDrop(ctx context.Context, id string) (*types.Item, error) {
	var out types.Item
	if err := c.do(ctx, http.MethodPost, "/items/"+id+"/simulate-drop", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// emailAlertRequest is the body of POST /alerts/email
type emailAlertRequest struct {
	ItemID string `json:"item_id"`
	Email  string `json:"email"`
}

// SendAlertEmail requests an alert email for an item
func (c *Client) SendAlertEmail(ctx context.Context, itemID, email string) error {
	var out struct {
		OK bool `json:"ok"`
	}
	return c.do(ctx, http.MethodPost, "/alerts/email", emailAlertRequest{ItemID: itemID, Email: email}, &out)
}
