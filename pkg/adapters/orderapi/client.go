package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/ports"
)

const defaultTimeout = 30 * time.Second

// Client is the HTTP implementation of ports.OrderBackend, talking to the
// restaurant ordering API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.OrderBackend = (*Client)(nil)

// Option customizes the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Defaults to 30s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New creates a client for the ordering API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchMenu retrieves the live menu.
func (c *Client) FetchMenu(ctx context.Context) (domain.Menu, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/menu", nil)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("failed to build menu request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("menu request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Menu{}, fmt.Errorf("menu request returned status %d", resp.StatusCode)
	}

	var menu domain.Menu
	if err := json.NewDecoder(resp.Body).Decode(&menu); err != nil {
		return domain.Menu{}, fmt.Errorf("failed to decode menu: %w", err)
	}
	return menu, nil
}

// SubmitOrder posts the order. The API reports validation failures as a
// structured OrderResult body on non-2xx statuses; those are returned as a
// result, not an error, so the caller can narrate them.
func (c *Client) SubmitOrder(ctx context.Context, order domain.VoiceOrder) (domain.OrderResult, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("order request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("failed to read order response: %w", err)
	}

	var result domain.OrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.OrderResult{}, fmt.Errorf("order request returned status %d with unreadable body", resp.StatusCode)
	}
	return result, nil
}

// SubmitCallRecord posts the finished call record.
func (c *Client) SubmitCallRecord(ctx context.Context, record domain.CallRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode call record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calls", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build call record request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call record request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("call record request returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
