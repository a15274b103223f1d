// Package positions provides the HTTP data source for token positions
package positions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/token-dashboard/internal/domain"
)

const (
	// DefaultPath is the fixed endpoint serving positions
	DefaultPath = "/api/positions"

	// ResourceKey is the cache key of the positions resource
	ResourceKey = "positions"

	// MaxResponseSize is the maximum accepted body size (10MB)
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "token-dashboard/1.0"
)

// Client fetches positions over HTTP. No timeout is applied; callers cancel through the context.
type Client struct {
	url     string
	http    *http.Client
	latency time.Duration
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLatency adds a simulated delay before every request
func WithLatency(d time.Duration) Option {
	return func(c *Client) {
		c.latency = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		url:    strings.TrimRight(baseURL, "/") + DefaultPath,
		http:   &http.Client{},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.Named("positions")
	return c
}

// URL returns the endpoint the client queries
func (c *Client) URL() string {
	return c.url
}

// Fetch retrieves the current positions. The result is never nil on success.
func (c *Client) Fetch(ctx context.Context) ([]domain.Position, error) {
	if c.latency > 0 {
		timer := time.NewTimer(c.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransportError{URL: c.url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, &TransportError{URL: c.url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("response exceeds %d bytes", MaxResponseSize),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ResponseError{StatusCode: resp.StatusCode, Message: errorMessage(resp, body)}
	}

	positions := make([]domain.Position, 0)
	if err := json.Unmarshal(body, &positions); err != nil {
		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("invalid response body: %v", err),
		}
	}
	if positions == nil {
		positions = make([]domain.Position, 0)
	}

	c.logger.Debug("Fetched positions",
		zap.Int("count", len(positions)),
		zap.Duration("elapsed", time.Since(start)))

	return positions, nil
}

func errorMessage(resp *http.Response, body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
