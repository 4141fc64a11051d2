// Package client is the HTTP client for the inventory backend. All calls share
// one transport pipeline that attaches the bearer token and reacts to 401s.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds every request made through the client
	DefaultTimeout = 30 * time.Second

	maxBodySize = 1 << 20
)

// Client represents an HTTP client for the inventory API
type Client struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	log            zerolog.Logger
	middleware     []Middleware
	onUnauthorized func()

	mu    sync.RWMutex
	token string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Its transport becomes the
// innermost layer of the pipeline; the caller's value is not modified.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request logging
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithMiddleware appends extra transport layers, outermost first
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithUnauthorizedHandler sets the function run once for every 401 response
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// New creates a new API client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	layers := append([]Middleware{
		Unauthorized(c.handleUnauthorized),
		BearerAuth(c.Token),
		RequestLogger(c.log),
	}, c.middleware...)

	hc := *c.httpClient
	hc.Transport = Chain(base, layers...)
	hc.Timeout = c.timeout
	c.httpClient = &hc

	return c
}

// BaseURL returns the backend address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken configures the bearer token for all subsequent calls.
// An empty token removes the Authorization header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the configured bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) handleUnauthorized() {
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
// Non-2xx responses and transport failures come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return &APIError{Message: fallback, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: fallback, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: messageFrom(data, fallback)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
