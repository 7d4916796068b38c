// Package apiclient provides the typed HTTP client for the education platform API.
//
// Every call resolves to an envelope.Response: transport failures, timeouts and
// undecodable bodies are folded into a synthesized failure envelope so callers
// branch on Success only. Failures are reported once through the Notifier.
package apiclient

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MacJediWizard/edudesk/internal/metrics"
	"github.com/MacJediWizard/edudesk/internal/notifications"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the API root used when Options.BaseURL is empty.
	DefaultBaseURL = "http://localhost:4000/api/v1"
	// DefaultTimeout bounds a single request when Options.Timeout is zero.
	DefaultTimeout = 30 * time.Second
	// FallbackMessage is shown for failures that carry no message.
	FallbackMessage = "Something went wrong. Please try again."

	// HeaderRequestID carries the correlation id of each call.
	HeaderRequestID = "X-Request-Id"
	headerAuth      = "Authorization"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Headers    map[string]string
	Timeout    time.Duration
	HTTPClient *http.Client
	Notifier   notifications.Notifier
	Metrics    *metrics.ClientMetrics
	Logger     zerolog.Logger
}

// Client issues requests against the platform API. It is safe for concurrent
// use; default headers follow last-write-wins semantics.
type Client struct {
	mu      sync.RWMutex
	baseURL string
	headers map[string]string

	timeout    time.Duration
	httpClient *http.Client
	notifier   notifications.Notifier
	metrics    *metrics.ClientMetrics
	logger     zerolog.Logger
	now        func() time.Time
}

// New creates a new API client.
func New(opts Options) *Client {
	c := &Client{
		baseURL:    opts.BaseURL,
		headers:    make(map[string]string, len(opts.Headers)+1),
		timeout:    opts.Timeout,
		httpClient: opts.HTTPClient,
		notifier:   opts.Notifier,
		metrics:    opts.Metrics,
		logger:     opts.Logger.With().Str("component", "api_client").Logger(),
		now:        time.Now,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.notifier == nil {
		c.notifier = notifications.Nop{}
	}

	c.headers[http.CanonicalHeaderKey("Accept")] = "application/json"
	for k, v := range opts.Headers {
		c.headers[http.CanonicalHeaderKey(k)] = v
	}
	return c
}

// BaseURL returns the current API root.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL replaces the API root used for relative paths.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// SetHeader sets a default header sent with every request.
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[http.CanonicalHeaderKey(key)] = value
}

// RemoveHeader drops a default header.
func (c *Client) RemoveHeader(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.headers, http.CanonicalHeaderKey(key))
}

// Headers returns a copy of the default headers.
func (c *Client) Headers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// SetAuthToken sends "Authorization: Bearer <token>" on subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.SetHeader(headerAuth, "Bearer "+token)
}

// ClearAuthToken stops sending the Authorization header.
func (c *Client) ClearAuthToken() {
	c.RemoveHeader(headerAuth)
}

// RemoveAuthToken is an alias of ClearAuthToken.
func (c *Client) RemoveAuthToken() {
	c.ClearAuthToken()
}

// AuthToken returns the bearer token currently attached, or "".
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimPrefix(c.headers[headerAuth], "Bearer ")
}

// resolve joins path onto the base URL unless it is already absolute.
func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(c.BaseURL(), "/")
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// mergeHeaders overlays per-call headers on the defaults.
func (c *Client) mergeHeaders(extra map[string]string) map[string]string {
	merged := c.Headers()
	for k, v := range extra {
		merged[http.CanonicalHeaderKey(k)] = v
	}
	return merged
}
