// Package httpapi posts JSON and multipart requests to the filekind API
// server with per-attempt timeouts and bounded retries.
package httpapi

import (
	"io"
	"log/slog"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default client settings.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultFormTimeout = 60 * time.Second
	DefaultMaxRetries  = 3
	DefaultBaseDelay   = time.Second
	DefaultMaxDelay    = 10 * time.Second
)

// ClientIDHeader carries the client id on every request.
const ClientIDHeader = "X-Client-ID"

// Client posts requests to endpoints below a base URL.
// A Client is safe for concurrent use once constructed.
type Client struct {
	baseURL     string
	client      *nethttp.Client
	headers     nethttp.Header
	timeout     time.Duration
	formTimeout time.Duration
	maxRetries  int
	baseDelay   time.Duration
	maxDelay    time.Duration
	clientID    string
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *nethttp.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithHeaders sets additional headers on each request.
func WithHeaders(headers nethttp.Header) Option {
	return func(c *Client) {
		if headers == nil {
			return
		}
		c.headers = headers.Clone()
	}
}

// WithHeader sets a single header on each request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if c.headers == nil {
			c.headers = make(nethttp.Header)
		}
		c.headers.Set(key, value)
	}
}

// WithTimeout bounds each JSON request attempt.
// Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithFormTimeout bounds multipart requests.
// Non-positive values keep the default.
func WithFormTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.formTimeout = d
		}
	}
}

// WithMaxRetries sets the total number of attempts for JSON requests,
// including the first. Values below 1 are treated as 1.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = max(n, 1)
	}
}

// WithBaseDelay sets the delay before the first retry.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithClientID overrides the generated client id.
func WithClientID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.clientID = id
		}
	}
}

// WithLogger sets the logger for retry and failure messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the API rooted at baseURL
// (e.g., "http://localhost:8010/").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		client:      nethttp.DefaultClient,
		timeout:     DefaultTimeout,
		formTimeout: DefaultFormTimeout,
		maxRetries:  DefaultMaxRetries,
		baseDelay:   DefaultBaseDelay,
		maxDelay:    DefaultMaxDelay,
		clientID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = nethttp.DefaultClient
	}
	if c.maxDelay < c.baseDelay {
		c.maxDelay = c.baseDelay
	}
	return c
}

// ClientID returns the id sent in ClientIDHeader.
func (c *Client) ClientID() string {
	return c.clientID
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.logger
}

func (c *Client) url(endpoint string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}
