// Package client is the storefront's HTTP API client.
//
// Every request goes through Client.Do, which attaches the bearer token from the
// configured credentials.Provider, encodes JSON bodies, decodes JSON responses
// and converts failures into a *ClientError (see errors.go) carrying both a
// user-friendly message and a detailed message for logging.
//
// The domain namespaces (Auth, Users, Products, ...) are thin wrappers over the
// route table in routes.go.
package client

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/storefront-dev/storefront/internal/credentials"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:5000/api"

	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader is set on every outgoing request.
	RequestIDHeader = "X-Request-ID"
)

// Client handles communication with the storefront API.
// It is safe for concurrent use.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials credentials.Provider
	retry       RetryPolicy
	limiter     *rate.Limiter
	logger      *slog.Logger

	Auth       *AuthAPI
	Users      *UserAPI
	Products   *ProductAPI
	Categories *CategoryAPI
	Cart       *CartAPI
	Wishlist   *WishlistAPI
	Orders     *OrderAPI
	Admin      *AdminAPI
	Seller     *SellerAPI
}

// NewClient creates a client for the API rooted at baseURL (e.g. http://localhost:5000/api).
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, options ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		credentials: credentials.None,
		logger:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range options {
		opt(c)
	}

	c.Auth = &AuthAPI{c: c}
	c.Users = &UserAPI{c: c}
	c.Products = &ProductAPI{c: c}
	c.Categories = &CategoryAPI{c: c}
	c.Cart = &CartAPI{c: c}
	c.Wishlist = &WishlistAPI{c: c}
	c.Orders = &OrderAPI{c: c}
	c.Admin = &AdminAPI{c: c}
	c.Seller = &SellerAPI{c: c}

	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials sets where the bearer token is read from on every request.
func WithCredentials(provider credentials.Provider) Option {
	return func(c *Client) {
		if provider == nil {
			provider = credentials.None
		}
		c.credentials = provider
	}
}

// WithTimeout bounds each attempt. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithTransport replaces the underlying http.RoundTripper.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = transport
	}
}

// WithRetry enables retries of GET requests.
func WithRetry(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithRateLimit limits outgoing requests to rps per second with the given burst.
// rps <= 0 disables limiting.
func WithRateLimit(rps int, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for per-request debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}
