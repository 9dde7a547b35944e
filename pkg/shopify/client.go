// Package shopify provides the order retrieval client: cursor-based
// pagination against the Admin REST orders resource with rate-limit
// pacing and typed error handling.
package shopify

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream order requests.
var (
	shopRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_requests_total",
		Help: "Total upstream requests by status",
	}, []string{"status"})

	shopRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shop_request_duration_seconds",
		Help:    "Upstream page request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20},
	})

	shopFetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_fetch_errors_total",
		Help: "Total aborted fetches by error class",
	}, []string{"class"})

	shopFetchPages = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shop_fetch_pages",
		Help:    "Pages retrieved per completed fetch",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
	})
)

// ErrorClass represents a classification of fetch failures.
type ErrorClass string

const (
	// ErrorClassTimeout represents page requests exceeding their timeout.
	ErrorClassTimeout ErrorClass = "timeout"

	// ErrorClassRateLimit represents upstream 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassAuth represents upstream 401 responses.
	ErrorClassAuth ErrorClass = "auth"

	// ErrorClassUpstream represents other upstream HTTP errors.
	ErrorClassUpstream ErrorClass = "upstream"
)

// maxPageSize is the largest page the orders resource will serve.
const maxPageSize = 250

// Client retrieves orders from one shop.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration. Build it once and pass it by
// reference; nothing here is read from ambient global state.
type Config struct {
	// ShopURL is the shop base URL, e.g. "https://example.myshopify.com".
	ShopURL string

	// Token is the Admin API access token.
	Token string

	// APIVersion selects the Admin REST version path segment.
	APIVersion string

	// PageSize is the per-page record count. Fixed at the API maximum
	// by DefaultConfig; also the short-page termination threshold.
	PageSize int

	// MaxPages is the hard page ceiling. Reaching it returns the
	// partial result with a warning rather than an error.
	MaxPages int

	// PageDelay is the fixed pause between successive page requests,
	// skipped after the final page.
	PageDelay time.Duration

	// RequestTimeout bounds each page request. Exceeding it aborts
	// the whole fetch.
	RequestTimeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(shopURL, token string) Config {
	return Config{
		ShopURL:        shopURL,
		Token:          token,
		APIVersion:     "2024-01",
		PageSize:       maxPageSize,
		MaxPages:       100,
		PageDelay:      500 * time.Millisecond,
		RequestTimeout: 20 * time.Second,
	}
}

// New creates a new order retrieval client.
func New(cfg Config) (*Client, error) {
	if cfg.ShopURL == "" {
		return nil, fmt.Errorf("shop URL is required")
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("access token is required")
	}

	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01"
	}
	if cfg.PageSize <= 0 || cfg.PageSize > maxPageSize {
		cfg.PageSize = maxPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 100
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 20 * time.Second
	}

	logger := log.With().Str("component", "shop-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// classifyError categorizes a fetch failure for observability.
func classifyError(statusCode int, timedOut bool) ErrorClass {
	switch {
	case timedOut:
		return ErrorClassTimeout
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode == http.StatusUnauthorized:
		return ErrorClassAuth
	default:
		return ErrorClassUpstream
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
