// Package testutil provides testing utilities for the orders report.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock shop endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockShop is a configurable mock Admin API server for testing. It
// records every request's query parameters so tests can assert on the
// pagination protocol (page 1 carries filters, later pages only the
// cursor).
type MockShop struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	Queries      []url.Values
}

// NewMockShop creates a new mock shop server.
func NewMockShop() *MockShop {
	mock := &MockShop{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.Queries = append(mock.Queries, r.URL.Query())
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		// Default: empty order list
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"orders": []}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockShop) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockShop) Close() {
	m.server.Close()
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockShop) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetQueries returns a copy of the recorded request query parameters.
func (m *MockShop) GetQueries() []url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	queries := make([]url.Values, len(m.Queries))
	copy(queries, m.Queries)
	return queries
}

// SetHandler sets a custom handler for a specific path.
func (m *MockShop) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockShop) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetOrdersPages serves a cursor-paginated sequence of page bodies on
// the given path. Requests without a page_info parameter get page 0;
// a request with page_info "cursor-N" gets page N. Every page except
// the last advertises the next cursor in its Link header.
func (m *MockShop) SetOrdersPages(path string, bodies []string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := 0
		if cursor := r.URL.Query().Get("page_info"); cursor != "" {
			fmt.Sscanf(cursor, "cursor-%d", &page)
		}
		if page >= len(bodies) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errors": "Not Found"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if page < len(bodies)-1 {
			w.Header().Set("Link", NextLink(m.server.URL, path, fmt.Sprintf("cursor-%d", page+1)))
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(bodies[page]))
	})
}

// NextLink formats a rel="next" Link header value.
func NextLink(baseURL, path, cursor string) string {
	return fmt.Sprintf(`<%s%s?limit=250&page_info=%s>; rel="next"`, baseURL, path, cursor)
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"errors": "Exceeded 2 calls per second for api client"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
			"Retry-After":  "2.0",
		},
	}
}

// NewAuthFailureResponse creates a 401 Unauthorized response.
func NewAuthFailureResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       `{"errors": "[API] Invalid API key or access token"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"errors": "Internal Server Error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
