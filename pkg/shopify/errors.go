package shopify

import (
	"errors"
	"fmt"
)

// Common errors returned by the fetcher. None of these are retried
// automatically; retry policy belongs to the caller.
var (
	// ErrTimeout is returned when a page request exceeds its bounded
	// timeout. Callers should narrow the query date range.
	ErrTimeout = errors.New("upstream request timed out")

	// ErrRateLimited is returned on an upstream 429. Callers should
	// wait and retry later.
	ErrRateLimited = errors.New("upstream rate limit reached")

	// ErrAuthFailed is returned on an upstream 401. Fatal: the access
	// token is invalid.
	ErrAuthFailed = errors.New("upstream authentication failed")

	// ErrNoOrders is returned when a fetch succeeds but the query
	// matched no orders. A reportable outcome, not a fetch failure.
	ErrNoOrders = errors.New("no orders matched the query")
)

// UpstreamError carries the status code and error body of an upstream
// HTTP failure outside the dedicated 401/429 cases.
type UpstreamError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("upstream error (status %d)", e.StatusCode)
}
