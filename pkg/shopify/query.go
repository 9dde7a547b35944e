package shopify

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Status filters orders by their open/closed lifecycle state.
type Status string

const (
	// StatusAny matches orders in every state.
	StatusAny Status = "any"

	// StatusOpen matches open orders.
	StatusOpen Status = "open"

	// StatusClosed matches closed orders.
	StatusClosed Status = "closed"

	// StatusCancelled matches cancelled orders.
	StatusCancelled Status = "cancelled"

	// StatusArchived matches archived orders.
	StatusArchived Status = "archived"
)

// ParseStatus validates a status string. The empty string defaults to
// StatusAny; anything outside the five known values is rejected.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return StatusAny, nil
	case StatusAny, StatusOpen, StatusClosed, StatusCancelled, StatusArchived:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// Query describes one order retrieval: an optional inclusive creation
// date range plus a status filter.
type Query struct {
	Start  *time.Time
	End    *time.Time
	Status Status
}

// NewQuery builds a Query. The end bound, when present, is normalized
// to the last second of its calendar day so a bare date means "through
// the whole of that day".
func NewQuery(start, end *time.Time, status Status) Query {
	if end != nil {
		e := dayEnd(*end)
		end = &e
	}
	if status == "" {
		status = StatusAny
	}
	return Query{Start: start, End: end, Status: status}
}

// dayEnd returns the last second of t's calendar day in t's location.
func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// firstPageParams builds the full filter parameter set for page 1.
// These parameters must NOT be resent once a cursor is in play.
func (q Query) firstPageParams(pageSize int) url.Values {
	params := url.Values{}
	params.Set("status", string(q.Status))
	params.Set("limit", strconv.Itoa(pageSize))
	if q.Start != nil {
		params.Set("created_at_min", q.Start.Format(time.RFC3339))
	}
	if q.End != nil {
		params.Set("created_at_max", q.End.Format(time.RFC3339))
	}
	return params
}

// cursorParams builds the parameter set for every page after the
// first: only the opaque cursor and the page size. The upstream API
// rejects a page_info combined with filter parameters, so nothing from
// the original query may appear here.
func cursorParams(pageInfo string, pageSize int) url.Values {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("page_info", pageInfo)
	return params
}
