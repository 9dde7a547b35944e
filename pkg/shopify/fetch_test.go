package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/zenithweave/NUT-ORDERS-REPORT/internal/testutil"
)

const ordersPath = "/admin/api/2024-01/orders.json"

// ordersBody builds an orders.json response body with the given ids.
func ordersBody(ids ...int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf(`{"id": %d, "name": "#%d"}`, id, 1000+id))
	}
	return `{"orders": [` + strings.Join(parts, ", ") + `]}`
}

func newTestClient(t *testing.T, shopURL string, mutate func(*Config)) *Client {
	t.Helper()

	cfg := Config{
		ShopURL:        shopURL,
		Token:          "shpat_test",
		PageSize:       2,
		MaxPages:       100,
		PageDelay:      0,
		RequestTimeout: 2 * time.Second,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestFetchOrders_MultiPage(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	mock.SetOrdersPages(ordersPath, []string{
		ordersBody(1, 2),
		ordersBody(3, 4),
		ordersBody(5),
	})

	client := newTestClient(t, mock.URL(), nil)

	orders, err := client.FetchOrders(context.Background(), NewQuery(nil, nil, StatusAny))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(orders) != 5 {
		t.Fatalf("Expected 5 orders, got %d", len(orders))
	}

	// Server-returned order, no duplicates.
	seen := make(map[int64]bool)
	for i, order := range orders {
		if order.ID != int64(i+1) {
			t.Errorf("orders[%d].ID = %d, want %d", i, order.ID, i+1)
		}
		if seen[order.ID] {
			t.Errorf("Duplicate order ID %d", order.ID)
		}
		seen[order.ID] = true
	}

	if count := mock.GetRequestCount(); count != 3 {
		t.Errorf("Expected 3 page requests, got %d", count)
	}
}

func TestFetchOrders_CursorOnlyAfterFirstPage(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	mock.SetOrdersPages(ordersPath, []string{
		ordersBody(1, 2),
		ordersBody(3),
	})

	client := newTestClient(t, mock.URL(), nil)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.FetchOrders(context.Background(), NewQuery(&start, nil, StatusOpen))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	queries := mock.GetQueries()
	if len(queries) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(queries))
	}

	// Page 1 carries the full filter set.
	if queries[0].Get("status") != "open" {
		t.Errorf("Page 1 status = %q, want %q", queries[0].Get("status"), "open")
	}
	if !queries[0].Has("created_at_min") {
		t.Error("Page 1 should carry created_at_min")
	}

	// Page 2 carries ONLY the cursor and page size; the upstream
	// rejects a cursor mixed with filters.
	if !queries[1].Has("page_info") {
		t.Error("Page 2 should carry page_info")
	}
	if queries[1].Has("status") || queries[1].Has("created_at_min") || queries[1].Has("created_at_max") {
		t.Errorf("Page 2 must not resend filter parameters, got %v", queries[1])
	}
	if len(queries[1]) != 2 {
		t.Errorf("Page 2 should carry exactly page_info and limit, got %v", queries[1])
	}
}

func TestFetchOrders_ShortPageStopsDespiteNextCursor(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	// One order against a page size of two, with a next cursor still
	// advertised: the short page must end pagination.
	mock.SetHandler(ordersPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", testutil.NextLink(mock.URL(), ordersPath, "cursor-1"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(ordersBody(1)))
	})

	client := newTestClient(t, mock.URL(), nil)

	orders, err := client.FetchOrders(context.Background(), NewQuery(nil, nil, StatusAny))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(orders) != 1 {
		t.Errorf("Expected 1 order, got %d", len(orders))
	}
	if count := mock.GetRequestCount(); count != 1 {
		t.Errorf("Expected 1 request, got %d", count)
	}
}

func TestFetchOrders_PageCeiling(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	// Upstream that always signals a next page with full pages.
	page := 0
	mock.SetHandler(ordersPath, func(w http.ResponseWriter, r *http.Request) {
		page++
		w.Header().Set("Link", testutil.NextLink(mock.URL(), ordersPath, fmt.Sprintf("cursor-%d", page)))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(ordersBody(2*page-1, 2*page)))
	})

	client := newTestClient(t, mock.URL(), func(cfg *Config) {
		cfg.MaxPages = 5
	})

	orders, err := client.FetchOrders(context.Background(), NewQuery(nil, nil, StatusAny))
	if err != nil {
		t.Fatalf("Ceiling is a soft condition, expected partial result, got error: %v", err)
	}

	if count := mock.GetRequestCount(); count != 5 {
		t.Errorf("Expected exactly 5 requests at the ceiling, got %d", count)
	}
	if len(orders) != 10 {
		t.Errorf("Expected 10 orders from 5 full pages, got %d", len(orders))
	}
}

func TestFetchOrders_RateLimited(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	mock.SetResponse(ordersPath, testutil.NewRateLimitResponse())

	client := newTestClient(t, mock.URL(), nil)

	_, err := client.FetchOrders(context.Background(), NewQuery(nil, nil, StatusAny))
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Expected ErrRateLimited, got %v", err)
	}

	// No automatic retry: the 429 must be the only request.
	if count := mock.GetRequestCount(); count != 1 {
		t.Errorf("Expected exactly 1 request, got %d", count)
	}
}

func TestFetchOrders_RateLimitedMidFetch(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	mock.SetHandler(ordersPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page_info") != "" {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"errors": "Exceeded rate limit"}`))
			return
		}
		w.Header().Set("Link", testutil.NextLink(mock.URL(), ordersPath, "cursor-1"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(ordersBody(1, 2)))
	})

	client := newTestClient(t, mock.URL(), nil)

	orders, err := client.FetchOrders(context.Background(), NewQuery(nil, nil, StatusAny))
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Expected ErrRateLimited, got %v", err)
	}

	// The whole fetch aborts: no partial result.
	if orders != nil {
		t.Errorf("Expected no partial result, got %d orders", len(orders))
	}
	if count := mock.GetRequestCount(); count != 2 {
		t.Errorf("Expected 2 requests, got %d", count)
	}
}

func TestFetchOrders_AuthFailure(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	mock.SetResponse(ordersPath, testutil.NewAuthFailureResponse())

	client := newTestClient(t, mock.URL(), nil)

	_, err := client.FetchOrders(context.Background(), NewQuery(nil, nil, StatusAny))
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("Expected ErrAuthFailed, got %v", err)
	}
}

func TestFetchOrders_UpstreamError(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	mock.SetResponse(ordersPath, testutil.NewServerErrorResponse())

	client := newTestClient(t, mock.URL(), nil)

	_, err := client.FetchOrders(context.Background(), NewQuery(nil, nil, StatusAny))

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", upstream.StatusCode)
	}
	if !strings.Contains(upstream.Body, "Internal Server Error") {
		t.Errorf("Expected upstream body to be carried, got %q", upstream.Body)
	}
}

func TestFetchOrders_Timeout(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	mock.SetResponse(ordersPath, testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       ordersBody(1),
		Delay:      300 * time.Millisecond,
	})

	client := newTestClient(t, mock.URL(), func(cfg *Config) {
		cfg.RequestTimeout = 50 * time.Millisecond
	})

	_, err := client.FetchOrders(context.Background(), NewQuery(nil, nil, StatusAny))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Expected ErrTimeout, got %v", err)
	}
}

func TestFetchOrders_EmptyResultSet(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	// Default mock handler returns an empty order list.
	client := newTestClient(t, mock.URL(), nil)

	_, err := client.FetchOrders(context.Background(), NewQuery(nil, nil, StatusAny))
	if !errors.Is(err, ErrNoOrders) {
		t.Fatalf("Expected ErrNoOrders, got %v", err)
	}
}

func TestFetchOrders_SendsAccessToken(t *testing.T) {
	mock := testutil.NewMockShop()
	defer mock.Close()

	var gotToken string
	mock.SetHandler(ordersPath, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(ordersBody(1)))
	})

	client := newTestClient(t, mock.URL(), nil)

	if _, err := client.FetchOrders(context.Background(), NewQuery(nil, nil, StatusAny)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotToken != "shpat_test" {
		t.Errorf("X-Shopify-Access-Token = %q, want %q", gotToken, "shpat_test")
	}
}
