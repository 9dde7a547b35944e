package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// FetchOrders retrieves the complete ordered list of orders matching q
// across all available pages, or fails with one of the typed errors in
// errors.go. Pages are fetched strictly sequentially: the cursor from
// one response is only valid for the request immediately after it.
//
// No failure is retried automatically; the whole fetch aborts on the
// first error and no partial result is returned. The one soft
// condition is the page ceiling, which logs a warning and returns what
// was accumulated so far.
func (c *Client) FetchOrders(ctx context.Context, q Query) ([]Order, error) {
	start := time.Now()

	params := q.firstPageParams(c.config.PageSize)

	var all []Order
	pages := 0

	for {
		orders, next, err := c.fetchPage(ctx, params)
		if err != nil {
			c.logger.Error().
				Err(err).
				Int("page", pages+1).
				Msg("Fetch aborted")
			return nil, err
		}

		pages++
		all = append(all, orders...)

		c.logger.Debug().
			Int("page", pages).
			Int("orders", len(orders)).
			Bool("has_next", next != "").
			Msg("Page retrieved")

		if next == "" {
			break
		}

		// A short page means the data ran out even when a next cursor
		// is present; defends against upstream quirks.
		if len(orders) < c.config.PageSize {
			break
		}

		if pages >= c.config.MaxPages {
			c.logger.Warn().
				Int("pages", pages).
				Int("orders", len(all)).
				Msg("Page ceiling reached - returning partial result")
			break
		}

		// After page 1 the request carries ONLY the cursor; the
		// upstream rejects a page_info mixed with filter parameters.
		params = cursorParams(next, c.config.PageSize)

		// Fixed pacing between pages keeps us under the upstream rate
		// limit. Skipped after the final page by loop shape.
		time.Sleep(c.config.PageDelay)
	}

	shopFetchPages.Observe(float64(pages))

	if len(all) == 0 {
		return nil, ErrNoOrders
	}

	c.logger.Info().
		Int("pages", pages).
		Int("orders", len(all)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return all, nil
}

// fetchPage issues one page request and returns its orders plus the
// next-page cursor ("" when pagination ends).
func (c *Client) fetchPage(ctx context.Context, params url.Values) ([]Order, string, error) {
	endpoint := fmt.Sprintf("/admin/api/%s/orders.json", c.config.APIVersion)

	reqCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet,
		c.config.ShopURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("create page request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.config.Token)
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	shopRequestDuration.Observe(time.Since(startTime).Seconds())

	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			shopFetchErrorsTotal.WithLabelValues(string(ErrorClassTimeout)).Inc()
			shopRequestsTotal.WithLabelValues("timeout").Inc()
			return nil, "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		shopFetchErrorsTotal.WithLabelValues(string(ErrorClassUpstream)).Inc()
		shopRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, "", fmt.Errorf("execute page request: %w", err)
	}
	defer resp.Body.Close()

	shopRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read page response: %w", err)
	}

	if resp.StatusCode >= 400 {
		class := classifyError(resp.StatusCode, false)
		shopFetchErrorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Int("status_code", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Upstream request error")

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return nil, "", ErrRateLimited
		case http.StatusUnauthorized:
			return nil, "", ErrAuthFailed
		default:
			return nil, "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
		}
	}

	var envelope ordersEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, "", fmt.Errorf("decode page response: %w", err)
	}

	return envelope.Orders, nextPageInfo(resp.Header.Get("Link")), nil
}
