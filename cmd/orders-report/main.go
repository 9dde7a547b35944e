package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/zenithweave/NUT-ORDERS-REPORT/pkg/config"
	"github.com/zenithweave/NUT-ORDERS-REPORT/pkg/export"
	"github.com/zenithweave/NUT-ORDERS-REPORT/pkg/logging"
	"github.com/zenithweave/NUT-ORDERS-REPORT/pkg/shopify"
)

// Prometheus metrics for the export surface.
var (
	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "export_requests_total",
		Help: "Total export requests by outcome",
	}, []string{"outcome"})

	exportRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "export_rows_total",
		Help: "Total report rows written across all exports",
	})
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	shopClient, err := shopify.New(shopify.DefaultConfig(cfg.ShopURL, cfg.Token))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create shop client")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/export", exportHandler(shopClient, logging.NewLogger("export-handler")))

	addr := ":" + cfg.Port
	logger.Info().
		Str("addr", addr).
		Str("shop", cfg.ShopURL).
		Msg("Starting orders report server")

	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// exportHandler fetches every order matching the query, flattens them
// to line-item rows and streams the CSV report.
func exportHandler(client *shopify.Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseExportQuery(r)
		if err != nil {
			exportsTotal.WithLabelValues("bad_request").Inc()
			renderError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		orders, err := client.FetchOrders(r.Context(), query)
		if err != nil {
			status, msg := fetchErrorStatus(err)
			exportsTotal.WithLabelValues(outcomeLabel(status)).Inc()
			renderError(w, r, status, msg)
			return
		}

		rows := export.Flatten(orders)
		if len(rows) == 0 {
			logger.Warn().Int("orders", len(orders)).Msg("Export produced zero rows")
			exportsTotal.WithLabelValues("empty").Inc()
			renderError(w, r, http.StatusNotFound, "no exportable rows for this query")
			return
		}

		filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := export.WriteCSV(w, rows); err != nil {
			// Headers are gone by now; all we can do is log.
			logger.Error().Err(err).Msg("Failed to stream report")
			return
		}

		exportsTotal.WithLabelValues("ok").Inc()
		exportRowsTotal.Add(float64(len(rows)))

		logger.Info().
			Int("orders", len(orders)).
			Int("rows", len(rows)).
			Msg("Report exported")
	}
}

// parseExportQuery builds the order query from request parameters:
// start/end as YYYY-MM-DD dates and the status filter.
func parseExportQuery(r *http.Request) (shopify.Query, error) {
	var start, end *time.Time

	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return shopify.Query{}, fmt.Errorf("invalid start date %q (want YYYY-MM-DD)", s)
		}
		start = &t
	}

	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return shopify.Query{}, fmt.Errorf("invalid end date %q (want YYYY-MM-DD)", s)
		}
		end = &t
	}

	status, err := shopify.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		return shopify.Query{}, err
	}

	return shopify.NewQuery(start, end, status), nil
}

// fetchErrorStatus maps fetch failures to response codes and
// user-facing messages.
func fetchErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, shopify.ErrNoOrders):
		return http.StatusNotFound, "no orders matched the query"
	case errors.Is(err, shopify.ErrRateLimited):
		return http.StatusTooManyRequests, "upstream rate limit reached, try again later"
	case errors.Is(err, shopify.ErrTimeout):
		return http.StatusGatewayTimeout, "upstream request timed out, narrow the date range"
	case errors.Is(err, shopify.ErrAuthFailed):
		return http.StatusBadGateway, "upstream authentication failed, check the access token"
	default:
		var upstream *shopify.UpstreamError
		if errors.As(err, &upstream) {
			return http.StatusBadGateway, upstream.Error()
		}
		return http.StatusBadGateway, "upstream request failed"
	}
}

func outcomeLabel(status int) string {
	switch status {
	case http.StatusNotFound:
		return "empty"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusGatewayTimeout:
		return "timeout"
	default:
		return "upstream_error"
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}
