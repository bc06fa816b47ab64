// Package httpapi assembles the public HTTP surface.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/handler"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/metrics"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/middleware"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/platform/httputil"
)

const readinessTimeout = 2 * time.Second

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Deps is everything the router mounts.
type Deps struct {
	Logger      *slog.Logger
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTP
	BloodBank   *handler.Handler
	Checks      map[string]Check
}

// NewRouter wires middleware, health checks, metrics and the versioned API.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	if d.HTTPMetrics != nil {
		r.Use(middleware.Latency(d.HTTPMetrics))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(d.Logger, d.Checks))
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		d.BloodBank.Register(r)
	})
	return r
}

func readiness(logger *slog.Logger, checks map[string]Check) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		status := http.StatusOK
		report := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				logger.WarnContext(ctx, "readiness check failed", "dependency", name, "error", err)
				report[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "up"
		}
		httputil.WriteJSON(w, status, report)
	}
}
