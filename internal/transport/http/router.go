package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salespulse/internal/config"
	"salespulse/internal/middleware"
)

// NewRouter assembles the middleware chain and mounts the API routes.
func NewRouter(dashboard *DashboardHandler, health *HealthHandler, registry *prometheus.Registry, cfg config.RateLimitConfig, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))
	if cfg.Enabled {
		r.Use(middleware.RateLimit(cfg.RPS, cfg.Burst))
	}

	api := dashboard.Routes()
	api.Get("/health", health.Health)
	r.Mount("/api", api)

	if registry != nil {
		r.Method("GET", "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return r
}
