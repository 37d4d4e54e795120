package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"courtside/internal/config"
	apierrors "courtside/internal/errors"
	"courtside/internal/middleware"
)

// NewRouter assembles the full route tree with the standard middleware
// chain.
func NewRouter(cfg *config.Config, service GamesService, logger *slog.Logger, registry *prometheus.Registry) chi.Router {
	errorHandler := apierrors.NewHandler(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if registry != nil {
		r.Use(middleware.NewMetrics(registry).Handler)
	}
	if cfg.Server.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Mount("/games", NewGamesHandler(service, logger, errorHandler).Routes())
		r.Mount("/metrics", NewMetricsHandler(logger, errorHandler).Routes())
	})
	return r
}
