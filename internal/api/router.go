// Package api exposes health, metrics and token reports over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"solana-token-scanner/internal/observability"
)

// RouterConfig holds router dependencies. Webhook is optional and mounted
// only when set.
type RouterConfig struct {
	Health  *HealthHandler
	Reports *ReportHandler
	Webhook http.Handler
	Logger  *zap.Logger
}

// NewRouter builds the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(cfg.Logger))
	r.Use(Metrics())
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", cfg.Health.Health)
	r.Get("/ready", cfg.Health.Ready)
	r.Get("/status", cfg.Health.Status)
	r.Handle("/metrics", observability.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		cfg.Reports.RegisterRoutes(r)
	})

	if cfg.Webhook != nil {
		r.Post("/telegram/webhook", cfg.Webhook.ServeHTTP)
	}

	return r
}
