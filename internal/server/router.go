// Package server wires the handlers and middleware into the chi router
// shared by the HTTP server and the Lambda entry point.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/terrascope/tfgen/internal/config"
	"github.com/terrascope/tfgen/internal/generator"
	"github.com/terrascope/tfgen/internal/handlers"
	"github.com/terrascope/tfgen/internal/metrics"
	"github.com/terrascope/tfgen/internal/middleware"
)

// NewRouter builds the API router. collector may be nil, in which case
// neither request metrics nor /metrics are served.
func NewRouter(cfg *config.Config, logger *zap.Logger, collector *metrics.Collector) *chi.Mux {
	gen := generator.New(generator.Options{DefaultRegion: cfg.DefaultAWSRegion})
	h := handlers.New(logger, gen, collector, cfg.MaxBodyBytes)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	if collector != nil {
		r.Use(middleware.Metrics(collector))
	}
	r.Use(middleware.Cors(cfg.CORSAllowedOrigin))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", h.Health)
	r.Get("/kinds", h.Kinds)
	r.Post("/generate", h.Generate)
	r.Post("/api/terraform/generate", h.Generate)
	r.Post("/import", h.Import)

	if collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	return r
}
