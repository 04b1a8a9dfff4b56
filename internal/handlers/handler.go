// Package handlers provides the HTTP handlers of the generator API and the
// JSON response helpers they share.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/terrascope/tfgen/internal/generator"
	"github.com/terrascope/tfgen/internal/metrics"
	"github.com/terrascope/tfgen/internal/models"
)

const defaultMaxBodyBytes = 1 << 20

// Handler serves the generate, import and kinds endpoints.
type Handler struct {
	logger       *zap.Logger
	generator    *generator.Generator
	metrics      *metrics.Collector
	maxBodyBytes int64
}

// New returns a Handler. collector may be nil when metrics are disabled.
func New(logger *zap.Logger, gen *generator.Generator, collector *metrics.Collector, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{
		logger:       logger,
		generator:    gen,
		metrics:      collector,
		maxBodyBytes: maxBodyBytes,
	}
}

func (h *Handler) requestLogger(r *http.Request) *zap.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return h.logger.With(zap.String("request_id", id))
	}
	return h.logger
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil && logger != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *zap.Logger) {
	writeJSON(w, r, status, models.ErrorResponse{Error: message}, logger)
}

// NotFound answers unknown routes with a JSON error.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found", nil)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
}
