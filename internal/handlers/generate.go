package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/terrascope/tfgen/internal/generator"
	"github.com/terrascope/tfgen/internal/logging"
	"github.com/terrascope/tfgen/internal/models"
)

const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeTooLarge = "too_large"
	outcomeError    = "error"
)

// Generate renders the diagram in the request body. Malformed input is a
// 400 naming the offending element; warnings are returned with the files.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer r.Body.Close()

	var diagram models.Diagram
	if err := json.NewDecoder(r.Body).Decode(&diagram); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.recordGeneration(outcomeTooLarge, nil)
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large", logger)
			return
		}
		h.recordGeneration(outcomeInvalid, nil)
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error(), logger)
		return
	}

	doc, err := h.generator.Generate(diagram)
	if err != nil {
		if generator.IsValidationError(err) {
			logger.Info("rejected diagram", zap.Error(err))
			h.recordGeneration(outcomeInvalid, nil)
			writeError(w, r, http.StatusBadRequest, err.Error(), logger)
			return
		}
		logger.Error("generation failed", zap.Error(err))
		h.recordGeneration(outcomeError, nil)
		writeError(w, r, http.StatusInternalServerError, "internal server error", logger)
		return
	}

	logging.LogWarnings(logger, doc.Warnings)
	logger.Info("generated configuration",
		zap.Int("nodes", len(diagram.Nodes)),
		zap.Int("connections", len(diagram.Connections)),
		zap.Int("resources", doc.Stats.Resources),
		zap.Int("associations", doc.Stats.Associations),
		zap.Int("warnings", len(doc.Warnings)),
	)
	h.recordGeneration(outcomeOK, doc)

	writeJSON(w, r, http.StatusOK, models.GenerateResponse{
		MainTf:      doc.Main,
		VariablesTf: doc.Variables,
		OutputsTf:   doc.Outputs,
		Warnings:    doc.Warnings,
	}, logger)
}

func (h *Handler) recordGeneration(outcome string, doc *generator.Document) {
	if h.metrics == nil {
		return
	}
	if doc == nil {
		h.metrics.RecordGeneration(outcome, nil, 0, nil)
		return
	}

	byKind := make(map[string]int, len(doc.Stats.ResourcesByKind))
	for kind, n := range doc.Stats.ResourcesByKind {
		byKind[string(kind)] = n
	}
	codes := make([]string, len(doc.Warnings))
	for i, w := range doc.Warnings {
		codes[i] = w.Code
	}
	h.metrics.RecordGeneration(outcome, byKind, doc.Stats.Associations, codes)
}
