package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/terrascope/tfgen/internal/logging"
	"github.com/terrascope/tfgen/internal/parser"
)

// Import turns a Terraform state file into a diagram that Generate accepts.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", logger)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	defer r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.recordImport(outcomeTooLarge)
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large", logger)
			return
		}
		h.recordImport(outcomeInvalid)
		writeError(w, r, http.StatusBadRequest, "failed to read body", logger)
		return
	}

	state, err := parser.ParseTfstate(body)
	if err != nil {
		h.recordImport(outcomeInvalid)
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}

	diagram, warnings := parser.BuildDiagram(state)
	logging.LogWarnings(logger, warnings)
	logger.Info("imported state",
		zap.Int("resources", len(state.Resources)),
		zap.Int("nodes", len(diagram.Nodes)),
		zap.Int("connections", len(diagram.Connections)),
	)
	h.recordImport(outcomeOK)

	writeJSON(w, r, http.StatusOK, diagram, logger)
}

func (h *Handler) recordImport(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordImport(outcome)
	}
}
