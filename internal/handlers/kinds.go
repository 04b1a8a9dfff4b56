package handlers

import (
	"net/http"

	"github.com/terrascope/tfgen/internal/generator"
)

// Kinds lists the supported node kinds and the kinds each can connect to.
func (h *Handler) Kinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, generator.KindInfos(), h.requestLogger(r))
}
