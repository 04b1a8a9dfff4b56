package handlers

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/terrascope/tfgen/internal/generator"
)

const (
	ServiceName = "tfgen-api"
	statusOK    = "healthy"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Uptime    string            `json:"uptime,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

var startTime = time.Now()

// Health reports liveness along with runtime and generator details.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:    statusOK,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   ServiceName,
		Uptime:    time.Since(startTime).Round(time.Millisecond).String(),
		Details: map[string]string{
			"go_version":      runtime.Version(),
			"num_cpu":         strconv.Itoa(runtime.NumCPU()),
			"supported_kinds": strconv.Itoa(len(generator.Kinds())),
			"metrics_enabled": strconv.FormatBool(h.metrics != nil),
		},
	}, h.requestLogger(r))
}
