package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/terrascope/tfgen/internal/generator"
	"github.com/terrascope/tfgen/internal/metrics"
	"github.com/terrascope/tfgen/internal/models"
)

func newTestHandler(t *testing.T, maxBodyBytes int64) (*Handler, *metrics.Collector) {
	t.Helper()
	collector := metrics.NewCollector()
	h := New(zaptest.NewLogger(t), generator.New(generator.DefaultOptions()), collector, maxBodyBytes)
	return h, collector
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func TestNew(t *testing.T) {
	h := New(zaptest.NewLogger(t), generator.New(generator.DefaultOptions()), nil, 0)

	require.Equal(t, int64(defaultMaxBodyBytes), h.maxBodyBytes)

	req := httptest.NewRequest(http.MethodPost, "/import", nil)
	w := httptest.NewRecorder()
	h.Import(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
