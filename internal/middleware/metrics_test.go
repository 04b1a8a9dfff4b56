package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/terrascope/tfgen/internal/metrics"
)

func TestMetrics(t *testing.T) {
	collector := metrics.NewCollector()

	r := chi.NewRouter()
	r.Use(Metrics(collector))
	r.Get("/kinds/{kind}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	for _, path := range []string{"/kinds/ec2", "/kinds/s3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/generate", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	t.Run("labels by route pattern", func(t *testing.T) {
		assert.Equal(t, float64(2), testutil.ToFloat64(collector.HTTPRequests.WithLabelValues(http.MethodGet, "/kinds/{kind}", "200")))
	})

	t.Run("records the response status", func(t *testing.T) {
		assert.Equal(t, float64(1), testutil.ToFloat64(collector.HTTPRequests.WithLabelValues(http.MethodPost, "/generate", "400")))
	})

	t.Run("groups unmatched paths", func(t *testing.T) {
		assert.Equal(t, float64(1), testutil.ToFloat64(collector.HTTPRequests.WithLabelValues(http.MethodGet, unmatchedRoute, "404")))
	})

	t.Run("observes durations", func(t *testing.T) {
		assert.Equal(t, 3, testutil.CollectAndCount(collector.HTTPDuration))
	})
}
