package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/terrascope/tfgen/internal/generator"
	"github.com/terrascope/tfgen/internal/models"
)

func postGenerate(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Generate(w, req)
	return w
}

func TestGenerate(t *testing.T) {
	h, collector := newTestHandler(t, 0)

	t.Run("returns the provider block for an empty diagram", func(t *testing.T) {
		w := postGenerate(h, `{"nodes": [], "connections": []}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp models.GenerateResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, generator.ProviderBlock()+"\n", resp.MainTf)
		assert.Contains(t, resp.VariablesTf, `variable "aws_region"`)
		assert.Empty(t, resp.OutputsTf)
		assert.Empty(t, resp.Warnings)
	})

	t.Run("renders nodes, connections and warnings", func(t *testing.T) {
		w := postGenerate(h, `{
			"nodes": [
				{"id": "web-1", "type": "ec2", "config": {"instance_type": "t3.small"}},
				{"id": "data", "type": "ebs"},
				{"id": "thing", "type": "widget"}
			],
			"connections": [
				{"id": "attach", "sourceId": "web-1", "targetId": "data"},
				{"sourceId": "web-1", "targetId": "missing"}
			],
			"region": "eu-west-2"
		}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp models.GenerateResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		assert.Contains(t, resp.MainTf, `resource "aws_instance" "web_1"`)
		assert.Contains(t, resp.MainTf, `"t3.small"`)
		assert.Contains(t, resp.MainTf, `resource "aws_volume_attachment" "attach"`)
		assert.Contains(t, resp.VariablesTf, `"eu-west-2"`)
		assert.Contains(t, resp.OutputsTf, `output "web_1_public_ip"`)

		require.Len(t, resp.Warnings, 2)
		assert.Equal(t, generator.WarnUnsupportedKind, resp.Warnings[0].Code)
		assert.Equal(t, generator.WarnDanglingConnection, resp.Warnings[1].Code)
	})

	t.Run("returns 400 naming the missing field", func(t *testing.T) {
		w := postGenerate(h, `{"nodes": [{"type": "ec2"}]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid diagram: nodes[0]: id is required", errorMessage(t, w))
	})

	t.Run("returns 400 for an unsupported region", func(t *testing.T) {
		w := postGenerate(h, `{"nodes": [], "region": "nowhere-1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "nowhere-1")
	})

	t.Run("returns 400 for invalid JSON", func(t *testing.T) {
		w := postGenerate(h, `{"nodes": [`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "invalid request body")
	})

	t.Run("returns 400 for an empty body", func(t *testing.T) {
		w := postGenerate(h, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 405 for GET request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/generate", nil)
		w := httptest.NewRecorder()

		h.Generate(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("counts outcomes and warnings", func(t *testing.T) {
		assert.Greater(t, testutil.ToFloat64(collector.Generations.WithLabelValues(outcomeOK)), float64(0))
		assert.Greater(t, testutil.ToFloat64(collector.Generations.WithLabelValues(outcomeInvalid)), float64(0))
		assert.Equal(t, float64(1), testutil.ToFloat64(collector.ResourcesEmitted.WithLabelValues("ec2")))
		assert.Equal(t, float64(1), testutil.ToFloat64(collector.Warnings.WithLabelValues(generator.WarnDanglingConnection)))
	})
}

func TestGenerateBodyLimit(t *testing.T) {
	h, collector := newTestHandler(t, 32)

	w := postGenerate(h, `{"nodes": [{"id": "web", "type": "ec2"}, {"id": "db", "type": "rds"}]}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "request body too large", errorMessage(t, w))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.Generations.WithLabelValues(outcomeTooLarge)))
}

func TestGenerateWithoutMetrics(t *testing.T) {
	h := New(zap.NewNop(), generator.New(generator.DefaultOptions()), nil, 0)

	w := postGenerate(h, `{"nodes": [{"id": "web", "type": "ec2"}]}`)

	assert.Equal(t, http.StatusOK, w.Code)
}
