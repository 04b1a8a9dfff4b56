package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrascope/tfgen/internal/models"
)

const emptyTfstate = `{
	"version": 4,
	"terraform_version": "1.5.0",
	"serial": 1,
	"lineage": "abc-123",
	"resources": []
}`

func TestImport(t *testing.T) {
	h, collector := newTestHandler(t, 0)

	t.Run("returns 200 OK for valid tfstate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(emptyTfstate))
		w := httptest.NewRecorder()

		h.Import(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("returns empty diagram for empty state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(emptyTfstate))
		w := httptest.NewRecorder()

		h.Import(w, req)

		var diagram models.Diagram
		err := json.NewDecoder(w.Body).Decode(&diagram)
		require.NoError(t, err)

		assert.Empty(t, diagram.Nodes)
		assert.Empty(t, diagram.Connections)
	})

	t.Run("returns nodes and connections for dependencies", func(t *testing.T) {
		tfstate := `{
			"version": 4,
			"terraform_version": "1.5.0",
			"serial": 1,
			"lineage": "abc-123",
			"resources": [
				{
					"mode": "managed",
					"type": "aws_ebs_volume",
					"name": "data",
					"provider": "provider[\"registry.terraform.io/hashicorp/aws\"]",
					"instances": [{"schema_version": 0, "attributes": {"id": "vol-1", "size": 20}}]
				},
				{
					"mode": "managed",
					"type": "aws_instance",
					"name": "web",
					"provider": "provider[\"registry.terraform.io/hashicorp/aws\"]",
					"module": "module.app",
					"instances": [{
						"schema_version": 1,
						"attributes": {"id": "i-123", "instance_type": "t3.micro"},
						"dependencies": ["aws_ebs_volume.data", "aws_vpc.main"]
					}]
				}
			]
		}`

		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(tfstate))
		w := httptest.NewRecorder()

		h.Import(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var diagram models.Diagram
		err := json.NewDecoder(w.Body).Decode(&diagram)
		require.NoError(t, err)

		require.Len(t, diagram.Nodes, 2)
		assert.Equal(t, "data", diagram.Nodes[0].ID)
		assert.Equal(t, "ebs", diagram.Nodes[0].Type)
		assert.Equal(t, float64(20), diagram.Nodes[0].Config["size"])
		assert.Equal(t, "app_web", diagram.Nodes[1].ID)
		assert.Equal(t, "ec2", diagram.Nodes[1].Type)

		require.Len(t, diagram.Connections, 1)
		assert.Equal(t, "app_web", diagram.Connections[0].SourceID)
		assert.Equal(t, "data", diagram.Connections[0].TargetID)
	})

	t.Run("returns 405 for GET request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/import", nil)
		w := httptest.NewRecorder()

		h.Import(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Contains(t, w.Body.String(), "method not allowed")
	})

	t.Run("returns 400 for invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(`{invalid json}`))
		w := httptest.NewRecorder()

		h.Import(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "invalid tfstate")
	})

	t.Run("returns 400 for empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(""))
		w := httptest.NewRecorder()

		h.Import(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 400 for missing required fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(`{"version": 4}`))
		w := httptest.NewRecorder()

		h.Import(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "terraform_version")
	})

	t.Run("handles binary data gracefully", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/import", bytes.NewReader([]byte{0x00, 0x01, 0x02, 0xFF, 0xFE}))
		w := httptest.NewRecorder()

		h.Import(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("handles large tfstate file", func(t *testing.T) {
		resources := make([]string, 100)
		for i := 0; i < 100; i++ {
			resources[i] = fmt.Sprintf(`{
				"mode": "managed",
				"type": "aws_s3_bucket",
				"name": "bucket%d",
				"provider": "provider[\"registry.terraform.io/hashicorp/aws\"]",
				"instances": [{
					"schema_version": 0,
					"attributes": {"id": "bucket-%d", "bucket": "bucket-%d"}
				}]
			}`, i, i, i)
		}

		largeTfstate := `{
			"version": 4,
			"terraform_version": "1.5.0",
			"serial": 1,
			"lineage": "abc-123",
			"resources": [` + strings.Join(resources, ",") + `]
		}`

		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(largeTfstate))
		w := httptest.NewRecorder()

		h.Import(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var diagram models.Diagram
		err := json.NewDecoder(w.Body).Decode(&diagram)
		require.NoError(t, err)
		assert.Len(t, diagram.Nodes, 100)
	})

	t.Run("pretty prints on request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/import?pretty=true", strings.NewReader(emptyTfstate))
		w := httptest.NewRecorder()

		h.Import(w, req)

		assert.Contains(t, w.Body.String(), "\n  \"nodes\"")
	})

	t.Run("closes request body", func(t *testing.T) {
		body := &closeTracker{Reader: strings.NewReader(emptyTfstate)}
		req := httptest.NewRequest(http.MethodPost, "/import", body)
		w := httptest.NewRecorder()

		h.Import(w, req)

		assert.True(t, body.closed)
	})

	t.Run("handles concurrent requests", func(t *testing.T) {
		numRequests := 10
		results := make(chan int, numRequests)

		for n := 0; n < numRequests; n++ {
			go func() {
				req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(emptyTfstate))
				w := httptest.NewRecorder()
				h.Import(w, req)
				results <- w.Code
			}()
		}

		for n := 0; n < numRequests; n++ {
			code := <-results
			assert.Equal(t, http.StatusOK, code)
		}
	})

	t.Run("counts outcomes", func(t *testing.T) {
		assert.Greater(t, testutil.ToFloat64(collector.Imports.WithLabelValues(outcomeOK)), float64(0))
		assert.Greater(t, testutil.ToFloat64(collector.Imports.WithLabelValues(outcomeInvalid)), float64(0))
	})
}

func TestImportBodyLimit(t *testing.T) {
	h, _ := newTestHandler(t, 16)

	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(emptyTfstate))
	w := httptest.NewRecorder()

	h.Import(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}
