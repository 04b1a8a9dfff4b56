package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/terrascope/tfgen/internal/models"
)

// ParseDiagram decodes a diagram written as JSON or YAML. JSON is detected
// by a leading '{'.
func ParseDiagram(data []byte) (*models.Diagram, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty diagram data")
	}

	var d models.Diagram
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal diagram JSON: %w", err)
		}
		return &d, nil
	}

	if err := yaml.Unmarshal(trimmed, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal diagram YAML: %w", err)
	}
	return &d, nil
}
