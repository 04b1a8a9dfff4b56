// Package parser decodes diagrams and Terraform state files, and turns a
// state file back into a diagram.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/terrascope/tfgen/internal/models"
)

// minStateVersion is the first state format that lists resources at the top
// level instead of per module.
const minStateVersion = 4

// ErrInvalidState wraps every structural problem found in a state file.
var ErrInvalidState = errors.New("invalid tfstate")

// ParseTfstate decodes a version 4 state file and checks the fields the
// importer relies on.
func ParseTfstate(data []byte) (*models.TerraformState, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidState)
	}

	var state models.TerraformState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	switch {
	case state.Version == 0:
		return nil, fmt.Errorf("%w: missing version field", ErrInvalidState)
	case state.Version < minStateVersion:
		return nil, fmt.Errorf("%w: version %d is not supported, need %d or later", ErrInvalidState, state.Version, minStateVersion)
	case state.TerraformVersion == "":
		return nil, fmt.Errorf("%w: missing terraform_version field", ErrInvalidState)
	}

	for i, res := range state.Resources {
		if res.Type == "" || res.Name == "" {
			return nil, fmt.Errorf("%w: resources[%d] needs a type and a name", ErrInvalidState, i)
		}
	}

	return &state, nil
}
