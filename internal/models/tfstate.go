package models

import "strings"

const ModeManaged = "managed"

type TerraformState struct {
	Version          int               `json:"version"`
	TerraformVersion string            `json:"terraform_version"`
	Serial           int               `json:"serial"`
	Lineage          string            `json:"lineage"`
	Outputs          map[string]Output `json:"outputs,omitempty"`
	Resources        []ResourceState   `json:"resources"`
}

// ManagedResources returns the resources Terraform manages, skipping data
// sources.
func (s *TerraformState) ManagedResources() []ResourceState {
	managed := make([]ResourceState, 0, len(s.Resources))
	for _, res := range s.Resources {
		if res.Mode == ModeManaged {
			managed = append(managed, res)
		}
	}
	return managed
}

type Output struct {
	Value     any  `json:"value"`
	Type      any  `json:"type"`
	Sensitive bool `json:"sensitive,omitempty"`
}

type ResourceState struct {
	Mode      string             `json:"mode"`
	Type      string             `json:"type"`
	Name      string             `json:"name"`
	Provider  string             `json:"provider"`
	Module    string             `json:"module,omitempty"`
	Instances []ResourceInstance `json:"instances"`
	DependsOn []string           `json:"depends_on,omitempty"`
}

// Address is the resource address as it appears in dependency lists,
// e.g. "module.app.aws_instance.web".
func (r ResourceState) Address() string {
	parts := make([]string, 0, 3)
	if r.Module != "" {
		parts = append(parts, r.Module)
	}
	parts = append(parts, r.Type, r.Name)
	return strings.Join(parts, ".")
}

type ResourceInstance struct {
	SchemaVersion  int               `json:"schema_version"`
	Attributes     map[string]any    `json:"attributes"`
	AttributesFlat map[string]string `json:"attributes_flat,omitempty"`
	Private        string            `json:"private,omitempty"`
	Dependencies   []string          `json:"dependencies,omitempty"`
	IndexKey       any               `json:"index_key,omitempty"`
}
