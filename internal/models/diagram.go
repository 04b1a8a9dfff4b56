// Package models defines the request, response and state data structures
// shared by the generator, the parser and the HTTP handlers.
package models

type Diagram struct {
	Nodes       []Node       `json:"nodes" yaml:"nodes" validate:"dive"`
	Connections []Connection `json:"connections" yaml:"connections" validate:"dive"`
	Region      string       `json:"region,omitempty" yaml:"region,omitempty" validate:"omitempty,aws_region"`
}

type Node struct {
	ID     string         `json:"id" yaml:"id" validate:"required"`
	Type   string         `json:"type" yaml:"type" validate:"required"`
	Title  string         `json:"title,omitempty" yaml:"title,omitempty"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// DisplayName is the title shown in generated descriptions, falling back to
// the node id.
func (n Node) DisplayName() string {
	if n.Title != "" {
		return n.Title
	}
	return n.ID
}

type Connection struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	SourceID    string `json:"sourceId" yaml:"sourceId" validate:"required"`
	TargetID    string `json:"targetId" yaml:"targetId" validate:"required"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ConnectionType returns the declared type, or "default" when absent.
func (c Connection) ConnectionType() string {
	if c.Type == "" {
		return "default"
	}
	return c.Type
}

type GenerateResponse struct {
	MainTf      string    `json:"mainTf"`
	VariablesTf string    `json:"variablesTf"`
	OutputsTf   string    `json:"outputsTf"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

type Warning struct {
	Code    string `json:"code"`
	Element string `json:"element"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type KindInfo struct {
	Kind          string   `json:"kind"`
	TerraformType string   `json:"terraformType"`
	Associations  []string `json:"associations,omitempty"`
}
