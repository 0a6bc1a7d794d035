// Package tool defines the callable tools an agent may invoke and the registry
// that resolves them by name.
package tool

import (
	"context"
	"errors"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Tool is a named capability with a uniform string-returning call contract.
type Tool interface {
	Name() string
	Description() string
	// Schema returns the JSON Schema object describing the accepted arguments.
	Schema() map[string]any
	Invoke(ctx context.Context, args map[string]any) (string, error)
}

// Spec is the description of a tool handed to a reasoning oracle or an API client.
type Spec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// SpecOf returns the Spec of t.
func SpecOf(t Tool) Spec {
	return Spec{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Schema(),
	}
}
