package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/passagent/passagent-go/internal/crypto"
)

type entry struct {
	tool   Tool
	schema *gojsonschema.Schema
}

// Registry maps tool names to tools. It is built once at startup and is
// read-only afterwards, so it is safe for concurrent use.
type Registry struct {
	entries map[string]entry
	names   []string
}

// NewRegistry registers tools and compiles their argument schemas.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{entries: make(map[string]entry, len(tools))}

	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("tool with description %q has no name", t.Description())
		}
		if _, exists := r.entries[name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(t.Schema()))
		if err != nil {
			return nil, fmt.Errorf("compiling schema for tool %q: %w", name, err)
		}

		r.entries[name] = entry{tool: t, schema: schema}
		r.names = append(r.names, name)
	}

	sort.Strings(r.names)
	return r, nil
}

// NewDefaultRegistry returns the agent's standard toolset: the clock and the
// password generator seeded with policy.
func NewDefaultRegistry(policy crypto.GenerationPolicy) (*Registry, error) {
	return NewRegistry(NewClockTool(), NewPasswordTool(policy))
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	e, ok := r.entries[name]
	return e.tool, ok
}

// List returns all tools sorted by name.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.entries[name].tool)
	}
	return out
}

// Specs returns the descriptions of all tools sorted by name.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, SpecOf(r.entries[name].tool))
	}
	return out
}

// Invoke validates args against the tool's schema and calls it.
// Nil args are treated as an empty object.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	e, ok := r.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	if args == nil {
		args = map[string]any{}
	}

	result, err := e.schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return "", fmt.Errorf("%w: %s", ErrInvalidArguments, strings.Join(msgs, "; "))
	}

	return e.tool.Invoke(ctx, args)
}
