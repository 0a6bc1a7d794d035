package service

import (
	"context"

	"github.com/passagent/passagent-go/internal/model"
	"github.com/passagent/passagent-go/internal/tool"
)

// ToolService exposes the registered tools for direct invocation.
type ToolService struct {
	registry *tool.Registry
}

// NewToolService creates a new ToolService.
func NewToolService(registry *tool.Registry) *ToolService {
	return &ToolService{registry: registry}
}

// List returns the specs of every registered tool.
func (s *ToolService) List() []tool.Spec {
	return s.registry.Specs()
}

// Invoke calls the named tool with args.
func (s *ToolService) Invoke(ctx context.Context, name string, args map[string]any) (model.ToolInvokeResponse, error) {
	out, err := s.registry.Invoke(ctx, name, args)
	if err != nil {
		return model.ToolInvokeResponse{}, err
	}
	return model.ToolInvokeResponse{Tool: name, Output: out}, nil
}
