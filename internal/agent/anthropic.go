package agent

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 1024

// AnthropicOracle decides through the Anthropic messages API with tool_use blocks.
type AnthropicOracle struct {
	client      anthropic.Client
	model       string
	temperature float64
}

// NewAnthropicOracle creates an AnthropicOracle.
func NewAnthropicOracle(cfg OracleConfig, opts ...option.RequestOption) *AnthropicOracle {
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &AnthropicOracle{
		client:      anthropic.NewClient(reqOpts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

func (o *AnthropicOracle) Decide(ctx context.Context, req Request) (Decision, error) {
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(req.Query)),
	}

	for _, s := range req.Steps {
		blocks := []anthropic.ContentBlockParamUnion{}
		if s.Thought != "" {
			blocks = append(blocks, anthropic.NewTextBlock(s.Thought))
		}
		args := s.Args
		if args == nil {
			args = map[string]any{}
		}
		blocks = append(blocks, anthropic.NewToolUseBlock(s.CallID, args, s.Tool))
		messages = append(messages,
			anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			},
			anthropic.NewUserMessage(anthropic.NewToolResultBlock(s.CallID, s.Observation, s.Failed)),
		)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(o.model),
		Messages:    messages,
		MaxTokens:   anthropicMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Temperature: anthropic.Float(o.temperature),
	}

	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolUnionParam, 0, len(req.Tools))
		for _, spec := range req.Tools {
			toolParam := anthropic.ToolParam{
				Name:        spec.Name,
				Description: anthropic.String(spec.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: spec.Parameters["properties"],
				},
			}
			if required, ok := spec.Parameters["required"].([]string); ok {
				toolParam.InputSchema.Required = required
			}
			tools = append(tools, anthropic.ToolUnionParam{OfTool: &toolParam})
		}
		params.Tools = tools
	}

	resp, err := o.client.Messages.New(ctx, params)
	if err != nil {
		return Decision{}, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			args, err := parseArgs(b.JSON.Input.Raw())
			if err != nil {
				return Decision{}, err
			}
			return Decision{
				Tool:    b.Name,
				Args:    args,
				CallID:  b.ID,
				Thought: text.String(),
			}, nil
		}
	}

	return Decision{Answer: text.String()}, nil
}
