package agent

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIOracle decides through OpenAI chat completions with function tools.
type OpenAIOracle struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewOpenAIOracle creates an OpenAIOracle. SDK retries are left at their default.
func NewOpenAIOracle(cfg OracleConfig, opts ...option.RequestOption) *OpenAIOracle {
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAIOracle{
		client:      openai.NewClient(reqOpts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

func (o *OpenAIOracle) Decide(ctx context.Context, req Request) (Decision, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(req.Query),
	}

	// Replay earlier steps as assistant tool calls followed by their results.
	for _, s := range req.Steps {
		argsJSON, err := marshalArgs(s.Args)
		if err != nil {
			return Decision{}, err
		}
		assistantMsg := openai.ChatCompletionMessage{
			Role:    "assistant",
			Content: s.Thought,
			ToolCalls: []openai.ChatCompletionMessageToolCall{{
				ID:   s.CallID,
				Type: "function",
				Function: openai.ChatCompletionMessageToolCallFunction{
					Name:      s.Tool,
					Arguments: argsJSON,
				},
			}},
		}
		messages = append(messages, assistantMsg.ToParam())
		messages = append(messages, openai.ToolMessage(s.Observation, s.CallID))
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    messages,
		Temperature: openai.Float(o.temperature),
	}

	if len(req.Tools) > 0 {
		tools := make([]openai.ChatCompletionToolParam, 0, len(req.Tools))
		for _, spec := range req.Tools {
			tools = append(tools, openai.ChatCompletionToolParam{
				Type: "function",
				Function: openai.FunctionDefinitionParam{
					Name:        spec.Name,
					Description: openai.String(spec.Description),
					Parameters:  openai.FunctionParameters(spec.Parameters),
				},
			})
		}
		params.Tools = tools
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Decision{}, err
	}
	if len(resp.Choices) == 0 {
		return Decision{}, fmt.Errorf("no response choices returned")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		// One tool per turn; further calls are requested again on the next turn.
		tc := msg.ToolCalls[0]
		args, err := parseArgs(tc.Function.Arguments)
		if err != nil {
			return Decision{}, err
		}
		return Decision{
			Tool:    tc.Function.Name,
			Args:    args,
			CallID:  tc.ID,
			Thought: msg.Content,
		}, nil
	}

	return Decision{Answer: msg.Content}, nil
}
