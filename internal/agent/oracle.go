package agent

import (
	"encoding/json"
	"errors"
	"fmt"
)

const systemPrompt = `Answer the user's question as best you can.
You have access to tools. Call a tool whenever it helps answer the question,
then use its result. When you know the final answer, reply with it directly
and do not call a tool. Report tool results to the user verbatim.`

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var ErrMissingAPIKey = errors.New("oracle API key is required")

// OracleConfig selects and configures a hosted-model oracle.
type OracleConfig struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	// BaseURL overrides the provider endpoint. Empty uses the SDK default.
	BaseURL string
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o"
	case ProviderAnthropic:
		return "claude-3-5-sonnet-latest"
	default:
		return ""
	}
}

// NewOracle builds the oracle for cfg.Provider.
func NewOracle(cfg OracleConfig) (Oracle, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIOracle(cfg), nil
	case ProviderAnthropic:
		return NewAnthropicOracle(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %q", cfg.Provider)
	}
}

// parseArgs decodes a JSON object of tool arguments. Empty input is an empty object.
func parseArgs(raw string) (map[string]any, error) {
	args := map[string]any{}
	if raw == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func marshalArgs(args map[string]any) (string, error) {
	if args == nil {
		return "{}", nil
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool arguments: %w", err)
	}
	return string(b), nil
}
