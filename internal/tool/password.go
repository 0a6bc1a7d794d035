package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/passagent/passagent-go/internal/crypto"
)

// PasswordTool generates secure passwords. The optional "length" and
// "include_special" arguments override Defaults.
type PasswordTool struct {
	Defaults  crypto.GenerationPolicy
	Generator crypto.Generator
}

// NewPasswordTool returns a PasswordTool using the given defaults and crypto/rand.
func NewPasswordTool(defaults crypto.GenerationPolicy) *PasswordTool {
	return &PasswordTool{Defaults: defaults}
}

func (p *PasswordTool) Name() string { return "secure_password_generator" }

func (p *PasswordTool) Description() string {
	return "Useful for when you need to generate a secure password"
}

func (p *PasswordTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"length": map[string]any{
				"type":        "integer",
				"minimum":     crypto.MinLength,
				"maximum":     crypto.MaxLength,
				"description": fmt.Sprintf("Password length, default %d", p.Defaults.Length),
			},
			"include_special": map[string]any{
				"type":        "boolean",
				"description": "Include punctuation characters",
			},
		},
	}
}

func (p *PasswordTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	policy, err := p.policy(args)
	if err != nil {
		return "", err
	}
	return p.Generator.Generate(policy)
}

func (p *PasswordTool) policy(args map[string]any) (crypto.GenerationPolicy, error) {
	policy := p.Defaults

	if v, ok := args["length"]; ok && v != nil {
		n, err := intArg(v)
		if err != nil {
			return crypto.GenerationPolicy{}, fmt.Errorf("%w: length: %w", ErrInvalidArguments, err)
		}
		if n > crypto.MaxLength {
			return crypto.GenerationPolicy{}, fmt.Errorf("%w: length must be at most %d", ErrInvalidArguments, crypto.MaxLength)
		}
		policy.Length = n
	}
	if v, ok := args["include_special"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return crypto.GenerationPolicy{}, fmt.Errorf("%w: include_special must be a boolean", ErrInvalidArguments)
		}
		policy.IncludeSpecial = b
	}

	return policy, nil
}

// intArg accepts the integer encodings produced by encoding/json and by Go callers.
func intArg(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, err
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
