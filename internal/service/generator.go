package service

import (
	"fmt"

	"github.com/passagent/passagent-go/internal/crypto"
	"github.com/passagent/passagent-go/internal/model"
)

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	defaults crypto.GenerationPolicy
}

// NewGeneratorService creates a GeneratorService that fills missing request
// fields from defaults.
func NewGeneratorService(defaults crypto.GenerationPolicy) *GeneratorService {
	return &GeneratorService{defaults: defaults}
}

// Generate produces a password based on the given request.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	policy := crypto.GenerationPolicy{
		Length:         intOrDefault(req.Length, s.defaults.Length),
		IncludeSpecial: boolOrDefault(req.IncludeSpecial, s.defaults.IncludeSpecial),
	}

	if policy.Length > crypto.MaxLength {
		return model.GenerateResponse{}, fmt.Errorf("%w: password length must be at most %d", crypto.ErrInvalidArgument, crypto.MaxLength)
	}

	password, err := crypto.GenerateWithPolicy(policy)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	return model.GenerateResponse{
		Password: password,
		Length:   len(password),
	}, nil
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

func intOrDefault(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
