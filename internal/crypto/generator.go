package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

const (
	lowercaseChars   = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars       = "0123456789"
	punctuationChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	MinLength     = 4
	DefaultLength = 12

	// MaxLength caps lengths taken from HTTP callers and oracles.
	// Generate itself accepts any length from MinLength up.
	MaxLength = 4096
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrEntropyUnavailable = errors.New("secure random source unavailable")
)

// GenerationPolicy describes a single password request.
type GenerationPolicy struct {
	Length         int
	IncludeSpecial bool
}

// DefaultPolicy returns 12 characters with punctuation enabled.
func DefaultPolicy() GenerationPolicy {
	return GenerationPolicy{
		Length:         DefaultLength,
		IncludeSpecial: true,
	}
}

// Validate checks the minimum length of the policy.
func (p GenerationPolicy) Validate() error {
	if p.Length < MinLength {
		return fmt.Errorf("%w: password length must be at least %d", ErrInvalidArgument, MinLength)
	}
	return nil
}

// classes returns the mandatory character classes for the policy, in seed order.
func (p GenerationPolicy) classes() []string {
	classes := []string{lowercaseChars, uppercaseChars, digitChars}
	if p.IncludeSpecial {
		classes = append(classes, punctuationChars)
	}
	return classes
}

// Generator produces passwords from a cryptographically secure source.
// A nil Rand uses crypto/rand.Reader. The zero value is ready to use.
type Generator struct {
	Rand io.Reader
}

var defaultGenerator Generator

// Generate creates a password of the given length containing at least one
// lowercase letter, one uppercase letter, one digit and, when includeSpecial
// is set, one punctuation character.
func Generate(length int, includeSpecial bool) (string, error) {
	return defaultGenerator.Generate(GenerationPolicy{Length: length, IncludeSpecial: includeSpecial})
}

// GenerateWithPolicy is Generate taking a GenerationPolicy.
func GenerateWithPolicy(p GenerationPolicy) (string, error) {
	return defaultGenerator.Generate(p)
}

// Generate creates a password satisfying p. No entropy is consumed when p is invalid.
func (g Generator) Generate(p GenerationPolicy) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	r := g.Rand
	if r == nil {
		r = rand.Reader
	}

	classes := p.classes()
	var pool string
	for _, charset := range classes {
		pool += charset
	}

	result := make([]byte, p.Length)

	// Guarantee at least one character from each mandatory class.
	for i, charset := range classes {
		ch, err := randChar(r, charset)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	// Fill the remaining positions from the full pool.
	for i := len(classes); i < p.Length; i++ {
		ch, err := randChar(r, pool)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	if err := secureShuffle(r, result); err != nil {
		return "", err
	}

	return string(result), nil
}

// randChar picks a uniformly random character from charset.
func randChar(r io.Reader, charset string) (byte, error) {
	n, err := randIndex(r, len(charset))
	if err != nil {
		return 0, err
	}
	return charset[n], nil
}

// secureShuffle performs a Fisher-Yates shuffle driven by r.
func secureShuffle(r io.Reader, data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := randIndex(r, i+1)
		if err != nil {
			return err
		}
		data[i], data[j] = data[j], data[i]
	}
	return nil
}

// randIndex returns a uniform int in [0, n).
func randIndex(r io.Reader, n int) (int, error) {
	v, err := rand.Int(r, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEntropyUnavailable, err)
	}
	return int(v.Int64()), nil
}
