package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passagent/passagent-go/internal/crypto"
)

type stubTool struct {
	name   string
	schema map[string]any
	out    string
	err    error
	calls  int
}

func (s *stubTool) Name() string           { return s.name }
func (s *stubTool) Description() string    { return "stub " + s.name }
func (s *stubTool) Schema() map[string]any { return s.schema }

func (s *stubTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	s.calls++
	return s.out, s.err
}

func emptySchema() map[string]any {
	return map[string]any{"type": "object"}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	clock := &ClockTool{Now: func() time.Time {
		return time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)
	}}
	r, err := NewRegistry(clock, NewPasswordTool(crypto.DefaultPolicy()))
	require.NoError(t, err)
	return r
}

func TestNewRegistry_RejectsDuplicateNames(t *testing.T) {
	_, err := NewRegistry(
		&stubTool{name: "dup", schema: emptySchema()},
		&stubTool{name: "dup", schema: emptySchema()},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistry_RejectsEmptyName(t *testing.T) {
	_, err := NewRegistry(&stubTool{name: "", schema: emptySchema()})
	require.Error(t, err)
}

func TestNewRegistry_RejectsBadSchema(t *testing.T) {
	_, err := NewRegistry(&stubTool{name: "bad", schema: map[string]any{"type": 42}})
	require.Error(t, err)
}

func TestRegistry_ListIsSortedByName(t *testing.T) {
	r, err := NewRegistry(
		&stubTool{name: "zeta", schema: emptySchema()},
		&stubTool{name: "alpha", schema: emptySchema()},
	)
	require.NoError(t, err)

	specs := r.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "alpha", specs[0].Name)
	assert.Equal(t, "zeta", specs[1].Name)
	assert.Equal(t, "stub alpha", specs[0].Description)

	tools := r.List()
	require.Len(t, tools, 2)
	assert.Equal(t, "alpha", tools[0].Name())
}

func TestRegistry_InvokeUnknownTool(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Invoke(context.Background(), "weather", nil)
	assert.True(t, errors.Is(err, ErrUnknownTool))
}

func TestRegistry_InvokeValidatesArguments(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "length below minimum", args: map[string]any{"length": 3}},
		{name: "length above maximum", args: map[string]any{"length": crypto.MaxLength + 1}},
		{name: "length wrong type", args: map[string]any{"length": "twelve"}},
		{name: "fractional length", args: map[string]any{"length": 12.5}},
		{name: "include_special wrong type", args: map[string]any{"include_special": "yes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Invoke(context.Background(), "secure_password_generator", tt.args)
			assert.True(t, errors.Is(err, ErrInvalidArguments), "got %v", err)
			assert.Empty(t, out)
		})
	}
}

func TestRegistry_InvokeDoesNotCallToolOnInvalidArgs(t *testing.T) {
	stub := &stubTool{
		name: "strict",
		schema: map[string]any{
			"type":     "object",
			"required": []any{"q"},
		},
	}
	r, err := NewRegistry(stub)
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), "strict", nil)
	require.ErrorIs(t, err, ErrInvalidArguments)
	assert.Equal(t, 0, stub.calls)

	_, err = r.Invoke(context.Background(), "strict", map[string]any{"q": "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestRegistry_InvokePropagatesToolError(t *testing.T) {
	boom := errors.New("boom")
	r, err := NewRegistry(&stubTool{name: "fails", schema: emptySchema(), err: boom})
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), "fails", map[string]any{})
	assert.ErrorIs(t, err, boom)
}

func TestClockTool_FormatsTwelveHourTime(t *testing.T) {
	r := newTestRegistry(t)

	out, err := r.Invoke(context.Background(), "time", nil)
	require.NoError(t, err)
	assert.Equal(t, "02:05 PM", out)
}

func TestClockTool_IgnoresArguments(t *testing.T) {
	r := newTestRegistry(t)

	out, err := r.Invoke(context.Background(), "time", map[string]any{"input": "What time is it?"})
	require.NoError(t, err)
	assert.Equal(t, "02:05 PM", out)
}

func TestClockTool_MorningAndNilClock(t *testing.T) {
	c := &ClockTool{Now: func() time.Time {
		return time.Date(2024, 3, 9, 0, 7, 0, 0, time.UTC)
	}}
	out, err := c.Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "12:07 AM", out)

	out, err = (&ClockTool{}).Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, out, len(ClockLayout))
}

func TestPasswordTool_UsesDefaultsWithoutArguments(t *testing.T) {
	r := newTestRegistry(t)

	out, err := r.Invoke(context.Background(), "secure_password_generator", nil)
	require.NoError(t, err)
	assert.Len(t, out, crypto.DefaultLength)
}

func TestPasswordTool_HonoursArguments(t *testing.T) {
	r := newTestRegistry(t)

	// Numbers decoded from JSON arrive as float64.
	out, err := r.Invoke(context.Background(), "secure_password_generator", map[string]any{
		"length":          float64(20),
		"include_special": false,
	})
	require.NoError(t, err)
	assert.Len(t, out, 20)
	for _, ch := range out {
		assert.True(t, strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", ch),
			"unexpected character %q", string(ch))
	}
}

func TestPasswordTool_DirectInvokeRejectsShortLength(t *testing.T) {
	// Bypassing the registry skips schema validation; the generator still refuses.
	p := NewPasswordTool(crypto.DefaultPolicy())

	_, err := p.Invoke(context.Background(), map[string]any{"length": 2})
	assert.ErrorIs(t, err, crypto.ErrInvalidArgument)
}

func TestPasswordTool_DirectInvokeRejectsLengthAboveCap(t *testing.T) {
	p := NewPasswordTool(crypto.DefaultPolicy())

	out, err := p.Invoke(context.Background(), map[string]any{"length": crypto.MaxLength + 1})
	assert.ErrorIs(t, err, ErrInvalidArguments)
	assert.Empty(t, out)
}

func TestIntArg(t *testing.T) {
	n, err := intArg(float64(16))
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	_, err = intArg(16.5)
	assert.Error(t, err)

	_, err = intArg("16")
	assert.Error(t, err)
}

func TestNewDefaultRegistry(t *testing.T) {
	r, err := NewDefaultRegistry(crypto.GenerationPolicy{Length: 20, IncludeSpecial: false})
	require.NoError(t, err)

	names := make([]string, 0, 2)
	for _, s := range r.Specs() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"secure_password_generator", "time"}, names)

	out, err := r.Invoke(context.Background(), "secure_password_generator", nil)
	require.NoError(t, err)
	assert.Len(t, out, 20)
}
