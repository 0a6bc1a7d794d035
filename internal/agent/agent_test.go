package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passagent/passagent-go/internal/crypto"
	"github.com/passagent/passagent-go/internal/tool"
)

// scriptedOracle replays a fixed list of decisions and records every request.
type scriptedOracle struct {
	decisions []Decision
	err       error
	requests  []Request
}

func (s *scriptedOracle) Decide(ctx context.Context, req Request) (Decision, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return Decision{}, s.err
	}
	if len(s.requests) > len(s.decisions) {
		return Decision{}, errors.New("script exhausted")
	}
	return s.decisions[len(s.requests)-1], nil
}

func newTestRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	clock := &tool.ClockTool{Now: func() time.Time {
		return time.Date(2024, 3, 9, 9, 30, 0, 0, time.Local)
	}}
	r, err := tool.NewRegistry(clock, tool.NewPasswordTool(crypto.DefaultPolicy()))
	require.NoError(t, err)
	return r
}

func TestExecutor_AnswersAfterToolCall(t *testing.T) {
	oracle := &scriptedOracle{decisions: []Decision{
		{Tool: "time", CallID: "call_1", Thought: "I should check the clock"},
		{Answer: "It is 09:30 AM."},
	}}
	exec := NewExecutor(oracle, newTestRegistry(t), 0)

	res, err := exec.Run(context.Background(), "What time is it?")
	require.NoError(t, err)

	assert.Equal(t, "It is 09:30 AM.", res.Answer)
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "call_1", res.Steps[0].CallID)
	assert.Equal(t, "09:30 AM", res.Steps[0].Observation)
	assert.False(t, res.Steps[0].Failed)
	assert.False(t, res.FinishedAt.Before(res.StartedAt))

	// The second turn must carry the first observation back to the oracle.
	require.Len(t, oracle.requests, 2)
	assert.Empty(t, oracle.requests[0].Steps)
	require.Len(t, oracle.requests[1].Steps, 1)
	assert.Equal(t, "09:30 AM", oracle.requests[1].Steps[0].Observation)
	assert.Len(t, oracle.requests[0].Tools, 2)
}

func TestExecutor_PasswordToolResult(t *testing.T) {
	oracle := &scriptedOracle{decisions: []Decision{
		{Tool: "secure_password_generator"},
		{Answer: "done"},
	}}
	exec := NewExecutor(oracle, newTestRegistry(t), 3)

	res, err := exec.Run(context.Background(), "Can you generate a secure password for me.")
	require.NoError(t, err)
	require.Len(t, res.Steps, 1)
	assert.Len(t, res.Steps[0].Observation, crypto.DefaultLength)
	assert.True(t, strings.HasPrefix(res.Steps[0].CallID, "call_"))
}

func TestExecutor_DirectAnswer(t *testing.T) {
	oracle := &scriptedOracle{decisions: []Decision{{Answer: "hello"}}}

	res, err := NewExecutor(oracle, newTestRegistry(t), 0).Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Answer)
	assert.Empty(t, res.Steps)
}

func TestExecutor_ToolErrorBecomesObservation(t *testing.T) {
	oracle := &scriptedOracle{decisions: []Decision{
		{Tool: "weather"},
		{Tool: "secure_password_generator", Args: map[string]any{"length": 2}},
		{Answer: "sorry"},
	}}

	res, err := NewExecutor(oracle, newTestRegistry(t), 0).Run(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, res.Steps, 2)
	assert.True(t, res.Steps[0].Failed)
	assert.Contains(t, res.Steps[0].Observation, "unknown tool")
	assert.True(t, res.Steps[1].Failed)
	assert.True(t, strings.HasPrefix(res.Steps[1].Observation, "error: "))
}

func TestExecutor_StepLimit(t *testing.T) {
	decisions := make([]Decision, 10)
	for i := range decisions {
		decisions[i] = Decision{Tool: "time"}
	}
	oracle := &scriptedOracle{decisions: decisions}

	res, err := NewExecutor(oracle, newTestRegistry(t), 2).Run(context.Background(), "loop")
	assert.ErrorIs(t, err, ErrMaxSteps)
	assert.Len(t, res.Steps, 2)
	assert.Empty(t, res.Answer)
}

func TestExecutor_EmptyDecision(t *testing.T) {
	oracle := &scriptedOracle{decisions: []Decision{{}}}

	_, err := NewExecutor(oracle, newTestRegistry(t), 0).Run(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNoDecision)
}

func TestExecutor_OracleError(t *testing.T) {
	boom := errors.New("model unavailable")
	oracle := &scriptedOracle{err: boom}

	_, err := NewExecutor(oracle, newTestRegistry(t), 0).Run(context.Background(), "q")
	assert.ErrorIs(t, err, boom)
}

func TestExecutor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	oracle := &scriptedOracle{decisions: []Decision{{Answer: "never"}}}

	_, err := NewExecutor(oracle, newTestRegistry(t), 0).Run(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, oracle.requests)
}

func TestNewOracle(t *testing.T) {
	_, err := NewOracle(OracleConfig{Provider: ProviderOpenAI})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewOracle(OracleConfig{Provider: "gemini", APIKey: "k"})
	assert.Error(t, err)

	o, err := NewOracle(OracleConfig{Provider: ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIOracle{}, o)
	assert.Equal(t, "gpt-4o", o.(*OpenAIOracle).model)

	o, err = NewOracle(OracleConfig{Provider: ProviderAnthropic, APIKey: "k", Model: "claude-x"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicOracle{}, o)
	assert.Equal(t, "claude-x", o.(*AnthropicOracle).model)
}

func TestParseArgs(t *testing.T) {
	args, err := parseArgs("")
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = parseArgs("null")
	require.NoError(t, err)
	assert.NotNil(t, args)

	args, err = parseArgs(`{"length": 16}`)
	require.NoError(t, err)
	assert.Equal(t, float64(16), args["length"])

	_, err = parseArgs("{")
	assert.Error(t, err)
}
