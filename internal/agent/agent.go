// Package agent runs a reason-act loop: an Oracle picks a tool or an answer,
// the Executor invokes the chosen tool and feeds the observation back.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/passagent/passagent-go/internal/tool"
)

// DefaultMaxSteps bounds the number of tool calls in one run.
const DefaultMaxSteps = 5

var (
	ErrMaxSteps   = errors.New("agent stopped after reaching the step limit")
	ErrNoDecision = errors.New("oracle returned neither a tool call nor an answer")
)

// Oracle chooses the next action for a query given the tools and the steps so far.
type Oracle interface {
	Decide(ctx context.Context, req Request) (Decision, error)
}

// Request is what an Oracle sees on each turn.
type Request struct {
	Query string
	Tools []tool.Spec
	Steps []Step
}

// Decision is an Oracle's reply: either a tool call (Tool set) or a final Answer.
type Decision struct {
	Tool    string
	Args    map[string]any
	CallID  string
	Thought string
	Answer  string
}

// Step records one tool call and its observation.
type Step struct {
	CallID      string         `json:"call_id"`
	Tool        string         `json:"tool"`
	Args        map[string]any `json:"args,omitempty"`
	Thought     string         `json:"thought,omitempty"`
	Observation string         `json:"observation"`
	Failed      bool           `json:"failed,omitempty"`
}

// Result is the outcome of a run. It is returned alongside errors so callers
// can inspect the steps taken before the failure.
type Result struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	Answer     string    `json:"answer"`
	Steps      []Step    `json:"steps"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Executor drives an Oracle against a tool Registry.
type Executor struct {
	oracle   Oracle
	registry *tool.Registry
	maxSteps int
}

// NewExecutor creates an Executor. A non-positive maxSteps uses DefaultMaxSteps.
func NewExecutor(oracle Oracle, registry *tool.Registry, maxSteps int) *Executor {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Executor{oracle: oracle, registry: registry, maxSteps: maxSteps}
}

// Tools returns the specs offered to the oracle.
func (e *Executor) Tools() []tool.Spec {
	return e.registry.Specs()
}

// Run answers query, calling tools as the oracle directs.
func (e *Executor) Run(ctx context.Context, query string) (Result, error) {
	res := Result{
		ID:        uuid.NewString(),
		Query:     query,
		Steps:     []Step{},
		StartedAt: time.Now().UTC(),
	}
	finish := func(err error) (Result, error) {
		res.FinishedAt = time.Now().UTC()
		return res, err
	}

	specs := e.registry.Specs()
	for {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		d, err := e.oracle.Decide(ctx, Request{Query: query, Tools: specs, Steps: res.Steps})
		if err != nil {
			return finish(fmt.Errorf("oracle decision: %w", err))
		}

		if d.Tool == "" {
			if d.Answer == "" {
				return finish(ErrNoDecision)
			}
			res.Answer = d.Answer
			slog.Debug("agent answered", "run_id", res.ID, "steps", len(res.Steps))
			return finish(nil)
		}

		if len(res.Steps) >= e.maxSteps {
			return finish(fmt.Errorf("%w (%d)", ErrMaxSteps, e.maxSteps))
		}

		callID := d.CallID
		if callID == "" {
			callID = "call_" + uuid.NewString()
		}

		step := Step{CallID: callID, Tool: d.Tool, Args: d.Args, Thought: d.Thought}
		out, err := e.registry.Invoke(ctx, d.Tool, d.Args)
		if err != nil {
			slog.Warn("tool call failed", "run_id", res.ID, "tool", d.Tool, "error", err)
			step.Observation = "error: " + err.Error()
			step.Failed = true
		} else {
			slog.Debug("tool call", "run_id", res.ID, "tool", d.Tool)
			step.Observation = out
		}
		res.Steps = append(res.Steps, step)
	}
}
