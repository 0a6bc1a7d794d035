package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/passagent/passagent-go/internal/agent"
	"github.com/passagent/passagent-go/internal/model"
	"github.com/passagent/passagent-go/internal/repository"
)

var (
	ErrQueryRequired = errors.New("query is required")
	ErrQueryTooLong  = errors.New("query must be at most 4000 characters")
	ErrAgentDisabled = errors.New("agent is not configured")
	ErrRunNotFound   = errors.New("agent run not found")
)

const maxQueryLength = 4000

// Runner executes one agent query.
type Runner interface {
	Run(ctx context.Context, query string) (agent.Result, error)
}

// RunStore persists agent runs.
type RunStore interface {
	Create(ctx context.Context, run *model.AgentRun) error
	GetByID(ctx context.Context, userID int64, id string) (*model.AgentRun, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.AgentRun, error)
}

// AgentService runs agent queries on behalf of users and keeps their history.
type AgentService struct {
	runner Runner
	store  RunStore
}

// NewAgentService creates a new AgentService. A nil runner disables Run.
func NewAgentService(runner Runner, store RunStore) *AgentService {
	return &AgentService{runner: runner, store: store}
}

// Run answers query and records the run. The response is populated even when
// the run fails so callers can report the steps taken.
func (s *AgentService) Run(ctx context.Context, userID int64, query string) (model.RunResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.RunResponse{}, ErrQueryRequired
	}
	if len(query) > maxQueryLength {
		return model.RunResponse{}, ErrQueryTooLong
	}
	if s.runner == nil {
		return model.RunResponse{}, ErrAgentDisabled
	}

	res, runErr := s.runner.Run(ctx, query)

	run := model.AgentRun{
		ID:         res.ID,
		UserID:     userID,
		Query:      query,
		Answer:     res.Answer,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	steps, err := json.Marshal(toRunSteps(res.Steps))
	if err != nil {
		return model.RunResponse{}, err
	}
	run.Steps = steps

	if s.store != nil && run.ID != "" {
		// The answer is still returned if history cannot be written.
		if err := s.store.Create(ctx, &run); err != nil {
			slog.Warn("failed to persist agent run", "run_id", run.ID, "error", err)
		}
	}

	resp, err := runToResponse(run)
	if err != nil {
		return model.RunResponse{}, err
	}
	return resp, runErr
}

// ListRuns returns the most recent runs of a user.
func (s *AgentService) ListRuns(ctx context.Context, userID int64, limit int) ([]model.RunResponse, error) {
	runs, err := s.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]model.RunResponse, 0, len(runs))
	for _, run := range runs {
		resp, err := runToResponse(run)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// GetRun returns one run owned by userID.
func (s *AgentService) GetRun(ctx context.Context, userID int64, id string) (model.RunResponse, error) {
	run, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			return model.RunResponse{}, ErrRunNotFound
		}
		return model.RunResponse{}, err
	}
	return runToResponse(*run)
}

func toRunSteps(steps []agent.Step) []model.RunStep {
	out := make([]model.RunStep, len(steps))
	for i, s := range steps {
		out[i] = model.RunStep{
			Tool:        s.Tool,
			Args:        s.Args,
			Observation: s.Observation,
			Failed:      s.Failed,
		}
	}
	return out
}

func runToResponse(run model.AgentRun) (model.RunResponse, error) {
	steps := []model.RunStep{}
	if len(run.Steps) > 0 {
		if err := json.Unmarshal(run.Steps, &steps); err != nil {
			return model.RunResponse{}, err
		}
	}

	return model.RunResponse{
		ID:         run.ID,
		Query:      run.Query,
		Answer:     run.Answer,
		Steps:      steps,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}, nil
}
