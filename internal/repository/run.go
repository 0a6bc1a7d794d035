package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/passagent/passagent-go/internal/model"
)

var ErrRunNotFound = errors.New("agent run not found")

const defaultRunLimit = 50

// RunRepository persists agent runs.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run. Steps must be a JSON array.
func (r *RunRepository) Create(ctx context.Context, run *model.AgentRun) error {
	query := `INSERT INTO agent_runs (id, user_id, query, answer, steps, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	steps := run.Steps
	if len(steps) == 0 {
		steps = []byte("[]")
	}

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.UserID,
		run.Query,
		run.Answer,
		string(steps),
		run.Error,
		run.StartedAt,
		run.FinishedAt,
	)
	return err
}

// GetByID retrieves a run owned by userID.
func (r *RunRepository) GetByID(ctx context.Context, userID int64, id string) (*model.AgentRun, error) {
	query := `SELECT id, user_id, query, answer, steps, error, started_at, finished_at
		FROM agent_runs WHERE user_id = ? AND id = ?`

	run := &model.AgentRun{}
	var steps string
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(
		&run.ID, &run.UserID, &run.Query, &run.Answer, &steps,
		&run.Error, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	run.Steps = []byte(steps)

	return run, nil
}

// ListByUser returns up to limit runs for a user, most recent first.
// A non-positive limit uses the default of 50.
func (r *RunRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.AgentRun, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}

	query := `SELECT id, user_id, query, answer, steps, error, started_at, finished_at
		FROM agent_runs WHERE user_id = ? ORDER BY started_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.AgentRun
	for rows.Next() {
		var run model.AgentRun
		var steps string
		if err := rows.Scan(
			&run.ID, &run.UserID, &run.Query, &run.Answer, &steps,
			&run.Error, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, err
		}
		run.Steps = []byte(steps)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
