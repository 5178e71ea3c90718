package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hadywafa/DatabaseHub/internal/sqlerr"
	"github.com/hadywafa/DatabaseHub/internal/verify"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultRunLimit and MaxRunLimit bound ListByProblem.
const (
	DefaultRunLimit = 20
	MaxRunLimit     = 100
)

// VerificationRun is one persisted verification of a problem.
type VerificationRun struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	ProblemID  string         `json:"problemId" db:"problem_id"`
	Passed     int            `json:"passed" db:"passed"`
	Failed     int            `json:"failed" db:"failed"`
	Report     *verify.Report `json:"report" db:"report"`
	StartedAt  time.Time      `json:"startedAt" db:"started_at"`
	FinishedAt time.Time      `json:"finishedAt" db:"finished_at"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
}

// NewVerificationRun builds an unsaved run from a report.
func NewVerificationRun(r *verify.Report) *VerificationRun {
	return &VerificationRun{
		ID:         uuid.New(),
		ProblemID:  r.ProblemID,
		Passed:     r.Passed(),
		Failed:     r.Failed(),
		Report:     r,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// DBTX is the subset of pgxpool.Pool the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RunRepository struct {
	db DBTX
}

func NewRunRepository(db DBTX) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, problem_id, passed, failed, report, started_at, finished_at, created_at`

func (r *RunRepository) Create(ctx context.Context, run *VerificationRun) (*VerificationRun, error) {
	stmt := `
		INSERT INTO databasehub.verification_runs
			(id, problem_id, passed, failed, report, started_at, finished_at)
		VALUES
			(@id, @problem_id, @passed, @failed, @report, @started_at, @finished_at)
		RETURNING ` + runColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"id":          run.ID,
		"problem_id":  run.ProblemID,
		"passed":      run.Passed,
		"failed":      run.Failed,
		"report":      run.Report,
		"started_at":  run.StartedAt,
		"finished_at": run.FinishedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert verification run for problem %s: %w", run.ProblemID, err)
	}

	saved, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[VerificationRun])
	if err != nil {
		return nil, fmt.Errorf("failed to collect verification run for problem %s: %w", run.ProblemID, err)
	}
	return saved, nil
}

func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (*VerificationRun, error) {
	stmt := `SELECT ` + runColumns + ` FROM databasehub.verification_runs WHERE id = @id`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to query verification run %s: %w", id, err)
	}

	run, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[VerificationRun])
	if err != nil {
		return nil, sqlerr.WithTable("verification_runs", err)
	}
	return run, nil
}

// ListByProblem returns the newest runs first. limit is clamped to
// [1, MaxRunLimit]; zero means DefaultRunLimit.
func (r *RunRepository) ListByProblem(ctx context.Context, problemID string, limit int) ([]VerificationRun, error) {
	stmt := `
		SELECT ` + runColumns + `
		FROM databasehub.verification_runs
		WHERE problem_id = @problem_id
		ORDER BY started_at DESC, id
		LIMIT @limit`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"problem_id": problemID,
		"limit":      ClampRunLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list verification runs for problem %s: %w", problemID, err)
	}

	runs, err := pgx.CollectRows(rows, pgx.RowToStructByName[VerificationRun])
	if err != nil {
		return nil, fmt.Errorf("failed to collect verification runs for problem %s: %w", problemID, err)
	}
	if runs == nil {
		runs = []VerificationRun{}
	}
	return runs, nil
}

func ClampRunLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRunLimit
	case limit > MaxRunLimit:
		return MaxRunLimit
	default:
		return limit
	}
}
