package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hadywafa/DatabaseHub/internal/errs"
	"github.com/hadywafa/DatabaseHub/internal/metrics"
	"github.com/hadywafa/DatabaseHub/internal/repository"
	"github.com/hadywafa/DatabaseHub/internal/verify"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// RunStore persists verification runs.
type RunStore interface {
	Create(ctx context.Context, run *repository.VerificationRun) (*repository.VerificationRun, error)
	Get(ctx context.Context, id uuid.UUID) (*repository.VerificationRun, error)
	ListByProblem(ctx context.Context, problemID string, limit int) ([]repository.VerificationRun, error)
}

// Enqueuer pushes verify tasks onto the job queue.
type Enqueuer interface {
	EnqueueVerify(ctx context.Context, problemIDs []string) (*asynq.TaskInfo, error)
}

// EnqueuedVerification describes a queued verify task.
type EnqueuedVerification struct {
	TaskID     string   `json:"taskId"`
	Queue      string   `json:"queue"`
	ProblemIDs []string `json:"problemIds"`
}

type VerificationService struct {
	catalog  *CatalogService
	verifier *verify.Verifier
	runs     RunStore
	jobs     Enqueuer
	logger   zerolog.Logger
}

func NewVerificationService(
	catalog *CatalogService,
	verifier *verify.Verifier,
	runs RunStore,
	jobs Enqueuer,
	logger zerolog.Logger,
) *VerificationService {
	return &VerificationService{
		catalog:  catalog,
		verifier: verifier,
		runs:     runs,
		jobs:     jobs,
		logger:   logger.With().Str("component", "verification").Logger(),
	}
}

// Verify runs every attempt of one problem and stores the run.
func (s *VerificationService) Verify(ctx context.Context, problemID string) (*repository.VerificationRun, error) {
	p, err := s.catalog.Get(problemID)
	if err != nil {
		return nil, err
	}

	report, err := s.verifier.VerifyProblem(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to verify problem %s: %w", problemID, err)
	}
	observe(report)

	return s.record(ctx, report)
}

// RunAndRecord verifies problemIDs (all when empty) and stores one run per
// problem. Reports are returned even when some runs could not be stored.
func (s *VerificationService) RunAndRecord(ctx context.Context, problemIDs []string) ([]*verify.Report, error) {
	problems, err := s.catalog.Resolve(problemIDs)
	if err != nil {
		return nil, err
	}

	reports, err := s.verifier.VerifyAll(ctx, problems)
	if err != nil {
		return nil, fmt.Errorf("failed to verify problems: %w", err)
	}

	var storeErrs []error
	for _, r := range reports {
		observe(r)
		if _, err := s.record(ctx, r); err != nil {
			storeErrs = append(storeErrs, err)
		}
	}

	return reports, errors.Join(storeErrs...)
}

func (s *VerificationService) record(ctx context.Context, report *verify.Report) (*repository.VerificationRun, error) {
	run, err := s.runs.Create(ctx, repository.NewVerificationRun(report))
	if err != nil {
		s.logger.Error().Err(err).Str("problem_id", report.ProblemID).Msg("failed to store verification run")
		return nil, err
	}

	s.logger.Info().
		Str("problem_id", report.ProblemID).
		Str("run_id", run.ID.String()).
		Int("passed", run.Passed).
		Int("failed", run.Failed).
		Msg("verification run stored")

	return run, nil
}

// Enqueue queues a background verification. Ids are checked against the
// catalog first so a typo fails the request instead of the task.
func (s *VerificationService) Enqueue(ctx context.Context, problemIDs []string) (*EnqueuedVerification, error) {
	if _, err := s.catalog.Resolve(problemIDs); err != nil {
		return nil, err
	}

	if s.jobs == nil {
		return nil, errs.NewServiceUnavailableError("Background jobs are not available")
	}

	info, err := s.jobs.EnqueueVerify(ctx, problemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue verification: %w", err)
	}

	ids := problemIDs
	if ids == nil {
		ids = []string{}
	}

	return &EnqueuedVerification{
		TaskID:     info.ID,
		Queue:      info.Queue,
		ProblemIDs: ids,
	}, nil
}

// ListRuns returns the newest runs of a known problem.
func (s *VerificationService) ListRuns(ctx context.Context, problemID string, limit int) ([]repository.VerificationRun, error) {
	if _, err := s.catalog.Get(problemID); err != nil {
		return nil, err
	}
	return s.runs.ListByProblem(ctx, problemID, limit)
}

func (s *VerificationService) GetRun(ctx context.Context, id uuid.UUID) (*repository.VerificationRun, error) {
	return s.runs.Get(ctx, id)
}

func observe(r *verify.Report) {
	metrics.VerificationDuration.Observe(r.FinishedAt.Sub(r.StartedAt).Seconds())
	for _, o := range r.Outcomes {
		result := "passed"
		if !o.Passed {
			result = "failed"
		}
		metrics.AttemptsVerified.WithLabelValues(r.ProblemID, result).Inc()
	}
}
