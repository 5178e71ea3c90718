package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/lib/email"
	"github.com/hadywafa/DatabaseHub/internal/verify"
	"github.com/hibiken/asynq"
)

// Runner verifies problems and persists the runs. When only storing fails
// it returns the reports together with the error.
type Runner interface {
	RunAndRecord(ctx context.Context, problemIDs []string) ([]*verify.Report, error)
}

type Mailer interface {
	SendVerificationReport(ctx context.Context, to string, data email.ReportData) error
}

func (j *JobService) handleVerifyTask(ctx context.Context, t *asynq.Task) error {
	var p VerifyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal verify payload: %w: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().Strs("problem_ids", p.ProblemIDs).Msg("processing verify task")

	reports, err := j.runner.RunAndRecord(ctx, p.ProblemIDs)
	if err != nil {
		if reports == nil {
			j.logger.Error().Err(err).Strs("problem_ids", p.ProblemIDs).Msg("verify task failed")
			return err
		}
		// Some runs are stored already; retrying would store them again.
		j.logger.Error().Err(err).Strs("problem_ids", p.ProblemIDs).Msg("failed to store some verification runs")
	}

	summary := verify.Summarize(reports)
	j.logger.Info().
		Int("problems", summary.Problems).
		Int("passed", summary.Passed).
		Int("failed", summary.Failed).
		Msg("verify task finished")

	if !p.Notify || j.recipient == "" {
		return nil
	}

	task, err := NewVerificationReportTask(j.recipient, email.NewReportData(reports, time.Now()))
	if err != nil {
		return err
	}
	if _, err := j.enqueue.EnqueueContext(ctx, task); err != nil {
		j.logger.Error().Err(err).Msg("failed to enqueue verification report email")
	}
	return nil
}

func (j *JobService) handleVerificationReportTask(ctx context.Context, t *asynq.Task) error {
	var p VerificationReportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal verification report payload: %w: %w", err, asynq.SkipRetry)
	}

	if j.mailer == nil {
		j.logger.Warn().Str("to", p.To).Msg("email not configured, dropping verification report")
		return nil
	}

	if err := j.mailer.SendVerificationReport(ctx, p.To, p.Data); err != nil {
		j.logger.Error().Err(err).Str("to", p.To).Msg("failed to send verification report")
		return err
	}

	j.logger.Info().Str("to", p.To).Msg("sent verification report")
	return nil
}
