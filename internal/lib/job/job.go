// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - tasks are enqueued with asynq.Client
//   - asynq.Server runs the workers
//   - asynq.Scheduler enqueues the periodic verify-all task
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobService holds the Asynq client, worker server and scheduler.
//
// Handler dependencies are attached with InitHandlers before Start.
type JobService struct {
	Client *asynq.Client

	enqueue   enqueuer
	server    *asynq.Server
	scheduler *asynq.Scheduler
	schedule  string
	logger    *zerolog.Logger

	runner    Runner
	mailer    Mailer
	recipient string
}

// NewJobService builds the client, server and scheduler against cfg.Redis.
//
// Queue weights: critical 6, default 3, low 1 (report emails go to low).
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}
	jobLogger := logger.With().Str("component", "jobs").Logger()

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
		Logger: NewAsynqLogger(jobLogger),
	})

	j := &JobService{
		Client:   client,
		enqueue:  client,
		server:   server,
		logger:   &jobLogger,
		schedule: cfg.Catalog.VerifySchedule,
	}

	if j.schedule != "" {
		j.scheduler = asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
			Location: time.UTC,
			Logger:   NewAsynqLogger(jobLogger),
		})
	}

	if cfg.Integration.EmailEnabled() {
		j.recipient = cfg.Integration.ReportRecipient
	}

	return j
}

// InitHandlers attaches the dependencies task handlers need.
// mailer may be nil when email is not configured.
func (j *JobService) InitHandlers(runner Runner, mailer Mailer) {
	j.runner = runner
	j.mailer = mailer
}

// Mux routes task types to handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskVerify, j.handleVerifyTask)
	mux.HandleFunc(TaskVerificationReport, j.handleVerificationReportTask)
	return mux
}

// Start launches the workers and, when configured, the scheduler.
// Neither call blocks.
func (j *JobService) Start() error {
	if j.runner == nil {
		return fmt.Errorf("job handlers not initialized")
	}

	j.logger.Info().Msg("starting background job server")
	if err := j.server.Start(j.Mux()); err != nil {
		return fmt.Errorf("start job server: %w", err)
	}

	if j.scheduler != nil {
		task, err := NewVerifyTask(nil, j.recipient != "")
		if err != nil {
			return err
		}

		entryID, err := j.scheduler.Register(j.schedule, task)
		if err != nil {
			return fmt.Errorf("register verify schedule %q: %w", j.schedule, err)
		}

		if err := j.scheduler.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}

		j.logger.Info().Str("schedule", j.schedule).Str("entry_id", entryID).Msg("scheduled catalog verification")
	}

	return nil
}

// EnqueueVerify queues a verification of problemIDs (all when empty).
func (j *JobService) EnqueueVerify(ctx context.Context, problemIDs []string) (*asynq.TaskInfo, error) {
	task, err := NewVerifyTask(problemIDs, j.recipient != "")
	if err != nil {
		return nil, err
	}
	return j.enqueue.EnqueueContext(ctx, task)
}

// Stop shuts down the scheduler and workers and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	if j.scheduler != nil {
		j.scheduler.Shutdown()
	}
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("closing job client")
	}
}
