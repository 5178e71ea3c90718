package job

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hadywafa/DatabaseHub/internal/config"
	"github.com/hadywafa/DatabaseHub/internal/lib/email"
	"github.com/hadywafa/DatabaseHub/internal/verify"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRunner struct{ mock.Mock }

func (m *mockRunner) RunAndRecord(ctx context.Context, ids []string) ([]*verify.Report, error) {
	args := m.Called(ctx, ids)
	reports, _ := args.Get(0).([]*verify.Report)
	return reports, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendVerificationReport(ctx context.Context, to string, data email.ReportData) error {
	return m.Called(ctx, to, data).Error(0)
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func newTestService(recipient string) (*JobService, *fakeEnqueuer, *bytes.Buffer) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	enq := &fakeEnqueuer{}
	return &JobService{enqueue: enq, logger: &log, recipient: recipient}, enq, &buf
}

func report(id string, passed bool) *verify.Report {
	return &verify.Report{ProblemID: id, Outcomes: []verify.Outcome{{Label: "a", Passed: passed}}}
}

func TestHandleVerifyTaskNotifies(t *testing.T) {
	j, enq, _ := newTestService("me@example.com")

	runner := &mockRunner{}
	runner.On("RunAndRecord", mock.Anything, []string{"p1"}).
		Return([]*verify.Report{report("p1", false)}, nil)
	j.InitHandlers(runner, nil)

	task, err := NewVerifyTask([]string{"p1"}, true)
	require.NoError(t, err)
	require.NoError(t, j.handleVerifyTask(context.Background(), task))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TaskVerificationReport, enq.tasks[0].Type())

	var p VerificationReportPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &p))
	assert.Equal(t, "me@example.com", p.To)
	assert.Equal(t, 1, p.Data.Summary.Failed)
	runner.AssertExpectations(t)
}

func TestHandleVerifyTaskWithoutRecipient(t *testing.T) {
	j, enq, _ := newTestService("")

	runner := &mockRunner{}
	runner.On("RunAndRecord", mock.Anything, []string(nil)).
		Return([]*verify.Report{report("p1", true)}, nil)
	j.InitHandlers(runner, nil)

	task, err := NewVerifyTask(nil, true)
	require.NoError(t, err)
	require.NoError(t, j.handleVerifyTask(context.Background(), task))
	assert.Empty(t, enq.tasks)
}

func TestHandleVerifyTaskErrors(t *testing.T) {
	j, _, _ := newTestService("")
	boom := errors.New("boom")

	runner := &mockRunner{}
	runner.On("RunAndRecord", mock.Anything, mock.Anything).Return(nil, boom)
	j.InitHandlers(runner, nil)

	task, err := NewVerifyTask(nil, false)
	require.NoError(t, err)
	assert.ErrorIs(t, j.handleVerifyTask(context.Background(), task), boom)

	bad := asynq.NewTask(TaskVerify, []byte("{"))
	assert.ErrorIs(t, j.handleVerifyTask(context.Background(), bad), asynq.SkipRetry)
}

func TestHandleVerifyTaskPartialStoreFailureIsNotRetried(t *testing.T) {
	j, enq, buf := newTestService("me@example.com")

	runner := &mockRunner{}
	runner.On("RunAndRecord", mock.Anything, mock.Anything).
		Return([]*verify.Report{report("p1", true), report("p2", true)}, errors.New("insert run p2: connection reset")).
		Once()
	j.InitHandlers(runner, nil)

	task, err := NewVerifyTask(nil, true)
	require.NoError(t, err)
	require.NoError(t, j.handleVerifyTask(context.Background(), task))

	assert.Contains(t, buf.String(), "failed to store some verification runs")
	assert.Contains(t, buf.String(), "connection reset")
	require.Len(t, enq.tasks, 1)

	var p VerificationReportPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &p))
	assert.Equal(t, 2, p.Data.Summary.Problems)
	runner.AssertNumberOfCalls(t, "RunAndRecord", 1)
}

func TestHandleVerifyTaskSurvivesEnqueueFailure(t *testing.T) {
	j, enq, buf := newTestService("me@example.com")
	enq.err = errors.New("redis down")

	runner := &mockRunner{}
	runner.On("RunAndRecord", mock.Anything, mock.Anything).Return([]*verify.Report{report("p1", true)}, nil)
	j.InitHandlers(runner, nil)

	task, err := NewVerifyTask(nil, true)
	require.NoError(t, err)
	require.NoError(t, j.handleVerifyTask(context.Background(), task))
	assert.Contains(t, buf.String(), "failed to enqueue verification report email")
}

func TestHandleVerificationReportTask(t *testing.T) {
	j, _, buf := newTestService("me@example.com")

	task, err := NewVerificationReportTask("me@example.com", email.ReportData{GeneratedAt: "now"})
	require.NoError(t, err)

	// No mailer: dropped, not retried.
	require.NoError(t, j.handleVerificationReportTask(context.Background(), task))
	assert.Contains(t, buf.String(), "email not configured")

	mailer := &mockMailer{}
	mailer.On("SendVerificationReport", mock.Anything, "me@example.com", email.ReportData{GeneratedAt: "now"}).
		Return(nil).Once()
	j.InitHandlers(&mockRunner{}, mailer)
	require.NoError(t, j.handleVerificationReportTask(context.Background(), task))

	boom := errors.New("provider down")
	mailer.On("SendVerificationReport", mock.Anything, mock.Anything, mock.Anything).Return(boom).Once()
	assert.ErrorIs(t, j.handleVerificationReportTask(context.Background(), task), boom)

	mailer.AssertExpectations(t)
}

func TestEnqueueVerify(t *testing.T) {
	j, enq, _ := newTestService("")

	info, err := j.EnqueueVerify(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, TaskVerify, info.Type)

	var p VerifyPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &p))
	assert.Equal(t, []string{"a", "b"}, p.ProblemIDs)
	assert.False(t, p.Notify)
}

func TestStartRequiresHandlers(t *testing.T) {
	j, _, _ := newTestService("")
	assert.EqualError(t, j.Start(), "job handlers not initialized")
}

func TestNewJobService(t *testing.T) {
	log := zerolog.Nop()
	cfg := &config.Config{
		Redis:   config.RedisConfig{Address: "localhost:6379"},
		Catalog: &config.CatalogConfig{VerifyConcurrency: 2, VerifySchedule: "@daily"},
		Integration: config.IntegrationConfig{
			ResendAPIKey:    "re_test",
			ReportRecipient: "me@example.com",
		},
	}

	j := NewJobService(&log, cfg)
	t.Cleanup(func() { _ = j.Client.Close() })

	assert.NotNil(t, j.scheduler)
	assert.Equal(t, "@daily", j.schedule)
	assert.Equal(t, "me@example.com", j.recipient)
}

func TestMuxRoutesTasks(t *testing.T) {
	j, _, _ := newTestService("")
	runner := &mockRunner{}
	runner.On("RunAndRecord", mock.Anything, mock.Anything).Return([]*verify.Report{}, nil)
	j.InitHandlers(runner, nil)

	task, err := NewVerifyTask(nil, false)
	require.NoError(t, err)
	require.NoError(t, j.Mux().ProcessTask(context.Background(), task))
	runner.AssertCalled(t, "RunAndRecord", mock.Anything, mock.Anything)
}

func TestAsynqLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewAsynqLogger(zerolog.New(&buf))

	l.Info("worker ", 3, " started")
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"message":"worker 3 started"`)
}
