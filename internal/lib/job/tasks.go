package job

import (
	"encoding/json"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/lib/email"
	"github.com/hibiken/asynq"
)

const (
	// TaskVerify re-verifies catalog problems in the sandbox.
	TaskVerify = "catalog:verify"

	// TaskVerificationReport emails a verification summary.
	TaskVerificationReport = "email:verification_report"
)

// VerifyPayload names the problems to verify. Empty ProblemIDs means all.
type VerifyPayload struct {
	ProblemIDs []string `json:"problem_ids,omitempty"`

	// Notify emails a report when the run finishes.
	Notify bool `json:"notify"`
}

type VerificationReportPayload struct {
	To   string           `json:"to"`
	Data email.ReportData `json:"data"`
}

func NewVerifyTask(problemIDs []string, notify bool) (*asynq.Task, error) {
	payload, err := json.Marshal(VerifyPayload{ProblemIDs: problemIDs, Notify: notify})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskVerify,
		payload,
		asynq.MaxRetry(2),
		asynq.Queue("default"),
		asynq.Timeout(2*time.Minute),
	), nil
}

func NewVerificationReportTask(to string, data email.ReportData) (*asynq.Task, error) {
	payload, err := json.Marshal(VerificationReportPayload{To: to, Data: data})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskVerificationReport,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
