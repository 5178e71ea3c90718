package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hadywafa/DatabaseHub/internal/catalog"
	"github.com/hadywafa/DatabaseHub/internal/middleware"
	"github.com/hadywafa/DatabaseHub/internal/repository"
	"github.com/hadywafa/DatabaseHub/internal/server"
	"github.com/hadywafa/DatabaseHub/internal/service"
	"github.com/labstack/echo/v4"
)

type problemCatalog interface {
	List(topic string) []service.ProblemSummary
	Get(id string) (catalog.Problem, error)
}

type verifications interface {
	Verify(ctx context.Context, problemID string) (*repository.VerificationRun, error)
	Enqueue(ctx context.Context, problemIDs []string) (*service.EnqueuedVerification, error)
	ListRuns(ctx context.Context, problemID string, limit int) ([]repository.VerificationRun, error)
	GetRun(ctx context.Context, id uuid.UUID) (*repository.VerificationRun, error)
}

// ProblemHandler serves the practice catalog and its verification runs.
type ProblemHandler struct {
	Handler
	catalog       problemCatalog
	verifications verifications
}

func NewProblemHandler(s *server.Server, c problemCatalog, v verifications) *ProblemHandler {
	return &ProblemHandler{
		Handler:       NewHandler(s),
		catalog:       c,
		verifications: v,
	}
}

func (h *ProblemHandler) ListProblems(c echo.Context, req *ListProblemsRequest) ([]service.ProblemSummary, error) {
	return h.catalog.List(req.Topic), nil
}

func (h *ProblemHandler) GetProblem(c echo.Context, req *ProblemRequest) (catalog.Problem, error) {
	return h.catalog.Get(req.ID)
}

// ExportProblem renders every attempt of a problem as one annotated SQL script.
func (h *ProblemHandler) ExportProblem(c echo.Context, req *ProblemRequest) ([]byte, error) {
	p, err := h.catalog.Get(req.ID)
	if err != nil {
		return nil, err
	}
	return []byte(RenderScript(p)), nil
}

// VerifyProblem runs the problem synchronously and returns the stored run.
func (h *ProblemHandler) VerifyProblem(c echo.Context, req *ProblemRequest) (*repository.VerificationRun, error) {
	return h.verifications.Verify(c.Request().Context(), req.ID)
}

func (h *ProblemHandler) ListRuns(c echo.Context, req *ListRunsRequest) ([]repository.VerificationRun, error) {
	return h.verifications.ListRuns(c.Request().Context(), req.ID, req.Limit)
}

func (h *ProblemHandler) GetRun(c echo.Context, req *RunRequest) (*repository.VerificationRun, error) {
	// The uuid tag already validated the format.
	return h.verifications.GetRun(c.Request().Context(), uuid.MustParse(req.ID))
}

// EnqueueVerification queues a background run; it needs an authenticated user.
func (h *ProblemHandler) EnqueueVerification(c echo.Context, req *EnqueueVerificationRequest) (*service.EnqueuedVerification, error) {
	queued, err := h.verifications.Enqueue(c.Request().Context(), req.ProblemIDs)
	if err != nil {
		return nil, err
	}

	middleware.GetLogger(c).Info().
		Str("task_id", queued.TaskID).
		Str("requested_by", middleware.GetUserID(c)).
		Msg("verification queued")

	return queued, nil
}

// RenderScript lays a problem out as a runnable SQL file with each attempt
// commented with its verdict.
func RenderScript(p catalog.Problem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "-- %s\n-- topic: %s\n", p.Title, p.Topic)
	for _, line := range strings.Split(strings.TrimSpace(p.Prompt), "\n") {
		fmt.Fprintf(&b, "-- %s\n", strings.TrimSpace(line))
	}

	for _, a := range p.Attempts {
		fmt.Fprintf(&b, "\n-- [%s] %s\n", a.Verdict, a.Label)
		if note := strings.TrimSpace(a.Note); note != "" {
			for _, line := range strings.Split(note, "\n") {
				fmt.Fprintf(&b, "-- %s\n", strings.TrimSpace(line))
			}
		}
		sql := strings.TrimRight(strings.TrimSpace(a.SQL), ";")
		b.WriteString(sql)
		b.WriteString(";\n")
	}

	return b.String()
}
