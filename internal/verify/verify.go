// Package verify executes catalog attempts in a sandbox and checks each one
// behaves the way its commentary claims.
package verify

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/catalog"
	"github.com/hadywafa/DatabaseHub/internal/sandbox"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of running one attempt.
type Outcome struct {
	Label   string          `json:"label"`
	Verdict catalog.Verdict `json:"verdict"`
	Passed  bool            `json:"passed"`
	Detail  string          `json:"detail,omitempty"`

	// Rows is what the engine returned, nil when the statement failed.
	Rows     [][]string    `json:"rows,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report collects the outcomes of a single problem.
type Report struct {
	ProblemID  string    `json:"problem_id"`
	Title      string    `json:"title"`
	Outcomes   []Outcome `json:"outcomes"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (r *Report) Passed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Passed {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Passed()
}

func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Summary totals a batch of reports.
type Summary struct {
	Problems int `json:"problems"`
	Attempts int `json:"attempts"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
}

func Summarize(reports []*Report) Summary {
	s := Summary{Problems: len(reports)}
	for _, r := range reports {
		s.Attempts += len(r.Outcomes)
		s.Passed += r.Passed()
		s.Failed += r.Failed()
	}
	return s
}

// OpenFunc creates a sandbox. Replaced in tests.
type OpenFunc func(ctx context.Context) (*sandbox.Sandbox, error)

type Verifier struct {
	open        OpenFunc
	concurrency int
	timeout     time.Duration
	logger      zerolog.Logger
}

type Option func(*Verifier)

// WithConcurrency bounds VerifyAll. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(v *Verifier) {
		if n >= 1 {
			v.concurrency = n
		}
	}
}

// WithTimeout caps each attempt.
func WithTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		v.timeout = d
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(v *Verifier) {
		v.logger = l
	}
}

func WithOpener(open OpenFunc) Option {
	return func(v *Verifier) {
		v.open = open
	}
}

func New(opts ...Option) *Verifier {
	v := &Verifier{
		open:        sandbox.Open,
		concurrency: 4,
		timeout:     5 * time.Second,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyProblem runs every attempt of p in one fresh sandbox.
func (v *Verifier) VerifyProblem(ctx context.Context, p catalog.Problem) (*Report, error) {
	report := &Report{
		ProblemID: p.ID,
		Title:     p.Title,
		StartedAt: time.Now().UTC(),
	}

	sb, err := v.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", p.ID, err)
	}
	defer sb.Close()

	for _, a := range p.Attempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Outcomes = append(report.Outcomes, v.runAttempt(ctx, sb, p, a))
	}

	report.FinishedAt = time.Now().UTC()

	v.logger.Debug().
		Str("problem_id", p.ID).
		Int("passed", report.Passed()).
		Int("failed", report.Failed()).
		Msg("problem verified")

	return report, nil
}

func (v *Verifier) runAttempt(ctx context.Context, sb *sandbox.Sandbox, p catalog.Problem, a catalog.Attempt) Outcome {
	out := Outcome{Label: a.Label, Verdict: a.Verdict}

	runCtx := ctx
	if v.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := sb.Query(runCtx, a.SQL)
	out.Duration = time.Since(start)

	if err != nil {
		out.Error = err.Error()
	} else {
		out.Rows = res.Rows
	}

	out.Passed, out.Detail = judge(p, a, res, err)
	return out
}

// judge decides whether an attempt behaved as documented.
func judge(p catalog.Problem, a catalog.Attempt, res *sandbox.Result, err error) (bool, string) {
	switch a.Verdict {
	case catalog.VerdictDone:
		if err != nil {
			return false, "expected rows, got error: " + err.Error()
		}
		if !RowsEqual(p.Expected, res.Rows, p.Ordered) {
			return false, fmt.Sprintf("expected %v, got %v", p.Expected, res.Rows)
		}
		return true, ""

	case catalog.VerdictWrong:
		if a.Failure == nil {
			return false, "wrong attempt has no failure expectation"
		}

		switch a.Failure.Kind {
		case catalog.FailureError:
			if err == nil {
				return false, "expected an error, statement succeeded"
			}
			if strings.TrimSpace(a.Failure.Contains) == "" {
				return false, "error attempt names no expected message"
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(a.Failure.Contains)) {
				return false, fmt.Sprintf("error %q does not mention %q", err.Error(), a.Failure.Contains)
			}
			return true, ""

		case catalog.FailureMismatch:
			if err != nil {
				return false, "expected a wrong result, got error: " + err.Error()
			}
			if RowsEqual(p.Expected, res.Rows, p.Ordered) {
				return false, "documented as wrong but returned the expected rows"
			}
			return true, ""
		}
	}

	return false, fmt.Sprintf("unsupported attempt %q", a.Verdict)
}

// VerifyAll verifies problems concurrently. Reports keep the input order.
func (v *Verifier) VerifyAll(ctx context.Context, problems []catalog.Problem) ([]*Report, error) {
	reports := make([]*Report, len(problems))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)

	for i, p := range problems {
		g.Go(func() error {
			r, err := v.VerifyProblem(gctx, p)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// RowsEqual compares result sets. Unordered comparison treats both sides
// as multisets.
func RowsEqual(want, got [][]string, ordered bool) bool {
	if len(want) != len(got) {
		return false
	}

	if !ordered {
		want = sortedRows(want)
		got = sortedRows(got)
	}

	for i := range want {
		if len(want[i]) != len(got[i]) {
			return false
		}
		for j := range want[i] {
			if want[i][j] != got[i][j] {
				return false
			}
		}
	}
	return true
}

func sortedRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool {
		return strings.Join(out[i], "\x00") < strings.Join(out[j], "\x00")
	})
	return out
}

// WriteText prints a human-readable report.
func WriteText(w io.Writer, reports []*Report) error {
	for _, r := range reports {
		status := "ok"
		if !r.OK() {
			status = "FAIL"
		}
		if _, err := fmt.Fprintf(w, "%-4s %s (%d/%d)\n", status, r.ProblemID, r.Passed(), len(r.Outcomes)); err != nil {
			return err
		}

		for _, o := range r.Outcomes {
			mark := "+"
			if !o.Passed {
				mark = "x"
			}
			line := fmt.Sprintf("  %s %-5s %s", mark, o.Verdict, o.Label)
			if o.Detail != "" {
				line += ": " + o.Detail
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	s := Summarize(reports)
	_, err := fmt.Fprintf(w, "\n%d problems, %d attempts, %d passed, %d failed\n",
		s.Problems, s.Attempts, s.Passed, s.Failed)
	return err
}
