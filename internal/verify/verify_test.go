package verify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hadywafa/DatabaseHub/internal/catalog"
	"github.com/hadywafa/DatabaseHub/internal/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogAttemptsBehaveAsDocumented(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	reports, err := New(WithConcurrency(3)).VerifyAll(context.Background(), c.All())
	require.NoError(t, err)
	require.Len(t, reports, c.Len())

	for i, r := range reports {
		assert.Equal(t, c.All()[i].ID, r.ProblemID)
		for _, o := range r.Outcomes {
			assert.True(t, o.Passed, "%s/%s: %s", r.ProblemID, o.Label, o.Detail)
		}
	}

	s := Summarize(reports)
	assert.Equal(t, c.Len(), s.Problems)
	assert.Zero(t, s.Failed)
	assert.Equal(t, s.Attempts, s.Passed)
}

func problem(attempts ...catalog.Attempt) catalog.Problem {
	return catalog.Problem{
		ID:       "p",
		Title:    "test",
		Topic:    "joins",
		Ordered:  true,
		Expected: [][]string{{"Legal"}},
		Attempts: attempts,
	}
}

func TestVerifyProblemDetectsBrokenAttempts(t *testing.T) {
	p := problem(
		catalog.Attempt{
			Label:   "wrong-rows",
			Verdict: catalog.VerdictDone,
			SQL:     "SELECT DepartmentName FROM Departments WHERE DepartmentID = 1;",
		},
		catalog.Attempt{
			Label:   "errors-instead",
			Verdict: catalog.VerdictDone,
			SQL:     "SELECT * FROM Nope;",
		},
		catalog.Attempt{
			Label:   "mismatch-but-correct",
			Verdict: catalog.VerdictWrong,
			Failure: &catalog.Failure{Kind: catalog.FailureMismatch},
			SQL:     "SELECT DepartmentName FROM Departments WHERE DepartmentID = 4;",
		},
		catalog.Attempt{
			Label:   "error-but-succeeds",
			Verdict: catalog.VerdictWrong,
			Failure: &catalog.Failure{Kind: catalog.FailureError, Contains: "syntax"},
			SQL:     "SELECT 1;",
		},
		catalog.Attempt{
			Label:   "error-other-message",
			Verdict: catalog.VerdictWrong,
			Failure: &catalog.Failure{Kind: catalog.FailureError, Contains: "misuse of aggregate"},
			SQL:     "SELECT * FROM Nope;",
		},
	)

	r, err := New().VerifyProblem(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, r.Outcomes, 5)
	assert.Zero(t, r.Passed())
	assert.Equal(t, 5, r.Failed())
	assert.False(t, r.OK())

	assert.Contains(t, r.Outcomes[0].Detail, "expected [[Legal]], got [[Engineering]]")
	assert.Contains(t, r.Outcomes[1].Detail, "no such table")
	assert.Equal(t, "documented as wrong but returned the expected rows", r.Outcomes[2].Detail)
	assert.Equal(t, "expected an error, statement succeeded", r.Outcomes[3].Detail)
	assert.Contains(t, r.Outcomes[4].Detail, `does not mention "misuse of aggregate"`)
	assert.NotEmpty(t, r.Outcomes[4].Error)
	assert.Nil(t, r.Outcomes[4].Rows)
}

func TestVerifyProblemPasses(t *testing.T) {
	p := problem(
		catalog.Attempt{
			Label:   "ok",
			Verdict: catalog.VerdictDone,
			SQL:     "SELECT DepartmentName FROM Departments WHERE DepartmentID = 4;",
		},
		catalog.Attempt{
			Label:   "bad-syntax",
			Verdict: catalog.VerdictWrong,
			Failure: &catalog.Failure{Kind: catalog.FailureError, Contains: "SYNTAX ERROR"},
			SQL:     "SELEC 1;",
		},
	)

	r, err := New().VerifyProblem(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, r.OK())
	assert.Equal(t, [][]string{{"Legal"}}, r.Outcomes[0].Rows)
	assert.False(t, r.FinishedAt.Before(r.StartedAt))
}

func TestVerifyProblemErrorAttemptNeedsMessage(t *testing.T) {
	p := problem(
		catalog.Attempt{
			Label:   "ok",
			Verdict: catalog.VerdictDone,
			SQL:     "SELECT DepartmentName FROM Departments WHERE DepartmentID = 4;",
		},
		catalog.Attempt{
			Label:   "any-error",
			Verdict: catalog.VerdictWrong,
			Failure: &catalog.Failure{Kind: catalog.FailureError},
			SQL:     "SELEC 1;",
		},
	)

	r, err := New().VerifyProblem(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, r.OK())
	assert.Equal(t, "error attempt names no expected message", r.Outcomes[1].Detail)
}

func TestVerifyAllPropagatesOpenErrors(t *testing.T) {
	boom := errors.New("boom")
	v := New(WithOpener(func(context.Context) (*sandbox.Sandbox, error) {
		return nil, boom
	}))

	_, err := v.VerifyAll(context.Background(), []catalog.Problem{problem()})
	require.ErrorIs(t, err, boom)
}

func TestVerifyProblemCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := problem(catalog.Attempt{Verdict: catalog.VerdictDone, SQL: "SELECT 1;"})
	_, err := New().VerifyProblem(ctx, p)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRowsEqual(t *testing.T) {
	a := [][]string{{"1", "x"}, {"2", "y"}}
	b := [][]string{{"2", "y"}, {"1", "x"}}

	assert.True(t, RowsEqual(a, a, true))
	assert.False(t, RowsEqual(a, b, true))
	assert.True(t, RowsEqual(a, b, false))
	assert.False(t, RowsEqual(a, a[:1], false))
	assert.False(t, RowsEqual([][]string{{"1"}}, [][]string{{"1", "2"}}, true))
	assert.True(t, RowsEqual([][]string{}, [][]string{}, true))

	// Multiset: duplicates count.
	assert.False(t, RowsEqual(
		[][]string{{"1"}, {"1"}, {"2"}},
		[][]string{{"1"}, {"2"}, {"2"}},
		false,
	))

	// Unordered comparison must not reorder the caller's slices.
	assert.Equal(t, "2", b[0][0])
}

func TestWriteText(t *testing.T) {
	reports := []*Report{
		{
			ProblemID: "alpha",
			Outcomes: []Outcome{
				{Label: "a", Verdict: catalog.VerdictDone, Passed: true},
				{Label: "b", Verdict: catalog.VerdictWrong, Passed: false, Detail: "nope"},
			},
		},
		{
			ProblemID: "beta",
			Outcomes:  []Outcome{{Label: "c", Verdict: catalog.VerdictDone, Passed: true}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reports))

	out := buf.String()
	assert.Contains(t, out, "FAIL alpha (1/2)")
	assert.Contains(t, out, "  + done  a\n")
	assert.Contains(t, out, "  x wrong b: nope\n")
	assert.Contains(t, out, "ok   beta (1/1)")
	assert.Contains(t, out, "2 problems, 3 attempts, 2 passed, 1 failed")
}
