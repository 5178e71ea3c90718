package email

import (
	"context"
	"fmt"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/verify"
)

// ReportData feeds the verification_report template.
type ReportData struct {
	Summary     verify.Summary  `json:"summary"`
	Problems    []ReportProblem `json:"problems"`
	GeneratedAt string          `json:"generated_at"`
}

type ReportProblem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Passed   int      `json:"passed"`
	Failed   int      `json:"failed"`
	Failures []string `json:"failures,omitempty"`
}

// NewReportData flattens verifier reports for the template.
func NewReportData(reports []*verify.Report, now time.Time) ReportData {
	data := ReportData{
		Summary:     verify.Summarize(reports),
		Problems:    make([]ReportProblem, 0, len(reports)),
		GeneratedAt: now.UTC().Format(time.RFC1123),
	}

	for _, r := range reports {
		p := ReportProblem{ID: r.ProblemID, Title: r.Title, Passed: r.Passed(), Failed: r.Failed()}
		for _, o := range r.Outcomes {
			if !o.Passed {
				p.Failures = append(p.Failures, fmt.Sprintf("%s (%s): %s", o.Label, o.Verdict, o.Detail))
			}
		}
		data.Problems = append(data.Problems, p)
	}
	return data
}

// ReportSubject is "all passing" or the failure count.
func ReportSubject(data ReportData) string {
	if data.Summary.Failed == 0 {
		return fmt.Sprintf("Catalog verification: all %d attempts passing", data.Summary.Attempts)
	}
	return fmt.Sprintf("Catalog verification: %d of %d attempts failing", data.Summary.Failed, data.Summary.Attempts)
}

func (c *Client) SendVerificationReport(ctx context.Context, to string, data ReportData) error {
	return c.SendEmail(ctx, to, ReportSubject(data), TemplateVerificationReport, data)
}
