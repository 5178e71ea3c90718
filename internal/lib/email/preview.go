package email

import "github.com/hadywafa/DatabaseHub/internal/verify"

// PreviewData is sample input per template, used by `databasehub email-preview`.
var PreviewData = map[Template]any{
	TemplateVerificationReport: ReportData{
		Summary: verify.Summary{Problems: 3, Attempts: 7, Passed: 6, Failed: 1},
		Problems: []ReportProblem{
			{ID: "departments-without-employees", Title: "Departments that have no employees", Passed: 3},
			{
				ID: "management-chain", Title: "Management chain of an employee", Passed: 1, Failed: 1,
				Failures: []string{"walk-down (wrong): documented as wrong but returned the expected rows"},
			},
			{ID: "products-never-ordered", Title: "Products that were never ordered", Passed: 2},
		},
		GeneratedAt: "Mon, 19 Oct 2026 08:00:00 UTC",
	},
}
