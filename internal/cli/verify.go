package cli

import (
	"fmt"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/catalog"
	"github.com/hadywafa/DatabaseHub/internal/lib/utils"
	"github.com/hadywafa/DatabaseHub/internal/verify"
	"github.com/spf13/cobra"
)

type verifyOptions struct {
	json        bool
	concurrency int
	timeout     time.Duration
}

// verifyOutput is the --json document.
type verifyOutput struct {
	Summary verify.Summary   `json:"summary"`
	Reports []*verify.Report `json:"reports"`
}

func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify [problem-id...]",
		Short: "Run catalog attempts against the sandbox",
		Long: `Run every attempt of the given problems (all problems when none are given)
against a freshly seeded in-memory sandbox and check each one behaves as its
notes claim. Exits non-zero when any attempt fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, rootOpts, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print reports as JSON")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", 4, "problems verified in parallel")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-attempt timeout")

	return cmd
}

func runVerify(cmd *cobra.Command, rootOpts *RootOptions, opts *verifyOptions, ids []string) error {
	c, err := catalog.Default()
	if err != nil {
		return err
	}

	problems, err := selectProblems(c, ids)
	if err != nil {
		return err
	}

	verifier := verify.New(
		verify.WithConcurrency(opts.concurrency),
		verify.WithTimeout(opts.timeout),
		verify.WithLogger(cliLogger(cmd.ErrOrStderr(), rootOpts.Verbose)),
	)

	reports, err := verifier.VerifyAll(cmd.Context(), problems)
	if err != nil {
		return err
	}

	summary := verify.Summarize(reports)

	if opts.json {
		err = utils.PrintJSON(cmd.OutOrStdout(), verifyOutput{Summary: summary, Reports: reports})
	} else {
		err = verify.WriteText(cmd.OutOrStdout(), reports)
	}
	if err != nil {
		return err
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d attempts", ErrVerificationFailed, summary.Failed, summary.Attempts)
	}
	return nil
}

func selectProblems(c *catalog.Catalog, ids []string) ([]catalog.Problem, error) {
	if len(ids) == 0 {
		return c.All(), nil
	}

	problems := make([]catalog.Problem, 0, len(ids))
	for _, id := range ids {
		p, err := c.Get(id)
		if err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}
	return problems, nil
}
