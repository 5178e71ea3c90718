// Package cli defines the databasehub command tree.
package cli

import (
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ErrVerificationFailed is returned when at least one attempt did not
// behave as documented.
var ErrVerificationFailed = errors.New("verification failed")

// RootOptions holds flags shared by every command.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "databasehub",
		Short: "SQL practice catalog, study notes and AdventureWorks API",
		Long: `databasehub serves the practice catalog and AdventureWorks sample queries
over HTTP, and verifies every catalog attempt against a seeded sandbox.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewProblemsCommand(opts))
	cmd.AddCommand(NewEmailPreviewCommand(opts))

	return cmd
}

// cliLogger is the console logger for offline commands. Server commands
// build theirs from configuration instead.
func cliLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
