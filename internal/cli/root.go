package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/vaultsim/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // empty runs without storage
	Key      string
	LogLevel string

	// Clock replaces the wall clock. Nil means engine.SystemClock.
	Clock engine.Clock

	configErr error
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vaultsim CLI, with flag
// defaults taken from the environment.
func NewRootCommand() *cobra.Command {
	cfg, err := LoadConfig()
	opts := &RootOptions{configErr: err}
	return newRootCommand(opts, cfg)
}

func newRootCommand(opts *RootOptions, cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaultsim",
		Short: "vaultsim - time-travel vault sandbox",
		Long: `A sandbox for yield vaults with lock periods and yield cliffs.

Vaults and deposits live in a local SQLite file. Virtual time can be
advanced to watch deposits accrue yield, pass their cliff and mature.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", opts.configErr)
			}
			if !isValidFormat(opts.Format) {
				return WrapExitError(ExitCommandError, "invalid --format",
					fmt.Errorf("%q is not one of %v", opts.Format, ValidFormats))
			}
			if _, err := parseLogLevel(opts.LogLevel); err != nil {
				return WrapExitError(ExitCommandError, "invalid --log-level", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", cfg.Database, "SQLite database path (empty runs without storage)")
	cmd.PersistentFlags().StringVar(&opts.Key, "key", cfg.StorageKey, "storage key the snapshot is saved under")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")

	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewNowCommand(opts))
	cmd.AddCommand(NewVaultCommand(opts))
	cmd.AddCommand(NewDepositCommand(opts))
	cmd.AddCommand(NewAdvanceCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// Execute runs the root command with args and returns the process exit
// code. Errors not already reported by a command are printed to stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	return execute(NewRootCommand(), args, stdout, stderr)
}

func execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		// Errors without a cause were already written by the command.
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitErr.Code
	}
	// Usage errors from cobra (unknown flag, wrong arg count).
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitCommandError
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func (o *RootOptions) clock() engine.Clock {
	if o.Clock == nil {
		return engine.SystemClock{}
	}
	return o.Clock
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
