package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/vaultsim/internal/harness"
)

type scenarioOptions struct {
	*RootOptions
	Trace  bool
	Strict bool
}

// ScenarioReport is the output of the scenario command.
type ScenarioReport struct {
	Name   string               `json:"name"`
	Pass   bool                 `json:"pass"`
	Steps  int                  `json:"steps"`
	Errors []string             `json:"errors,omitempty"`
	Trace  []harness.TraceEvent `json:"trace,omitempty"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &scenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "Run a scenario against a throwaway sandbox",
		Long: `Run a scenario file against an in-memory sandbox with a fixed clock.

The scenario never touches --db. Exit code 1 means a step expectation or
assertion failed.

Example:
  vaultsim scenario testdata/scenarios/lock_and_cliff.yaml --trace`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "include the step trace in the output")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "validate create_vault params before running")

	return cmd
}

func runScenario(opts *scenarioOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
	}

	if opts.Strict {
		for i, step := range scenario.Steps {
			if step.Op != harness.OpCreateVault || step.Params == nil {
				continue
			}
			if err := ValidateVaultParams(*step.Params); err != nil {
				var pe *ParamsError
				if errors.As(err, &pe) {
					return formatter.Fail(ExitCommandError, ErrCodeInvalidParams,
						fmt.Sprintf("steps[%d]: invalid vault params", i), pe.Issues)
				}
				return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
			}
		}
	}

	level, err := parseLogLevel(opts.LogLevel)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --log-level", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), level, opts.Verbose)

	result, err := harness.RunWithLogger(scenario, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScenario, err.Error(), nil)
	}

	report := ScenarioReport{
		Name:   scenario.Name,
		Pass:   result.Pass,
		Steps:  len(result.Trace),
		Errors: result.Errors,
	}
	if opts.Trace {
		report.Trace = result.Trace
	}

	if err := formatter.Render(report, func(w io.Writer) {
		verdict := "PASS"
		if !report.Pass {
			verdict = "FAIL"
		}
		fmt.Fprintf(w, "%s %s (%d steps)\n", verdict, report.Name, report.Steps)
		for _, ev := range report.Trace {
			fmt.Fprintf(w, "  #%d %-12s offset=%-10d %v\n", ev.Seq, ev.Op, ev.Offset, ev.Result)
		}
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}); err != nil {
		return WrapExitError(ExitFailure, "failed to write output", err)
	}

	if !report.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", report.Name))
	}
	return nil
}
