package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/vaultsim/internal/model"
)

type advanceOptions struct {
	*RootOptions
	Seconds int64
	Days    int64
	Months  int64
}

func (o *advanceOptions) total() int64 {
	return o.Seconds + o.Days*24*60*60 + o.Months*model.MonthSeconds
}

// NewAdvanceCommand creates the advance command.
func NewAdvanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &advanceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Move virtual time forward",
		Long: `Move virtual time forward and recompute every deposit.

The skip is the sum of --seconds, --days and --months (a month is 30 days).

Example:
  vaultsim advance --months 3
  vaultsim advance --days 10 --seconds 3600`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			seconds := opts.total()
			if seconds <= 0 {
				return formatter.Fail(ExitCommandError, ErrCodeBadInput,
					"advance needs a positive --seconds, --days or --months", nil)
			}

			sess, err := openSession(cmd.Context(), cmd, opts.RootOptions)
			if err != nil {
				return err
			}
			defer sess.Close()

			sess.sandbox.AdvanceTime(cmd.Context(), seconds)
			sess.logger.Debug("time advanced", "seconds", seconds)

			return renderStatus(sess.formatter, sess.status(cmd.Context()))
		},
	}

	cmd.Flags().Int64Var(&opts.Seconds, "seconds", 0, "seconds to skip")
	cmd.Flags().Int64Var(&opts.Days, "days", 0, "days to skip")
	cmd.Flags().Int64Var(&opts.Months, "months", 0, "30-day months to skip")

	return cmd
}

// NewResetCommand creates the reset command.
func NewResetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the fixture vaults and deposits",
		Long: `Restore the fixture vaults and deposits and clear the time offset.

The saved snapshot is replaced.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			sess.sandbox.Reset(cmd.Context())
			st := sess.status(cmd.Context())

			return sess.formatter.Render(st, func(w io.Writer) {
				fmt.Fprintf(w, "Reset to %d vaults and %d deposits\n", st.Vaults, st.Deposits)
			})
		},
	}
}
