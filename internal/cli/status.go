package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show virtual time, totals and storage state",
		Long: `Show virtual time, vault and deposit counts, total TVL and yield.

Example:
  vaultsim status
  vaultsim status --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			return renderStatus(sess.formatter, sess.status(cmd.Context()))
		},
	}
}

// NewNowCommand creates the now command.
func NewNowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "now",
		Short:         "Print virtual now",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			st := sess.status(cmd.Context())
			data := map[string]any{
				"now":               st.Now,
				"nowTime":           st.NowTime,
				"timeOffsetSeconds": st.TimeOffsetSeconds,
			}
			return sess.formatter.Render(data, func(w io.Writer) {
				fmt.Fprintf(w, "%d %s\n", st.Now, st.NowTime)
			})
		},
	}
}

func renderStatus(f *OutputFormatter, st StatusView) error {
	return f.Render(st, func(w io.Writer) {
		storage := "sqlite"
		if !st.Storage {
			storage = "none"
		}
		fmt.Fprintf(w, "Now:      %s (offset %s)\n", st.NowTime, formatDays(st.TimeOffsetSeconds))
		fmt.Fprintf(w, "Vaults:   %d\n", st.Vaults)
		fmt.Fprintf(w, "Deposits: %d\n", st.Deposits)
		fmt.Fprintf(w, "TVL:      %s\n", formatAmount(st.TotalTVL))
		fmt.Fprintf(w, "Pending:  %s\n", formatAmount(st.PendingYield))
		fmt.Fprintf(w, "Claimed:  %s\n", formatAmount(st.ClaimedYield))
		fmt.Fprintf(w, "Storage:  %s\n", storage)
		fmt.Fprintf(w, "Key:      %s\n", st.StorageKey)
		if len(st.StoredKeys) > 0 {
			fmt.Fprintf(w, "Stored:   %s\n", strings.Join(st.StoredKeys, ", "))
		}
	})
}
