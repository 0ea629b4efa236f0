package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/vaultsim/internal/engine"
	"github.com/roach88/vaultsim/internal/model"
)

// NewDepositCommand creates the deposit command group.
func NewDepositCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "List, open, withdraw and claim deposits",
	}

	cmd.AddCommand(newDepositListCommand(opts))
	cmd.AddCommand(newDepositCreateCommand(opts))
	cmd.AddCommand(newDepositWithdrawCommand(opts))
	cmd.AddCommand(newDepositClaimCommand(opts))

	return cmd
}

type depositListOptions struct {
	*RootOptions
	Vault string
}

func newDepositListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &depositListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List deposits",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd, opts.RootOptions)
			if err != nil {
				return err
			}
			defer sess.Close()

			deposits := sess.snapshot().Deposits
			if opts.Vault != "" {
				if _, err := sess.sandbox.RequireVault(opts.Vault); err != nil {
					return sess.notFound(err)
				}
				deposits = sess.sandbox.DepositsForVault(opts.Vault)
			}
			if deposits == nil {
				deposits = []model.Deposit{}
			}

			return sess.formatter.Render(deposits, func(w io.Writer) {
				writeDeposits(w, deposits)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Vault, "vault", "", "only deposits in this vault")

	return cmd
}

type depositCreateOptions struct {
	*RootOptions
	Force bool
}

func newDepositCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &depositCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create <slug> <amount>",
		Short: "Open a deposit at virtual now",
		Long: `Open a deposit at virtual now.

The amount is checked against the vault's minimum deposit and TVL cap
unless --force is given.

Example:
  vaultsim deposit create vault-2 2500`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createDeposit(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "skip minimum deposit and TVL cap checks")

	return cmd
}

func createDeposit(opts *depositCreateOptions, slug, rawAmount string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	amount, err := parseAmount(rawAmount)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
	}

	sess, err := openSession(cmd.Context(), cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer sess.Close()

	vault, err := sess.sandbox.RequireVault(slug)
	if err != nil {
		return sess.notFound(err)
	}

	if !opts.Force {
		if err := engine.CheckDeposit(vault, amount); err != nil {
			var de *engine.DepositError
			if errors.As(err, &de) {
				return sess.formatter.Fail(ExitFailure, ErrCodeDepositLimit, de.Message, map[string]any{
					"reason": de.Code,
					"vault":  de.VaultSlug,
					"amount": de.Amount,
				})
			}
			return sess.formatter.Fail(ExitFailure, ErrCodeDepositLimit, err.Error(), nil)
		}
	}

	id, ok := sess.sandbox.CreateDeposit(cmd.Context(), slug, amount)
	if !ok {
		return sess.formatter.Fail(ExitFailure, ErrCodeGeneric, "deposit was not created", nil)
	}
	dep, err := sess.sandbox.RequireDeposit(id)
	if err != nil {
		return sess.notFound(err)
	}

	return sess.formatter.Render(dep, func(w io.Writer) {
		fmt.Fprintf(w, "Deposit #%d: %s into %s, matures %s, cliff %s\n",
			dep.ID, formatAmount(dep.Amount), dep.VaultSlug,
			formatUnix(dep.MaturityTimestamp), formatUnix(dep.YieldCliffTimestamp))
	})
}

func newDepositWithdrawCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "withdraw <id>",
		Short:         "Withdraw (close) a deposit",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			id, err := parseDepositID(args[0])
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
			}

			sess, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			dep, err := sess.sandbox.RequireDeposit(id)
			if err != nil {
				return sess.notFound(err)
			}
			if dep.LockStatus != model.LockMatured {
				sess.logger.Info("withdrawing before maturity", "deposit", id, "progress", dep.ProgressPercent)
			}
			sess.sandbox.DeleteDeposit(cmd.Context(), id)

			return sess.formatter.Render(dep, func(w io.Writer) {
				fmt.Fprintf(w, "Withdrew deposit #%d: %s from %s (%s, %d%%)\n",
					dep.ID, formatAmount(dep.Amount), dep.VaultSlug, dep.LockStatus, dep.ProgressPercent)
			})
		},
	}
}

// ClaimResult is the output of deposit claim.
type ClaimResult struct {
	ID           int64   `json:"id"`
	Claimed      float64 `json:"claimed"`
	ClaimedYield float64 `json:"claimedYield"`
}

func newDepositClaimCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "claim <id>",
		Short:         "Claim a deposit's pending yield",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			id, err := parseDepositID(args[0])
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
			}

			sess, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			before, err := sess.sandbox.RequireDeposit(id)
			if err != nil {
				return sess.notFound(err)
			}
			sess.sandbox.ClaimYield(cmd.Context(), id)
			after, err := sess.sandbox.RequireDeposit(id)
			if err != nil {
				return sess.notFound(err)
			}

			res := ClaimResult{ID: id, Claimed: before.PendingYield, ClaimedYield: after.ClaimedYield}
			return sess.formatter.Render(res, func(w io.Writer) {
				fmt.Fprintf(w, "Claimed %s from deposit #%d (total claimed %s)\n",
					formatAmount(res.Claimed), res.ID, formatAmount(res.ClaimedYield))
			})
		},
	}
}

func writeDeposits(w io.Writer, deposits []model.Deposit) {
	if len(deposits) == 0 {
		fmt.Fprintln(w, "No deposits.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVAULT\tAMOUNT\tDEPOSITED\tMATURES\tPROGRESS\tPENDING\tCLAIMED\tSTATUS")
	for _, d := range deposits {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d%%\t%s\t%s\t%s\n",
			d.ID, d.VaultSlug, formatAmount(d.Amount),
			formatUnix(d.DepositTimestamp), formatUnix(d.MaturityTimestamp),
			d.ProgressPercent, formatAmount(d.PendingYield), formatAmount(d.ClaimedYield), d.LockStatus)
	}
	_ = tw.Flush()
}

func parseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", s)
	}
	return d.InexactFloat64(), nil
}

func parseDepositID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid deposit id %q", s)
	}
	return id, nil
}
