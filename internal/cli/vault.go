package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/vaultsim/internal/engine"
	"github.com/roach88/vaultsim/internal/model"
)

// NewVaultCommand creates the vault command group.
func NewVaultCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "List, inspect, create and delete vaults",
	}

	cmd.AddCommand(newVaultListCommand(opts))
	cmd.AddCommand(newVaultShowCommand(opts))
	cmd.AddCommand(newVaultCreateCommand(opts))
	cmd.AddCommand(newVaultDeleteCommand(opts))

	return cmd
}

func newVaultListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List vaults",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			vaults := sess.snapshot().Vaults
			return sess.formatter.Render(vaults, func(w io.Writer) {
				if len(vaults) == 0 {
					fmt.Fprintln(w, "No vaults.")
					return
				}
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "SLUG\tNAME\tLOCK\tCLIFF\tAPY\tTVL\tSTATUS")
				for _, v := range vaults {
					fmt.Fprintf(tw, "%s\t%s\t%dm\t%dm\t%s\t%s\t%s\n",
						v.Slug, v.Name, v.LockPeriodMonths, v.YieldCliffMonths,
						formatAPY(v.CompositeAPY), formatAmount(v.CurrentTVL), v.Status)
				}
				_ = tw.Flush()
			})
		},
	}
}

// Projection previews yield on a hypothetical deposit.
type Projection struct {
	Amount float64 `json:"amount"`
	Months int     `json:"months"`
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
}

// VaultDetail is the output of vault show.
type VaultDetail struct {
	Vault      model.Vault     `json:"vault"`
	Deposits   []model.Deposit `json:"deposits"`
	Projection Projection      `json:"projection"`
}

type vaultShowOptions struct {
	*RootOptions
	Amount float64
	Months int
}

func newVaultShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &vaultShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a vault, its deposits and a yield projection",
		Long: `Show a vault, its deposits and a yield projection.

The projection covers --months (default: the lock period) for a deposit
of --amount, at the low and high ends of the vault's APY range.

Example:
  vaultsim vault show vault-2 --amount 5000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showVault(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Amount, "amount", 1000, "deposit amount to project")
	cmd.Flags().IntVar(&opts.Months, "months", 0, "projection horizon in months (0 = lock period)")

	return cmd
}

func showVault(opts *vaultShowOptions, slug string, cmd *cobra.Command) error {
	sess, err := openSession(cmd.Context(), cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer sess.Close()

	vault, err := sess.sandbox.RequireVault(slug)
	if err != nil {
		return sess.notFound(err)
	}

	months := opts.Months
	if months <= 0 {
		months = vault.LockPeriodMonths
	}
	low, high := engine.ProjectYield(vault, opts.Amount, months)

	detail := VaultDetail{
		Vault:      vault,
		Deposits:   sess.sandbox.DepositsForVault(slug),
		Projection: Projection{Amount: opts.Amount, Months: months, Low: low, High: high},
	}

	return sess.formatter.Render(detail, func(w io.Writer) {
		v := detail.Vault
		fmt.Fprintf(w, "%s  %s [%s]\n", v.Slug, v.Name, v.Status)
		if v.Description != "" {
			fmt.Fprintf(w, "  %s\n", v.Description)
		}
		fmt.Fprintf(w, "  Lock %d months, yield cliff %d months\n", v.LockPeriodMonths, v.YieldCliffMonths)
		fmt.Fprintf(w, "  APY %s\n", formatAPY(v.CompositeAPY))
		parts := make([]string, 0, len(v.Strategies))
		for _, s := range v.Strategies {
			parts = append(parts, fmt.Sprintf("%s %d%%", s.Name, s.Allocation))
		}
		fmt.Fprintf(w, "  Strategies: %s\n", strings.Join(parts, ", "))
		fmt.Fprintf(w, "  Fees: management %g%%, performance %g%%, withdrawal %g%%\n",
			v.Fees.ManagementFee, v.Fees.PerformanceFee, v.Fees.WithdrawalFee)
		fmt.Fprintf(w, "  TVL %s / cap %s, min deposit %s %s (chain %d)\n",
			formatAmount(v.CurrentTVL), formatAmount(v.TVLCap), formatAmount(v.MinDeposit), v.DepositToken, v.ChainID)
		fmt.Fprintf(w, "  Projected yield on %s over %d months: %s - %s\n",
			formatAmount(detail.Projection.Amount), months, formatAmount(low), formatAmount(high))
		fmt.Fprintln(w)
		writeDeposits(w, detail.Deposits)
	})
}

type vaultCreateOptions struct {
	*RootOptions
	File   string
	Params engine.VaultParams
}

func newVaultCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &vaultCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vault",
		Long: `Create a vault from flags or from a YAML/JSON params file.

Allocations must total 100, the yield cliff must not exceed the lock
period, and --apy-min must not exceed --apy-max.

Example:
  vaultsim vault create --name "Balanced" --stable 40 --lending 35 --liquidity 25 \
    --lock-months 12 --cliff-months 3 --apy-min 7 --apy-max 11
  vaultsim vault create --file params.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createVault(opts, cmd)
		},
	}

	p := &opts.Params
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read params from a YAML or JSON file (param flags are ignored)")
	cmd.Flags().StringVar(&p.Name, "name", "", "vault name")
	cmd.Flags().StringVar(&p.Description, "description", "", "vault description")
	cmd.Flags().IntVar(&p.Allocations.Stable, "stable", 100, "stable strategy allocation (percent)")
	cmd.Flags().IntVar(&p.Allocations.Lending, "lending", 0, "lending strategy allocation (percent)")
	cmd.Flags().IntVar(&p.Allocations.Liquidity, "liquidity", 0, "liquidity strategy allocation (percent)")
	cmd.Flags().IntVar(&p.LockPeriodMonths, "lock-months", 12, "lock period in months")
	cmd.Flags().IntVar(&p.YieldCliffMonths, "cliff-months", 0, "yield cliff in months")
	cmd.Flags().Float64Var(&p.APYMin, "apy-min", 0, "lower APY bound (percent)")
	cmd.Flags().Float64Var(&p.APYMax, "apy-max", 0, "upper APY bound (percent)")
	cmd.Flags().Float64Var(&p.TVLCap, "tvl-cap", 0, "TVL cap (0 = uncapped)")
	cmd.Flags().Float64Var(&p.MinDeposit, "min-deposit", 0, "minimum deposit")
	cmd.Flags().Float64Var(&p.Fees.ManagementFee, "management-fee", 0, "management fee (percent)")
	cmd.Flags().Float64Var(&p.Fees.PerformanceFee, "performance-fee", 0, "performance fee (percent)")
	cmd.Flags().Float64Var(&p.Fees.WithdrawalFee, "withdrawal-fee", 0, "withdrawal fee (percent)")
	cmd.Flags().StringVar(&p.DepositToken, "token", "", "deposit token symbol (default USDC)")
	cmd.Flags().Int64Var(&p.ChainID, "chain-id", 0, "chain id (default 1)")

	return cmd
}

func createVault(opts *vaultCreateOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	params := opts.Params
	if opts.File != "" {
		fromFile, err := loadVaultParams(opts.File)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
		}
		params = fromFile
	}

	if err := ValidateVaultParams(params); err != nil {
		var pe *ParamsError
		if errors.As(err, &pe) {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidParams, "invalid vault params", pe.Issues)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	sess, err := openSession(cmd.Context(), cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer sess.Close()

	slug, ok := sess.sandbox.CreateVault(cmd.Context(), params)
	if !ok {
		return sess.formatter.Fail(ExitFailure, ErrCodeGeneric, "vault was not created", nil)
	}
	vault, err := sess.sandbox.RequireVault(slug)
	if err != nil {
		return sess.notFound(err)
	}
	sess.logger.Debug("vault created", "slug", slug)

	return sess.formatter.Render(vault, func(w io.Writer) {
		fmt.Fprintf(w, "Created %s (%s)\n", vault.Slug, vault.Name)
	})
}

func loadVaultParams(path string) (engine.VaultParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.VaultParams{}, fmt.Errorf("failed to read params file: %w", err)
	}

	var params engine.VaultParams
	// JSON documents are valid YAML, so one decoder covers both.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&params); err != nil {
		return engine.VaultParams{}, fmt.Errorf("failed to parse params file %s: %w", path, err)
	}
	return params, nil
}

func newVaultDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <slug>",
		Short:         "Delete a vault and all of its deposits",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			slug := args[0]
			if _, err := sess.sandbox.RequireVault(slug); err != nil {
				return sess.notFound(err)
			}
			removed := len(sess.sandbox.DepositsForVault(slug))
			sess.sandbox.DeleteVault(cmd.Context(), slug)

			data := map[string]any{"slug": slug, "deletedDeposits": removed}
			return sess.formatter.Render(data, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %s and %d deposit(s)\n", slug, removed)
			})
		},
	}
}

func formatAPY(r model.APYRange) string {
	return fmt.Sprintf("%g-%g%%", r.Min(), r.Max())
}
