package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/vaultsim/internal/model"
)

// Vault defaults applied by CreateVault when params leave them unset.
const (
	DefaultDepositToken = "USDC"
	DefaultChainID      = int64(1)
)

// Allocations splits a vault across the three strategy buckets, in percent.
type Allocations struct {
	Stable    int `json:"stable" yaml:"stable"`
	Lending   int `json:"lending" yaml:"lending"`
	Liquidity int `json:"liquidity" yaml:"liquidity"`
}

// Total sums the three buckets.
func (a Allocations) Total() int {
	return a.Stable + a.Lending + a.Liquidity
}

// VaultParams is the caller-supplied configuration for a new vault.
//
// Allocations are expected to total 100. CreateVault does not check this;
// see cli.ValidateVaultParams for the caller-side check.
type VaultParams struct {
	Name             string      `json:"name" yaml:"name"`
	Description      string      `json:"description" yaml:"description"`
	Allocations      Allocations `json:"allocations" yaml:"allocations"`
	LockPeriodMonths int         `json:"lockPeriodMonths" yaml:"lockPeriodMonths"`
	YieldCliffMonths int         `json:"yieldCliffMonths" yaml:"yieldCliffMonths"`
	Fees             model.Fees  `json:"fees" yaml:"fees"`
	TVLCap           float64     `json:"tvlCap" yaml:"tvlCap"`
	MinDeposit       float64     `json:"minDeposit" yaml:"minDeposit"`
	APYMin           float64     `json:"apyMin" yaml:"apyMin"`
	APYMax           float64     `json:"apyMax" yaml:"apyMax"`
	DepositToken     string      `json:"depositToken,omitempty" yaml:"depositToken,omitempty"`
	ChainID          int64       `json:"chainId,omitempty" yaml:"chainId,omitempty"`
}

// VaultSlug derives the slug for a vault index.
func VaultSlug(index int64) string {
	return fmt.Sprintf("vault-%d", index)
}

// CreateVault appends a vault built from params and returns its slug.
// The slug comes from NextVaultIndex, which is then incremented; slugs of
// deleted vaults are never handed out again.
func CreateVault(snap model.Snapshot, params VaultParams) (model.Snapshot, string) {
	next := snap.Clone()

	slug := VaultSlug(next.NextVaultIndex)
	for next.VaultIndex(slug) >= 0 {
		// A fixture or hand-edited snapshot may already hold this slug.
		next.NextVaultIndex++
		slug = VaultSlug(next.NextVaultIndex)
	}

	token := params.DepositToken
	if token == "" {
		token = DefaultDepositToken
	}
	chainID := params.ChainID
	if chainID == 0 {
		chainID = DefaultChainID
	}

	next.Vaults = append(next.Vaults, model.Vault{
		Slug:             slug,
		Name:             strings.TrimSpace(model.NormalizeText(params.Name)),
		Description:      model.NormalizeText(params.Description),
		Strategies:       buildStrategies(params.Allocations),
		LockPeriodMonths: params.LockPeriodMonths,
		YieldCliffMonths: params.YieldCliffMonths,
		Fees:             params.Fees,
		TVLCap:           params.TVLCap,
		DepositToken:     token,
		ChainID:          chainID,
		Status:           model.VaultActive,
		MinDeposit:       params.MinDeposit,
		CompositeAPY:     model.APYRange{params.APYMin, params.APYMax},
	})
	next.NextVaultIndex++

	return next, slug
}

func buildStrategies(a Allocations) []model.Strategy {
	alloc := map[model.StrategyKind]int{
		model.StrategyStable:    a.Stable,
		model.StrategyLending:   a.Lending,
		model.StrategyLiquidity: a.Liquidity,
	}
	out := make([]model.Strategy, 0, len(model.StrategyKinds))
	for _, kind := range model.StrategyKinds {
		out = append(out, model.Strategy{
			Kind:       kind,
			Name:       model.StrategyName(kind),
			Allocation: alloc[kind],
		})
	}
	return out
}

// DeleteVault removes the vault and every deposit referencing it.
func DeleteVault(snap model.Snapshot, slug string) model.Snapshot {
	if snap.VaultIndex(slug) < 0 {
		return snap
	}
	next := snap.Clone()

	vaults := next.Vaults[:0]
	for _, v := range next.Vaults {
		if v.Slug != slug {
			vaults = append(vaults, v)
		}
	}
	next.Vaults = vaults

	deposits := next.Deposits[:0]
	for _, d := range next.Deposits {
		if d.VaultSlug != slug {
			deposits = append(deposits, d)
		}
	}
	next.Deposits = deposits

	return next
}
