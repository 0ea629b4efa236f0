package engine

import (
	"github.com/roach88/vaultsim/internal/model"
)

// CreateDeposit opens a deposit of amount in the vault identified by slug.
//
// Returns the input snapshot and ok=false when the vault does not exist or
// amount is not positive. Timestamps are taken from virtual now; derived
// fields start at zero and active.
func CreateDeposit(snap model.Snapshot, clock Clock, slug string, amount float64) (model.Snapshot, int64, bool) {
	vi := snap.VaultIndex(slug)
	if vi < 0 || !(amount > 0) {
		return snap, 0, false
	}
	next := snap.Clone()
	vault := &next.Vaults[vi]

	now := Now(next, clock)
	id := next.NextDepositID
	for next.DepositIndex(id) >= 0 {
		id++
	}

	next.Deposits = append(next.Deposits, model.Deposit{
		ID:                  id,
		VaultSlug:           slug,
		Amount:              amount,
		DepositTimestamp:    now,
		MaturityTimestamp:   now + int64(vault.LockPeriodMonths)*model.MonthSeconds,
		YieldCliffTimestamp: now + int64(vault.YieldCliffMonths)*model.MonthSeconds,
		LockStatus:          model.LockActive,
	})
	vault.CurrentTVL += amount
	vault.TotalShares += amount
	next.NextDepositID = id + 1

	return next, id, true
}

// DeleteDeposit withdraws a deposit in full. The owning vault's TVL and
// shares are decremented by the deposit amount, floored at zero.
func DeleteDeposit(snap model.Snapshot, id int64) model.Snapshot {
	di := snap.DepositIndex(id)
	if di < 0 {
		return snap
	}
	next := snap.Clone()
	dep := next.Deposits[di]

	if vi := next.VaultIndex(dep.VaultSlug); vi >= 0 {
		vault := &next.Vaults[vi]
		vault.CurrentTVL = max(0, vault.CurrentTVL-dep.Amount)
		vault.TotalShares = max(0, vault.TotalShares-dep.Amount)
	}
	next.Deposits = append(next.Deposits[:di], next.Deposits[di+1:]...)

	return next
}

// ClaimYield moves a deposit's pending yield into its claimed yield.
// Claiming with nothing pending leaves the deposit unchanged.
func ClaimYield(snap model.Snapshot, id int64) model.Snapshot {
	di := snap.DepositIndex(id)
	if di < 0 {
		return snap
	}
	next := snap.Clone()
	dep := &next.Deposits[di]
	dep.ClaimedYield += dep.PendingYield
	dep.PendingYield = 0
	return next
}

// CheckDeposit reports whether a deposit of amount fits the vault's
// minimum and remaining capacity. CreateDeposit never calls it; callers
// that present limits to a user check first.
func CheckDeposit(vault model.Vault, amount float64) error {
	switch {
	case !(amount > 0):
		return newDepositError(ErrCodeNonPositiveAmount, vault.Slug, amount, "amount must be positive")
	case vault.Status != "" && vault.Status != model.VaultActive:
		return newDepositError(ErrCodeVaultInactive, vault.Slug, amount, "vault is "+string(vault.Status))
	case vault.MinDeposit > 0 && amount < vault.MinDeposit:
		return newDepositError(ErrCodeBelowMinimum, vault.Slug, amount, "below minimum deposit")
	case vault.TVLCap > 0 && vault.CurrentTVL+amount > vault.TVLCap:
		return newDepositError(ErrCodeTVLCapExceeded, vault.Slug, amount, "vault TVL cap exceeded")
	}
	return nil
}
