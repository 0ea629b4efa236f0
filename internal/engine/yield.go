package engine

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsim/internal/model"
)

var (
	hundred    = decimal.NewFromInt(100)
	twoHundred = decimal.NewFromInt(200)
	yearSecs   = decimal.NewFromInt(12 * model.MonthSeconds)
)

// avgAPY is the midpoint of r as a fraction.
func avgAPY(r model.APYRange) decimal.Decimal {
	return decimal.NewFromFloat(r.Min()).Add(decimal.NewFromFloat(r.Max())).Div(twoHundred)
}

// EarnedYield is the simple (non-compounding) yield on amount after
// elapsed seconds: amount * avgApy * months / 12.
func EarnedYield(amount float64, apy model.APYRange, elapsed int64) decimal.Decimal {
	if elapsed <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount).
		Mul(avgAPY(apy)).
		Mul(decimal.NewFromInt(elapsed)).
		Div(yearSecs)
}

// yieldScale is the number of decimal places pending yield is kept to.
// Earned and claimed amounts are both rounded to it before subtracting, so
// a claim cancels exactly and float residue never reappears as pending.
const yieldScale = 8

func pendingYield(amount float64, apy model.APYRange, elapsed int64, claimed float64) float64 {
	earned := EarnedYield(amount, apy, elapsed).Round(yieldScale)
	pending := earned.Sub(decimal.NewFromFloat(claimed).Round(yieldScale))
	if !pending.IsPositive() {
		return 0
	}
	return pending.InexactFloat64()
}

// ProjectYield estimates the yield range on amount over months using the
// vault's composite APY bounds. It ignores the cliff and fees.
func ProjectYield(vault model.Vault, amount float64, months int) (low, high float64) {
	if amount <= 0 || months <= 0 {
		return 0, 0
	}
	base := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(int64(months))).Div(decimal.NewFromInt(12))
	low = base.Mul(decimal.NewFromFloat(vault.CompositeAPY.Min())).Div(hundred).InexactFloat64()
	high = base.Mul(decimal.NewFromFloat(vault.CompositeAPY.Max())).Div(hundred).InexactFloat64()
	return low, high
}
