package engine

import (
	"github.com/roach88/vaultsim/internal/model"
	"github.com/roach88/vaultsim/internal/testutil"
)

const month = model.MonthSeconds

// testParams is a 36-month lock, 12-month cliff vault with an 8% midpoint APY.
func testParams() VaultParams {
	return VaultParams{
		Name:             "Balanced Growth",
		Description:      "test vault",
		Allocations:      Allocations{Stable: 40, Lending: 35, Liquidity: 25},
		LockPeriodMonths: 36,
		YieldCliffMonths: 12,
		Fees:             model.Fees{ManagementFee: 1, PerformanceFee: 10},
		TVLCap:           1_000_000,
		MinDeposit:       100,
		APYMin:           6,
		APYMax:           10,
	}
}

// newVaultSnapshot returns a fresh snapshot holding one test vault.
func newVaultSnapshot() (model.Snapshot, string) {
	return CreateVault(model.NewSnapshot(), testParams())
}

func newClock() *testutil.FixedClock {
	return testutil.NewDefaultClock()
}

func months(n int64) int64 {
	return n * month
}

var _ Clock = (*testutil.FixedClock)(nil)
