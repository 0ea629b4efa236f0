package model

// MonthSeconds is the length of a simulated month (30 days).
const MonthSeconds int64 = 30 * 24 * 60 * 60

// LockStatus describes whether a deposit's lock period has ended.
type LockStatus string

const (
	// LockActive means the deposit is still within its lock period.
	LockActive LockStatus = "active"

	// LockMatured means virtual now has reached the maturity timestamp.
	LockMatured LockStatus = "matured"
)

// VaultStatus is the display status of a vault.
type VaultStatus string

const (
	VaultActive VaultStatus = "active"
	VaultPaused VaultStatus = "paused"
)

// StrategyKind names one of the three fixed allocation buckets.
type StrategyKind string

const (
	StrategyStable    StrategyKind = "stable"
	StrategyLending   StrategyKind = "lending"
	StrategyLiquidity StrategyKind = "liquidity"
)

// StrategyKinds lists the buckets in display order.
var StrategyKinds = []StrategyKind{StrategyStable, StrategyLending, StrategyLiquidity}

// StrategyName returns the human-readable label for a bucket.
func StrategyName(kind StrategyKind) string {
	switch kind {
	case StrategyStable:
		return "Stable Yield"
	case StrategyLending:
		return "Lending Markets"
	case StrategyLiquidity:
		return "Liquidity Provision"
	default:
		return string(kind)
	}
}

// Strategy is one allocation bucket of a vault.
type Strategy struct {
	Kind       StrategyKind `json:"kind" yaml:"kind"`
	Name       string       `json:"name" yaml:"name"`
	Allocation int          `json:"allocation" yaml:"allocation"` // percent
}

// Fees is a vault's fee schedule, in percent. Fees are displayed only;
// the simulation never applies them to yield.
type Fees struct {
	ManagementFee  float64 `json:"managementFee" yaml:"managementFee"`
	PerformanceFee float64 `json:"performanceFee" yaml:"performanceFee"`
	WithdrawalFee  float64 `json:"withdrawalFee" yaml:"withdrawalFee"`
}

// APYRange is a [min, max] annual percentage yield in percent.
type APYRange [2]float64

// Min returns the lower bound.
func (r APYRange) Min() float64 { return r[0] }

// Max returns the upper bound.
func (r APYRange) Max() float64 { return r[1] }

// Midpoint returns the average of the bounds as a fraction (7.5% -> 0.075).
func (r APYRange) Midpoint() float64 {
	return (r[0] + r[1]) / 2 / 100
}

// Vault is a vault configuration plus its TVL bookkeeping.
//
// CurrentTVL and TotalShares are the only fields mutated after creation,
// and only by deposit create/delete.
type Vault struct {
	Slug             string      `json:"slug"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Strategies       []Strategy  `json:"strategies"`
	LockPeriodMonths int         `json:"lockPeriodMonths"`
	YieldCliffMonths int         `json:"yieldCliffMonths"`
	Fees             Fees        `json:"fees"`
	TVLCap           float64     `json:"tvlCap"`
	CurrentTVL       float64     `json:"currentTvl"`
	TotalShares      float64     `json:"totalShares"`
	DepositToken     string      `json:"depositToken"`
	ChainID          int64       `json:"chainId"`
	Status           VaultStatus `json:"status"`
	MinDeposit       float64     `json:"minDeposit"`
	CompositeAPY     APYRange    `json:"compositeApy"`
}

// AllocationTotal sums the strategy allocations. The store does not enforce
// a total of 100; callers validate before CreateVault.
func (v Vault) AllocationTotal() int {
	total := 0
	for _, s := range v.Strategies {
		total += s.Allocation
	}
	return total
}

// Deposit is a single position in a vault.
//
// PendingYield, LockStatus and ProgressPercent are derived from virtual time
// and are only as fresh as the last time advance.
type Deposit struct {
	ID                  int64      `json:"id"`
	VaultSlug           string     `json:"vaultSlug"`
	Amount              float64    `json:"amount"`
	DepositTimestamp    int64      `json:"depositTimestamp"`
	MaturityTimestamp   int64      `json:"maturityTimestamp"`
	YieldCliffTimestamp int64      `json:"yieldCliffTimestamp"`
	ClaimedYield        float64    `json:"claimedYield"`
	PendingYield        float64    `json:"pendingYield"`
	LockStatus          LockStatus `json:"lockStatus"`
	ProgressPercent     int        `json:"progressPercent"`
}

// Snapshot is the complete serializable state of the simulation.
type Snapshot struct {
	Vaults            []Vault   `json:"vaults"`
	Deposits          []Deposit `json:"deposits"`
	TimeOffsetSeconds int64     `json:"timeOffsetSeconds"`
	NextDepositID     int64     `json:"nextDepositId"`
	NextVaultIndex    int64     `json:"nextVaultIndex"`
}
