package engine

import (
	"math"

	"github.com/roach88/vaultsim/internal/model"
)

// AdvanceTime shifts virtual time by seconds and re-derives every
// deposit's progress, lock status and pending yield at the new now.
// Negative shifts are accepted.
func AdvanceTime(snap model.Snapshot, clock Clock, seconds int64) model.Snapshot {
	next := snap.Clone()
	next.TimeOffsetSeconds += seconds
	now := Now(next, clock)

	for i := range next.Deposits {
		dep := &next.Deposits[i]
		var apy model.APYRange
		if v, ok := next.VaultBySlug(dep.VaultSlug); ok {
			apy = v.CompositeAPY
		}
		*dep = Recompute(*dep, apy, now)
	}
	return next
}

// RecomputeAll re-derives deposit fields without moving time.
func RecomputeAll(snap model.Snapshot, clock Clock) model.Snapshot {
	return AdvanceTime(snap, clock, 0)
}

// Recompute derives a deposit's time-dependent fields at now. It reads
// only amount, timestamps and claimed yield, so it is safe to call
// repeatedly.
func Recompute(dep model.Deposit, apy model.APYRange, now int64) model.Deposit {
	elapsed := now - dep.DepositTimestamp

	dep.ProgressPercent = progressPercent(elapsed, dep.MaturityTimestamp-dep.DepositTimestamp)

	if now >= dep.MaturityTimestamp {
		dep.LockStatus = model.LockMatured
	} else {
		dep.LockStatus = model.LockActive
	}

	if now >= dep.YieldCliffTimestamp {
		dep.PendingYield = pendingYield(dep.Amount, apy, elapsed, dep.ClaimedYield)
	} else {
		dep.PendingYield = 0
	}
	return dep
}

func progressPercent(elapsed, duration int64) int {
	if duration <= 0 {
		// Zero-length lock: matured on deposit.
		return 100
	}
	p := math.Round(100 * float64(elapsed) / float64(duration))
	return int(math.Max(0, math.Min(100, p)))
}
