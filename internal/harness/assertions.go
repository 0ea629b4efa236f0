package harness

import (
	"fmt"
	"math"
	"sort"

	"github.com/roach88/vaultsim/internal/model"
)

// evaluate checks one assertion and returns a message per mismatch.
func evaluate(a Assertion, snap model.Snapshot) []string {
	var actual map[string]any

	switch a.Type {
	case AssertDeposit:
		d, ok := snap.DepositByID(a.Deposit)
		actual = map[string]any{"exists": ok}
		if ok {
			actual["pending_yield"] = d.PendingYield
			actual["claimed_yield"] = d.ClaimedYield
			actual["amount"] = d.Amount
			actual["progress_percent"] = d.ProgressPercent
			actual["lock_status"] = string(d.LockStatus)
			actual["vault_slug"] = d.VaultSlug
		}
	case AssertVault:
		v, ok := snap.VaultBySlug(a.Vault)
		actual = map[string]any{"exists": ok}
		if ok {
			actual["current_tvl"] = v.CurrentTVL
			actual["total_shares"] = v.TotalShares
		}
	case AssertOffset:
		actual = map[string]any{"seconds": snap.TimeOffsetSeconds}
	case AssertCounts:
		actual = map[string]any{
			"vaults":   len(snap.Vaults),
			"deposits": len(snap.Deposits),
		}
	default:
		return []string{fmt.Sprintf("unknown assertion type %q", a.Type)}
	}

	keys := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []string
	for _, field := range keys {
		want := a.Expect[field]
		got, ok := actual[field]
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: field not available", field))
			continue
		}
		if !matches(want, got, a.Tolerance) {
			errs = append(errs, fmt.Sprintf("%s = %v, expected %v", field, got, want))
		}
	}
	return errs
}

// matches compares an expected YAML value to an actual field. Numbers are
// compared as float64 within tolerance; everything else must be equal.
func matches(want, got any, tolerance float64) bool {
	wf, wNum := toFloat(want)
	gf, gNum := toFloat(got)
	if wNum && gNum {
		return math.Abs(wf-gf) <= tolerance
	}
	return fmt.Sprint(want) == fmt.Sprint(got)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
