package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsim/internal/model"
)

func TestCreateDeposit_SetsTimestamps(t *testing.T) {
	clock := newClock()
	snap, slug := newVaultSnapshot()
	snap.TimeOffsetSeconds = 3_600

	snap, id, ok := CreateDeposit(snap, clock, slug, 10_000)
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, int64(2), snap.NextDepositID)

	d, ok := snap.DepositByID(id)
	require.True(t, ok)
	now := clock.Now().Unix() + 3_600
	assert.Equal(t, now, d.DepositTimestamp)
	assert.Equal(t, now+months(36), d.MaturityTimestamp)
	assert.Equal(t, now+months(12), d.YieldCliffTimestamp)
	assert.Equal(t, float64(0), d.PendingYield)
	assert.Equal(t, float64(0), d.ClaimedYield)
	assert.Equal(t, 0, d.ProgressPercent)
	assert.Equal(t, model.LockActive, d.LockStatus)

	v, _ := snap.VaultBySlug(slug)
	assert.Equal(t, float64(10_000), v.CurrentTVL)
	assert.Equal(t, float64(10_000), v.TotalShares)
}

func TestCreateDeposit_NoopCases(t *testing.T) {
	clock := newClock()
	snap, slug := newVaultSnapshot()

	tests := []struct {
		name   string
		slug   string
		amount float64
	}{
		{"unknown vault", "vault-99", 100},
		{"zero amount", slug, 0},
		{"negative amount", slug, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, id, ok := CreateDeposit(snap, clock, tt.slug, tt.amount)
			assert.False(t, ok)
			assert.Equal(t, int64(0), id)
			assert.Equal(t, snap, got)
		})
	}
}

func TestDeleteDeposit_DecrementsTVL(t *testing.T) {
	clock := newClock()
	snap, slug := newVaultSnapshot()
	snap, _, _ = CreateDeposit(snap, clock, slug, 15_000)
	snap, id, _ := CreateDeposit(snap, clock, slug, 5_000)

	v, _ := snap.VaultBySlug(slug)
	require.Equal(t, float64(20_000), v.CurrentTVL)

	snap = DeleteDeposit(snap, id)
	v, _ = snap.VaultBySlug(slug)
	assert.Equal(t, float64(15_000), v.CurrentTVL)
	assert.Equal(t, float64(15_000), v.TotalShares)

	again := DeleteDeposit(snap, id)
	assert.Equal(t, snap, again, "deleting an absent deposit is a no-op")
}

func TestDeleteDeposit_FloorsAtZero(t *testing.T) {
	clock := newClock()
	snap, slug := newVaultSnapshot()
	snap, id, _ := CreateDeposit(snap, clock, slug, 500)
	snap.Vaults[0].CurrentTVL = 100 // drifted bookkeeping

	snap = DeleteDeposit(snap, id)
	assert.Equal(t, float64(0), snap.Vaults[0].CurrentTVL)
}

func TestTVL_MatchesLiveDeposits(t *testing.T) {
	clock := newClock()
	snap, a := newVaultSnapshot()
	snap, b := CreateVault(snap, testParams())

	var ids []int64
	amounts := []float64{100, 250.5, 1_000, 42, 7_000}
	for i, amt := range amounts {
		slug := a
		if i%2 == 1 {
			slug = b
		}
		var id int64
		snap, id, _ = CreateDeposit(snap, clock, slug, amt)
		ids = append(ids, id)
	}
	snap = DeleteDeposit(snap, ids[1])
	snap = DeleteDeposit(snap, ids[4])
	snap = DeleteDeposit(snap, ids[4])

	for _, v := range snap.Vaults {
		assert.InDelta(t, snap.LiveTVL(v.Slug), v.CurrentTVL, 1e-9, v.Slug)
		assert.GreaterOrEqual(t, v.CurrentTVL, float64(0))
	}
}

func TestClaimYield_MovesPending(t *testing.T) {
	clock := newClock()
	snap, slug := newVaultSnapshot()
	snap, id, _ := CreateDeposit(snap, clock, slug, 10_000)
	snap = AdvanceTime(snap, clock, months(15))

	before, _ := snap.DepositByID(id)
	require.Greater(t, before.PendingYield, float64(0))

	snap = ClaimYield(snap, id)
	after, _ := snap.DepositByID(id)
	assert.Equal(t, float64(0), after.PendingYield)
	assert.Equal(t, before.PendingYield, after.ClaimedYield)

	again := ClaimYield(snap, id)
	d, _ := again.DepositByID(id)
	assert.Equal(t, after.ClaimedYield, d.ClaimedYield, "second claim is idempotent")
	assert.Equal(t, float64(0), d.PendingYield)
}

func TestClaimYield_RecomputeKeepsPendingAtZero(t *testing.T) {
	clock := newClock()
	p := testParams()
	p.APYMin, p.APYMax = 7, 11
	snap, slug := CreateVault(model.NewSnapshot(), p)
	snap, id, _ := CreateDeposit(snap, clock, slug, 1000)
	snap = AdvanceTime(snap, clock, months(18)+12345)

	snap = ClaimYield(snap, id)
	claimed, _ := snap.DepositByID(id)
	require.Greater(t, claimed.ClaimedYield, float64(0))

	for i := 0; i < 5; i++ {
		snap = AdvanceTime(snap, clock, 0)
		d, _ := snap.DepositByID(id)
		require.Equal(t, float64(0), d.PendingYield, "recompute %d", i)

		snap = ClaimYield(snap, id)
		d, _ = snap.DepositByID(id)
		assert.Equal(t, claimed.ClaimedYield, d.ClaimedYield, "claim %d", i)
	}
}

func TestClaimYield_PendingExcludesClaimed(t *testing.T) {
	clock := newClock()
	snap, slug := newVaultSnapshot()
	snap, id, _ := CreateDeposit(snap, clock, slug, 12_000)

	snap = AdvanceTime(snap, clock, months(12))
	snap = ClaimYield(snap, id)
	snap = AdvanceTime(snap, clock, months(6))

	d, _ := snap.DepositByID(id)
	total := EarnedYield(12_000, model.APYRange{6, 10}, months(18)).InexactFloat64()
	assert.InDelta(t, total-d.ClaimedYield, d.PendingYield, 1e-6)
	assert.InDelta(t, 480.0, d.PendingYield, 1e-6)
}

func TestClaimYield_UnknownIsNoop(t *testing.T) {
	snap, _ := newVaultSnapshot()
	assert.Equal(t, snap, ClaimYield(snap, 77))
}

func TestCheckDeposit(t *testing.T) {
	vault := model.Vault{
		Slug:       "vault-1",
		Status:     model.VaultActive,
		MinDeposit: 100,
		TVLCap:     1_000,
		CurrentTVL: 800,
	}

	tests := []struct {
		name   string
		vault  func(model.Vault) model.Vault
		amount float64
		code   DepositErrorCode
	}{
		{"ok", nil, 150, ""},
		{"zero", nil, 0, ErrCodeNonPositiveAmount},
		{"below minimum", nil, 50, ErrCodeBelowMinimum},
		{"over cap", nil, 250, ErrCodeTVLCapExceeded},
		{"paused", func(v model.Vault) model.Vault { v.Status = model.VaultPaused; return v }, 150, ErrCodeVaultInactive},
		{"no cap", func(v model.Vault) model.Vault { v.TVLCap = 0; return v }, 5_000, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := vault
			if tt.vault != nil {
				v = tt.vault(v)
			}
			err := CheckDeposit(v, tt.amount)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsDepositError(err, tt.code), "got %v", err)
		})
	}
}
