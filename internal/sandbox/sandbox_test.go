package sandbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsim/internal/engine"
	"github.com/roach88/vaultsim/internal/model"
	"github.com/roach88/vaultsim/internal/store"
	"github.com/roach88/vaultsim/internal/testutil"
)

// newTestSandbox returns an unloaded sandbox over an in-memory store.
func newTestSandbox(t *testing.T) (*Sandbox, *store.Store, *testutil.FixedClock) {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewDefaultClock()
	return New(store.NewPersistence(st, clock), clock, nil), st, clock
}

func lockedParams() engine.VaultParams {
	return engine.VaultParams{
		Name:             "Locked",
		Allocations:      engine.Allocations{Stable: 50, Lending: 30, Liquidity: 20},
		LockPeriodMonths: 36,
		YieldCliffMonths: 12,
		APYMin:           6,
		APYMax:           10,
	}
}

func TestSandbox_CommandsBeforeLoadAreNoops(t *testing.T) {
	sb, st, _ := newTestSandbox(t)
	ctx := context.Background()

	calls := 0
	sb.Subscribe(func(model.Snapshot) { calls++ })

	_, ok := sb.CreateVault(ctx, lockedParams())
	assert.False(t, ok)
	_, ok = sb.CreateDeposit(ctx, "vault-1", 100)
	assert.False(t, ok)
	sb.DeleteVault(ctx, "vault-1")
	sb.DeleteDeposit(ctx, 1)
	sb.ClaimYield(ctx, 1)
	sb.AdvanceTime(ctx, 100)

	assert.False(t, sb.Loaded())
	_, ok = sb.Snapshot()
	assert.False(t, ok)
	_, ok = sb.Now()
	assert.False(t, ok)
	assert.Empty(t, sb.DepositsForVault("vault-1"))
	assert.Zero(t, calls)

	_, err := sb.RequireVault("vault-1")
	assert.ErrorIs(t, err, ErrNotLoaded)

	keys, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys, "nothing persisted before load")
}

func TestSandbox_LoadDefault(t *testing.T) {
	sb, _, clock := newTestSandbox(t)
	sb.Load(context.Background())

	snap, ok := sb.Snapshot()
	require.True(t, ok)
	assert.Equal(t, store.Default(clock), snap)

	now, ok := sb.Now()
	require.True(t, ok)
	assert.Equal(t, clock.Now().Unix(), now)
}

func TestSandbox_Scenario(t *testing.T) {
	sb, _, clock := newTestSandbox(t)
	ctx := context.Background()
	sb.Load(ctx)

	slug, ok := sb.CreateVault(ctx, lockedParams())
	require.True(t, ok)
	assert.Equal(t, "vault-4", slug, "fixtures occupy vault-1..3")

	id, ok := sb.CreateDeposit(ctx, slug, 10_000)
	require.True(t, ok)
	assert.Equal(t, int64(5), id)

	sb.AdvanceTime(ctx, 6*model.MonthSeconds)
	d, err := sb.RequireDeposit(id)
	require.NoError(t, err)
	assert.Equal(t, float64(0), d.PendingYield)
	assert.Equal(t, model.LockActive, d.LockStatus)
	assert.Equal(t, 17, d.ProgressPercent)

	sb.AdvanceTime(ctx, 9*model.MonthSeconds)
	d, _ = sb.RequireDeposit(id)
	assert.InDelta(t, 1_000.0, d.PendingYield, 1e-9)

	sb.ClaimYield(ctx, id)
	d, _ = sb.RequireDeposit(id)
	assert.InDelta(t, 1_000.0, d.ClaimedYield, 1e-9)
	assert.Equal(t, float64(0), d.PendingYield)

	sb.AdvanceTime(ctx, 21*model.MonthSeconds)
	d, _ = sb.RequireDeposit(id)
	assert.Equal(t, model.LockMatured, d.LockStatus)
	assert.Equal(t, 100, d.ProgressPercent)

	now, _ := sb.Now()
	assert.Equal(t, clock.Now().Unix()+36*model.MonthSeconds, now)
}

func TestSandbox_PersistsEveryCommand(t *testing.T) {
	sb, st, clock := newTestSandbox(t)
	ctx := context.Background()
	sb.Load(ctx)

	slug, _ := sb.CreateVault(ctx, lockedParams())
	id, _ := sb.CreateDeposit(ctx, slug, 2_000)
	sb.AdvanceTime(ctx, 13*model.MonthSeconds)

	other := New(store.NewPersistence(st, clock), clock, nil)
	other.Load(ctx)

	want, _ := sb.Snapshot()
	got, _ := other.Snapshot()
	assert.Equal(t, want, got)

	sb.DeleteDeposit(ctx, id)
	other.Load(ctx)
	got, _ = other.Snapshot()
	_, found := got.DepositByID(id)
	assert.False(t, found)
}

func TestSandbox_DeleteVaultCascades(t *testing.T) {
	sb, _, _ := newTestSandbox(t)
	ctx := context.Background()
	sb.Load(ctx)

	require.Len(t, sb.DepositsForVault("vault-2"), 2)
	sb.DeleteVault(ctx, "vault-2")

	_, ok := sb.VaultBySlug("vault-2")
	assert.False(t, ok)
	assert.Empty(t, sb.DepositsForVault("vault-2"))

	_, err := sb.RequireVault("vault-2")
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "vault vault-2 not found")
}

func TestSandbox_WithdrawTwiceLeavesTVL(t *testing.T) {
	sb, _, _ := newTestSandbox(t)
	ctx := context.Background()
	sb.Load(ctx)

	slug, _ := sb.CreateVault(ctx, lockedParams())
	sb.CreateDeposit(ctx, slug, 15_000)
	id, _ := sb.CreateDeposit(ctx, slug, 5_000)

	v, _ := sb.VaultBySlug(slug)
	require.Equal(t, float64(20_000), v.CurrentTVL)

	sb.DeleteDeposit(ctx, id)
	v, _ = sb.VaultBySlug(slug)
	assert.Equal(t, float64(15_000), v.CurrentTVL)

	sb.DeleteDeposit(ctx, id)
	v, _ = sb.VaultBySlug(slug)
	assert.Equal(t, float64(15_000), v.CurrentTVL)

	_, err := sb.RequireDeposit(id)
	assert.True(t, IsNotFound(err))
}

func TestSandbox_ResetRestoresDefaults(t *testing.T) {
	sb, st, clock := newTestSandbox(t)
	ctx := context.Background()
	sb.Load(ctx)

	sb.AdvanceTime(ctx, 40*model.MonthSeconds)
	sb.DeleteVault(ctx, "vault-1")
	sb.CreateVault(ctx, lockedParams())

	sb.Reset(ctx)
	snap, ok := sb.Snapshot()
	require.True(t, ok)
	assert.Equal(t, int64(0), snap.TimeOffsetSeconds)
	assert.Equal(t, store.Default(clock), snap)

	_, found, err := st.Get(ctx, store.DefaultKey)
	require.NoError(t, err)
	assert.False(t, found, "reset clears storage")
}

func TestSandbox_ResetBeforeLoad(t *testing.T) {
	sb, _, _ := newTestSandbox(t)
	sb.Reset(context.Background())
	assert.True(t, sb.Loaded())
}

func TestSandbox_Subscribe(t *testing.T) {
	sb, _, _ := newTestSandbox(t)
	ctx := context.Background()

	var offsets []int64
	cancel := sb.Subscribe(func(s model.Snapshot) {
		offsets = append(offsets, s.TimeOffsetSeconds)
	})

	sb.Load(ctx)
	sb.AdvanceTime(ctx, 10)
	sb.AdvanceTime(ctx, 5)
	cancel()
	sb.AdvanceTime(ctx, 1)

	assert.Equal(t, []int64{0, 10, 15}, offsets)
}

func TestSandbox_SnapshotIsACopy(t *testing.T) {
	sb, _, _ := newTestSandbox(t)
	sb.Load(context.Background())

	snap, _ := sb.Snapshot()
	snap.Vaults[0].CurrentTVL = -1
	snap.Deposits = nil

	again, _ := sb.Snapshot()
	assert.NotEqual(t, float64(-1), again.Vaults[0].CurrentTVL)
	assert.Len(t, again.Deposits, 4)
}

func TestSandbox_IndependentInstances(t *testing.T) {
	a, _, _ := newTestSandbox(t)
	b, _, _ := newTestSandbox(t)
	ctx := context.Background()
	a.Load(ctx)
	b.Load(ctx)

	a.AdvanceTime(ctx, 1_000)

	sa, _ := a.Snapshot()
	sb, _ := b.Snapshot()
	assert.Equal(t, int64(1_000), sa.TimeOffsetSeconds)
	assert.Equal(t, int64(0), sb.TimeOffsetSeconds)
}

func TestSandbox_NoStorage(t *testing.T) {
	clock := testutil.NewDefaultClock()
	sb := New(store.NewPersistence(nil, clock), clock, nil)
	ctx := context.Background()

	sb.Load(ctx)
	sb.AdvanceTime(ctx, 500)
	snap, _ := sb.Snapshot()
	assert.Equal(t, int64(500), snap.TimeOffsetSeconds, "in-memory state still advances")

	sb.Load(ctx)
	snap, _ = sb.Snapshot()
	assert.Equal(t, int64(0), snap.TimeOffsetSeconds, "nothing was persisted")
}
