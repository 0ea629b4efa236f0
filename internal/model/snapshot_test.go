package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	s := NewSnapshot()
	s.Vaults = []Vault{
		{Slug: "vault-1", Strategies: []Strategy{{Kind: StrategyStable, Allocation: 100}}, CompositeAPY: APYRange{6, 10}},
		{Slug: "vault-2"},
	}
	s.Deposits = []Deposit{
		{ID: 1, VaultSlug: "vault-1", Amount: 100},
		{ID: 2, VaultSlug: "vault-2", Amount: 50},
		{ID: 3, VaultSlug: "vault-1", Amount: 25},
	}
	return s
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	s := sampleSnapshot()
	c := s.Clone()

	c.Vaults[0].CurrentTVL = 999
	c.Vaults[0].Strategies[0].Allocation = 1
	c.Deposits[0].Amount = 1

	assert.Equal(t, float64(0), s.Vaults[0].CurrentTVL)
	assert.Equal(t, 100, s.Vaults[0].Strategies[0].Allocation)
	assert.Equal(t, float64(100), s.Deposits[0].Amount)
}

func TestSnapshot_Lookups(t *testing.T) {
	s := sampleSnapshot()

	v, ok := s.VaultBySlug("vault-2")
	require.True(t, ok)
	assert.Equal(t, "vault-2", v.Slug)

	_, ok = s.VaultBySlug("missing")
	assert.False(t, ok)

	d, ok := s.DepositByID(3)
	require.True(t, ok)
	assert.Equal(t, float64(25), d.Amount)

	_, ok = s.DepositByID(42)
	assert.False(t, ok)
}

func TestSnapshot_DepositsForVault(t *testing.T) {
	s := sampleSnapshot()

	got := s.DepositsForVault("vault-1")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	empty := s.DepositsForVault("missing")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	assert.Equal(t, float64(125), s.LiveTVL("vault-1"))
}

func TestAPYRange_Midpoint(t *testing.T) {
	assert.InDelta(t, 0.08, APYRange{6, 10}.Midpoint(), 1e-12)
	assert.Equal(t, float64(0), APYRange{}.Midpoint())
}

func TestVault_AllocationTotal(t *testing.T) {
	v := Vault{Strategies: []Strategy{{Allocation: 40}, {Allocation: 35}, {Allocation: 20}}}
	assert.Equal(t, 95, v.AllocationTotal())
}
