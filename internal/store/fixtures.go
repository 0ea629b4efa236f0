package store

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/vaultsim/internal/engine"
	"github.com/roach88/vaultsim/internal/model"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

const daySeconds int64 = 24 * 60 * 60

// Fixtures describes a starting state: vaults in creation order and
// deposits backdated relative to the build time.
type Fixtures struct {
	Vaults   []engine.VaultParams `yaml:"vaults"`
	Deposits []FixtureDeposit     `yaml:"deposits"`
}

// FixtureDeposit is a deposit opened DepositedDaysAgo days before build time.
type FixtureDeposit struct {
	Vault            string  `yaml:"vault"`
	Amount           float64 `yaml:"amount"`
	DepositedDaysAgo int64   `yaml:"depositedDaysAgo"`
	ClaimedYield     float64 `yaml:"claimedYield,omitempty"`
}

var defaultFixtures = mustParseFixtures(fixturesYAML)

// ParseFixtures decodes fixture YAML.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fx, nil
}

func mustParseFixtures(data []byte) *Fixtures {
	fx, err := ParseFixtures(data)
	if err != nil {
		panic(err)
	}
	return fx
}

// Build replays the fixtures through the engine so TVL bookkeeping and
// counters come out exactly as if a user had issued the commands. The
// result has a zero time offset and freshly derived deposit fields.
func (fx *Fixtures) Build(clock engine.Clock) (model.Snapshot, error) {
	snap := model.NewSnapshot()
	for _, p := range fx.Vaults {
		snap, _ = engine.CreateVault(snap, p)
	}

	for i, d := range fx.Deposits {
		snap.TimeOffsetSeconds = -d.DepositedDaysAgo * daySeconds
		var (
			id int64
			ok bool
		)
		snap, id, ok = engine.CreateDeposit(snap, clock, d.Vault, d.Amount)
		if !ok {
			return model.Snapshot{}, fmt.Errorf("fixture deposit %d: vault %q not found or amount %g invalid", i, d.Vault, d.Amount)
		}
		if d.ClaimedYield > 0 {
			snap.Deposits[snap.DepositIndex(id)].ClaimedYield = d.ClaimedYield
		}
	}
	snap.TimeOffsetSeconds = 0

	return engine.RecomputeAll(snap, clock), nil
}

// Default builds the canonical demo snapshot from the embedded fixtures.
func Default(clock engine.Clock) model.Snapshot {
	snap, err := defaultFixtures.Build(clock)
	if err != nil {
		// The embedded fixtures are covered by tests; this is unreachable
		// unless fixtures.yaml is edited into an inconsistent state.
		panic(err)
	}
	return snap
}
