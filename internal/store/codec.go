package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/vaultsim/internal/model"
)

// SnapshotVersion is the envelope version written by Save. Bump it when
// the snapshot layout changes incompatibly; older values then load as
// Default instead of half-decoding.
const SnapshotVersion = 1

type envelope struct {
	Version int `json:"version"`
	model.Snapshot
}

// EncodeSnapshot serializes snap into a versioned envelope.
func EncodeSnapshot(snap model.Snapshot) ([]byte, error) {
	if snap.Vaults == nil {
		snap.Vaults = []model.Vault{}
	}
	if snap.Deposits == nil {
		snap.Deposits = []model.Deposit{}
	}
	data, err := json.Marshal(envelope{Version: SnapshotVersion, Snapshot: snap})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses an envelope produced by EncodeSnapshot.
//
// Unknown fields, a version mismatch or a snapshot that breaks the
// reference invariants are errors.
func DecodeSnapshot(data []byte) (model.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if env.Version != SnapshotVersion {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: version %d, want %d", env.Version, SnapshotVersion)
	}
	if err := checkSnapshot(env.Snapshot); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	snap := env.Snapshot
	if snap.Vaults == nil {
		snap.Vaults = []model.Vault{}
	}
	if snap.Deposits == nil {
		snap.Deposits = []model.Deposit{}
	}
	return snap, nil
}

// checkSnapshot verifies uniqueness and reference invariants.
func checkSnapshot(s model.Snapshot) error {
	slugs := make(map[string]bool, len(s.Vaults))
	for _, v := range s.Vaults {
		if v.Slug == "" {
			return fmt.Errorf("vault with empty slug")
		}
		if slugs[v.Slug] {
			return fmt.Errorf("duplicate vault slug %q", v.Slug)
		}
		if v.CurrentTVL < 0 {
			return fmt.Errorf("vault %q has negative TVL", v.Slug)
		}
		slugs[v.Slug] = true
	}

	ids := make(map[int64]bool, len(s.Deposits))
	for _, d := range s.Deposits {
		if ids[d.ID] {
			return fmt.Errorf("duplicate deposit id %d", d.ID)
		}
		if d.ID >= s.NextDepositID {
			return fmt.Errorf("deposit id %d not below nextDepositId %d", d.ID, s.NextDepositID)
		}
		if !slugs[d.VaultSlug] {
			return fmt.Errorf("deposit %d references unknown vault %q", d.ID, d.VaultSlug)
		}
		ids[d.ID] = true
	}
	return nil
}
