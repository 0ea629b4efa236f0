// Package harness runs scripted sandbox scenarios for regression testing.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: lock_and_cliff
//	description: "Deposit into a locked vault and skip past the cliff"
//	clock_start: 1735689600   # optional, defaults to testutil.DefaultEpoch
//	fixtures: false           # start from the default demo snapshot
//	steps:
//	  - op: create_vault
//	    params: { name: Locked, lockPeriodMonths: 36, ... }
//	  - op: deposit
//	    vault: vault-1
//	    amount: 10000
//	  - op: advance
//	    months: 15
//	  - op: claim
//	    deposit: 1
//	assertions:
//	  - type: deposit
//	    deposit: 1
//	    expect: { lock_status: active, claimed_yield: 1000 }
//	    tolerance: 0.01
//
// # Operations
//
//   - create_vault: params (engine.VaultParams); expect.slug optional
//   - delete_vault: vault
//   - deposit: vault, amount; expect.ok / expect.id optional
//   - withdraw: deposit
//   - claim: deposit
//   - advance: seconds, days and/or months (summed)
//   - reset
//
// # Assertion Types
//
//   - deposit: fields pending_yield, claimed_yield, amount,
//     progress_percent, lock_status, vault_slug, exists
//   - vault: fields current_tvl, total_shares, exists
//   - offset: field seconds
//   - counts: fields vaults, deposits
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory SQLite store and a testutil.FixedClock,
// so traces are byte-identical across runs and can be compared against
// golden files with RunWithGolden.
package harness
