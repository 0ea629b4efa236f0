// Package engine implements the vault simulation's command handlers.
//
// Every handler is a pure function from a snapshot (plus arguments) to a
// new snapshot. Handlers never mutate their input and never perform I/O;
// the sandbox package owns the held snapshot and persistence.
//
// VIRTUAL TIME:
//
// Virtual now is the injected Clock's wall time plus the snapshot's
// TimeOffsetSeconds. Time only moves when AdvanceTime is called; there is
// no background recomputation.
//
// DERIVED FIELDS:
//
// PendingYield, LockStatus and ProgressPercent are a pure function of
// (amount, timestamps, claimedYield, now). Recompute is therefore
// idempotent for a fixed offset and AdvanceTime(0) may be called at any
// time to refresh them.
//
// INVALID REFERENCES:
//
// Handlers given an unknown slug or id return the input snapshot
// unchanged. Callers that need to distinguish "not found" check with the
// model lookups first.
package engine
