// Package store persists simulation snapshots.
//
// Two layers live here:
//   - Store: a SQLite-backed key-value table standing in for the
//     dashboard's client-resident storage
//   - Persistence: the adapter the sandbox talks to. It encodes snapshots
//     into a versioned envelope, falls back to the fixture snapshot when
//     storage is missing, unreadable or unavailable, and never surfaces
//     storage errors to its caller
//
// # Envelope
//
// Snapshots are stored as JSON with camelCase keys and an explicit
// "version" field. A stored value with a different version, unknown
// fields or broken references is discarded in favour of Default.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Every write is stamped with a UUIDv7 revision so log lines can be
// correlated with the row that produced them.
package store
