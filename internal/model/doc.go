// Package model defines the snapshot data model for the vault simulation.
//
// This package contains type definitions and read-only helpers. The engine,
// store and sandbox packages all import model; model imports nothing
// internal.
//
// Key design constraints:
//   - A Snapshot is a value: commands never mutate one in place, they
//     return a new Snapshot built from Clone
//   - All JSON tags use camelCase so the persisted layout matches the
//     dashboard's storage format
//   - Timestamps are unix seconds in virtual time (wall clock + offset)
package model
