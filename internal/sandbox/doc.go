// Package sandbox holds the live simulation state for one consumer.
//
// A Sandbox owns exactly one snapshot. Every command applies a pure engine
// handler to it, stores the result, persists it and notifies subscribers.
// Before Load the held snapshot is nil and commands do nothing; this
// mirrors the dashboard, which renders nothing until client storage has
// been read.
//
// Sandboxes are independent values: tests and tools may create as many as
// they like over separate (or shared) persistence.
package sandbox
