package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the wall time FixedClock starts at when none is given:
// 2025-01-01T00:00:00Z.
const DefaultEpoch int64 = 1735689600

// FixedClock is a settable wall clock for tests.
//
// Unlike engine.SystemClock, FixedClock only moves when told to, so
// virtual-time derivations are reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at unix second sec.
func NewFixedClock(sec int64) *FixedClock {
	return &FixedClock{now: time.Unix(sec, 0).UTC()}
}

// NewDefaultClock creates a clock frozen at DefaultEpoch.
func NewDefaultClock() *FixedClock {
	return NewFixedClock(DefaultEpoch)
}

// Now returns the frozen time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves wall time forward by d (backward if d is negative).
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves wall time to unix second sec.
func (c *FixedClock) Set(sec int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Unix(sec, 0).UTC()
}
