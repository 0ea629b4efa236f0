package engine

import (
	"time"

	"github.com/roach88/vaultsim/internal/model"
)

// Clock supplies wall-clock time. Inject a fixed clock in tests so that
// derivations are deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Now returns virtual now for snap in whole unix seconds.
func Now(snap model.Snapshot, clock Clock) int64 {
	return clock.Now().Unix() + snap.TimeOffsetSeconds
}
