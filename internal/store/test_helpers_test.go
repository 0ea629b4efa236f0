package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/roach88/vaultsim/internal/testutil"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestClock() *testutil.FixedClock {
	return testutil.NewDefaultClock()
}

var errBroken = errors.New("storage broken")

// brokenBackend fails every call.
type brokenBackend struct{}

func (brokenBackend) Get(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, errBroken
}

func (brokenBackend) Put(context.Context, string, []byte) (Entry, error) {
	return Entry{}, errBroken
}

func (brokenBackend) Delete(context.Context, string) error {
	return errBroken
}
