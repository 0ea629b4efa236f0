package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, v)
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Put(context.Background(), "k", []byte("v"))
	require.NoError(t, err)
}

func TestStore_PutGet(t *testing.T) {
	s := createTestStore(t)
	s.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	written, err := s.Put(ctx, "k", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.NotEmpty(t, written.Revision)

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(got.Value))
	assert.Equal(t, written.Revision, got.Revision)
	assert.Equal(t, int64(1_700_000_000), got.UpdatedAt.Unix())
}

func TestStore_PutReplacesAndChangesRevision(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.Put(ctx, "k", []byte("one"))
	require.NoError(t, err)
	second, err := s.Put(ctx, "k", []byte("two"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Revision, second.Revision)

	got, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got.Value))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}

func TestStore_Delete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "a", []byte("1"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "b", []byte("2"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"), "deleting an absent key is not an error")

	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.Put(ctx, "k", []byte("kept"))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, ok, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "kept", string(got.Value))
}
