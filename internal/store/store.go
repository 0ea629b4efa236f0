package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (kv table only)
// 1 - Added index on kv.updated_at
const currentSchemaVersion = 1

// Entry is one stored value.
type Entry struct {
	Key       string
	Value     []byte
	Revision  string
	UpdatedAt time.Time
}

// Store is a SQLite-backed key-value store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
// Use ":memory:" for an ephemeral store.
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, and each connection to
	// ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the entry stored under key. ok is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (entry Entry, ok bool, err error) {
	var (
		value     string
		updatedAt int64
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT value, revision, updated_at FROM kv WHERE key = ?
	`, key).Scan(&value, &entry.Revision, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get %q: %w", key, err)
	}
	entry.Key = key
	entry.Value = []byte(value)
	entry.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return entry, true, nil
}

// Put writes value under key, replacing any previous value, and returns
// the stored entry with its new revision.
func (s *Store) Put(ctx context.Context, key string, value []byte) (Entry, error) {
	rev, err := uuid.NewV7()
	if err != nil {
		return Entry{}, fmt.Errorf("put %q: revision: %w", key, err)
	}
	entry := Entry{
		Key:       key,
		Value:     value,
		Revision:  rev.String(),
		UpdatedAt: s.now().UTC().Truncate(time.Second),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, revision, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = excluded.revision,
			updated_at = excluded.updated_at
	`, key, string(value), entry.Revision, entry.UpdatedAt.Unix())
	if err != nil {
		return Entry{}, fmt.Errorf("put %q: %w", key, err)
	}
	return entry, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in ascending order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("list keys: scan: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 indexes kv.updated_at for "most recently saved" listings.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_kv_updated_at ON kv(updated_at)`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// schemaVersion reads PRAGMA user_version. Used for testing.
func (s *Store) schemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return v, nil
}
