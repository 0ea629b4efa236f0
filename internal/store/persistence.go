package store

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/vaultsim/internal/engine"
	"github.com/roach88/vaultsim/internal/model"
)

// DefaultKey is the storage key snapshots are saved under.
const DefaultKey = "vaultsim:snapshot"

// Backend is the key-value storage Persistence writes to. *Store
// implements it.
type Backend interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, value []byte) (Entry, error)
	Delete(ctx context.Context, key string) error
}

// Persistence loads and saves snapshots under a single key.
//
// A Persistence with no backend behaves like a page rendered without
// storage: Load returns Default, Save and Reset write nothing.
type Persistence struct {
	backend Backend
	key     string
	clock   engine.Clock
	logger  *slog.Logger
}

// Option configures a Persistence.
type Option func(*Persistence)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(p *Persistence) {
		if key != "" {
			p.key = key
		}
	}
}

// WithLogger sets the logger used for swallowed storage errors.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Persistence) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPersistence creates an adapter over backend. Pass a nil backend when
// storage is unavailable.
func NewPersistence(backend Backend, clock engine.Clock, opts ...Option) *Persistence {
	if clock == nil {
		clock = engine.SystemClock{}
	}
	p := &Persistence{
		backend: backend,
		key:     DefaultKey,
		clock:   clock,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Available reports whether a backend is configured.
func (p *Persistence) Available() bool {
	return p.backend != nil
}

// Key returns the storage key.
func (p *Persistence) Key() string {
	return p.key
}

// Load returns the stored snapshot with derived fields refreshed, or
// Default when nothing usable is stored.
func (p *Persistence) Load(ctx context.Context) model.Snapshot {
	if p.backend == nil {
		p.logger.Debug("storage unavailable, using default snapshot")
		return Default(p.clock)
	}

	entry, ok, err := p.backend.Get(ctx, p.key)
	if err != nil {
		p.logger.Warn("failed to read snapshot, using default", "key", p.key, "error", err)
		return Default(p.clock)
	}
	if !ok {
		p.logger.Debug("no stored snapshot, using default", "key", p.key)
		return Default(p.clock)
	}

	snap, err := DecodeSnapshot(entry.Value)
	if err != nil {
		p.logger.Warn("discarding unreadable snapshot", "key", p.key, "revision", entry.Revision, "error", err)
		return Default(p.clock)
	}

	p.logger.Debug("snapshot loaded",
		"key", p.key,
		"revision", entry.Revision,
		"vaults", len(snap.Vaults),
		"deposits", len(snap.Deposits),
		"offset", snap.TimeOffsetSeconds,
	)
	return engine.RecomputeAll(snap, p.clock)
}

// Save writes snap. Failures are logged and otherwise ignored; the
// in-memory snapshot stays authoritative until the next Load.
func (p *Persistence) Save(ctx context.Context, snap model.Snapshot) {
	if p.backend == nil {
		return
	}
	data, err := EncodeSnapshot(snap)
	if err != nil {
		p.logger.Error("failed to encode snapshot", "error", err)
		return
	}
	entry, err := p.backend.Put(ctx, p.key, data)
	if err != nil {
		p.logger.Error("failed to save snapshot", "key", p.key, "error", err)
		return
	}
	p.logger.Debug("snapshot saved", "key", p.key, "revision", entry.Revision, "bytes", len(data))
}

// Reset clears the stored snapshot and returns Default.
func (p *Persistence) Reset(ctx context.Context) model.Snapshot {
	if p.backend != nil {
		if err := p.backend.Delete(ctx, p.key); err != nil {
			p.logger.Error("failed to clear snapshot", "key", p.key, "error", err)
		}
	}
	return Default(p.clock)
}

// Now returns virtual now for snap.
func (p *Persistence) Now(snap model.Snapshot) int64 {
	return engine.Now(snap, p.clock)
}
