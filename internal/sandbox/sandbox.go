package sandbox

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/roach88/vaultsim/internal/engine"
	"github.com/roach88/vaultsim/internal/model"
	"github.com/roach88/vaultsim/internal/store"
)

// Listener receives the new snapshot after each applied command.
type Listener func(model.Snapshot)

// Sandbox is the stateful façade over the engine and persistence.
type Sandbox struct {
	// writeMu orders commands end to end, persistence included, so storage
	// never falls behind the held snapshot. mu guards the fields below and
	// is never held across I/O.
	writeMu sync.Mutex

	mu        sync.Mutex
	snap      *model.Snapshot
	persist   *store.Persistence
	clock     engine.Clock
	logger    *slog.Logger
	listeners map[int]Listener
	nextID    int
}

// New creates an unloaded Sandbox. A nil logger discards output.
func New(persist *store.Persistence, clock engine.Clock, logger *slog.Logger) *Sandbox {
	if clock == nil {
		clock = engine.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sandbox{
		persist:   persist,
		clock:     clock,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// Load reads the persisted snapshot (or the default) and holds it.
// Calling Load again discards the in-memory state and re-reads storage.
func (s *Sandbox) Load(ctx context.Context) {
	s.writeMu.Lock()
	snap := s.persist.Load(ctx)
	s.mu.Lock()
	s.snap = &snap
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.notify(snap)
}

// Loaded reports whether Load has completed.
func (s *Sandbox) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap != nil
}

// Snapshot returns a copy of the held snapshot. ok is false before Load.
func (s *Sandbox) Snapshot() (model.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return model.Snapshot{}, false
	}
	return s.snap.Clone(), true
}

// Now returns virtual now in unix seconds. ok is false before Load.
func (s *Sandbox) Now() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return 0, false
	}
	return engine.Now(*s.snap, s.clock), true
}

// Subscribe registers fn and returns a function that unregisters it.
func (s *Sandbox) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// apply runs cmd against the held snapshot, stores and persists the
// result. It returns false without side effects when not loaded.
// Listeners run after the write lock is released and may issue commands.
func (s *Sandbox) apply(ctx context.Context, name string, cmd func(model.Snapshot) model.Snapshot) bool {
	s.writeMu.Lock()
	s.mu.Lock()
	if s.snap == nil {
		s.mu.Unlock()
		s.writeMu.Unlock()
		s.logger.Debug("command ignored, snapshot not loaded", "command", name)
		return false
	}
	next := cmd(*s.snap)
	s.snap = &next
	s.mu.Unlock()

	s.persist.Save(ctx, next)
	s.writeMu.Unlock()

	s.logger.Debug("command applied",
		"command", name,
		"offset", next.TimeOffsetSeconds,
		"vaults", len(next.Vaults),
		"deposits", len(next.Deposits),
	)
	s.notify(next)
	return true
}

func (s *Sandbox) notify(snap model.Snapshot) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap.Clone())
	}
}

// CreateVault adds a vault and returns its slug.
func (s *Sandbox) CreateVault(ctx context.Context, params engine.VaultParams) (string, bool) {
	var slug string
	ok := s.apply(ctx, "create_vault", func(snap model.Snapshot) model.Snapshot {
		next, created := engine.CreateVault(snap, params)
		slug = created
		return next
	})
	return slug, ok
}

// DeleteVault removes a vault and its deposits.
func (s *Sandbox) DeleteVault(ctx context.Context, slug string) {
	s.apply(ctx, "delete_vault", func(snap model.Snapshot) model.Snapshot {
		return engine.DeleteVault(snap, slug)
	})
}

// CreateDeposit opens a deposit and returns its id. ok is false when not
// loaded, the vault is unknown or the amount is not positive.
func (s *Sandbox) CreateDeposit(ctx context.Context, slug string, amount float64) (int64, bool) {
	var (
		id      int64
		created bool
	)
	s.apply(ctx, "create_deposit", func(snap model.Snapshot) model.Snapshot {
		next, newID, ok := engine.CreateDeposit(snap, s.clock, slug, amount)
		id, created = newID, ok
		return next
	})
	return id, created
}

// DeleteDeposit withdraws a deposit in full.
func (s *Sandbox) DeleteDeposit(ctx context.Context, id int64) {
	s.apply(ctx, "delete_deposit", func(snap model.Snapshot) model.Snapshot {
		return engine.DeleteDeposit(snap, id)
	})
}

// ClaimYield moves a deposit's pending yield to claimed.
func (s *Sandbox) ClaimYield(ctx context.Context, id int64) {
	s.apply(ctx, "claim_yield", func(snap model.Snapshot) model.Snapshot {
		return engine.ClaimYield(snap, id)
	})
}

// AdvanceTime shifts virtual time by seconds and re-derives deposits.
func (s *Sandbox) AdvanceTime(ctx context.Context, seconds int64) {
	s.apply(ctx, "advance_time", func(snap model.Snapshot) model.Snapshot {
		return engine.AdvanceTime(snap, s.clock, seconds)
	})
}

// Reset clears storage and holds the default snapshot. Unlike the other
// commands it also works before Load.
func (s *Sandbox) Reset(ctx context.Context) {
	s.writeMu.Lock()
	snap := s.persist.Reset(ctx)
	s.mu.Lock()
	s.snap = &snap
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.logger.Info("sandbox reset", "vaults", len(snap.Vaults), "deposits", len(snap.Deposits))
	s.notify(snap)
}

// VaultBySlug looks up a vault in the held snapshot.
func (s *Sandbox) VaultBySlug(slug string) (model.Vault, bool) {
	snap, ok := s.Snapshot()
	if !ok {
		return model.Vault{}, false
	}
	return snap.VaultBySlug(slug)
}

// DepositsForVault returns the deposits of a vault; empty before Load.
func (s *Sandbox) DepositsForVault(slug string) []model.Deposit {
	snap, ok := s.Snapshot()
	if !ok {
		return []model.Deposit{}
	}
	return snap.DepositsForVault(slug)
}

// RequireVault returns the vault or a NotFoundError.
func (s *Sandbox) RequireVault(slug string) (model.Vault, error) {
	snap, ok := s.Snapshot()
	if !ok {
		return model.Vault{}, ErrNotLoaded
	}
	v, ok := snap.VaultBySlug(slug)
	if !ok {
		return model.Vault{}, &NotFoundError{Kind: "vault", Ref: slug}
	}
	return v, nil
}

// RequireDeposit returns the deposit or a NotFoundError.
func (s *Sandbox) RequireDeposit(id int64) (model.Deposit, error) {
	snap, ok := s.Snapshot()
	if !ok {
		return model.Deposit{}, ErrNotLoaded
	}
	d, ok := snap.DepositByID(id)
	if !ok {
		return model.Deposit{}, &NotFoundError{Kind: "deposit", Ref: strconv.FormatInt(id, 10)}
	}
	return d, nil
}
