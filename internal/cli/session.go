package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/vaultsim/internal/model"
	"github.com/roach88/vaultsim/internal/sandbox"
	"github.com/roach88/vaultsim/internal/store"
)

// session is one command's view of the sandbox: an opened store, a
// loaded façade and the output formatter.
type session struct {
	sandbox   *sandbox.Sandbox
	formatter *OutputFormatter
	logger    *slog.Logger
	store     *store.Store
	persist   *store.Persistence
}

func openSession(ctx context.Context, cmd *cobra.Command, opts *RootOptions) (*session, error) {
	formatter := opts.formatter(cmd)

	level, err := parseLogLevel(opts.LogLevel)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --log-level", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), level, opts.Verbose)
	clock := opts.clock()

	sess := &session{formatter: formatter, logger: logger}

	var backend store.Backend
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return nil, formatter.Fail(ExitCommandError, ErrCodeDatabase,
				fmt.Sprintf("failed to open database %s: %v", opts.Database, err), nil)
		}
		backend = st
		sess.store = st
		logger.Debug("database ready", "path", opts.Database, "key", opts.Key)
	} else {
		logger.Debug("running without storage")
	}

	sess.persist = store.NewPersistence(backend, clock, store.WithKey(opts.Key), store.WithLogger(logger))
	sess.sandbox = sandbox.New(sess.persist, clock, logger)
	sess.sandbox.Load(ctx)

	return sess, nil
}

func (s *session) Close() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

func (s *session) snapshot() model.Snapshot {
	snap, _ := s.sandbox.Snapshot()
	return snap
}

// notFound reports a missing vault or deposit as a command error.
func (s *session) notFound(err error) error {
	if !sandbox.IsNotFound(err) {
		return s.formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	var nf *sandbox.NotFoundError
	errors.As(err, &nf)
	return s.formatter.Fail(ExitCommandError, ErrCodeNotFound, nf.Error(), map[string]string{
		"kind": nf.Kind,
		"ref":  nf.Ref,
	})
}

// StatusView summarizes the sandbox at virtual now.
type StatusView struct {
	Now               int64    `json:"now"`
	NowTime           string   `json:"nowTime"`
	TimeOffsetSeconds int64    `json:"timeOffsetSeconds"`
	Vaults            int      `json:"vaults"`
	Deposits          int      `json:"deposits"`
	TotalTVL          float64  `json:"totalTvl"`
	PendingYield      float64  `json:"pendingYield"`
	ClaimedYield      float64  `json:"claimedYield"`
	Storage           bool     `json:"storage"`
	StorageKey        string   `json:"storageKey"`
	StoredKeys        []string `json:"storedKeys,omitempty"`
}

func (s *session) status(ctx context.Context) StatusView {
	snap := s.snapshot()
	now, _ := s.sandbox.Now()

	tvl, pending, claimed := decimal.Zero, decimal.Zero, decimal.Zero
	for _, v := range snap.Vaults {
		tvl = tvl.Add(decimal.NewFromFloat(v.CurrentTVL))
	}
	for _, d := range snap.Deposits {
		pending = pending.Add(decimal.NewFromFloat(d.PendingYield))
		claimed = claimed.Add(decimal.NewFromFloat(d.ClaimedYield))
	}

	return StatusView{
		Now:               now,
		NowTime:           formatUnix(now),
		TimeOffsetSeconds: snap.TimeOffsetSeconds,
		Vaults:            len(snap.Vaults),
		Deposits:          len(snap.Deposits),
		TotalTVL:          tvl.InexactFloat64(),
		PendingYield:      pending.Round(2).InexactFloat64(),
		ClaimedYield:      claimed.Round(2).InexactFloat64(),
		Storage:           s.persist.Available(),
		StorageKey:        s.persist.Key(),
		StoredKeys:        s.storedKeys(ctx),
	}
}

// storedKeys lists every snapshot key in the open database.
func (s *session) storedKeys(ctx context.Context) []string {
	if s.store == nil {
		return nil
	}
	keys, err := s.store.Keys(ctx)
	if err != nil {
		s.logger.Warn("failed to list stored keys", "error", err)
		return nil
	}
	return keys
}

func formatUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatDays(seconds int64) string {
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(86400)).StringFixed(1) + "d"
}
