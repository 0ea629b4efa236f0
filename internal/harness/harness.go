package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsim/internal/model"
	"github.com/roach88/vaultsim/internal/sandbox"
	"github.com/roach88/vaultsim/internal/store"
	"github.com/roach88/vaultsim/internal/testutil"
)

// Run executes a scenario against a fresh in-memory sandbox.
//
// Execution flow:
//  1. Open an in-memory SQLite store and a fixed clock
//  2. Load the default snapshot, or reset to an empty one
//  3. Execute steps in order, recording a trace event per step
//  4. Evaluate assertions against the final snapshot
//
// The returned error covers infrastructure failures only; failed
// expectations are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with sandbox logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	start := scenario.ClockStart
	if start == 0 {
		start = testutil.DefaultEpoch
	}
	clock := testutil.NewFixedClock(start)
	persist := store.NewPersistence(st, clock, store.WithLogger(logger))

	if !scenario.Fixtures {
		persist.Save(context.Background(), model.NewSnapshot())
	}

	sb := sandbox.New(persist, clock, logger)
	ctx := context.Background()
	sb.Load(ctx)

	result := NewResult()
	for i, step := range scenario.Steps {
		event := execStep(ctx, sb, step, result, i)
		event.Seq = int64(i + 1)
		snap, _ := sb.Snapshot()
		event.Offset = snap.TimeOffsetSeconds
		result.Trace = append(result.Trace, event)
	}

	final, _ := sb.Snapshot()
	result.Final = final
	for i, a := range scenario.Assertions {
		for _, msg := range evaluate(a, final) {
			result.AddError(fmt.Sprintf("assertions[%d] (%s): %s", i, a.Type, msg))
		}
	}
	return result, nil
}

func execStep(ctx context.Context, sb *sandbox.Sandbox, step Step, result *Result, i int) TraceEvent {
	event := TraceEvent{Op: step.Op, Result: map[string]any{}}

	switch step.Op {
	case OpCreateVault:
		slug, ok := sb.CreateVault(ctx, *step.Params)
		event.Result["ok"] = ok
		event.Result["slug"] = slug
		checkStep(result, i, step.Expect, ok, slug, 0)

	case OpDeleteVault:
		sb.DeleteVault(ctx, step.Vault)
		snap, _ := sb.Snapshot()
		event.Result["slug"] = step.Vault
		event.Result["vaults"] = len(snap.Vaults)

	case OpDeposit:
		id, ok := sb.CreateDeposit(ctx, step.Vault, step.Amount)
		event.Result["id"] = id
		event.Result["ok"] = ok
		checkStep(result, i, step.Expect, ok, "", id)

	case OpWithdraw:
		sb.DeleteDeposit(ctx, step.Deposit)
		snap, _ := sb.Snapshot()
		event.Result["id"] = step.Deposit
		event.Result["deposits"] = len(snap.Deposits)

	case OpClaim:
		sb.ClaimYield(ctx, step.Deposit)
		snap, _ := sb.Snapshot()
		d, _ := snap.DepositByID(step.Deposit)
		event.Result["id"] = step.Deposit
		event.Result["claimed"] = fixed(d.ClaimedYield)

	case OpAdvance:
		sb.AdvanceTime(ctx, step.Delta())
		snap, _ := sb.Snapshot()
		pending := decimal.Zero
		for _, d := range snap.Deposits {
			pending = pending.Add(decimal.NewFromFloat(d.PendingYield))
		}
		event.Result["seconds"] = step.Delta()
		event.Result["pending"] = pending.StringFixed(2)

	case OpReset:
		sb.Reset(ctx)
		snap, _ := sb.Snapshot()
		event.Result["vaults"] = len(snap.Vaults)
		event.Result["deposits"] = len(snap.Deposits)
	}
	return event
}

func checkStep(result *Result, i int, expect *StepExpect, ok bool, slug string, id int64) {
	if expect == nil {
		return
	}
	if expect.OK != nil && *expect.OK != ok {
		result.AddError(fmt.Sprintf("steps[%d]: ok = %v, expected %v", i, ok, *expect.OK))
	}
	if expect.Slug != "" && expect.Slug != slug {
		result.AddError(fmt.Sprintf("steps[%d]: slug = %q, expected %q", i, slug, expect.Slug))
	}
	if expect.ID != 0 && expect.ID != id {
		result.AddError(fmt.Sprintf("steps[%d]: id = %d, expected %d", i, id, expect.ID))
	}
}
