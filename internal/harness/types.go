package harness

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsim/internal/model"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq    int64          `json:"seq"`
	Op     string         `json:"op"`
	Offset int64          `json:"offset"` // time offset after the step
	Result map[string]any `json:"result"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	// Final is the snapshot after the last step.
	Final model.Snapshot `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// fixed renders an amount with two decimals for traces, which cannot
// carry floats.
func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
