package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/vaultsim/internal/model"
)

// TraceSnapshot is the golden-file form of a run.
type TraceSnapshot struct {
	Scenario string
	Trace    []TraceEvent
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical
// JSON serialization.
func (s TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, e := range s.Trace {
		result := make(map[string]any, len(e.Result))
		for k, v := range e.Result {
			result[k] = v
		}
		trace[i] = map[string]any{
			"seq":    e.Seq,
			"op":     e.Op,
			"offset": e.Offset,
			"result": result,
		}
	}
	return map[string]any{
		"scenario": s.Scenario,
		"trace":    trace,
	}
}

// MarshalTrace renders a run's trace as canonical JSON.
func MarshalTrace(name string, result *Result) ([]byte, error) {
	return model.MarshalCanonical(TraceSnapshot{Scenario: name, Trace: result.Trace}.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	traceJSON, err := MarshalTrace(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return result, nil
}
