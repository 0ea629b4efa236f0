package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/vaultsim/internal/engine"
	"github.com/roach88/vaultsim/internal/model"
)

// Scenario is a scripted sequence of sandbox commands plus assertions on
// the final snapshot.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ClockStart is the fixed wall time in unix seconds. Zero means
	// testutil.DefaultEpoch.
	ClockStart int64 `yaml:"clock_start,omitempty"`

	// Fixtures starts the run from the default demo snapshot instead of
	// an empty one.
	Fixtures bool `yaml:"fixtures,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one sandbox command.
type Step struct {
	Op string `yaml:"op"`

	Vault   string              `yaml:"vault,omitempty"`
	Deposit int64               `yaml:"deposit,omitempty"`
	Amount  float64             `yaml:"amount,omitempty"`
	Params  *engine.VaultParams `yaml:"params,omitempty"`

	Seconds int64 `yaml:"seconds,omitempty"`
	Days    int64 `yaml:"days,omitempty"`
	Months  int64 `yaml:"months,omitempty"`

	Expect *StepExpect `yaml:"expect,omitempty"`
}

// Delta returns the advance step's total shift in seconds.
func (s Step) Delta() int64 {
	return s.Seconds + s.Days*24*60*60 + s.Months*model.MonthSeconds
}

// StepExpect checks a step's immediate outcome.
type StepExpect struct {
	OK   *bool  `yaml:"ok,omitempty"`
	Slug string `yaml:"slug,omitempty"`
	ID   int64  `yaml:"id,omitempty"`
}

// Assertion validates the final snapshot.
type Assertion struct {
	Type      string         `yaml:"type"`
	Deposit   int64          `yaml:"deposit,omitempty"`
	Vault     string         `yaml:"vault,omitempty"`
	Expect    map[string]any `yaml:"expect"`
	Tolerance float64        `yaml:"tolerance,omitempty"`
}

// Step operations.
const (
	OpCreateVault = "create_vault"
	OpDeleteVault = "delete_vault"
	OpDeposit     = "deposit"
	OpWithdraw    = "withdraw"
	OpClaim       = "claim"
	OpAdvance     = "advance"
	OpReset       = "reset"
)

// Assertion types.
const (
	AssertDeposit = "deposit"
	AssertVault   = "vault"
	AssertOffset  = "offset"
	AssertCounts  = "counts"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step Step) error {
	switch step.Op {
	case OpCreateVault:
		if step.Params == nil {
			return fmt.Errorf("steps[%d]: create_vault requires params", i)
		}
	case OpDeleteVault:
		if step.Vault == "" {
			return fmt.Errorf("steps[%d]: delete_vault requires vault", i)
		}
	case OpDeposit:
		if step.Vault == "" {
			return fmt.Errorf("steps[%d]: deposit requires vault", i)
		}
	case OpWithdraw, OpClaim:
		if step.Deposit == 0 {
			return fmt.Errorf("steps[%d]: %s requires deposit", i, step.Op)
		}
	case OpAdvance:
		if step.Seconds == 0 && step.Days == 0 && step.Months == 0 {
			return fmt.Errorf("steps[%d]: advance requires seconds, days or months", i)
		}
	case OpReset:
	case "":
		return fmt.Errorf("steps[%d]: op is required", i)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
	}
	return nil
}

func validateAssertion(i int, a Assertion) error {
	switch a.Type {
	case AssertDeposit:
		if a.Deposit == 0 {
			return fmt.Errorf("assertions[%d]: deposit assertion requires deposit", i)
		}
	case AssertVault:
		if a.Vault == "" {
			return fmt.Errorf("assertions[%d]: vault assertion requires vault", i)
		}
	case AssertOffset, AssertCounts:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", i)
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
	}
	if len(a.Expect) == 0 {
		return fmt.Errorf("assertions[%d]: expect is required", i)
	}
	return nil
}
