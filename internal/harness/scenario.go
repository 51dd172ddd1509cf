package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hailcross/internal/hail"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Bounds is the closed test area applied to both coordinates.
	Bounds hail.Bounds `yaml:"bounds"`

	// Hailstones holds input lines in the puzzle format.
	// Mutually exclusive with Input.
	Hailstones []string `yaml:"hailstones,omitempty"`

	// Input is a path to an input file, relative to the scenario file.
	Input string `yaml:"input,omitempty"`

	// Workers overrides the worker count. Zero uses one worker per CPU.
	Workers int `yaml:"workers,omitempty"`

	// Expect holds the expected totals.
	Expect Expect `yaml:"expect"`

	// Assertions validate individual pairs and stones.
	// Supported types: pair_verdict, stone_crossings
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expect holds expected totals. Crossings is required.
type Expect struct {
	Crossings *int64 `yaml:"crossings"`
	Pairs     *int64 `yaml:"pairs,omitempty"`
}

// Assertion checks one pair or one stone. Indexes are 1-based, in input order.
type Assertion struct {
	// Type specifies the assertion type:
	// - "pair_verdict": the pair's verdict equals Verdict
	// - "stone_crossings": the stone takes part in exactly Count crossings
	Type string `yaml:"type"`

	// Pair is used by pair_verdict.
	Pair []int `yaml:"pair,omitempty"`

	// Verdict is used by pair_verdict: counts, outside, past or parallel.
	Verdict hail.Verdict `yaml:"verdict,omitempty"`

	// Stone is used by stone_crossings.
	Stone int `yaml:"stone,omitempty"`

	// Count is used by stone_crossings.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertPairVerdict    = "pair_verdict"
	AssertStoneCrossings = "stone_crossings"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields so typos like "assertion:" fail loudly.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Input != "" && !filepath.IsAbs(scenario.Input) {
		scenario.Input = filepath.Join(filepath.Dir(path), scenario.Input)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if err := s.Bounds.Validate(); err != nil {
		return err
	}

	switch {
	case len(s.Hailstones) == 0 && s.Input == "":
		return fmt.Errorf("one of hailstones or input is required")
	case len(s.Hailstones) > 0 && s.Input != "":
		return fmt.Errorf("hailstones and input are mutually exclusive")
	}

	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", s.Workers)
	}

	if s.Expect.Crossings == nil {
		return fmt.Errorf("expect.crossings is required")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertion %d: %w", i, err)
		}
	}

	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertPairVerdict:
		if len(a.Pair) != 2 {
			return fmt.Errorf("pair_verdict requires a pair of two indexes")
		}
		if a.Pair[0] == a.Pair[1] {
			return fmt.Errorf("pair_verdict requires two distinct stones, got %d twice", a.Pair[0])
		}
		switch a.Verdict {
		case hail.VerdictCounts, hail.VerdictOutside, hail.VerdictPast, hail.VerdictParallel:
		default:
			return fmt.Errorf("unknown verdict %q", a.Verdict)
		}
	case AssertStoneCrossings:
		if a.Stone < 1 {
			return fmt.Errorf("stone_crossings requires a 1-based stone index")
		}
		if a.Count < 0 {
			return fmt.Errorf("stone_crossings count must be non-negative")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
