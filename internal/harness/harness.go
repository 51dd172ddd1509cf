package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roach88/hailcross/internal/hail"
	"github.com/roach88/hailcross/internal/input"
)

// Result contains the outcome of running a scenario.
type Result struct {
	// Pass is true when the totals and every assertion match.
	Pass bool `json:"pass"`

	Hailstones int   `json:"hailstones"`
	Pairs      int64 `json:"pairs"`
	Crossings  int64 `json:"crossings"`

	// Verdicts lists every unordered pair in (A, B) order with A < B.
	Verdicts []PairVerdict `json:"verdicts"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// PairVerdict is the classification of one pair. Indexes are 1-based.
type PairVerdict struct {
	A       int          `json:"a"`
	B       int          `json:"b"`
	Verdict hail.Verdict `json:"verdict"`
}

// Run executes a scenario and validates its expectations.
// An error is returned only when the scenario cannot be executed at all;
// mismatches are reported through Result.Errors.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	stones, err := loadStones(s)
	if err != nil {
		return nil, err
	}

	counted, err := hail.Count(ctx, stones, s.Bounds, hail.Options{Workers: s.Workers})
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	result := &Result{
		Hailstones: counted.Hailstones,
		Pairs:      counted.Pairs,
		Crossings:  counted.Crossings,
		Verdicts:   classifyAll(stones, s.Bounds),
	}

	var tally int64
	for _, v := range result.Verdicts {
		if v.Verdict == hail.VerdictCounts {
			tally++
		}
	}
	if tally != counted.Crossings {
		result.Errors = append(result.Errors,
			fmt.Sprintf("counter reported %d crossings but pair verdicts give %d", counted.Crossings, tally))
	}

	if want := *s.Expect.Crossings; want != counted.Crossings {
		result.Errors = append(result.Errors,
			fmt.Sprintf("crossings: expected %d, got %d", want, counted.Crossings))
	}
	if s.Expect.Pairs != nil && *s.Expect.Pairs != counted.Pairs {
		result.Errors = append(result.Errors,
			fmt.Sprintf("pairs: expected %d, got %d", *s.Expect.Pairs, counted.Pairs))
	}

	for i, a := range s.Assertions {
		if err := checkAssertion(a, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}

	result.Pass = len(result.Errors) == 0
	return result, nil
}

func loadStones(s *Scenario) ([]hail.Hailstone, error) {
	var r io.Reader
	if s.Input != "" {
		f, err := os.Open(s.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	} else {
		r = strings.NewReader(strings.Join(s.Hailstones, "\n"))
	}

	records, err := input.Parse(r)
	if err != nil {
		return nil, err
	}
	return input.Hailstones(records), nil
}

func classifyAll(stones []hail.Hailstone, b hail.Bounds) []PairVerdict {
	n := len(stones)
	verdicts := make([]PairVerdict, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			verdicts = append(verdicts, PairVerdict{
				A:       i + 1,
				B:       j + 1,
				Verdict: hail.Classify(stones[i], stones[j], b),
			})
		}
	}
	return verdicts
}

func checkAssertion(a Assertion, r *Result) error {
	switch a.Type {
	case AssertPairVerdict:
		lo, hi := a.Pair[0], a.Pair[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo < 1 || hi > r.Hailstones {
			return fmt.Errorf("pair [%d, %d] out of range for %d hailstones", a.Pair[0], a.Pair[1], r.Hailstones)
		}
		got := r.verdict(lo, hi)
		if got != a.Verdict {
			return fmt.Errorf("pair [%d, %d]: expected %s, got %s", a.Pair[0], a.Pair[1], a.Verdict, got)
		}
	case AssertStoneCrossings:
		if a.Stone > r.Hailstones {
			return fmt.Errorf("stone %d out of range for %d hailstones", a.Stone, r.Hailstones)
		}
		got := 0
		for _, v := range r.Verdicts {
			if v.Verdict == hail.VerdictCounts && (v.A == a.Stone || v.B == a.Stone) {
				got++
			}
		}
		if got != a.Count {
			return fmt.Errorf("stone %d: expected %d crossings, got %d", a.Stone, a.Count, got)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// verdict looks up pair (a, b) with 1 <= a < b <= Hailstones.
func (r *Result) verdict(a, b int) hail.Verdict {
	n := r.Hailstones
	// Row a-1 starts after the rows of the a-1 stones before it.
	i := a - 1
	idx := i*n - i*(i+1)/2 + (b - a - 1)
	return r.Verdicts[idx].Verdict
}
