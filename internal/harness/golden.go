package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/hailcross/internal/digest"
)

// Snapshot serialises the outcome of a run as canonical JSON so it can be
// compared byte for byte against a golden file.
func Snapshot(name string, result *Result) ([]byte, error) {
	verdicts := make([]any, len(result.Verdicts))
	for i, v := range result.Verdicts {
		verdicts[i] = map[string]any{
			"a":       v.A,
			"b":       v.B,
			"verdict": string(v.Verdict),
		}
	}

	return digest.MarshalCanonical(map[string]any{
		"name":       name,
		"hailstones": result.Hailstones,
		"pairs":      result.Pairs,
		"crossings":  result.Crossings,
		"verdicts":   verdicts,
	})
}

// RunWithGolden executes a scenario and compares its verdicts against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
