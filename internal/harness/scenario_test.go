package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hailcross/internal/hail"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: pair
description: "Two crossing hailstones"
bounds: { low: 7, high: 27 }
hailstones:
  - "19, 13, 30 @ -2, 1, -2"
  - "18, 19, 22 @ -1, -1, -2"
expect:
  crossings: 1
assertions:
  - type: pair_verdict
    pair: [1, 2]
    verdict: counts
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "pair", scenario.Name)
	assert.Equal(t, hail.Bounds{Low: 7, High: 27}, scenario.Bounds)
	assert.Len(t, scenario.Hailstones, 2)
	require.NotNil(t, scenario.Expect.Crossings)
	assert.Equal(t, int64(1), *scenario.Expect.Crossings)
	assert.Nil(t, scenario.Expect.Pairs)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, hail.VerdictCounts, scenario.Assertions[0].Verdict)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: typo
description: "Misspelled key"
bounds: { low: 0, high: 1 }
hailstones: ["0, 0 @ 1, 1"]
expect: { crossings: 0 }
assertion: []
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_ResolvesInputRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, `
name: file
description: "Input from a file"
bounds: { low: 0, high: 1 }
input: stones.txt
expect: { crossings: 0 }
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "stones.txt"), scenario.Input)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "x"
bounds: { low: 0, high: 1 }
hailstones: ["0, 0 @ 1, 1"]
expect: { crossings: 0 }
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: x
bounds: { low: 0, high: 1 }
hailstones: ["0, 0 @ 1, 1"]
expect: { crossings: 0 }
`,
			wantErr: "description is required",
		},
		{
			name: "inverted bounds",
			content: `
name: x
description: "x"
bounds: { low: 2, high: 1 }
hailstones: ["0, 0 @ 1, 1"]
expect: { crossings: 0 }
`,
			wantErr: "invalid bounds",
		},
		{
			name: "no hailstones",
			content: `
name: x
description: "x"
bounds: { low: 0, high: 1 }
expect: { crossings: 0 }
`,
			wantErr: "one of hailstones or input is required",
		},
		{
			name: "both sources",
			content: `
name: x
description: "x"
bounds: { low: 0, high: 1 }
hailstones: ["0, 0 @ 1, 1"]
input: stones.txt
expect: { crossings: 0 }
`,
			wantErr: "mutually exclusive",
		},
		{
			name: "missing expected crossings",
			content: `
name: x
description: "x"
bounds: { low: 0, high: 1 }
hailstones: ["0, 0 @ 1, 1"]
expect: { pairs: 0 }
`,
			wantErr: "expect.crossings is required",
		},
		{
			name: "unknown verdict",
			content: `
name: x
description: "x"
bounds: { low: 0, high: 1 }
hailstones: ["0, 0 @ 1, 1", "1, 0 @ 1, 1"]
expect: { crossings: 0 }
assertions:
  - type: pair_verdict
    pair: [1, 2]
    verdict: maybe
`,
			wantErr: `unknown verdict "maybe"`,
		},
		{
			name: "same stone twice",
			content: `
name: x
description: "x"
bounds: { low: 0, high: 1 }
hailstones: ["0, 0 @ 1, 1", "1, 0 @ 1, 1"]
expect: { crossings: 0 }
assertions:
  - type: pair_verdict
    pair: [2, 2]
    verdict: parallel
`,
			wantErr: "two distinct stones",
		},
		{
			name: "unknown assertion type",
			content: `
name: x
description: "x"
bounds: { low: 0, high: 1 }
hailstones: ["0, 0 @ 1, 1"]
expect: { crossings: 0 }
assertions:
  - type: final_state
`,
			wantErr: `unknown assertion type "final_state"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
