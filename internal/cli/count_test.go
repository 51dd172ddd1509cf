package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hailcross/internal/store"
)

func decodeCount(t *testing.T, out string) CountResult {
	t.Helper()
	var resp struct {
		Status string      `json:"status"`
		Data   CountResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestCount_ExampleText(t *testing.T) {
	cmd := NewCountCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, "--low", "7", "--high", "27", examplePath)
	require.NoError(t, err)
	assertGolden(t, "count_example", out)
}

func TestCount_ExampleList(t *testing.T) {
	cmd := NewCountCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, "--low", "7", "--high", "27", "--list", examplePath)
	require.NoError(t, err)
	assertGolden(t, "count_example_list", out)
}

func TestCount_ExampleJSON(t *testing.T) {
	cmd := NewCountCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, "--low", "7", "--high", "27", "--workers", "3", "--list", examplePath)
	require.NoError(t, err)

	res := decodeCount(t, out)
	assert.Equal(t, int64(2), res.Crossings)
	assert.Equal(t, int64(10), res.Pairs)
	assert.Equal(t, 5, res.Hailstones)
	assert.Len(t, res.InputDigest, 64)
	assert.False(t, res.Cached)
	assert.Empty(t, res.RunID)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, MatchResult{LineA: 1, LineB: 2, X: "14.333", Y: "15.333", T: "2.333", S: "3.667"}, res.Matches[0])
}

func TestCount_ReferenceBoundsByDefault(t *testing.T) {
	cmd := NewCountCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, examplePath)
	require.NoError(t, err)

	res := decodeCount(t, out)
	assert.Equal(t, int64(200000000000000), res.Bounds.Low)
	assert.Equal(t, int64(400000000000000), res.Bounds.High)
	assert.Zero(t, res.Crossings)
}

func TestCount_Stdin(t *testing.T) {
	data, err := os.ReadFile(examplePath)
	require.NoError(t, err)

	cmd := NewCountCommand(&RootOptions{Format: "json"})
	cmd.SetIn(strings.NewReader(string(data)))
	out, err := execute(cmd, "--low", "7", "--high", "27", "-")
	require.NoError(t, err)
	assert.Equal(t, int64(2), decodeCount(t, out).Crossings)
}

func TestCount_ConfigFileAndFlagPrecedence(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "hailcross.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("bounds:\n  low: 7\n  high: 10\nworkers: 2\n"), 0644))

	// Config alone: [7, 10] keeps no crossings.
	cmd := NewCountCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, "--config", cfgPath, examplePath)
	require.NoError(t, err)
	res := decodeCount(t, out)
	assert.Equal(t, int64(10), res.Bounds.High)
	assert.Zero(t, res.Crossings)

	// --high overrides the file.
	cmd = NewCountCommand(&RootOptions{Format: "json"})
	out, err = execute(cmd, "--config", cfgPath, "--high", "27", examplePath)
	require.NoError(t, err)
	res = decodeCount(t, out)
	assert.Equal(t, int64(7), res.Bounds.Low)
	assert.Equal(t, int64(27), res.Bounds.High)
	assert.Equal(t, int64(2), res.Crossings)
}

func TestCount_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: -3\n"), 0644))

	cmd := NewCountCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, "--config", cfgPath, examplePath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]")
}

func TestCount_InvalidBounds(t *testing.T) {
	cmd := NewCountCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, "--low", "27", "--high", "7", examplePath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestCount_MissingInput(t *testing.T) {
	cmd := NewCountCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}

func TestCount_MalformedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("1, 2, 3 @ 4, 5, 6\n1, 2, 3 @ four, 5, 6\n"), 0644))

	cmd := NewCountCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeParse, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "line 2")
}

func TestCount_ReuseRequiresDatabase(t *testing.T) {
	cmd := NewCountCommand(&RootOptions{Format: "text"})
	_, err := execute(cmd, "--reuse", examplePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--reuse requires --db")
}

func TestCount_RecordsAndReusesRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	gen := store.NewFixedGenerator("run-1", "run-2")

	newCmd := func() *CountOptions {
		return &CountOptions{RootOptions: &RootOptions{Format: "json"}, IDGenerator: gen}
	}

	// First run computes and records.
	out, err := execute(newCountCommand(newCmd()), "--low", "7", "--high", "27", "--db", dbPath, "--reuse", examplePath)
	require.NoError(t, err)
	first := decodeCount(t, out)
	assert.Equal(t, "run-1", first.RunID)
	assert.False(t, first.Cached)

	// Second run with --reuse returns the recorded result.
	out, err = execute(newCountCommand(newCmd()), "--low", "7", "--high", "27", "--db", dbPath, "--reuse", examplePath)
	require.NoError(t, err)
	second := decodeCount(t, out)
	assert.Equal(t, "run-1", second.RunID)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Crossings, second.Crossings)
	assert.Equal(t, first.Pairs, second.Pairs)

	// Different bounds miss the cache and record a new run.
	out, err = execute(newCountCommand(newCmd()), "--low", "0", "--high", "27", "--db", dbPath, "--reuse", examplePath)
	require.NoError(t, err)
	third := decodeCount(t, out)
	assert.Equal(t, "run-2", third.RunID)
	assert.False(t, third.Cached)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestCount_RecordedRunText(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	opts := &CountOptions{
		RootOptions: &RootOptions{Format: "text"},
		IDGenerator: store.NewFixedGenerator("run-abc"),
	}

	out, err := execute(newCountCommand(opts), "--low", "7", "--high", "27", "--db", dbPath, examplePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Run:        run-abc\n")
}
