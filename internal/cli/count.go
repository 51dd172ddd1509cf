package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/hailcross/internal/digest"
	"github.com/roach88/hailcross/internal/hail"
	"github.com/roach88/hailcross/internal/input"
	"github.com/roach88/hailcross/internal/store"
)

// CountOptions holds flags for the count command.
type CountOptions struct {
	*RootOptions
	SettingsFlags
	Reuse bool
	List  bool

	// IDGenerator overrides run IDs written to the store (for testing).
	IDGenerator store.IDGenerator
}

// CountResult is the payload of a count.
type CountResult struct {
	Input       string        `json:"input"`
	InputDigest string        `json:"input_digest"`
	Bounds      hail.Bounds   `json:"bounds"`
	Hailstones  int           `json:"hailstones"`
	Pairs       int64         `json:"pairs"`
	Crossings   int64         `json:"crossings"`
	RunID       string        `json:"run_id,omitempty"`
	Cached      bool          `json:"cached,omitempty"`
	Matches     []MatchResult `json:"matches,omitempty"`
}

// MatchResult describes one counting pair by input line number.
type MatchResult struct {
	LineA int    `json:"line_a"`
	LineB int    `json:"line_b"`
	X     string `json:"x"`
	Y     string `json:"y"`
	T     string `json:"t"`
	S     string `json:"s"`
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return newCountCommand(&CountOptions{RootOptions: rootOpts})
}

func newCountCommand(opts *CountOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <input-file>",
		Short: "Count pairs whose future paths cross inside the test area",
		Long: `Count the unordered hailstone pairs whose future paths cross inside
the square [low, high] x [low, high].

Bounds default to the puzzle's reference area and can come from a config
file; explicit flags win. With --db the result is recorded in a SQLite run
history, and --reuse returns an earlier result for identical input and bounds.
Use "-" to read hailstones from stdin.

Examples:
  hailcross count input.txt
  hailcross count --low 7 --high 27 example.txt --list
  hailcross count --config hailcross.yaml --db runs.db --reuse input.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(opts, args[0], cmd)
		},
	}

	opts.SettingsFlags.register(cmd, true)
	cmd.Flags().BoolVar(&opts.Reuse, "reuse", false, "return a recorded result for the same input and bounds (requires --db)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list the counting pairs")

	return cmd
}

func runCount(opts *CountOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd)

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return settingsFailure(formatter, err)
	}
	if err := cfg.Bounds.Validate(); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBounds, err.Error(), nil)
	}
	if opts.Reuse && cfg.Database == "" {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "--reuse requires --db or a database in the config file", nil)
	}

	records, err := readRecords(cmd, path)
	if err != nil {
		return inputFailure(formatter, err)
	}
	stones := input.Hailstones(records)
	logger.Debug("input parsed", "path", path, "hailstones", len(stones))

	inputDigest, err := digest.InputDigest(stones)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	runKey, err := digest.RunKey(inputDigest, cfg.Bounds)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	if cfg.Database != "" {
		var storeOpts []store.Option
		if opts.IDGenerator != nil {
			storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
		}
		st, err = store.Open(cfg.Database, storeOpts...)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	result := CountResult{
		Input:       path,
		InputDigest: inputDigest,
		Bounds:      cfg.Bounds,
		Hailstones:  len(stones),
	}

	cached := false
	if opts.Reuse {
		run, err := st.LookupRun(ctx, runKey)
		switch {
		case err == nil:
			logger.Info("reusing recorded run", "run_id", run.ID, "seq", run.Seq)
			result.Pairs = run.Pairs
			result.Crossings = run.Crossings
			result.RunID = run.ID
			result.Cached = true
			cached = true
		case errors.Is(err, store.ErrNotFound):
			logger.Debug("no recorded run", "run_key", runKey)
		default:
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
		}
	}

	if !cached {
		logger.Debug("counting", "hailstones", len(stones), "low", cfg.Bounds.Low, "high", cfg.Bounds.High, "workers", cfg.Workers)
		res, err := hail.Count(ctx, stones, cfg.Bounds, hail.Options{
			Workers:  cfg.Workers,
			Progress: progressLogger(logger),
		})
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInterrupted, fmt.Sprintf("count interrupted: %v", err), nil)
		}
		result.Pairs = res.Pairs
		result.Crossings = res.Crossings

		if st != nil {
			run, err := st.WriteRun(ctx, store.Run{
				RunKey:      runKey,
				InputDigest: inputDigest,
				Bounds:      cfg.Bounds,
				Hailstones:  res.Hailstones,
				Pairs:       res.Pairs,
				Crossings:   res.Crossings,
				Workers:     cfg.Workers,
			})
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
			}
			logger.Info("run recorded", "run_id", run.ID, "seq", run.Seq)
			result.RunID = run.ID
		}
	}

	if opts.List {
		result.Matches = matches(records, stones, cfg.Bounds)
	}

	return formatter.Success(result, func(w io.Writer) { writeCountText(w, result) })
}

// progressLogger reports finished rows at debug level, roughly every tenth.
func progressLogger(logger *slog.Logger) func(done, total int) {
	return func(done, total int) {
		step := total / 10
		if step == 0 {
			step = 1
		}
		if done%step == 0 || done == total {
			logger.Debug("rows finished", "done", done, "total", total)
		}
	}
}

func matches(records []input.Record, stones []hail.Hailstone, b hail.Bounds) []MatchResult {
	pairs := hail.Crossings(stones, b)
	out := make([]MatchResult, 0, len(pairs))
	for _, p := range pairs {
		ix, _ := hail.Intersect(stones[p.I], stones[p.J])
		out = append(out, MatchResult{
			LineA: records[p.I].Line,
			LineB: records[p.J].Line,
			X:     ix.X().FloatString(3),
			Y:     ix.Y().FloatString(3),
			T:     ix.T().FloatString(3),
			S:     ix.S().FloatString(3),
		})
	}
	return out
}

func writeCountText(w io.Writer, r CountResult) {
	fmt.Fprintf(w, "Region:     [%d, %d]\n", r.Bounds.Low, r.Bounds.High)
	fmt.Fprintf(w, "Hailstones: %d\n", r.Hailstones)
	fmt.Fprintf(w, "Pairs:      %d\n", r.Pairs)
	fmt.Fprintf(w, "Crossings:  %d\n", r.Crossings)
	if r.RunID != "" {
		if r.Cached {
			fmt.Fprintf(w, "Run:        %s (cached)\n", r.RunID)
		} else {
			fmt.Fprintf(w, "Run:        %s\n", r.RunID)
		}
	}
	if len(r.Matches) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Matches:")
		for _, m := range r.Matches {
			fmt.Fprintf(w, "  line %d x line %d at (%s, %s), t=%s s=%s\n", m.LineA, m.LineB, m.X, m.Y, m.T, m.S)
		}
	}
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
