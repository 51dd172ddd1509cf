package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/hailcross/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewHistoryCommand creates the history command and its show subcommand.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded count runs",
		Long: `List runs recorded by "count --db", newest first.

Examples:
  hailcross history --db runs.db
  hailcross history --db runs.db --limit 5 --format json
  hailcross history show --db runs.db <run-id>`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite run history (required)")
	_ = cmd.MarkPersistentFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 = all)")

	cmd.AddCommand(&cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show one recorded run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(opts, args[0], cmd)
		},
	})

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	defer st.Close()

	runs, err := st.ListRuns(commandContext(cmd), opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}

	return formatter.Success(runs, func(w io.Writer) {
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs recorded")
			return
		}
		fmt.Fprintf(w, "Run History: %d run(s)\n", len(runs))
		for _, run := range runs {
			fmt.Fprintln(w)
			writeRunText(w, run)
		}
	})
}

func runHistoryShow(opts *HistoryOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	defer st.Close()

	run, err := st.ReadRun(commandContext(cmd), id)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitFailure, ErrCodeNotFound, err.Error(), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}

	return formatter.Success(run, func(w io.Writer) { writeRunText(w, run) })
}

func writeRunText(w io.Writer, run store.Run) {
	fmt.Fprintf(w, "#%d %s\n", run.Seq, run.ID)
	fmt.Fprintf(w, "  Region:     [%d, %d]\n", run.Bounds.Low, run.Bounds.High)
	fmt.Fprintf(w, "  Hailstones: %d\n", run.Hailstones)
	fmt.Fprintf(w, "  Pairs:      %d\n", run.Pairs)
	fmt.Fprintf(w, "  Crossings:  %d\n", run.Crossings)
	fmt.Fprintf(w, "  Workers:    %d\n", run.Workers)
	fmt.Fprintf(w, "  Input:      %s\n", run.InputDigest)
}
