package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/hailcross/internal/hail"
	"github.com/roach88/hailcross/internal/input"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	SettingsFlags
}

// CheckResult explains how one pair was decided.
type CheckResult struct {
	A           string      `json:"a"`
	B           string      `json:"b"`
	Bounds      hail.Bounds `json:"bounds"`
	Determinant string      `json:"determinant"`
	Parallel    bool        `json:"parallel"`
	T           string      `json:"t,omitempty"`
	S           string      `json:"s,omitempty"`
	X           string      `json:"x,omitempty"`
	Y           string      `json:"y,omitempty"`
	Future      bool        `json:"future"`
	InRegion    bool        `json:"in_region"`
	Counts      bool        `json:"counts"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <hailstone-a> <hailstone-b>",
		Short: "Explain whether a single pair counts",
		Long: `Solve the crossing of two hailstone paths and show the parametric times,
the crossing point and each part of the decision.

Examples:
  hailcross check --low 7 --high 27 "19, 13, 30 @ -2, 1, -2" "18, 19, 22 @ -1, -1, -2"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], args[1], cmd)
		},
	}

	opts.SettingsFlags.register(cmd, false)

	return cmd
}

func runCheck(opts *CheckOptions, lineA, lineB string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return settingsFailure(formatter, err)
	}
	if err := cfg.Bounds.Validate(); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBounds, err.Error(), nil)
	}

	recA, err := input.ParseLine(lineA)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeParse, "hailstone a: "+err.Error(), nil)
	}
	recB, err := input.ParseLine(lineB)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeParse, "hailstone b: "+err.Error(), nil)
	}

	a, b := recA.Hailstone(), recB.Hailstone()
	result := CheckResult{
		A:           a.String(),
		B:           b.String(),
		Bounds:      cfg.Bounds,
		Determinant: hail.Det(a, b).String(),
	}

	ix, ok := hail.Intersect(a, b)
	if !ok {
		result.Parallel = true
	} else {
		result.T = ix.T().RatString()
		result.S = ix.S().RatString()
		result.X = ix.X().RatString()
		result.Y = ix.Y().RatString()
		result.Future = ix.Future()
		result.InRegion = hail.InRegion(ix, cfg.Bounds)
		result.Counts = result.InRegion
	}

	return formatter.Success(result, func(w io.Writer) { writeCheckText(w, result, ix) })
}

func writeCheckText(w io.Writer, r CheckResult, ix *hail.Intersection) {
	fmt.Fprintf(w, "A:           %s\n", r.A)
	fmt.Fprintf(w, "B:           %s\n", r.B)
	fmt.Fprintf(w, "Region:      [%d, %d]\n", r.Bounds.Low, r.Bounds.High)
	fmt.Fprintf(w, "Determinant: %s\n", r.Determinant)
	if r.Parallel {
		fmt.Fprintln(w, "Paths are parallel and never cross")
		fmt.Fprintln(w, "Counts:      no")
		return
	}
	fmt.Fprintf(w, "t:           %s (%s)\n", ix.T().FloatString(3), r.T)
	fmt.Fprintf(w, "s:           %s (%s)\n", ix.S().FloatString(3), r.S)
	fmt.Fprintf(w, "Point:       (%s, %s)\n", ix.X().FloatString(3), ix.Y().FloatString(3))
	fmt.Fprintf(w, "Future:      %s\n", yesNo(r.Future))
	fmt.Fprintf(w, "In region:   %s\n", yesNo(r.InRegion))
	fmt.Fprintf(w, "Counts:      %s\n", yesNo(r.Counts))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
