package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/hailcross/internal/config"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	ConfigPath string
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool           `json:"valid"`
	Input      string         `json:"input"`
	Hailstones int            `json:"hailstones"`
	ThreeD     bool           `json:"three_d"`
	Config     *config.Config `json:"config,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <input-file>",
		Short: "Check an input file (and config) without counting",
		Long: `Parse a hailstone input file and, with --config, validate a config file
against its schema. Nothing is counted or recorded.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	result := ValidationResult{Input: path}

	if opts.ConfigPath != "" {
		formatter.VerboseLog("Validating config: %s", opts.ConfigPath)
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return settingsFailure(formatter, err)
		}
		if err := cfg.Bounds.Validate(); err != nil {
			return formatter.Fail(ExitFailure, ErrCodeBounds, err.Error(), nil)
		}
		result.Config = &cfg
	}

	formatter.VerboseLog("Parsing input: %s", path)
	records, err := readRecords(cmd, path)
	if err != nil {
		return inputFailure(formatter, err)
	}
	if len(records) == 0 {
		return formatter.Fail(ExitFailure, ErrCodeEmpty, fmt.Sprintf("%s: no hailstones found", path), nil)
	}

	result.Valid = true
	result.Hailstones = len(records)
	result.ThreeD = records[0].HasZ

	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %s: %d hailstone(s)\n", path, result.Hailstones)
		if result.Config != nil {
			fmt.Fprintf(w, "✓ %s: region [%d, %d]\n", opts.ConfigPath, result.Config.Bounds.Low, result.Config.Bounds.High)
		}
	})
}
