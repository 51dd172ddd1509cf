package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/hailcross/internal/config"
	"github.com/roach88/hailcross/internal/hail"
	"github.com/roach88/hailcross/internal/input"
)

// SettingsFlags are the flags shared by commands that evaluate pairs.
type SettingsFlags struct {
	ConfigPath string
	Low        int64
	High       int64
	Workers    int
	Database   string
}

// register adds the shared flags to cmd. withRun adds the flags that only
// matter for a full count.
func (s *SettingsFlags) register(cmd *cobra.Command, withRun bool) {
	cmd.Flags().StringVar(&s.ConfigPath, "config", "", "path to YAML config file")
	cmd.Flags().Int64Var(&s.Low, "low", hail.ReferenceBounds.Low, "lower bound of the test area (x and y)")
	cmd.Flags().Int64Var(&s.High, "high", hail.ReferenceBounds.High, "upper bound of the test area (x and y)")
	if withRun {
		cmd.Flags().IntVarP(&s.Workers, "workers", "w", 0, "worker goroutines (0 = number of CPUs)")
		cmd.Flags().StringVar(&s.Database, "db", "", "path to SQLite run history (optional)")
	}
}

// resolve layers defaults, the config file and explicitly set flags.
func (s *SettingsFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if s.ConfigPath != "" {
		loaded, err := config.Load(s.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("low") {
		cfg.Bounds.Low = s.Low
	}
	if flags.Changed("high") {
		cfg.Bounds.High = s.High
	}
	if flags.Changed("workers") {
		cfg.Workers = s.Workers
	}
	if flags.Changed("db") {
		cfg.Database = s.Database
	}
	return cfg, nil
}

// settingsFailure maps a resolve or bounds error to CLI output.
func settingsFailure(f *OutputFormatter, err error) error {
	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		return f.Fail(ExitFailure, ErrCodeConfig, err.Error(), loadErr.Errors)
	}
	if errors.Is(err, os.ErrNotExist) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

// readRecords parses the hailstone file at path; "-" reads stdin.
func readRecords(cmd *cobra.Command, path string) ([]input.Record, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}

	records, err := input.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// inputFailure maps a readRecords error to CLI output.
func inputFailure(f *OutputFormatter, err error) error {
	var perr *input.ParseError
	if errors.As(err, &perr) {
		return f.Fail(ExitFailure, ErrCodeParse, err.Error(), map[string]any{"line": perr.Line})
	}
	if errors.Is(err, os.ErrNotExist) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
