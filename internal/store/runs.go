package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/hailcross/internal/hail"
)

// ErrNotFound is returned when no run matches a lookup.
var ErrNotFound = errors.New("run not found")

// Run is one recorded count.
type Run struct {
	ID          string      `json:"id"`
	Seq         int64       `json:"seq"`
	RunKey      string      `json:"run_key"`
	InputDigest string      `json:"input_digest"`
	Bounds      hail.Bounds `json:"bounds"`
	Hailstones  int         `json:"hailstones"`
	Pairs       int64       `json:"pairs"`
	Crossings   int64       `json:"crossings"`
	Workers     int         `json:"workers"`
}

// WriteRun assigns an ID and the next seq to run, inserts it and returns the
// stored record. Any ID or Seq already set on run is ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	run.ID = s.newID.Generate()
	run.Seq = seq

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, run_key, input_digest, low, high, hailstones, pairs, crossings, workers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.RunKey,
		run.InputDigest,
		run.Bounds.Low,
		run.Bounds.High,
		run.Hailstones,
		run.Pairs,
		run.Crossings,
		run.Workers,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

const selectRun = `
	SELECT id, seq, run_key, input_digest, low, high, hailstones, pairs, crossings, workers
	FROM runs
`

// ReadRun returns the run with the given ID, or ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// LookupRun returns the most recent run with the given run key, or ErrNotFound.
func (s *Store) LookupRun(ctx context.Context, runKey string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+`
		WHERE run_key = ?
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT 1
	`, runKey)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("lookup run: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
// Returns an empty slice (not nil) when the store has no runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, selectRun+`
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.RunKey,
		&run.InputDigest,
		&run.Bounds.Low,
		&run.Bounds.High,
		&run.Hailstones,
		&run.Pairs,
		&run.Crossings,
		&run.Workers,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}
