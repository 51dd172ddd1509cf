package hail

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Options tunes how Count spreads work across goroutines.
type Options struct {
	// Workers is the number of goroutines draining the row queue.
	// Zero or negative means runtime.NumCPU().
	Workers int

	// Progress, if set, is called after each finished row with the number
	// of finished rows and the total. It may be called from several
	// goroutines at once.
	Progress func(done, total int)
}

// Result is the outcome of a full pass over all pairs.
type Result struct {
	Hailstones int   `json:"hailstones"`
	Pairs      int64 `json:"pairs"`
	Crossings  int64 `json:"crossings"`
}

// tally is a worker's private accumulator.
type tally struct {
	pairs     int64
	crossings int64
}

// Count returns the number of unordered pairs {i, j} whose future paths cross
// inside b.
//
// Row i covers the pairs (i, j) for j > i, so every pair is visited exactly
// once. Rows are handed out through a queue; each worker keeps its own tally
// and the tallies are summed after all workers exit. The context is checked
// between rows.
func Count(ctx context.Context, stones []Hailstone, b Bounds, opts Options) (Result, error) {
	n := len(stones)
	result := Result{Hailstones: n}
	if n < 2 {
		return result, ctx.Err()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n-1 {
		workers = n - 1
	}

	rows := make(chan int, n-1)
	for i := 0; i < n-1; i++ {
		rows <- i
	}
	close(rows)

	tallies := make([]tally, workers)
	var finished atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(local *tally) {
			defer wg.Done()
			for i := range rows {
				if ctx.Err() != nil {
					return
				}
				p, c := scanRow(stones, i, b)
				local.pairs += p
				local.crossings += c
				done := finished.Add(1)
				if opts.Progress != nil {
					opts.Progress(int(done), n-1)
				}
			}
		}(&tallies[w])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{Hailstones: n}, err
	}

	for _, t := range tallies {
		result.Pairs += t.pairs
		result.Crossings += t.crossings
	}
	return result, nil
}

// scanRow evaluates the pairs (i, j) for every j > i.
func scanRow(stones []Hailstone, i int, b Bounds) (pairs, crossings int64) {
	a := stones[i]
	for j := i + 1; j < len(stones); j++ {
		pairs++
		if Crosses(a, stones[j], b) {
			crossings++
		}
	}
	return pairs, crossings
}

// Crossings lists every counting pair in (i, j) order. It is the sequential
// counterpart of Count for callers that need to know which pairs matched.
func Crossings(stones []Hailstone, b Bounds) []Pair {
	pairs := []Pair{}
	for i := 0; i < len(stones); i++ {
		for j := i + 1; j < len(stones); j++ {
			if Crosses(stones[i], stones[j], b) {
				pairs = append(pairs, Pair{I: i, J: j})
			}
		}
	}
	return pairs
}
