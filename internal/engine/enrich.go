package engine

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// FetchFunc retrieves the record for one key from an external service.
type FetchFunc[K any, R any] func(ctx context.Context, key K) (R, error)

// Enricher fans a per-key fetch out over a bounded worker pool and collects
// the results behind a full barrier: nothing is returned until every
// spawned fetch has finished. Results keep the input order; failed keys are
// skipped in the result slice and reported as KeyErrors.
//
// In fail-fast mode the first failure cancels the remaining in-flight
// fetches and is returned alone. Otherwise failures are collected and the
// siblings run to completion.
type Enricher[K any, R any] struct {
	// Concurrency caps the in-flight fetches. Zero means the host's
	// available parallelism.
	Concurrency int

	// FailFast aborts the phase on the first failed fetch.
	FailFast bool

	completed atomic.Int64
}

// Completed reports how many fetches have finished so far. It is safe to
// read concurrently and is for display only; it has no effect on results.
func (e *Enricher[K, R]) Completed() int64 {
	return e.completed.Load()
}

// Run executes fetch for every key with at most min(len(keys), Concurrency)
// in flight. The returned results are in input order; keyName renders a key
// for error reporting.
func (e *Enricher[K, R]) Run(ctx context.Context, keys []K, keyName func(K) string, fetch FetchFunc[K, R]) ([]R, []KeyError, error) {
	if len(keys) == 0 {
		return nil, nil, nil
	}

	limit := e.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	if limit > len(keys) {
		limit = len(keys)
	}

	results := make([]*R, len(keys))
	failures := make([]*KeyError, len(keys))

	if e.FailFast {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for i, key := range keys {
			g.Go(func() error {
				r, err := fetch(gctx, key)
				e.completed.Add(1)
				if err != nil {
					return &fetchError{key: keyName(key), err: err}
				}
				results[i] = &r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			fe := err.(*fetchError)
			return collect(results, nil), []KeyError{{Key: fe.key, Err: fe.err}}, fe.err
		}
		return collect(results, nil), nil, nil
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, limit)
	for i, key := range keys {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			r, err := fetch(ctx, key)
			e.completed.Add(1)
			if err != nil {
				failures[i] = &KeyError{Key: keyName(key), Err: err}
				return
			}
			results[i] = &r
		}()
	}
	wg.Wait()

	return collect(results, nil), collect(failures, nil), nil
}

// fetchError carries the failing key through errgroup.
type fetchError struct {
	key string
	err error
}

func (f *fetchError) Error() string { return f.key + ": " + f.err.Error() }
func (f *fetchError) Unwrap() error { return f.err }

// collect compacts a positional slice of optional values, preserving order.
func collect[T any](in []*T, out []T) []T {
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
