package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnricher_OrderStableResults(t *testing.T) {
	keys := []int{5, 3, 9, 1, 7}
	enricher := &Enricher[int, string]{Concurrency: 3}

	results, failures, err := enricher.Run(context.Background(), keys, strconv.Itoa,
		func(_ context.Context, k int) (string, error) {
			return strconv.Itoa(k * 10), nil
		})

	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.Equal(t, []string{"50", "30", "90", "10", "70"}, results)
}

func TestEnricher_ResultPlusFailureCountEqualsInput(t *testing.T) {
	keys := []int{1, 2, 3, 4, 5, 6}
	enricher := &Enricher[int, int]{Concurrency: 2}

	results, failures, err := enricher.Run(context.Background(), keys, strconv.Itoa,
		func(_ context.Context, k int) (int, error) {
			if k%2 == 0 {
				return 0, fmt.Errorf("fetch %d failed", k)
			}
			return k, nil
		})

	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Len(t, failures, 3)
	assert.Equal(t, len(keys), len(results)+len(failures))
	assert.EqualValues(t, len(keys), enricher.Completed())
}

func TestEnricher_ConcurrencyCeiling(t *testing.T) {
	var inFlight, peak atomic.Int64
	var mu sync.Mutex

	enricher := &Enricher[int, int]{Concurrency: 2}
	keys := []int{1, 2, 3, 4, 5, 6, 7, 8}

	_, _, err := enricher.Run(context.Background(), keys, strconv.Itoa,
		func(_ context.Context, k int) (int, error) {
			n := inFlight.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			defer inFlight.Add(-1)
			return k, nil
		})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestEnricher_FailFastReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	enricher := &Enricher[int, int]{Concurrency: 1, FailFast: true}

	_, failures, err := enricher.Run(context.Background(), []int{1, 2, 3}, strconv.Itoa,
		func(_ context.Context, k int) (int, error) {
			if k == 2 {
				return 0, boom
			}
			return k, nil
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	require.Len(t, failures, 1)
	assert.Equal(t, "2", failures[0].Key)
}

func TestEnricher_FailFastCancelsSiblings(t *testing.T) {
	boom := errors.New("boom")
	enricher := &Enricher[int, int]{Concurrency: 1, FailFast: true}

	var after atomic.Int64
	_, _, err := enricher.Run(context.Background(), []int{1, 2, 3, 4}, strconv.Itoa,
		func(ctx context.Context, k int) (int, error) {
			if k == 1 {
				return 0, boom
			}
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			after.Add(1)
			return k, nil
		})

	require.Error(t, err)
	// With concurrency 1 the failure lands before any sibling starts, so
	// every later fetch observes the cancelled context.
	assert.EqualValues(t, 0, after.Load())
}

func TestEnricher_EmptyInput(t *testing.T) {
	enricher := &Enricher[string, string]{}
	results, failures, err := enricher.Run(context.Background(), nil,
		func(s string) string { return s },
		func(_ context.Context, s string) (string, error) { return s, nil })
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Nil(t, failures)
}
