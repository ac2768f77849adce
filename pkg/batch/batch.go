// Package batch runs independent work items through a bounded worker pool.
package batch

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Config holds worker pool configuration.
type Config struct {
	// MaxConcurrency is the maximum number of items in flight at once.
	MaxConcurrency int
	// BufferSize is the channel buffer for the item queue.
	BufferSize int
}

// DefaultConfig returns a pool size suited to Notion's request budget
// (roughly 3 requests per second per integration).
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 3,
		BufferSize:     64,
	}
}

type outcome[R any] struct {
	value R
	ok    bool
}

// Each pushes every item through the worker pool and collects the successful
// results. The second return value counts the items whose call reported
// failure. Result order follows completion, not input order. The pool drains
// the whole queue; fn is expected to honour ctx itself.
func Each[T, R any](ctx context.Context, cfg Config, items []T, fn func(context.Context, T) (R, bool)) ([]R, int) {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 3
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64
	}
	if len(items) == 0 {
		return nil, 0
	}

	workers := cfg.MaxConcurrency
	if workers > len(items) {
		workers = len(items)
	}

	queue := make(chan T, cfg.BufferSize)
	outcomes := make(chan outcome[R], cfg.BufferSize)

	go func() {
		for _, item := range items {
			queue <- item
		}
		close(queue)
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				value, ok := fn(ctx, item)
				outcomes <- outcome[R]{value: value, ok: ok}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var (
		results []R
		failed  int
	)
	for out := range outcomes {
		if out.ok {
			results = append(results, out.value)
			continue
		}
		failed++
	}

	log.Debug().
		Int("items", len(items)).
		Int("failed", failed).
		Int("workers", workers).
		Msg("Batch complete")

	return results, failed
}
