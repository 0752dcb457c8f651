// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultDelay is the pause between consecutive batch queries.
const DefaultDelay = time.Second

// Scheduler runs n indexed jobs. Each job writes only to its own index, so
// callers collect results by position regardless of completion order.
type Scheduler interface {
	Run(ctx context.Context, n int, job func(ctx context.Context, i int))
}

// SequentialScheduler runs jobs one after another, pausing Delay between
// consecutive jobs but not before the first.
type SequentialScheduler struct {
	Delay time.Duration

	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration)
}

// Run executes every job in index order.
func (s SequentialScheduler) Run(ctx context.Context, n int, job func(ctx context.Context, i int)) {
	sleep := s.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	for i := 0; i < n; i++ {
		if i > 0 && s.Delay > 0 {
			sleep(ctx, s.Delay)
		}
		job(ctx, i)
	}
}

// BoundedScheduler runs up to Limit jobs at once and spaces job starts at
// least Delay apart. With Limit 1 jobs never overlap; ordering of results is
// preserved by index either way.
type BoundedScheduler struct {
	Limit int
	Delay time.Duration
}

// Run executes every job and returns when all have finished. A cancelled
// context stops the pacing but not the jobs, so every index still runs.
func (s BoundedScheduler) Run(ctx context.Context, n int, job func(ctx context.Context, i int)) {
	limit := s.Limit
	if limit < 1 {
		limit = 1
	}

	var limiter *rate.Limiter
	if s.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(s.Delay), 1)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		if limiter != nil && ctx.Err() == nil {
			_ = limiter.Wait(ctx)
		}
		i := i // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			job(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

// sleepContext blocks for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
