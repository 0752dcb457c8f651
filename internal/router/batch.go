// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-lookup/pkg/types"
)

// Looker answers a single research query. *Router implements it.
type Looker interface {
	Lookup(ctx context.Context, query string) types.LookupResult
}

// BatchRunner drives a Looker over a list of queries.
type BatchRunner struct {
	looker    Looker
	scheduler Scheduler
	logger    *zap.Logger
}

// NewBatchRunner creates a runner. A nil scheduler runs sequentially with
// DefaultDelay between queries; a nil logger discards progress lines.
func NewBatchRunner(l Looker, s Scheduler, logger *zap.Logger) *BatchRunner {
	if s == nil {
		s = SequentialScheduler{Delay: DefaultDelay}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchRunner{looker: l, scheduler: s, logger: logger}
}

// Run looks up every query and returns one result per query, in input
// order. A failed lookup does not stop the batch.
func (b *BatchRunner) Run(ctx context.Context, queries []string) []types.LookupResult {
	results := make([]types.LookupResult, len(queries))
	var done atomic.Int64
	total := len(queries)

	b.scheduler.Run(ctx, total, func(ctx context.Context, i int) {
		results[i] = b.looker.Lookup(ctx, queries[i])
		n := done.Add(1)
		b.logger.Info("completed query",
			zap.Int64("done", n),
			zap.Int("total", total),
			zap.Bool("success", results[i].Success),
			zap.String("query", preview(queries[i], 50)))
	})
	return results
}

// BatchLookup runs queries sequentially through l, pausing delay between
// consecutive queries.
func BatchLookup(ctx context.Context, l Looker, queries []string, delay time.Duration) []types.LookupResult {
	return NewBatchRunner(l, SequentialScheduler{Delay: delay}, nil).Run(ctx, queries)
}
