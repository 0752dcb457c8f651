// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package router sends research queries to the best available backend and
// normalizes the citations that come back. A Router answers one query at a
// time; a BatchRunner drives it over a list of queries.
package router

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/research-lookup/internal/backend"
	"github.com/pdiddy/research-lookup/internal/extract"
	"github.com/pdiddy/research-lookup/pkg/types"
)

// Router routes each query to one backend adapter. It holds only state fixed
// at construction, so one Router may serve concurrent lookups.
type Router struct {
	selector *Selector
	adapters map[types.BackendID]backend.Adapter
	avail    types.Availability
	forced   types.BackendID
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Router.
type Option func(*Router)

// WithSelector replaces the default keyword selector.
func WithSelector(s *Selector) Option {
	return func(r *Router) {
		r.selector = s
	}
}

// WithForcedBackend pins lookups to id whenever it is available.
func WithForcedBackend(id types.BackendID) Option {
	return func(r *Router) {
		r.forced = id
	}
}

// WithLogger sets the logger for routing diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// WithClock sets the time source used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.now = now
	}
}

// WithIDGenerator sets the function that assigns result IDs.
func WithIDGenerator(newID func() string) Option {
	return func(r *Router) {
		r.newID = newID
	}
}

// New creates a router over adapters. Availability is fixed here: a backend
// is available exactly when an adapter for it is supplied. Nil adapters are
// ignored; a later adapter with the same ID replaces an earlier one.
func New(adapters []backend.Adapter, opts ...Option) *Router {
	r := &Router{
		adapters: make(map[types.BackendID]backend.Adapter, len(adapters)),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, a := range adapters {
		if a == nil {
			continue
		}
		r.adapters[a.ID()] = a
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.selector == nil {
		r.selector = NewSelector(nil)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	_, r.avail.Parallel = r.adapters[types.BackendParallel]
	_, r.avail.Perplexity = r.adapters[types.BackendPerplexity]
	return r
}

// Availability reports which backends this router can use.
func (r *Router) Availability() types.Availability {
	return r.avail
}

// Decide returns the routing decision for query without calling a backend.
func (r *Router) Decide(query string) (Decision, error) {
	return r.selector.Select(query, r.forced, r.avail)
}

// Lookup answers query with one backend call. It never fails: selection and
// backend errors produce a result with Success false and Error set. The
// timestamp is taken before the backend is called.
func (r *Router) Lookup(ctx context.Context, query string) types.LookupResult {
	result := types.LookupResult{
		ID:        r.newID(),
		Query:     query,
		Timestamp: r.now(),
	}
	log := r.logger.With(zap.String("id", result.ID))

	decision, err := r.Decide(query)
	if err != nil {
		log.Error("no backend for query", zap.String("query", preview(query, 80)), zap.Error(err))
		result.Error = err.Error()
		return result
	}
	if r.forced != "" && !decision.Forced {
		log.Warn("forced backend unavailable; using automatic selection",
			zap.String("forced", string(r.forced)),
			zap.String("backend", string(decision.Backend)))
	}

	adapter := r.adapters[decision.Backend]
	result.Backend = adapter.ID()
	result.Model = adapter.Model()

	log.Info("routing query",
		zap.String("backend", string(decision.Backend)),
		zap.Bool("academic", decision.Academic),
		zap.String("query", preview(query, 80)))

	resp, err := adapter.Call(ctx, query)
	if err != nil {
		log.Warn("backend call failed", zap.String("backend", string(result.Backend)), zap.Error(err))
		result.Error = err.Error()
		if result.Error == "" {
			result.Error = "backend call failed"
		}
		return result
	}

	result.Success = true
	result.Response = resp.Text
	if resp.Model != "" {
		result.Model = resp.Model
	}
	result.Usage = resp.Usage
	result.Citations, result.Sources = extract.Collect(resp.Raw, resp.Text)

	log.Debug("lookup complete",
		zap.Int("sources", len(result.Sources)),
		zap.Int("citations", len(result.Citations)))
	return result
}

// preview truncates s to at most n runes for log lines.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
