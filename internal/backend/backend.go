// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend wraps the external research APIs behind a single Adapter
// interface. Each adapter issues one request per call, with no retries, and
// hands back the response text together with the raw JSON document so the
// extract package can read citations without knowing the backend's types.
package backend

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/research-lookup/pkg/types"
)

// Adapter issues a research query against one backend.
type Adapter interface {
	// ID names the backend.
	ID() types.BackendID

	// Model is the model identifier reported on lookup results.
	Model() string

	// Call sends query and returns the normalized response. Failures are
	// returned as *BackendError.
	Call(ctx context.Context, query string) (*Response, error)
}

// Response is a backend reply normalized for citation extraction.
type Response struct {
	// Text is the answer prose (choices[0].message.content).
	Text string

	// Model is the model identifier the adapter reports.
	Model string

	// Raw is the full JSON response document.
	Raw []byte

	// Usage is nil when the backend reports no token usage.
	Usage *types.Usage
}

// Credentials holds the API keys for each backend. An empty key means the
// backend is not configured.
type Credentials struct {
	ParallelAPIKey   string
	OpenRouterAPIKey string
}

// Availability reports which backends have a credential.
func (c Credentials) Availability() types.Availability {
	return types.Availability{
		Parallel:   c.ParallelAPIKey != "",
		Perplexity: c.OpenRouterAPIKey != "",
	}
}

// FromConfig builds an adapter for every backend that has a credential.
// The returned slice is empty when no credentials are set.
func FromConfig(cfg types.LookupConfig, creds Credentials, logger *zap.Logger) ([]Adapter, error) {
	var adapters []Adapter
	if creds.ParallelAPIKey != "" {
		a, err := NewParallelAdapter(creds.ParallelAPIKey, cfg.Parallel, logger)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	if creds.OpenRouterAPIKey != "" {
		a, err := NewPerplexityAdapter(creds.OpenRouterAPIKey, cfg.Perplexity, logger)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
