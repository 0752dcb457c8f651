// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// BackendID names a research backend.
type BackendID string

const (
	// BackendParallel is the general-purpose backend (Parallel Chat API).
	BackendParallel BackendID = "parallel"

	// BackendPerplexity is the academic specialist (Perplexity sonar-pro-search
	// through OpenRouter).
	BackendPerplexity BackendID = "perplexity"
)

// ParseBackendID accepts a backend name or its role alias ("general",
// "specialist"). An empty string parses to the empty BackendID, meaning
// automatic selection.
func ParseBackendID(s string) (BackendID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "parallel", "general":
		return BackendParallel, nil
	case "perplexity", "specialist", "academic":
		return BackendPerplexity, nil
	default:
		return "", fmt.Errorf("unknown backend %q: want parallel (general) or perplexity (specialist)", s)
	}
}

// Availability records which backends have credentials configured. It is
// computed once when a router is built.
type Availability struct {
	Parallel   bool `json:"parallel" yaml:"parallel"`
	Perplexity bool `json:"perplexity" yaml:"perplexity"`
}

// Has reports whether the given backend is available.
func (a Availability) Has(id BackendID) bool {
	switch id {
	case BackendParallel:
		return a.Parallel
	case BackendPerplexity:
		return a.Perplexity
	default:
		return false
	}
}

// Any reports whether at least one backend is available.
func (a Availability) Any() bool {
	return a.Parallel || a.Perplexity
}

// Usage is token usage as reported by a backend.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens" yaml:"total_tokens"`
}

// String formats usage for human-readable reports.
func (u Usage) String() string {
	return fmt.Sprintf("prompt=%d completion=%d total=%d", u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

// LookupResult is the outcome of one query against one backend. Success
// results carry Response, Citations, and Sources; failures carry Error.
// Backend, Model, and Timestamp are set either way (Backend and Model stay
// empty when no backend could be selected).
type LookupResult struct {
	ID      string `json:"id" yaml:"id"`
	Success bool   `json:"success" yaml:"success"`
	Query   string `json:"query" yaml:"query"`

	Response string `json:"response,omitempty" yaml:"response,omitempty"`

	// Citations lists structured sources first, then text-derived citations.
	Citations []Citation `json:"citations,omitempty" yaml:"citations,omitempty"`

	// Sources holds only the structured citations returned by the backend.
	Sources []Citation `json:"sources,omitempty" yaml:"sources,omitempty"`

	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	Backend   BackendID `json:"backend,omitempty" yaml:"backend,omitempty"`
	Model     string    `json:"model,omitempty" yaml:"model,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Usage     *Usage    `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// TextCitations returns the text-derived tail of Citations.
func (r LookupResult) TextCitations() []Citation {
	var out []Citation
	for _, c := range r.Citations {
		if c.IsTextDerived() {
			out = append(out, c)
		}
	}
	return out
}
