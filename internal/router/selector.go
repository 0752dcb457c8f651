// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/research-lookup/pkg/types"
)

// ErrNoBackendAvailable is returned when no backend has a credential.
var ErrNoBackendAvailable = errors.New("no backend available: set PARALLEL_API_KEY or OPENROUTER_API_KEY")

// DefaultAcademicKeywords are the phrases that mark a query as a scholarly
// literature request. Matching is a case-insensitive substring test, so the
// trailing spaces in "cite " and "doi " are significant.
var DefaultAcademicKeywords = []string{
	"find papers", "find paper", "find articles", "find article",
	"cite ", "citation", "citations for",
	"doi ", "doi:", "pubmed", "pmid",
	"journal article", "peer-reviewed",
	"systematic review", "meta-analysis",
	"literature search", "literature on",
	"academic papers", "academic paper",
	"research papers on", "research paper on",
	"published studies", "published study",
	"scholarly", "scholar",
	"arxiv", "preprint",
	"foundational papers", "seminal papers", "landmark papers",
	"highly cited", "most cited",
}

// Decision captures how a backend was chosen for a query.
type Decision struct {
	Backend  types.BackendID `json:"backend"`
	Academic bool            `json:"academic"`
	Matched  []string        `json:"matched,omitempty"`
	Forced   bool            `json:"forced"`
	Reasons  []string        `json:"reasons,omitempty"`
}

// Selector routes queries between the general-purpose backend (Parallel)
// and the academic specialist (Perplexity).
type Selector struct {
	keywords []string
}

// NewSelector creates a selector with the given academic keywords. A nil or
// empty list selects DefaultAcademicKeywords. Keywords are lower-cased and
// copied, so later changes to the argument have no effect.
func NewSelector(keywords []string) *Selector {
	if len(keywords) == 0 {
		keywords = DefaultAcademicKeywords
	}
	kws := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		kws = append(kws, strings.ToLower(kw))
	}
	return &Selector{keywords: kws}
}

// Keywords returns a copy of the selector's academic keywords.
func (s *Selector) Keywords() []string {
	return append([]string(nil), s.keywords...)
}

// MatchKeywords returns the academic keywords contained in query, in
// keyword-list order.
func (s *Selector) MatchKeywords(query string) []string {
	q := strings.ToLower(query)
	var matched []string
	for _, kw := range s.keywords {
		if strings.Contains(q, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// IsAcademic reports whether query contains any academic keyword.
func (s *Selector) IsAcademic(query string) bool {
	return len(s.MatchKeywords(query)) > 0
}

// Select picks a backend for query:
//
//  1. forced, when set and available;
//  2. Perplexity, when the query is academic and Perplexity is available;
//  3. Parallel, when available;
//  4. Perplexity, when available, whatever the query;
//  5. otherwise ErrNoBackendAvailable.
//
// A forced backend that is unavailable is ignored and noted in the
// decision's reasons.
func (s *Selector) Select(query string, forced types.BackendID, avail types.Availability) (Decision, error) {
	var d Decision

	if forced != "" {
		if avail.Has(forced) {
			d.Backend = forced
			d.Forced = true
			d.Reasons = append(d.Reasons, fmt.Sprintf("forced backend %s", forced))
			return d, nil
		}
		d.Reasons = append(d.Reasons, fmt.Sprintf("forced backend %s unavailable; selecting automatically", forced))
	}

	d.Matched = s.MatchKeywords(query)
	d.Academic = len(d.Matched) > 0

	switch {
	case d.Academic && avail.Perplexity:
		d.Backend = types.BackendPerplexity
		d.Reasons = append(d.Reasons, fmt.Sprintf("academic query (matched %q)", d.Matched))
	case avail.Parallel:
		d.Backend = types.BackendParallel
		if d.Academic {
			d.Reasons = append(d.Reasons, "academic query but perplexity unavailable; using general backend")
		} else {
			d.Reasons = append(d.Reasons, "general query; using default backend")
		}
	case avail.Perplexity:
		d.Backend = types.BackendPerplexity
		d.Reasons = append(d.Reasons, "parallel unavailable; falling back to perplexity")
	default:
		return d, ErrNoBackendAvailable
	}
	return d, nil
}
