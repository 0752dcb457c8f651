// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-lookup/internal/backend"
	"github.com/pdiddy/research-lookup/pkg/types"
)

// fakeAdapter is an in-memory backend. call, when set, decides the response
// for each query; otherwise resp and err are returned.
type fakeAdapter struct {
	id    types.BackendID
	model string
	resp  *backend.Response
	err   error
	call  func(query string) (*backend.Response, error)

	mu      sync.Mutex
	queries []string
}

func (f *fakeAdapter) ID() types.BackendID { return f.id }
func (f *fakeAdapter) Model() string       { return f.model }

func (f *fakeAdapter) Call(_ context.Context, query string) (*backend.Response, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.call != nil {
		return f.call(query)
	}
	return f.resp, f.err
}

func (f *fakeAdapter) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func newParallel(resp *backend.Response, err error) *fakeAdapter {
	return &fakeAdapter{id: types.BackendParallel, model: "parallel-chat/core", resp: resp, err: err}
}

func newPerplexity(resp *backend.Response, err error) *fakeAdapter {
	return &fakeAdapter{id: types.BackendPerplexity, model: "perplexity/sonar-pro-search", resp: resp, err: err}
}

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func testOptions() []Option {
	return []Option{
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string { return "test-id" }),
	}
}

func TestNew_Availability(t *testing.T) {
	tests := []struct {
		name     string
		adapters []backend.Adapter
		want     types.Availability
	}{
		{"none", nil, types.Availability{}},
		{"parallel", []backend.Adapter{newParallel(nil, nil)}, types.Availability{Parallel: true}},
		{"perplexity", []backend.Adapter{newPerplexity(nil, nil)}, types.Availability{Perplexity: true}},
		{"both", []backend.Adapter{newParallel(nil, nil), newPerplexity(nil, nil)}, types.Availability{Parallel: true, Perplexity: true}},
		{"nil entry ignored", []backend.Adapter{nil, newPerplexity(nil, nil)}, types.Availability{Perplexity: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.adapters).Availability())
		})
	}
}

func TestLookup_Success(t *testing.T) {
	raw := []byte(`{"basis":[{"citations":[
		{"url":"https://arxiv.org/abs/1706.03762","title":"Attention Is All You Need"},
		{"url":"https://arxiv.org/abs/1706.03762","title":"duplicate"}
	]}]}`)
	text := "Transformers were introduced in https://arxiv.org/abs/1706.03762 (doi:10.5555/3295222)."
	usage := &types.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30}
	par := newParallel(&backend.Response{Text: text, Model: "parallel-chat/core", Raw: raw, Usage: usage}, nil)

	r := New([]backend.Adapter{par, newPerplexity(nil, errors.New("not called"))}, testOptions()...)
	got := r.Lookup(context.Background(), "history of transformer models")

	require.True(t, got.Success, "error: %s", got.Error)
	assert.Equal(t, "test-id", got.ID)
	assert.Equal(t, "history of transformer models", got.Query)
	assert.Equal(t, text, got.Response)
	assert.Equal(t, types.BackendParallel, got.Backend)
	assert.Equal(t, "parallel-chat/core", got.Model)
	assert.Equal(t, fixedTime, got.Timestamp)
	assert.Equal(t, usage, got.Usage)
	assert.Empty(t, got.Error)

	require.Len(t, got.Sources, 1)
	assert.Equal(t, "Attention Is All You Need", got.Sources[0].Title)

	require.Len(t, got.Citations, 3)
	assert.Equal(t, got.Sources, got.Citations[:len(got.Sources)])
	assert.Equal(t, types.CitationDOI, got.Citations[1].Kind)
	assert.Equal(t, "10.5555/3295222", got.Citations[1].DOI)
	assert.Equal(t, types.CitationURL, got.Citations[2].Kind)

	assert.Equal(t, []string{"history of transformer models"}, par.calls())
}

func TestLookup_AcademicQueryUsesSpecialist(t *testing.T) {
	par := newParallel(&backend.Response{Text: "general"}, nil)
	ppx := newPerplexity(&backend.Response{Text: "academic", Model: "perplexity/sonar-pro-search"}, nil)

	got := New([]backend.Adapter{par, ppx}, testOptions()...).
		Lookup(context.Background(), "Find papers on sleep and memory consolidation")

	require.True(t, got.Success)
	assert.Equal(t, types.BackendPerplexity, got.Backend)
	assert.Equal(t, "academic", got.Response)
	assert.Empty(t, par.calls())
	assert.Len(t, ppx.calls(), 1)
}

func TestLookup_CitationsAreSourcesThenText(t *testing.T) {
	raw := []byte(`{"choices":[{"message":{"content":"x"}}],
		"search_results":[{"url":"https://a.example/1","title":"A"},{"url":"https://b.example/2","title":"B"}]}`)
	text := "See doi:10.1000/abc and https://www.nature.com/articles/x and https://a.example/1."
	ppx := newPerplexity(&backend.Response{Text: text, Raw: raw}, nil)

	got := New([]backend.Adapter{ppx}, testOptions()...).Lookup(context.Background(), "any")

	require.True(t, got.Success)
	want := append(append([]types.Citation(nil), got.Sources...),
		types.Citation{Kind: types.CitationDOI, DOI: "10.1000/abc", URL: "https://doi.org/10.1000/abc"},
		types.Citation{Kind: types.CitationURL, URL: "https://www.nature.com/articles/x"},
	)
	assert.Equal(t, want, got.Citations)
	require.Len(t, got.Sources, 2)
	for _, s := range got.Sources {
		assert.Equal(t, types.CitationSource, s.Kind, "text extraction does not leak into sources")
	}
}

func TestLookup_AdapterFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport", &backend.BackendError{Backend: types.BackendParallel, Err: errors.New("dial tcp: connection refused")}},
		{"status", &backend.BackendError{Backend: types.BackendParallel, Status: 503, Err: errors.New("service unavailable")}},
		{"plain error", errors.New("boom")},
		{"empty message", errors.New("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New([]backend.Adapter{newParallel(nil, tt.err)}, testOptions()...)
			got := r.Lookup(context.Background(), "general question")

			assert.False(t, got.Success)
			assert.NotEmpty(t, got.Error)
			assert.Equal(t, types.BackendParallel, got.Backend)
			assert.Equal(t, "parallel-chat/core", got.Model)
			assert.Equal(t, fixedTime, got.Timestamp)
			assert.Empty(t, got.Citations)
			assert.Empty(t, got.Sources)
		})
	}
}

func TestLookup_NoBackend(t *testing.T) {
	got := New(nil, testOptions()...).Lookup(context.Background(), "anything")

	assert.False(t, got.Success)
	assert.Equal(t, ErrNoBackendAvailable.Error(), got.Error)
	assert.Empty(t, got.Backend)
	assert.Equal(t, "anything", got.Query)
	assert.Equal(t, fixedTime, got.Timestamp)
}

func TestLookup_ForcedBackend(t *testing.T) {
	par := newParallel(&backend.Response{Text: "general"}, nil)
	ppx := newPerplexity(&backend.Response{Text: "academic"}, nil)
	opts := append(testOptions(), WithForcedBackend(types.BackendPerplexity))

	got := New([]backend.Adapter{par, ppx}, opts...).Lookup(context.Background(), "market trends")
	require.True(t, got.Success)
	assert.Equal(t, types.BackendPerplexity, got.Backend)
}

func TestLookup_ForcedBackendUnavailableFallsBack(t *testing.T) {
	par := newParallel(&backend.Response{Text: "general"}, nil)
	opts := append(testOptions(), WithForcedBackend(types.BackendPerplexity))

	r := New([]backend.Adapter{par}, opts...)
	d, err := r.Decide("find papers on x")
	require.NoError(t, err)
	assert.False(t, d.Forced)

	got := r.Lookup(context.Background(), "find papers on x")
	require.True(t, got.Success)
	assert.Equal(t, types.BackendParallel, got.Backend)
}

func TestLookup_InjectedSelector(t *testing.T) {
	par := newParallel(&backend.Response{Text: "general"}, nil)
	ppx := newPerplexity(&backend.Response{Text: "academic"}, nil)
	opts := append(testOptions(), WithSelector(NewSelector([]string{"benchmark"})))

	got := New([]backend.Adapter{par, ppx}, opts...).Lookup(context.Background(), "Benchmark results for BERT")
	assert.Equal(t, types.BackendPerplexity, got.Backend)
}

func TestLookup_ConcurrentUse(t *testing.T) {
	par := newParallel(nil, nil)
	par.call = func(q string) (*backend.Response, error) {
		return &backend.Response{Text: "answer " + q}, nil
	}
	r := New([]backend.Adapter{par})

	var wg sync.WaitGroup
	results := make([]types.LookupResult, 16)
	for i := range results {
		i := i // per-iteration copy (pre-Go 1.22 loop semantics)
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.Lookup(context.Background(), fmt.Sprintf("q%d", i))
		}()
	}
	wg.Wait()

	ids := make(map[string]bool)
	for i, res := range results {
		require.True(t, res.Success)
		assert.Equal(t, fmt.Sprintf("answer q%d", i), res.Response)
		ids[res.ID] = true
	}
	assert.Len(t, ids, len(results), "each result gets its own ID")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "abc...", preview("abcdef", 3))
	assert.Equal(t, "日本...", preview("日本語テキスト", 2))
}
