// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-lookup/pkg/types"
)

var (
	bothAvailable  = types.Availability{Parallel: true, Perplexity: true}
	parallelOnly   = types.Availability{Parallel: true}
	perplexityOnly = types.Availability{Perplexity: true}
	noneAvailable  = types.Availability{}
)

func TestSelect_FindPapersRoutesToSpecialist(t *testing.T) {
	queries := []string{
		"find papers on CRISPR off-target effects",
		"Find Papers about protein folding",
		"please FIND PAPERS that benchmark transformers",
	}
	s := NewSelector(nil)
	for _, q := range queries {
		d, err := s.Select(q, "", bothAvailable)
		require.NoError(t, err)
		assert.Equal(t, types.BackendPerplexity, d.Backend, "query %q", q)
		assert.True(t, d.Academic)
		assert.Contains(t, d.Matched, "find papers")
	}
}

func TestSelect_GeneralQueryRoutesToParallel(t *testing.T) {
	queries := []string{
		"latest developments in solid-state batteries",
		"market size for GLP-1 drugs in 2025",
		"how does mRNA vaccine manufacturing scale",
	}
	s := NewSelector(nil)
	for _, q := range queries {
		d, err := s.Select(q, "", bothAvailable)
		require.NoError(t, err)
		assert.Equal(t, types.BackendParallel, d.Backend, "query %q", q)
		assert.False(t, d.Academic)
		assert.Empty(t, d.Matched)
	}
}

func TestSelect_SingleCredential(t *testing.T) {
	queries := []string{
		"find papers on graphene",
		"weather patterns in 2024",
		"",
	}
	s := NewSelector(nil)
	for _, q := range queries {
		d, err := s.Select(q, "", parallelOnly)
		require.NoError(t, err)
		assert.Equal(t, types.BackendParallel, d.Backend, "parallel only, query %q", q)

		d, err = s.Select(q, "", perplexityOnly)
		require.NoError(t, err)
		assert.Equal(t, types.BackendPerplexity, d.Backend, "perplexity only, query %q", q)
	}
}

func TestSelect_NoBackend(t *testing.T) {
	s := NewSelector(nil)
	_, err := s.Select("find papers on anything", "", noneAvailable)
	assert.ErrorIs(t, err, ErrNoBackendAvailable)

	_, err = s.Select("anything", types.BackendParallel, noneAvailable)
	assert.ErrorIs(t, err, ErrNoBackendAvailable)
}

func TestSelect_Forced(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		forced     types.BackendID
		avail      types.Availability
		want       types.BackendID
		wantForced bool
	}{
		{"forced specialist on general query", "market trends", types.BackendPerplexity, bothAvailable, types.BackendPerplexity, true},
		{"forced general on academic query", "find papers on x", types.BackendParallel, bothAvailable, types.BackendParallel, true},
		{"forced specialist unavailable", "market trends", types.BackendPerplexity, parallelOnly, types.BackendParallel, false},
		{"forced general unavailable", "market trends", types.BackendParallel, perplexityOnly, types.BackendPerplexity, false},
		{"forced unknown id", "market trends", types.BackendID("other"), bothAvailable, types.BackendParallel, false},
	}
	s := NewSelector(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := s.Select(tt.query, tt.forced, tt.avail)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Backend)
			assert.Equal(t, tt.wantForced, d.Forced)
			require.NotEmpty(t, d.Reasons)
			if !tt.wantForced {
				assert.Contains(t, d.Reasons[0], "unavailable")
			}
		})
	}
}

func TestSelect_AcademicWithoutSpecialistUsesGeneral(t *testing.T) {
	d, err := NewSelector(nil).Select("systematic review of statins", "", parallelOnly)
	require.NoError(t, err)
	assert.Equal(t, types.BackendParallel, d.Backend)
	assert.True(t, d.Academic, "classification is independent of availability")
}

func TestMatchKeywords_TrailingSpaceIsSignificant(t *testing.T) {
	s := NewSelector(nil)
	assert.Contains(t, s.MatchKeywords("cite sources for the claim"), "cite ")
	assert.False(t, s.IsAcademic("excited about the results"), "\"cite\" inside a word without trailing space")
	assert.True(t, s.IsAcademic("resolve DOI:10.1000/xyz"))
}

func TestNewSelector_InjectedKeywords(t *testing.T) {
	kws := []string{"Benchmark", "", "ablation"}
	s := NewSelector(kws)
	kws[0] = "mutated"

	assert.Equal(t, []string{"benchmark", "ablation"}, s.Keywords())
	assert.True(t, s.IsAcademic("a BENCHMARK of retrieval models"))
	assert.False(t, s.IsAcademic("find papers on retrieval"), "defaults are replaced, not extended")
}

func TestNewSelector_Defaults(t *testing.T) {
	s := NewSelector(nil)
	assert.Equal(t, DefaultAcademicKeywords, s.Keywords())

	got := s.Keywords()
	got[0] = "changed"
	assert.Equal(t, "find papers", s.Keywords()[0], "Keywords returns a copy")
}

func TestSelect_DefaultKeywordsAllClassifyAcademic(t *testing.T) {
	s := NewSelector(nil)
	for _, kw := range DefaultAcademicKeywords {
		d, err := s.Select("please "+kw+" something", "", bothAvailable)
		require.NoError(t, err)
		assert.Equal(t, types.BackendPerplexity, d.Backend, "keyword %q", kw)
	}
}
