// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-lookup/pkg/types"
)

func testPerplexityCfg(endpoint string) types.PerplexityConfig {
	cfg := types.DefaultLookupConfig().Perplexity
	cfg.Endpoint = endpoint
	return cfg
}

func TestNewPerplexityAdapter_RequiresKey(t *testing.T) {
	_, err := NewPerplexityAdapter("", types.PerplexityConfig{}, nil)
	require.Error(t, err)
}

func TestNewPerplexityAdapter_Defaults(t *testing.T) {
	a, err := NewPerplexityAdapter("or-key", types.PerplexityConfig{}, nil)
	require.NoError(t, err)

	assert.Equal(t, types.BackendPerplexity, a.ID())
	assert.Equal(t, "perplexity/sonar-pro-search", a.Model())
	assert.Equal(t, 90*time.Second, a.client.Timeout)
	assert.Equal(t, 8000, a.cfg.MaxTokens)
	assert.Equal(t, "academic", a.cfg.SearchMode)
	assert.Equal(t, "high", a.cfg.SearchContextSize)
	require.NotNil(t, a.cfg.Temperature)
	assert.InDelta(t, 0.1, *a.cfg.Temperature, 1e-9)
}

func TestPerplexityAdapter_Temperature(t *testing.T) {
	zero := 0.0
	tests := []struct {
		name        string
		temperature *float64
		want        float64
	}{
		{"unset uses default", nil, 0.1},
		{"explicit zero is kept", &zero, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody map[string]any
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&gotBody)
				fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
			}))
			defer ts.Close()

			cfg := types.PerplexityConfig{Endpoint: ts.URL, Temperature: tt.temperature}
			a, err := NewPerplexityAdapter("or-key", cfg, nil, WithHTTPClient(ts.Client()))
			require.NoError(t, err)

			_, err = a.Call(context.Background(), "find papers on x")
			require.NoError(t, err)
			require.Contains(t, gotBody, "temperature")
			assert.InDelta(t, tt.want, gotBody["temperature"], 1e-9)
		})
	}
}

func TestPerplexityAdapter_RequestShape(t *testing.T) {
	var gotReq *http.Request
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer ts.Close()

	a, err := NewPerplexityAdapter("or-key", testPerplexityCfg(ts.URL+"/api/v1/chat/completions"), nil, WithHTTPClient(ts.Client()))
	require.NoError(t, err)

	_, err = a.Call(context.Background(), "find papers on CRISPR off-target effects")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "/api/v1/chat/completions", gotReq.URL.Path)
	assert.Equal(t, "Bearer or-key", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "https://scientific-writer.local", gotReq.Header.Get("HTTP-Referer"))
	assert.Equal(t, "Scientific Writer Research Tool", gotReq.Header.Get("X-Title"))
	assert.Equal(t, "application/json", gotReq.Header.Get("Content-Type"))

	assert.Equal(t, "perplexity/sonar-pro-search", gotBody["model"])
	assert.Equal(t, float64(8000), gotBody["max_tokens"])
	assert.InDelta(t, 0.1, gotBody["temperature"], 1e-9)
	assert.Equal(t, "academic", gotBody["search_mode"])
	assert.Equal(t, "high", gotBody["search_context_size"])

	msgs := gotBody["messages"].([]any)
	require.Len(t, msgs, 2)
	system := msgs[0].(map[string]any)
	user := msgs[1].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, DefaultPerplexitySystemPrompt, system["content"])
	assert.Equal(t, "user", user["role"])
	content := user["content"].(string)
	assert.Contains(t, content, `"find papers on CRISPR off-target effects"`)
	assert.Contains(t, content, "800-1200 words")
	assert.Contains(t, content, "5-8 high-quality citations")
}

func TestPerplexityAdapter_CallSuccess(t *testing.T) {
	body := `{
		"id": "gen-1",
		"choices": [{"message": {"role": "assistant", "content": "Findings [1]."}}],
		"search_results": [{"title": "Paper", "url": "https://pubmed.ncbi.nlm.nih.gov/1/", "date": "2023-05-01"}],
		"usage": {"prompt_tokens": 100, "completion_tokens": 200, "total_tokens": 300}
	}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer ts.Close()

	a, err := NewPerplexityAdapter("k", testPerplexityCfg(ts.URL), nil, WithHTTPClient(ts.Client()))
	require.NoError(t, err)

	resp, err := a.Call(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, "Findings [1].", resp.Text)
	assert.Equal(t, "perplexity/sonar-pro-search", resp.Model)
	assert.JSONEq(t, body, string(resp.Raw))
	require.NotNil(t, resp.Usage)
	assert.Equal(t, int64(300), resp.Usage.TotalTokens)
}

func TestPerplexityAdapter_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad key"}`, http.StatusUnauthorized, "401"},
		{"server error", http.StatusServiceUnavailable, `busy`, http.StatusServiceUnavailable, "503"},
		{"malformed json", http.StatusOK, `{"choices": [`, 0, "decoding response"},
		{"no choices", http.StatusOK, `{"choices": []}`, 0, "no response choices received from API"},
		{"missing choices", http.StatusOK, `{"id": "x"}`, 0, "no response choices received from API"},
		{"no message", http.StatusOK, `{"choices": [{"index": 0}]}`, 0, "invalid response format from API"},
		{"no content", http.StatusOK, `{"choices": [{"message": {"role": "assistant"}}]}`, 0, "invalid response format from API"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			a, err := NewPerplexityAdapter("k", testPerplexityCfg(ts.URL), nil, WithHTTPClient(ts.Client()))
			require.NoError(t, err)

			resp, err := a.Call(context.Background(), "q")
			require.Error(t, err)
			assert.Nil(t, resp)

			var be *BackendError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, types.BackendPerplexity, be.Backend)
			assert.Equal(t, tt.wantStatus, be.Status)
			assert.True(t, strings.Contains(err.Error(), tt.wantMsg), "error %q should contain %q", err.Error(), tt.wantMsg)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no retries")
		})
	}
}

func TestPerplexityAdapter_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	cfg := testPerplexityCfg(ts.URL)
	cfg.Timeout = 50 * time.Millisecond
	a, err := NewPerplexityAdapter("k", cfg, nil)
	require.NoError(t, err)

	_, err = a.Call(context.Background(), "q")
	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 0, be.Status)
}

func TestRenderAcademicPrompt_EmbedsLiteralQuery(t *testing.T) {
	prompt, err := renderAcademicPrompt(`effects of <x> & "y"`)
	require.NoError(t, err)
	assert.Contains(t, prompt, `following query: "effects of <x> & "y""`)
}

func TestFromConfig(t *testing.T) {
	cfg := types.DefaultLookupConfig()

	tests := []struct {
		name  string
		creds Credentials
		want  []types.BackendID
	}{
		{"none", Credentials{}, nil},
		{"parallel only", Credentials{ParallelAPIKey: "p"}, []types.BackendID{types.BackendParallel}},
		{"openrouter only", Credentials{OpenRouterAPIKey: "o"}, []types.BackendID{types.BackendPerplexity}},
		{"both", Credentials{ParallelAPIKey: "p", OpenRouterAPIKey: "o"}, []types.BackendID{types.BackendParallel, types.BackendPerplexity}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapters, err := FromConfig(cfg, tt.creds, nil)
			require.NoError(t, err)

			var got []types.BackendID
			for _, a := range adapters {
				got = append(got, a.ID())
			}
			assert.Equal(t, tt.want, got)

			avail := tt.creds.Availability()
			for _, id := range tt.want {
				assert.True(t, avail.Has(id))
			}
		})
	}
}

func TestBackendError_MessageIsUnderlying(t *testing.T) {
	err := wrapError(types.BackendPerplexity, errors.New("connection refused"))
	assert.Equal(t, "connection refused", err.Error())

	again := wrapError(types.BackendParallel, err)
	assert.Same(t, err, again)

	assert.Nil(t, wrapError(types.BackendParallel, nil))
}
