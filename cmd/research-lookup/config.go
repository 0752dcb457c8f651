// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/research-lookup/pkg/types"
)

// registerDefaults seeds v with the built-in lookup configuration so config
// files and RESEARCH_LOOKUP_* variables only need to name what they change.
func registerDefaults(v *viper.Viper) {
	d := types.DefaultLookupConfig()

	v.SetDefault("delay", d.Delay)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("log_level", "warn")
	v.SetDefault("force_backend", "")
	v.SetDefault("academic_keywords", []string{})

	v.SetDefault("http.timeout", d.Parallel.Timeout)
	v.SetDefault("http.user_agent", "research-lookup/"+version)

	v.SetDefault("parallel.base_url", d.Parallel.BaseURL)
	v.SetDefault("parallel.model", d.Parallel.Model)
	v.SetDefault("parallel.timeout", d.Parallel.Timeout)
	v.SetDefault("parallel.system_prompt", "")

	v.SetDefault("perplexity.endpoint", d.Perplexity.Endpoint)
	v.SetDefault("perplexity.model", d.Perplexity.Model)
	v.SetDefault("perplexity.timeout", d.Perplexity.Timeout)
	v.SetDefault("perplexity.max_tokens", d.Perplexity.MaxTokens)
	v.SetDefault("perplexity.temperature", *d.Perplexity.Temperature)
	v.SetDefault("perplexity.search_mode", d.Perplexity.SearchMode)
	v.SetDefault("perplexity.search_context_size", d.Perplexity.SearchContextSize)
	v.SetDefault("perplexity.referer", d.Perplexity.Referer)
	v.SetDefault("perplexity.title", d.Perplexity.Title)
	v.SetDefault("perplexity.system_prompt", "")
}

// loadLookupConfig reads the lookup configuration from v. A per-backend
// timeout of zero falls back to http.timeout.
func loadLookupConfig(v *viper.Viper) (types.LookupConfig, error) {
	forced, err := types.ParseBackendID(v.GetString("force_backend"))
	if err != nil {
		return types.LookupConfig{}, err
	}

	concurrency := v.GetInt("concurrency")
	if concurrency < 1 {
		return types.LookupConfig{}, fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}
	delay := v.GetDuration("delay")
	if delay < 0 {
		return types.LookupConfig{}, fmt.Errorf("delay must not be negative, got %s", delay)
	}

	temperature := v.GetFloat64("perplexity.temperature")

	base := types.HTTPConfig{
		Timeout:   v.GetDuration("http.timeout"),
		UserAgent: v.GetString("http.user_agent"),
	}
	withTimeout := func(key string) types.HTTPConfig {
		h := base
		if t := v.GetDuration(key); t > 0 {
			h.Timeout = t
		}
		return h
	}

	return types.LookupConfig{
		Delay:            delay,
		Concurrency:      concurrency,
		AcademicKeywords: v.GetStringSlice("academic_keywords"),
		ForceBackend:     forced,
		Parallel: types.ParallelConfig{
			HTTPConfig:   withTimeout("parallel.timeout"),
			BaseURL:      v.GetString("parallel.base_url"),
			Model:        v.GetString("parallel.model"),
			SystemPrompt: v.GetString("parallel.system_prompt"),
		},
		Perplexity: types.PerplexityConfig{
			HTTPConfig:        withTimeout("perplexity.timeout"),
			Endpoint:          v.GetString("perplexity.endpoint"),
			Model:             v.GetString("perplexity.model"),
			MaxTokens:         v.GetInt("perplexity.max_tokens"),
			Temperature:       &temperature,
			SearchMode:        v.GetString("perplexity.search_mode"),
			SearchContextSize: v.GetString("perplexity.search_context_size"),
			Referer:           v.GetString("perplexity.referer"),
			Title:             v.GetString("perplexity.title"),
			SystemPrompt:      v.GetString("perplexity.system_prompt"),
		},
	}, nil
}
