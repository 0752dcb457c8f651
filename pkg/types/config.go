// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by backends that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the client default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-lookup/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ParallelConfig holds settings for the general-purpose backend.
type ParallelConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the OpenAI-compatible Chat API root (default https://api.parallel.ai).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the Chat API model name (default "core").
	Model string `json:"model" yaml:"model"`

	// SystemPrompt instructs the model how to shape its report.
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt"`
}

// PerplexityConfig holds settings for the academic specialist backend.
type PerplexityConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the full chat-completions URL on OpenRouter.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Model is the OpenRouter model slug (default "perplexity/sonar-pro-search").
	Model string `json:"model" yaml:"model"`

	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature. Nil means the default (0.1);
	// an explicit 0 is sent as 0.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	SearchMode        string `json:"search_mode" yaml:"search_mode"`
	SearchContextSize string `json:"search_context_size" yaml:"search_context_size"`

	// Referer and Title populate OpenRouter's HTTP-Referer and X-Title
	// attribution headers.
	Referer string `json:"referer" yaml:"referer"`
	Title   string `json:"title" yaml:"title"`

	// SystemPrompt is the specialist's system message. The user message is
	// always built from the academic prompt template.
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt"`
}

// LookupConfig groups the router, batch, and backend settings.
type LookupConfig struct {
	// Delay is the pause between consecutive batch queries (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay"`

	// Concurrency bounds in-flight batch queries. 1 (the default) runs the
	// batch strictly sequentially.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// AcademicKeywords overrides the phrases that route a query to the
	// academic specialist. Empty means the built-in list.
	AcademicKeywords []string `json:"academic_keywords,omitempty" yaml:"academic_keywords,omitempty"`

	// ForceBackend pins lookups to one backend when it is available.
	ForceBackend BackendID `json:"force_backend,omitempty" yaml:"force_backend,omitempty"`

	Parallel   ParallelConfig   `json:"parallel" yaml:"parallel"`
	Perplexity PerplexityConfig `json:"perplexity" yaml:"perplexity"`
}

// DefaultLookupConfig returns the configuration used when no config file
// or flag overrides a value. Prompts are left empty; backends fill in their
// own defaults.
func DefaultLookupConfig() LookupConfig {
	temperature := 0.1
	return LookupConfig{
		Delay:       time.Second,
		Concurrency: 1,
		Parallel: ParallelConfig{
			BaseURL: "https://api.parallel.ai",
			Model:   "core",
		},
		Perplexity: PerplexityConfig{
			HTTPConfig:        HTTPConfig{Timeout: 90 * time.Second},
			Endpoint:          "https://openrouter.ai/api/v1/chat/completions",
			Model:             "perplexity/sonar-pro-search",
			MaxTokens:         8000,
			Temperature:       &temperature,
			SearchMode:        "academic",
			SearchContextSize: "high",
			Referer:           "https://scientific-writer.local",
			Title:             "Scientific Writer Research Tool",
		},
	}
}
