// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/research-lookup/internal/httputil"
	"github.com/pdiddy/research-lookup/pkg/types"
)

// PerplexityAdapter queries Perplexity's sonar-pro-search model through
// OpenRouter in academic search mode.
type PerplexityAdapter struct {
	apiKey string
	cfg    types.PerplexityConfig
	client *http.Client
	logger *zap.Logger
}

// perplexityRequest is the OpenRouter chat-completions body with Perplexity
// search extensions.
type perplexityRequest struct {
	Model             string        `json:"model"`
	Messages          []chatMessage `json:"messages"`
	MaxTokens         int           `json:"max_tokens"`
	Temperature       float64       `json:"temperature"`
	SearchMode        string        `json:"search_mode"`
	SearchContextSize string        `json:"search_context_size"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// perplexityResponse holds the fields the adapter validates. Citation
// fields stay in the raw document for the extract package.
type perplexityResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *types.Usage `json:"usage"`
}

// NewPerplexityAdapter creates the academic specialist adapter. Empty config
// fields (nil Temperature included) fall back to types.DefaultLookupConfig and
// DefaultPerplexitySystemPrompt.
func NewPerplexityAdapter(apiKey string, cfg types.PerplexityConfig, logger *zap.Logger, opts ...Option) (*PerplexityAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}
	cfg = withPerplexityDefaults(cfg)

	o := applyOptions(opts)
	client := o.httpClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &PerplexityAdapter{
		apiKey: apiKey,
		cfg:    cfg,
		client: client,
		logger: nopIfNil(logger),
	}, nil
}

func withPerplexityDefaults(cfg types.PerplexityConfig) types.PerplexityConfig {
	d := types.DefaultLookupConfig().Perplexity
	if cfg.Timeout <= 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = d.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = d.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = d.MaxTokens
	}
	if cfg.Temperature == nil {
		cfg.Temperature = d.Temperature
	}
	if cfg.SearchMode == "" {
		cfg.SearchMode = d.SearchMode
	}
	if cfg.SearchContextSize == "" {
		cfg.SearchContextSize = d.SearchContextSize
	}
	if cfg.Referer == "" {
		cfg.Referer = d.Referer
	}
	if cfg.Title == "" {
		cfg.Title = d.Title
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultPerplexitySystemPrompt
	}
	return cfg
}

// ID returns the backend identifier.
func (a *PerplexityAdapter) ID() types.BackendID { return types.BackendPerplexity }

// Model returns the OpenRouter model slug.
func (a *PerplexityAdapter) Model() string { return a.cfg.Model }

// Call sends the academic prompt for query. Any non-2xx status, undecodable
// body, or response without message content is a *BackendError.
func (a *PerplexityAdapter) Call(ctx context.Context, query string) (*Response, error) {
	prompt, err := renderAcademicPrompt(query)
	if err != nil {
		return nil, wrapError(a.ID(), fmt.Errorf("rendering prompt: %w", err))
	}

	a.logger.Info("querying backend",
		zap.String("backend", string(a.ID())),
		zap.String("model", a.cfg.Model))

	header := http.Header{}
	header.Set("Authorization", "Bearer "+a.apiKey)
	header.Set("HTTP-Referer", a.cfg.Referer)
	header.Set("X-Title", a.cfg.Title)
	if a.cfg.UserAgent != "" {
		header.Set("User-Agent", a.cfg.UserAgent)
	}

	body := perplexityRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: a.cfg.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:         a.cfg.MaxTokens,
		Temperature:       *a.cfg.Temperature,
		SearchMode:        a.cfg.SearchMode,
		SearchContextSize: a.cfg.SearchContextSize,
	}

	data, err := httputil.PostJSON(ctx, a.client, a.cfg.Endpoint, header, body)
	if err != nil {
		return nil, wrapError(a.ID(), err)
	}

	var pr perplexityResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, wrapError(a.ID(), fmt.Errorf("decoding response: %w", err))
	}
	if len(pr.Choices) == 0 {
		return nil, wrapError(a.ID(), errors.New("no response choices received from API"))
	}
	msg := pr.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return nil, wrapError(a.ID(), errors.New("invalid response format from API"))
	}

	return &Response{
		Text:  *msg.Content,
		Model: a.cfg.Model,
		Raw:   data,
		Usage: pr.Usage,
	}, nil
}
