// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/pdiddy/research-lookup/pkg/types"
)

// ParallelAdapter queries the Parallel Chat API, an OpenAI-compatible
// chat-completions endpoint that researches the web and reports its sources
// in a top-level "basis" field.
type ParallelAdapter struct {
	client       openai.Client
	model        string
	systemPrompt string
	logger       *zap.Logger
}

// NewParallelAdapter creates the general-purpose adapter. Empty config
// fields fall back to types.DefaultLookupConfig and DefaultParallelSystemPrompt.
func NewParallelAdapter(apiKey string, cfg types.ParallelConfig, logger *zap.Logger, opts ...Option) (*ParallelAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("parallel API key is required")
	}
	defaults := types.DefaultLookupConfig().Parallel
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultParallelSystemPrompt
	}

	o := applyOptions(opts)
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	} else if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	if cfg.UserAgent != "" {
		reqOpts = append(reqOpts, option.WithHeader("User-Agent", cfg.UserAgent))
	}

	return &ParallelAdapter{
		client:       openai.NewClient(reqOpts...),
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		logger:       nopIfNil(logger),
	}, nil
}

// ID returns the backend identifier.
func (a *ParallelAdapter) ID() types.BackendID { return types.BackendParallel }

// Model returns the reported model identifier, e.g. "parallel-chat/core".
func (a *ParallelAdapter) Model() string { return "parallel-chat/" + a.model }

// Call sends a non-streaming chat completion with the system prompt and the
// query as the user message.
func (a *ParallelAdapter) Call(ctx context.Context, query string) (*Response, error) {
	a.logger.Info("querying backend",
		zap.String("backend", string(a.ID())),
		zap.String("model", a.model))

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(a.systemPrompt),
			openai.UserMessage(query),
		},
	})
	if err != nil {
		out := &BackendError{Backend: a.ID(), Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			out.Status = apiErr.StatusCode
		}
		return nil, out
	}

	var text string
	if len(completion.Choices) > 0 {
		text = completion.Choices[0].Message.Content
	}

	resp := &Response{
		Text:  text,
		Model: a.Model(),
		Raw:   []byte(completion.RawJSON()),
	}
	if u := completion.Usage; u.TotalTokens > 0 || u.PromptTokens > 0 || u.CompletionTokens > 0 {
		resp.Usage = &types.Usage{
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      u.TotalTokens,
		}
	}
	return resp, nil
}
