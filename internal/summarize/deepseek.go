// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/xhs-alpha-picks/internal/httputil"
	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// DeepSeek summarizes through the OpenAI-compatible chat completions API.
type DeepSeek struct {
	cfg    types.SummaryConfig
	client *openai.Client
}

// NewDeepSeek builds a DeepSeek backend. Empty base URL and model take the
// DeepSeek defaults.
func NewDeepSeek(cfg types.SummaryConfig) *DeepSeek {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultDeepSeekBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultDeepSeekModel
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	oc.HTTPClient = httputil.NewClient(cfg.HTTPConfig, "")
	return &DeepSeek{cfg: cfg, client: openai.NewClientWithConfig(oc)}
}

// Summarize sends one chat completion request.
func (d *DeepSeek) Summarize(ctx context.Context, keyword string, notes []types.ScoredNote) (string, error) {
	msg, err := userMessage(d.cfg, keyword, notes)
	if err != nil {
		return "", err
	}
	// go-openai omits a zero temperature, which the server reads as its own
	// default; the smallest positive value is sent instead.
	temp := temperature(d.cfg)
	if temp == 0 {
		temp = math.SmallestNonzeroFloat32
	}
	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(d.cfg)},
			{Role: openai.ChatMessageRoleUser, Content: msg},
		},
		Temperature: temp,
		MaxTokens:   d.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: deepseek: %w", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: deepseek returned no choices", ErrUnavailable)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: deepseek returned an empty summary", ErrUnavailable)
	}
	return text, nil
}
