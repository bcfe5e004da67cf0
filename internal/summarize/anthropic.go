// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/xhs-alpha-picks/internal/httputil"
	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// Anthropic summarizes through the Anthropic Messages API.
type Anthropic struct {
	cfg    types.SummaryConfig
	client anthropic.Client
}

// NewAnthropic builds an Anthropic backend. SDK retries are disabled.
func NewAnthropic(cfg types.SummaryConfig) *Anthropic {
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(httputil.NewClient(cfg.HTTPConfig, "")),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Anthropic{cfg: cfg, client: anthropic.NewClient(opts...)}
}

// Summarize sends one message request.
func (a *Anthropic) Summarize(ctx context.Context, keyword string, notes []types.ScoredNote) (string, error) {
	msg, err := userMessage(a.cfg, keyword, notes)
	if err != nil {
		return "", err
	}
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.cfg.Model),
		MaxTokens:   int64(a.cfg.MaxTokens),
		Temperature: anthropic.Float(float64(temperature(a.cfg))),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt(a.cfg)}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(msg)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: %w", ErrUnavailable, err)
	}

	var b strings.Builder
	for _, content := range resp.Content {
		if text, ok := content.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: anthropic returned an empty summary", ErrUnavailable)
	}
	return text, nil
}
