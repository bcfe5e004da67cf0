// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize condenses surviving notes with a language model.
//
// Two providers are supported: DeepSeek through its OpenAI-compatible chat
// API, and Anthropic. Both send one request per run with no retries.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// ErrUnavailable is returned when the provider cannot be reached or answers
// with a failure.
var ErrUnavailable = errors.New("summarization service unavailable")

// Provider defaults.
const (
	DefaultDeepSeekBaseURL = "https://api.deepseek.com"
	DefaultDeepSeekModel   = "deepseek-chat"
	DefaultAnthropicModel  = "claude-sonnet-4-5"
	DefaultTemperature     = 0.3
	DefaultMaxTokens       = 2048
	DefaultTimeout         = 120 * time.Second
)

// Backend produces a summary for a set of notes.
type Backend interface {
	Summarize(ctx context.Context, keyword string, notes []types.ScoredNote) (string, error)
}

// New returns the backend for cfg.Provider. An empty provider means DeepSeek.
func New(cfg types.SummaryConfig) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("summarizer API key is not set for provider %q", providerOrDefault(cfg.Provider))
	}
	if cfg.Temperature != nil && *cfg.Temperature < 0 {
		return nil, fmt.Errorf("summarizer temperature %.2f is negative", *cfg.Temperature)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	switch providerOrDefault(cfg.Provider) {
	case types.ProviderDeepSeek:
		return NewDeepSeek(cfg), nil
	case types.ProviderAnthropic:
		return NewAnthropic(cfg), nil
	}
	return nil, fmt.Errorf("unknown summarizer provider %q (want deepseek or anthropic)", cfg.Provider)
}

func providerOrDefault(p types.SummaryProvider) types.SummaryProvider {
	if p == "" {
		return types.ProviderDeepSeek
	}
	return p
}

// temperature resolves the configured sampling temperature.
func temperature(cfg types.SummaryConfig) float32 {
	if cfg.Temperature == nil {
		return DefaultTemperature
	}
	return *cfg.Temperature
}
