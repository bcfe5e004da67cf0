package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "xhs-alpha-picks/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the Xiaohongshu MCP search capability.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the MCP streamable HTTP endpoint (e.g. "http://127.0.0.1:18060/mcp").
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey is sent as a bearer token when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ToolName pins the search tool; empty means discover it from tools/list.
	ToolName string `json:"tool_name,omitempty" yaml:"tool_name,omitempty"`
}

// SummaryProvider identifies the summarization backend.
type SummaryProvider string

const (
	ProviderDeepSeek  SummaryProvider = "deepseek"
	ProviderAnthropic SummaryProvider = "anthropic"
)

// SummaryConfig holds settings for the optional summarization capability.
type SummaryConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the backend: deepseek or anthropic.
	Provider SummaryProvider `json:"provider" yaml:"provider"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider API base URL.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the model identifier (e.g. "deepseek-chat").
	Model string `json:"model" yaml:"model"`

	// Temperature is the sampling temperature. Nil means the default (0.3);
	// zero requests deterministic sampling.
	Temperature *float32 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	// MaxTokens caps the response length (default 2048).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Prompt is the user prompt template; {keyword} is substituted.
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`

	// SystemPrompt overrides the default system prompt.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
}

// QualityWeights assigns each quality criterion its contribution to the score.
// The four weights must sum to 1.0.
type QualityWeights struct {
	ServiceMention     float64 `json:"service_mention" yaml:"service_mention"`
	MultipleSelections float64 `json:"multiple_selections" yaml:"multiple_selections"`
	SelectionDate      float64 `json:"selection_date" yaml:"selection_date"`
	SubstantialContent float64 `json:"substantial_content" yaml:"substantial_content"`
}

// Sum returns the total weight.
func (w QualityWeights) Sum() float64 {
	return w.ServiceMention + w.MultipleSelections + w.SelectionDate + w.SubstantialContent
}

// QualityConfig holds the quality heuristic settings.
type QualityConfig struct {
	Weights QualityWeights `json:"weights" yaml:"weights"`

	// ServiceAliases are matched case-insensitively as substrings.
	ServiceAliases []string `json:"service_aliases" yaml:"service_aliases"`

	// MinSelections is the selection gate (default 3).
	MinSelections int `json:"min_selections" yaml:"min_selections"`

	// SubstantialLength is the rune count body+OCR must exceed (default 200).
	SubstantialLength int `json:"substantial_length" yaml:"substantial_length"`

	// Threshold is the minimum score for a high-quality note (default 0.7).
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// LogConfig holds settings for the daily log sink.
type LogConfig struct {
	// Dir is the directory holding dated log files (default "alpha_picks_logs").
	Dir string `json:"dir" yaml:"dir"`

	// Disabled skips writing the log file.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// PipelineConfig groups all component configurations. It is built once at
// process start and passed into the pipeline controller.
type PipelineConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Summary SummaryConfig `json:"summary" yaml:"summary"`
	Quality QualityConfig `json:"quality" yaml:"quality"`
	Log     LogConfig     `json:"log" yaml:"log"`

	// Offline skips summarization.
	Offline bool `json:"offline" yaml:"offline"`
}
