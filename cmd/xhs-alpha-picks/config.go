// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/xhs-alpha-picks/internal/dailylog"
	"github.com/pdiddy/xhs-alpha-picks/internal/pipeline"
	"github.com/pdiddy/xhs-alpha-picks/internal/quality"
	"github.com/pdiddy/xhs-alpha-picks/internal/secrets"
	"github.com/pdiddy/xhs-alpha-picks/internal/xhs"
	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// ConfigError is a configuration problem found before any network call.
// Remediation tells the user what to set.
type ConfigError struct {
	Err         error
	Remediation string
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

func configErrorf(remedy, format string, args ...any) error {
	return &ConfigError{Err: fmt.Errorf(format, args...), Remediation: remedy}
}

const envPrefix = "XHS_ALPHA_PICKS"

// Settings that come only from the environment or the config file.
const (
	keyDeepSeekAPIKey  = "deepseek-api-key"
	keyDeepSeekBaseURL = "deepseek-base-url"
	keyDeepSeekModel   = "deepseek-model"
	keyAnthropicAPIKey = "anthropic-api-key"
	keyAnthropicModel  = "anthropic-model"
	keyMCPBaseURL      = "mcp-base-url"
	keyMCPURL          = "mcp-url"
	keyMCPAPIKey       = "mcp-api-key"
	keyMCPTimeout      = "mcp-timeout"
	keyMCPTool         = "mcp-tool"
)

// legacyEnv maps settings to the unprefixed variable names earlier
// deployments export.
var legacyEnv = map[string]string{
	keyDeepSeekAPIKey:  "DEEPSEEK_API_KEY",
	keyDeepSeekBaseURL: "DEEPSEEK_BASE_URL",
	keyDeepSeekModel:   "DEEPSEEK_MODEL",
	keyAnthropicAPIKey: "ANTHROPIC_API_KEY",
	keyAnthropicModel:  "ANTHROPIC_MODEL",
	keyMCPBaseURL:      "XHS_MCP_BASE_URL",
	keyMCPURL:          "XHS_MCP_URL",
	keyMCPAPIKey:       "XHS_MCP_API_KEY",
	keyMCPTimeout:      "XHS_MCP_TIMEOUT",
	keyMCPTool:         "XHS_MCP_TOOL",
}

// registerFlags defines the root command flags on fs.
func registerFlags(fs *pflag.FlagSet) {
	fs.StringP("keyword", "k", "", `search keyword (default "alpha pick <today>")`)
	fs.IntP("count", "c", 10, "number of notes to fetch")
	fs.Int("max-results", 1, "maximum number of notes to keep")
	fs.Int("days", 2, "keep notes whose selection date is within the last N days")
	fs.Bool("today", false, "keep only notes dated today")
	fs.Bool("latest", false, "keep only notes from the most recent selection date")
	fs.String("note-type", string(types.NoteTypeImageText), "note type: all, video, image-text")
	fs.String("sort", string(types.SortTimeDescending), "sort order: general, time-descending, popularity-descending")
	fs.String("log-dir", dailylog.DefaultDir, "directory for daily log files")
	fs.Bool("no-log", false, "do not write the daily log file")
	fs.Bool("show-raw", false, "print the raw search payload")
	fs.String("save-raw", "", "write the raw search payload to `PATH`")
	fs.Bool("json", false, "print results as JSON")
	fs.String("export", "", "export results to `FILE` (.json, .yaml or .yml)")
	fs.Bool("debug", false, "print connection details and debug logs")
	fs.Bool("check-connection", false, "check the MCP server, list its tools, and exit")
	fs.StringP("prompt", "p", "", "summary prompt template; {keyword} is replaced with the keyword")
	fs.String("prompt-file", "", "read the summary prompt template from `FILE`")
	fs.String("system-prompt", "", "override the summarizer system prompt")
	fs.String("provider", string(types.ProviderDeepSeek), "summarizer provider: deepseek or anthropic")
	fs.Bool("offline", false, "skip summarization")
	fs.String(keyMCPAPIKey, "", "bearer token for the MCP server")
}

// bindFlags makes every flag in fs readable through v under its own name.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

// bindEnv reads XHS_ALPHA_PICKS_* variables for every setting, plus the
// legacy names in legacyEnv. The prefixed name wins when both are set.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		_ = v.BindEnv(key, prefixed, legacy)
	}
}

// options is everything one invocation needs, resolved from flags, the
// environment, the config file, and .secrets/.
type options struct {
	Config  types.PipelineConfig
	Request pipeline.Request

	ShowRaw         bool
	SaveRaw         string
	JSON            bool
	Export          string
	Debug           bool
	CheckConnection bool
}

// DefaultKeyword is the search keyword used when none is given.
func DefaultKeyword(now time.Time) string {
	return "alpha pick " + now.Format(types.DayLayout)
}

// loadOptions assembles and validates the invocation settings. All errors are
// *ConfigError.
func loadOptions(v *viper.Viper, secretMap map[string]string, now time.Time) (options, error) {
	opts := options{
		ShowRaw:         v.GetBool("show-raw"),
		SaveRaw:         strings.TrimSpace(v.GetString("save-raw")),
		JSON:            v.GetBool("json"),
		Export:          strings.TrimSpace(v.GetString("export")),
		Debug:           v.GetBool("debug"),
		CheckConnection: v.GetBool("check-connection"),
	}

	search, err := searchConfig(v, secretMap)
	if err != nil {
		return opts, err
	}
	opts.Config.Search = search
	if opts.CheckConnection {
		return opts, nil
	}

	req, err := request(v, now)
	if err != nil {
		return opts, err
	}
	opts.Request = req

	q, err := qualityConfig(v)
	if err != nil {
		return opts, err
	}
	opts.Config.Quality = q

	opts.Config.Offline = v.GetBool("offline")
	summary, err := summaryConfig(v, secretMap, opts.Config.Offline)
	if err != nil {
		return opts, err
	}
	opts.Config.Summary = summary

	dir := strings.TrimSpace(v.GetString("log-dir"))
	if dir == "" {
		dir = dailylog.DefaultDir
	}
	opts.Config.Log = types.LogConfig{Dir: dir, Disabled: v.GetBool("no-log")}

	if opts.Export != "" {
		switch strings.ToLower(filepath.Ext(opts.Export)) {
		case ".json", ".yaml", ".yml":
		default:
			return opts, configErrorf("use a .json, .yaml or .yml file name with --export",
				"unsupported export format %q", opts.Export)
		}
	}
	return opts, nil
}

func request(v *viper.Viper, now time.Time) (pipeline.Request, error) {
	keyword := strings.TrimSpace(v.GetString("keyword"))
	if keyword == "" {
		keyword = DefaultKeyword(now)
	}

	count := v.GetInt("count")
	if count <= 0 {
		return pipeline.Request{}, configErrorf("pass --count with a positive number", "count must be positive, got %d", count)
	}
	maxResults := v.GetInt("max-results")
	if maxResults <= 0 {
		return pipeline.Request{}, configErrorf("pass --max-results with a positive number", "max-results must be positive, got %d", maxResults)
	}

	noteType, err := types.ParseNoteType(strings.ToLower(strings.TrimSpace(v.GetString("note-type"))))
	if err != nil {
		return pipeline.Request{}, &ConfigError{Err: err, Remediation: "pass --note-type all, video, or image-text"}
	}
	order, err := types.ParseSortOrder(strings.ToLower(strings.TrimSpace(v.GetString("sort"))))
	if err != nil {
		return pipeline.Request{}, &ConfigError{Err: err, Remediation: "pass --sort general, time-descending, or popularity-descending"}
	}

	var policy types.RecencyPolicy
	today, latest := v.GetBool("today"), v.GetBool("latest")
	switch {
	case today && latest:
		return pipeline.Request{}, configErrorf("pass at most one of --today and --latest", "--today and --latest are mutually exclusive")
	case latest:
		policy = types.Latest()
	case today:
		policy = types.Today()
	default:
		days := v.GetInt("days")
		if days <= 0 {
			return pipeline.Request{}, configErrorf("pass --days with a positive number, or use --today", "days must be positive, got %d", days)
		}
		policy = types.LastNDays(days)
	}

	return pipeline.Request{
		Keyword:    keyword,
		Count:      count,
		NoteType:   noteType,
		Sort:       order,
		Policy:     policy,
		MaxResults: maxResults,
	}, nil
}

func searchConfig(v *viper.Viper, secretMap map[string]string) (types.SearchConfig, error) {
	endpoint := xhs.Endpoint(v.GetString(keyMCPURL), v.GetString(keyMCPBaseURL))
	if err := xhs.ValidateEndpoint(endpoint); err != nil {
		return types.SearchConfig{}, &ConfigError{
			Err:         err,
			Remediation: "set XHS_MCP_URL to the server's MCP endpoint (e.g. http://127.0.0.1:18060/mcp) or XHS_MCP_BASE_URL to its base URL",
		}
	}
	timeout, err := parseTimeout(v.GetString(keyMCPTimeout))
	if err != nil {
		return types.SearchConfig{}, &ConfigError{Err: err, Remediation: "set XHS_MCP_TIMEOUT to a number of seconds (30) or a duration (45s)"}
	}
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: "xhs-alpha-picks/" + version},
		Endpoint:   endpoint,
		APIKey:     secrets.Pick(secretMap, secrets.XHSMCPAPIKey, v.GetString(keyMCPAPIKey)),
		ToolName:   strings.TrimSpace(v.GetString(keyMCPTool)),
	}, nil
}

// parseTimeout accepts plain seconds ("30", "7.5") or a Go duration ("45s").
// Empty means xhs.DefaultTimeout.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return xhs.DefaultTimeout, nil
	}
	var d time.Duration
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		d = time.Duration(secs * float64(time.Second))
	} else if d, err = time.ParseDuration(s); err != nil {
		return 0, fmt.Errorf("invalid MCP timeout %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("MCP timeout must be positive, got %q", s)
	}
	return d, nil
}

func qualityConfig(v *viper.Viper) (types.QualityConfig, error) {
	q := quality.DefaultConfig()
	weights := map[string]*float64{
		"quality.weights.service_mention":     &q.Weights.ServiceMention,
		"quality.weights.multiple_selections": &q.Weights.MultipleSelections,
		"quality.weights.selection_date":      &q.Weights.SelectionDate,
		"quality.weights.substantial_content": &q.Weights.SubstantialContent,
		"quality.threshold":                   &q.Threshold,
	}
	for key, dst := range weights {
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}
	if v.IsSet("quality.min_selections") {
		q.MinSelections = v.GetInt("quality.min_selections")
	}
	if v.IsSet("quality.substantial_length") {
		q.SubstantialLength = v.GetInt("quality.substantial_length")
	}
	if v.IsSet("quality.service_aliases") {
		q.ServiceAliases = v.GetStringSlice("quality.service_aliases")
	}
	if _, err := quality.NewScorer(q); err != nil {
		return q, &ConfigError{Err: err, Remediation: "fix the quality section of the config file; the four weights must sum to 1"}
	}
	return q, nil
}

func summaryConfig(v *viper.Viper, secretMap map[string]string, offline bool) (types.SummaryConfig, error) {
	cfg := types.SummaryConfig{
		HTTPConfig:   types.HTTPConfig{UserAgent: "xhs-alpha-picks/" + version},
		Provider:     types.SummaryProvider(strings.ToLower(strings.TrimSpace(v.GetString("provider")))),
		MaxTokens:    v.GetInt("summary.max_tokens"),
		Prompt:       v.GetString("prompt"),
		SystemPrompt: v.GetString("system-prompt"),
	}

	if v.IsSet("summary.temperature") {
		t := float32(v.GetFloat64("summary.temperature"))
		if t < 0 {
			return cfg, configErrorf("set summary.temperature to 0 or more in the config file", "summary temperature %.2f is negative", t)
		}
		cfg.Temperature = &t
	}

	if path := strings.TrimSpace(v.GetString("prompt-file")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, &ConfigError{Err: fmt.Errorf("reading prompt file: %w", err), Remediation: "check the path passed to --prompt-file"}
		}
		cfg.Prompt = string(data)
	}

	var envName, secretName string
	switch cfg.Provider {
	case "", types.ProviderDeepSeek:
		cfg.Provider = types.ProviderDeepSeek
		cfg.APIKey = secrets.Pick(secretMap, secrets.DeepSeekAPIKey, v.GetString(keyDeepSeekAPIKey))
		cfg.BaseURL = strings.TrimSpace(v.GetString(keyDeepSeekBaseURL))
		cfg.Model = strings.TrimSpace(v.GetString(keyDeepSeekModel))
		envName, secretName = legacyEnv[keyDeepSeekAPIKey], secrets.DeepSeekAPIKey
	case types.ProviderAnthropic:
		cfg.APIKey = secrets.Pick(secretMap, secrets.AnthropicAPIKey, v.GetString(keyAnthropicAPIKey))
		cfg.Model = strings.TrimSpace(v.GetString(keyAnthropicModel))
		envName, secretName = legacyEnv[keyAnthropicAPIKey], secrets.AnthropicAPIKey
	default:
		return cfg, configErrorf("pass --provider deepseek or --provider anthropic", "unknown summarizer provider %q", cfg.Provider)
	}

	if !offline && cfg.APIKey == "" {
		return cfg, configErrorf(
			fmt.Sprintf("set %s, write the key to %s, or pass --offline", envName, filepath.Join(secrets.DefaultDir, secretName)),
			"no API key for summarizer provider %q", cfg.Provider)
	}
	return cfg, nil
}
