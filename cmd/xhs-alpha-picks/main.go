// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the xhs-alpha-picks CLI.
//
// The root command searches Xiaohongshu for Seeking Alpha "Alpha Picks"
// notes through the xiaohongshu-mcp server, keeps the recent high-quality
// ones, optionally summarizes them, and writes them to a dated log file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/xhs-alpha-picks/internal/pipeline"
	"github.com/pdiddy/xhs-alpha-picks/internal/secrets"
	"github.com/pdiddy/xhs-alpha-picks/internal/summarize"
	"github.com/pdiddy/xhs-alpha-picks/internal/xhs"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// Exit codes.
const (
	exitOK           = 0
	exitFailure      = 1
	exitConnectivity = 2
	exitToolNotFound = 3
)

// rootCmd runs one search-to-log pass.
var rootCmd = &cobra.Command{
	Use:   "xhs-alpha-picks",
	Short: "Collect Seeking Alpha picks shared on Xiaohongshu",
	Long: `xhs-alpha-picks searches Xiaohongshu through a running xiaohongshu-mcp
server, keeps notes whose selection date falls in the requested window and
that pass the quality heuristic, and writes them to a dated log file under
alpha_picks_logs/.

A summary is produced with DeepSeek (default) or Anthropic unless --offline
is given. API keys come from flags, the environment, a .env file, or files
under .secrets/.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if viper.GetBool("debug") {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
	RunE: runPicks,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./xhs-alpha-picks.yaml or ~/.config/xhs-alpha-picks/xhs-alpha-picks.yaml)")

	registerFlags(rootCmd.Flags())
	rootCmd.MarkFlagsMutuallyExclusive("today", "latest")
	bindFlags(viper.GetViper(), rootCmd.Flags())
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("xhs-alpha-picks")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "xhs-alpha-picks"))
		}
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &cfgErr):
		return exitFailure
	case errors.Is(err, xhs.ErrToolNotFound):
		return exitToolNotFound
	case errors.Is(err, pipeline.ErrConnectivity),
		errors.Is(err, xhs.ErrUnreachable),
		errors.Is(err, summarize.ErrUnavailable):
		return exitConnectivity
	}
	return exitFailure
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Remediation != "" {
			fmt.Fprintln(os.Stderr, "Hint:", cfgErr.Remediation)
		}
	}
	os.Exit(exitCode(err))
}
