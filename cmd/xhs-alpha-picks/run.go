// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/xhs-alpha-picks/internal/dailylog"
	"github.com/pdiddy/xhs-alpha-picks/internal/pipeline"
	"github.com/pdiddy/xhs-alpha-picks/internal/report"
	"github.com/pdiddy/xhs-alpha-picks/internal/summarize"
	"github.com/pdiddy/xhs-alpha-picks/internal/xhs"
)

func runPicks(cmd *cobra.Command, _ []string) error {
	now := time.Now()
	opts, err := loadOptions(viper.GetViper(), loadedSecrets, now)
	if err != nil {
		return err
	}
	return execute(cmd.Context(), opts, now, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// execute runs one invocation. Results go to out; progress and status
// lines go to errw so that --json output stays clean.
func execute(ctx context.Context, opts options, now time.Time, out, errw io.Writer) error {
	client := xhs.New(opts.Config.Search)
	defer client.Close()

	if opts.Debug {
		printConnectionInfo(errw, client.Info())
	}
	if opts.CheckConnection {
		return checkConnection(ctx, client, out)
	}

	ctrl := &pipeline.Controller{
		Searcher: client,
		Config:   opts.Config,
		Progress: errw,
	}
	if !opts.Config.Offline {
		backend, err := summarize.New(opts.Config.Summary)
		if err != nil {
			return &ConfigError{Err: err, Remediation: "check the summarizer provider and API key settings"}
		}
		ctrl.Summarizer = backend
	}
	if !opts.Config.Log.Disabled {
		ctrl.LogWriter = dailylog.New(opts.Config.Log.Dir)
	}

	res, runErr := ctrl.Run(ctx, opts.Request, now)
	if res.Raw != nil {
		if err := dumpRaw(opts, res.Raw, out, errw); err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return runErr
	}
	if opts.Debug {
		fmt.Fprintf(errw, "Run ID: %s\n", res.RunID)
	}

	if opts.JSON {
		if err := report.FormatJSON(res, out); err != nil {
			return err
		}
	} else {
		report.FormatText(res, out)
	}

	if opts.Export != "" {
		if err := report.ExportFile(res, opts.Export); err != nil {
			return err
		}
		fmt.Fprintf(errw, "Exported %d notes to %s\n", len(res.Notes), opts.Export)
	}
	if opts.JSON && res.LogPath != "" {
		fmt.Fprintf(errw, "Saved daily log to %s\n", res.LogPath)
	}
	return nil
}

func dumpRaw(opts options, raw any, out, errw io.Writer) error {
	if opts.ShowRaw {
		fmt.Fprintln(out, "Raw search payload:")
		if err := report.WriteRaw(raw, out); err != nil {
			return err
		}
	}
	if opts.SaveRaw != "" {
		if err := report.SaveRaw(raw, opts.SaveRaw); err != nil {
			return err
		}
		fmt.Fprintf(errw, "Raw payload saved to %s\n", opts.SaveRaw)
	}
	return nil
}

func printConnectionInfo(w io.Writer, info xhs.ConnectionInfo) {
	key := "not set"
	if info.HasAPIKey {
		key = "set"
	}
	tool := info.ToolName
	if tool == "" {
		tool = "(discover)"
	}
	fmt.Fprintf(w, "MCP endpoint: %s\n", info.Endpoint)
	fmt.Fprintf(w, "MCP timeout:  %s\n", info.Timeout)
	fmt.Fprintf(w, "MCP API key:  %s\n", key)
	fmt.Fprintf(w, "Search tool:  %s\n", tool)
}

// checkConnection pings the server and lists its tools.
func checkConnection(ctx context.Context, client *xhs.Client, w io.Writer) error {
	if err := client.Ping(ctx); err != nil {
		return err
	}
	tools, err := client.Tools(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Connected to %s\n", client.Info().Endpoint)
	fmt.Fprintf(w, "Tools (%d):\n", len(tools))
	for _, t := range tools {
		fmt.Fprintf(w, "  %-20s %s\n", t.Name, t.Description)
	}
	tool, err := xhs.SelectTool(tools, client.Info().ToolName)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Search tool: %s\n", tool.Name)
	return nil
}
