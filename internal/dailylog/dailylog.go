// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dailylog writes one human-readable text file per invocation.
//
// Files are named <YYYY-MM-DD>_<mode>.txt inside the log directory and are
// written with a UTF-8 byte-order mark so Windows editors pick the right
// encoding for Chinese text. A rerun on the same day replaces the file.
package dailylog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// DefaultDir is the log directory used when none is configured.
const DefaultDir = "alpha_picks_logs"

const (
	rule      = "================================================================================"
	innerRule = "  ----------------------------------------------------------------------------"
	noValue   = "N/A"
)

// Writer saves DailyLog entries under Dir.
type Writer struct {
	Dir string
}

// New returns a Writer for dir, or DefaultDir when dir is empty.
func New(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{Dir: dir}
}

// Path returns the file path for a day and mode.
func Path(dir string, day time.Time, mode types.RecencyMode) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.txt", day.Format(types.DayLayout), mode))
}

// Write renders entry and replaces the day's file. It returns the path written.
func (w *Writer) Write(entry types.DailyLog) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating log directory %s: %w", w.Dir, err)
	}
	path := Path(w.Dir, entry.Date, entry.Mode)

	var buf bytes.Buffer
	enc := transform.NewWriter(&buf, unicode.UTF8BOM.NewEncoder())
	if err := Render(entry, enc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding daily log: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Render writes the plain-text log body to w. For each note the title,
// author, selection date, body text, and OCR text come first, followed by
// supplementary details.
func Render(entry types.DailyLog, w io.Writer) error {
	var b strings.Builder

	day := entry.TargetDate
	if day.IsZero() {
		day = entry.Date
	}
	fmt.Fprintf(&b, "Alpha Picks Notes - %s\n", day.Format(types.DayLayout))
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", entry.GeneratedAt.Format("2006-01-02 15:04:05"))
	if entry.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", entry.RunID)
	}
	fmt.Fprintf(&b, "Keyword: %s\n", orNA(entry.Keyword))
	fmt.Fprintf(&b, "Mode: %s\n", entry.Mode)
	fmt.Fprintf(&b, "Number of Notes: %d\n", len(entry.Notes))
	b.WriteString(rule + "\n\n")

	for i, n := range entry.Notes {
		fmt.Fprintf(&b, "Note %d:\n", i+1)
		fmt.Fprintf(&b, "  Title: %s\n", orNA(n.Title))
		fmt.Fprintf(&b, "  Author: %s\n", orNA(n.Author))
		fmt.Fprintf(&b, "  Selection Date: %s\n", orNA(n.SelectionDay()))
		b.WriteString("\n  Post Text:\n" + innerRule + "\n")
		writeIndented(&b, n.BodyText, "(No post text)")
		b.WriteString("\n  OCR Text (from images):\n" + innerRule + "\n")
		writeIndented(&b, n.OCRText, "(No OCR text)")
		b.WriteString("\n")
		fmt.Fprintf(&b, "  Note ID: %s\n", orNA(n.ID))
		fmt.Fprintf(&b, "  URL: %s\n", orNA(n.URL))
		if n.PublishTime.IsZero() {
			fmt.Fprintf(&b, "  Publish Time: %s\n", noValue)
		} else {
			fmt.Fprintf(&b, "  Publish Time: %s\n", n.PublishTime.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintf(&b, "  Quality Score: %.2f\n", n.Quality.Score)
		if notes := n.Quality.Notes(); len(notes) > 0 {
			fmt.Fprintf(&b, "  Quality Notes: %s\n", strings.Join(notes, ", "))
		}
		b.WriteString("\n" + rule + "\n\n")
	}

	if entry.Summary != "" {
		b.WriteString("Summary\n" + rule + "\n")
		b.WriteString(strings.TrimRight(entry.Summary, "\n") + "\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing daily log: %w", err)
	}
	return nil
}

func writeIndented(b *strings.Builder, text, empty string) {
	if text == "" {
		b.WriteString("  " + empty + "\n")
		return
	}
	for _, line := range strings.Split(text, "\n") {
		b.WriteString("  " + line + "\n")
	}
}

func orNA(s string) string {
	if s == "" {
		return noValue
	}
	return s
}
