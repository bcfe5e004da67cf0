// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders pipeline results for the console and for export.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/xhs-alpha-picks/internal/pipeline"
	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// PreviewRunes bounds title, body, and OCR previews in console output.
const PreviewRunes = 200

// Export is the document written by --json and --export.
type Export struct {
	RunID      string             `json:"run_id" yaml:"run_id"`
	Keyword    string             `json:"keyword" yaml:"keyword"`
	Policy     string             `json:"policy" yaml:"policy"`
	TargetDate string             `json:"target_date" yaml:"target_date"`
	Retrieved  int                `json:"retrieved" yaml:"retrieved"`
	DateKept   int                `json:"date_kept" yaml:"date_kept"`
	Notes      []types.ScoredNote `json:"notes" yaml:"notes"`
	Summary    string             `json:"summary,omitempty" yaml:"summary,omitempty"`
	LogPath    string             `json:"log_path,omitempty" yaml:"log_path,omitempty"`
}

// NewExport builds the export document for a result.
func NewExport(res pipeline.Result) Export {
	notes := res.Notes
	if notes == nil {
		notes = []types.ScoredNote{}
	}
	return Export{
		RunID:      res.RunID,
		Keyword:    res.Keyword,
		Policy:     res.Policy.String(),
		TargetDate: res.TargetDate.Format(types.DayLayout),
		Retrieved:  res.Retrieved,
		DateKept:   res.DateKept,
		Notes:      notes,
		Summary:    res.Summary,
		LogPath:    res.LogPath,
	}
}

// FormatText writes the surviving notes as a readable listing to w. When no
// note qualifies, the best date-kept candidates are listed instead so the
// user can see why they were rejected.
func FormatText(res pipeline.Result, w io.Writer) {
	if res.Retrieved == 0 {
		fmt.Fprintf(w, "No notes found for keyword %q.\n", res.Keyword)
		return
	}

	notes := res.Notes
	if len(notes) > 0 {
		fmt.Fprintf(w, "\nFound %d high-quality note(s) (out of %d matching %s):\n\n", len(notes), res.DateKept, res.Policy)
	} else {
		fmt.Fprintf(w, "\nFound %d note(s) matching %s, but none meet the high-quality criteria.\n", res.DateKept, res.Policy)
		if len(res.Scored) == 0 {
			return
		}
		fmt.Fprintln(w)
		notes = res.Scored
	}

	for i, n := range notes {
		fmt.Fprintf(w, "%d. %s\n", i+1, orNA(Truncate(n.Title, PreviewRunes)))
		fmt.Fprintf(w, "   Author: %s\n", orNA(n.Author))
		fmt.Fprintf(w, "   Selection Date: %s\n", orNA(n.SelectionDay()))
		fmt.Fprintf(w, "   Quality Score: %.2f (selections: %d)\n", n.Quality.Score, n.Quality.Selections)
		if qn := n.Quality.Notes(); len(qn) > 0 {
			fmt.Fprintf(w, "   Quality Notes: %s\n", strings.Join(qn, "; "))
		}
		if n.URL != "" {
			fmt.Fprintf(w, "   URL: %s\n", n.URL)
		}
		if n.BodyText != "" {
			fmt.Fprintf(w, "   Post: %s\n", oneLine(Truncate(n.BodyText, PreviewRunes)))
		}
		if n.OCRText != "" {
			fmt.Fprintf(w, "   OCR: %s\n", oneLine(Truncate(n.OCRText, PreviewRunes)))
		}
		fmt.Fprintln(w)
	}

	if res.LogPath != "" {
		fmt.Fprintf(w, "Saved daily log to %s\n", res.LogPath)
	}
	if res.Summary != "" {
		fmt.Fprintf(w, "\nSummary:\n%s\n", strings.TrimRight(res.Summary, "\n"))
	}
}

// FormatJSON writes the export document as indented JSON to w.
func FormatJSON(res pipeline.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewExport(res))
}

// FormatYAML writes the export document as YAML to w.
func FormatYAML(res pipeline.Result, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewExport(res)); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportFile writes the export document to path. The format follows the
// extension: .yaml or .yml for YAML, anything else for JSON.
func ExportFile(res pipeline.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = FormatYAML(res, f)
	default:
		err = FormatJSON(res, f)
	}
	if err != nil {
		return fmt.Errorf("exporting to %s: %w", path, err)
	}
	return f.Close()
}

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
