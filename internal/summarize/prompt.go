// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// DefaultSystemPrompt frames the model as a research assistant.
const DefaultSystemPrompt = "You are a financial research assistant. You read Xiaohongshu posts that " +
	"discuss Seeking Alpha's Alpha Picks service and turn them into a concise, structured digest. " +
	"State the selection date at the top of every summary."

// DefaultPrompt is the user prompt template. {keyword} is replaced with the
// search keyword.
const DefaultPrompt = `The posts below were found by searching Xiaohongshu for "{keyword}".
Using both the post text and the text recognized from images, report:

1. The Alpha Picks selection date (YYYY-MM-DD).
2. Stocks added to Alpha Picks: ticker, company name, rating, and the stated rationale.
3. Stocks removed from Alpha Picks, with the reason if one is given.
4. The rating and any price target for every ticker mentioned.
5. Notable analysis: market outlook, sector themes, risks.

Merge information that repeats across posts. If the posts cover different dates, group the output by date.`

var notesTmpl = template.Must(template.New("notes").Funcs(template.FuncMap{
	"na":    na,
	"inc":   func(i int) int { return i + 1 },
	"score": func(f float64) string { return fmt.Sprintf("%.2f", f) },
}).Parse(`{{range $i, $n := .}}--- Note {{inc $i}} ---
Title: {{na $n.Title}}
Author: {{na $n.Author}}
Selection Date: {{na $n.SelectionDay}}
URL: {{na $n.URL}}

Post Text:
{{na $n.BodyText}}

OCR Text (from images):
{{na $n.OCRText}}

Quality Score: {{score $n.Quality.Score}}

{{end}}`))

// BuildPrompt substitutes keyword into template, or into DefaultPrompt when
// template is empty.
func BuildPrompt(tmpl, keyword string) string {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultPrompt
	}
	return strings.ReplaceAll(tmpl, "{keyword}", keyword)
}

// RenderNotes formats notes as the text block sent to the model.
func RenderNotes(notes []types.ScoredNote) (string, error) {
	var buf bytes.Buffer
	if err := notesTmpl.Execute(&buf, notes); err != nil {
		return "", fmt.Errorf("rendering notes: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

// userMessage assembles the full user message.
func userMessage(cfg types.SummaryConfig, keyword string, notes []types.ScoredNote) (string, error) {
	blob, err := RenderNotes(notes)
	if err != nil {
		return "", err
	}
	return BuildPrompt(cfg.Prompt, keyword) + "\n\nNotes:\n\n" + blob, nil
}

func systemPrompt(cfg types.SummaryConfig) string {
	if s := strings.TrimSpace(cfg.SystemPrompt); s != "" {
		return s
	}
	return DefaultSystemPrompt
}

func na(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
