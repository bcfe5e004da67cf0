// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality scores notes for relevance to the Alpha Picks service.
//
// A score is the sum of independently evaluated weighted criteria. Each
// criterion is a pure predicate over the note's signals and contributes its
// full weight when satisfied. A note is high quality when its score reaches
// the threshold and, separately, it names at least MinSelections selections.
package quality

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// Criterion names, in evaluation order.
const (
	CriterionServiceMention     = "service_mention"
	CriterionMultipleSelections = "multiple_selections"
	CriterionSelectionDate      = "selection_date"
	CriterionSubstantialContent = "substantial_content"
)

// DefaultConfig returns the scoring policy used when nothing is configured.
func DefaultConfig() types.QualityConfig {
	return types.QualityConfig{
		Weights: types.QualityWeights{
			ServiceMention:     0.3,
			MultipleSelections: 0.4,
			SelectionDate:      0.2,
			SubstantialContent: 0.1,
		},
		ServiceAliases:    []string{"seeking alpha", "seekingalpha", "alpha picks", "alpha pick", "alphapicks", "alpha精选"},
		MinSelections:     3,
		SubstantialLength: 200,
		Threshold:         0.7,
	}
}

// Signals are the facts about a note that criteria evaluate.
type Signals struct {
	Note types.Note

	// Text is BodyText and OCRText joined by a newline.
	Text string

	// Selections is the selection token count from CountSelections.
	Selections int
}

// Criterion is one weighted predicate. Eval returns whether the criterion
// holds and a short remark for display.
type Criterion struct {
	Name   string
	Weight float64
	Eval   func(Signals) (bool, string)
}

// Scorer applies an ordered criterion table.
type Scorer struct {
	criteria      []Criterion
	threshold     float64
	minSelections int
}

// NewScorer builds a Scorer from cfg. Zero-valued fields take their defaults.
// The weights must sum to 1.
func NewScorer(cfg types.QualityConfig) (*Scorer, error) {
	def := DefaultConfig()
	if cfg.Weights == (types.QualityWeights{}) {
		cfg.Weights = def.Weights
	}
	if len(cfg.ServiceAliases) == 0 {
		cfg.ServiceAliases = def.ServiceAliases
	}
	if cfg.MinSelections <= 0 {
		cfg.MinSelections = def.MinSelections
	}
	if cfg.SubstantialLength <= 0 {
		cfg.SubstantialLength = def.SubstantialLength
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}

	w := cfg.Weights
	for name, v := range map[string]float64{
		CriterionServiceMention:     w.ServiceMention,
		CriterionMultipleSelections: w.MultipleSelections,
		CriterionSelectionDate:      w.SelectionDate,
		CriterionSubstantialContent: w.SubstantialContent,
	} {
		if v < 0 {
			return nil, fmt.Errorf("quality weight %s is negative (%.2f)", name, v)
		}
	}
	if math.Abs(w.Sum()-1) > 1e-6 {
		return nil, fmt.Errorf("quality weights must sum to 1.0, got %.4f", w.Sum())
	}
	if cfg.Threshold > 1 {
		return nil, fmt.Errorf("quality threshold %.2f is above 1.0", cfg.Threshold)
	}

	aliases := make([]string, 0, len(cfg.ServiceAliases))
	for _, a := range cfg.ServiceAliases {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			aliases = append(aliases, a)
		}
	}

	return &Scorer{
		criteria: []Criterion{
			{CriterionServiceMention, w.ServiceMention, serviceMention(aliases)},
			{CriterionMultipleSelections, w.MultipleSelections, multipleSelections(cfg.MinSelections)},
			{CriterionSelectionDate, w.SelectionDate, selectionDate},
			{CriterionSubstantialContent, w.SubstantialContent, substantialContent(cfg.SubstantialLength)},
		},
		threshold:     cfg.Threshold,
		minSelections: cfg.MinSelections,
	}, nil
}

// table returns a copy of the criterion table in evaluation order.
func (s *Scorer) table() []Criterion {
	return append([]Criterion(nil), s.criteria...)
}

// Score evaluates every criterion against the note and attaches the result.
// The note itself is not modified.
func (s *Scorer) Score(n types.Note) types.ScoredNote {
	sig := Signals{Note: n, Text: combinedText(n)}
	sig.Selections = CountSelections(sig.Text)

	q := types.Quality{
		Selections: sig.Selections,
		Criteria:   make([]types.CriterionResult, 0, len(s.criteria)),
	}
	var sum float64
	for _, c := range s.criteria {
		ok, detail := c.Eval(sig)
		if ok {
			sum += c.Weight
		}
		q.Criteria = append(q.Criteria, types.CriterionResult{
			Name:      c.Name,
			Weight:    c.Weight,
			Satisfied: ok,
			Detail:    detail,
		})
	}
	q.Score = math.Min(1, math.Round(sum*1e6)/1e6)
	q.HighQuality = q.Score >= s.threshold && sig.Selections >= s.minSelections
	return types.ScoredNote{Note: n, Quality: q}
}

func combinedText(n types.Note) string {
	switch {
	case n.OCRText == "":
		return n.BodyText
	case n.BodyText == "":
		return n.OCRText
	}
	return n.BodyText + "\n" + n.OCRText
}

func serviceMention(aliases []string) func(Signals) (bool, string) {
	return func(sig Signals) (bool, string) {
		lower := strings.ToLower(sig.Text)
		for _, a := range aliases {
			if strings.Contains(lower, a) {
				return true, "References Seeking Alpha/Alpha Picks"
			}
		}
		return false, "Missing Seeking Alpha reference"
	}
}

func multipleSelections(min int) func(Signals) (bool, string) {
	return func(sig Signals) (bool, string) {
		switch {
		case sig.Selections >= min:
			return true, fmt.Sprintf("Contains %d selections", sig.Selections)
		case sig.Selections > 0:
			return false, fmt.Sprintf("Contains %d selection(s), fewer than %d", sig.Selections, min)
		}
		return false, "No clear multiple selections found"
	}
}

func selectionDate(sig Signals) (bool, string) {
	if sig.Note.HasSelectionDate() {
		return true, "Contains selection date " + sig.Note.SelectionDay()
	}
	return false, "Missing selection date"
}

func substantialContent(min int) func(Signals) (bool, string) {
	return func(sig Signals) (bool, string) {
		n := utf8.RuneCountInString(sig.Note.BodyText) + utf8.RuneCountInString(sig.Note.OCRText)
		if n > min {
			return true, "Has substantial content"
		}
		return false, fmt.Sprintf("Content may be incomplete (%d chars)", n)
	}
}
