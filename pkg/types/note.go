// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the xhs-alpha-picks pipeline.
// Raw search items flow one way: RawItem → Note → ScoredNote.
package types

import "time"

// RawItem is one note-like object as returned by the search capability. Keys
// map to strings, numbers, nested objects, or arrays; nothing about field
// presence is guaranteed.
type RawItem map[string]any

// Note is the canonical record derived from one RawItem. It is built once by
// the normalizer and never modified afterwards; scoring wraps it in a
// ScoredNote instead.
type Note struct {
	// ID is the platform note identifier, empty if the item carried none.
	ID string `json:"note_id" yaml:"note_id"`

	// Title is the note title.
	Title string `json:"title" yaml:"title"`

	// Author is the poster's display name.
	Author string `json:"author" yaml:"author"`

	// BodyText is the post's own text: title line followed by the description.
	BodyText string `json:"post_text" yaml:"post_text"`

	// OCRText is the text recognized in the note's images, one fragment per
	// line in image order.
	OCRText string `json:"ocr_text" yaml:"ocr_text"`

	// URL links to the note on the platform.
	URL string `json:"url" yaml:"url"`

	// SelectionDate is the calendar day parsed from BodyText or OCRText.
	// The zero value means no date was found.
	SelectionDate time.Time `json:"selection_date" yaml:"selection_date"`

	// PublishTime is the server-provided timestamp, kept for display only.
	PublishTime time.Time `json:"publish_time" yaml:"publish_time"`

	// Raw is the originating item, kept for raw dumps. Scoring never reads it.
	Raw RawItem `json:"-" yaml:"-"`
}

// HasSelectionDate reports whether a selection date was parsed.
func (n Note) HasSelectionDate() bool {
	return !n.SelectionDate.IsZero()
}

// SelectionDay returns the selection date formatted as YYYY-MM-DD, or "" when absent.
func (n Note) SelectionDay() string {
	if !n.HasSelectionDate() {
		return ""
	}
	return n.SelectionDate.Format(DayLayout)
}

// DayLayout is the calendar-day format used in logs, filenames, and exports.
const DayLayout = "2006-01-02"

// CriterionResult records the outcome of one quality criterion.
type CriterionResult struct {
	Name      string  `json:"name" yaml:"name"`
	Weight    float64 `json:"weight" yaml:"weight"`
	Satisfied bool    `json:"satisfied" yaml:"satisfied"`
	Detail    string  `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Quality is the score attached to a Note.
type Quality struct {
	// Score is the weighted sum of satisfied criteria, in [0, 1].
	Score float64 `json:"score" yaml:"score"`

	// Selections is the number of distinct selection tokens found.
	Selections int `json:"selections" yaml:"selections"`

	// HighQuality is true when the score threshold and the selection gate both hold.
	HighQuality bool `json:"high_quality" yaml:"high_quality"`

	// Criteria lists each criterion in evaluation order.
	Criteria []CriterionResult `json:"criteria" yaml:"criteria"`
}

// Notes returns a human-readable remark per criterion.
func (q Quality) Notes() []string {
	notes := make([]string, 0, len(q.Criteria))
	for _, c := range q.Criteria {
		if c.Detail != "" {
			notes = append(notes, c.Detail)
		}
	}
	return notes
}

// ScoredNote pairs a Note with its quality score.
type ScoredNote struct {
	Note    `yaml:",inline"`
	Quality Quality `json:"quality" yaml:"quality"`
}
