// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// NoteType restricts the kind of note the search capability returns.
type NoteType string

const (
	NoteTypeAll       NoteType = "all"
	NoteTypeVideo     NoteType = "video"
	NoteTypeImageText NoteType = "image-text"
)

// ParseNoteType validates a note type name.
func ParseNoteType(s string) (NoteType, error) {
	switch t := NoteType(s); t {
	case NoteTypeAll, NoteTypeVideo, NoteTypeImageText:
		return t, nil
	}
	return "", fmt.Errorf("unknown note type %q (want all, video, or image-text)", s)
}

// SortOrder selects how the search capability orders results.
type SortOrder string

const (
	SortGeneral              SortOrder = "general"
	SortTimeDescending       SortOrder = "time-descending"
	SortPopularityDescending SortOrder = "popularity-descending"
)

// ParseSortOrder validates a sort order name. Underscore spellings are accepted.
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "general":
		return SortGeneral, nil
	case "time-descending", "time_descending":
		return SortTimeDescending, nil
	case "popularity-descending", "popularity_descending":
		return SortPopularityDescending, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want general, time-descending, or popularity-descending)", s)
}

// SearchRequest is the single request issued to the search capability.
type SearchRequest struct {
	Keyword  string
	Count    int
	NoteType NoteType
	Sort     SortOrder
}

// SearchResponse holds the items returned by one search call along with the
// decoded payload they came from.
type SearchResponse struct {
	Items []RawItem
	Raw   any
	Tool  string
}

// RecencyMode names a date filtering policy.
type RecencyMode string

const (
	// RecencyToday keeps notes whose selection date is the current day.
	RecencyToday RecencyMode = "today"
	// RecencyLastNDays keeps notes dated within the last Days days, and undated notes.
	RecencyLastNDays RecencyMode = "range"
	// RecencyLatest keeps notes dated on the most recent selection date in the batch.
	RecencyLatest RecencyMode = "latest"
)

// RecencyPolicy configures the date filter.
type RecencyPolicy struct {
	Mode RecencyMode
	// Days is the window size for RecencyLastNDays.
	Days int
}

// Today returns the exact-day policy.
func Today() RecencyPolicy { return RecencyPolicy{Mode: RecencyToday} }

// LastNDays returns the inclusive sliding-window policy.
func LastNDays(n int) RecencyPolicy { return RecencyPolicy{Mode: RecencyLastNDays, Days: n} }

// Latest returns the latest-date policy.
func Latest() RecencyPolicy { return RecencyPolicy{Mode: RecencyLatest} }

// String describes the policy for console output.
func (p RecencyPolicy) String() string {
	switch p.Mode {
	case RecencyToday:
		return "today"
	case RecencyLatest:
		return "latest date"
	case RecencyLastNDays:
		return fmt.Sprintf("last %d days", p.Days)
	}
	return string(p.Mode)
}
