// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter decides which notes fall inside a recency window.
//
// Dates are compared as calendar days in the location of now. Parsed
// selection dates already carry that location, so no conversion happens.
package filter

import (
	"time"

	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// Target returns the reference day for the policy: the latest selection date
// in the batch under RecencyLatest (today when nothing is dated), and today
// otherwise.
func Target(notes []types.Note, p types.RecencyPolicy, now time.Time) time.Time {
	today := Day(now)
	if p.Mode != types.RecencyLatest {
		return today
	}
	if latest, ok := LatestDate(notes); ok {
		return latest
	}
	return today
}

// LatestDate returns the most recent selection date among notes.
func LatestDate(notes []types.Note) (time.Time, bool) {
	var latest time.Time
	for _, n := range notes {
		if !n.HasSelectionDate() {
			continue
		}
		if d := Day(n.SelectionDate); d.After(latest) {
			latest = d
		}
	}
	return latest, !latest.IsZero()
}

// Keep reports whether a note passes the policy. target is the day returned
// by Target for the same batch.
//
// Undated notes are kept under the window policy and dropped by the
// exact-day policies.
func Keep(n types.Note, p types.RecencyPolicy, target time.Time) bool {
	if !n.HasSelectionDate() {
		return p.Mode == types.RecencyLastNDays
	}
	d := Day(n.SelectionDate)
	switch p.Mode {
	case types.RecencyToday, types.RecencyLatest:
		return d.Equal(Day(target))
	case types.RecencyLastNDays:
		days := p.Days
		if days < 1 {
			days = 1
		}
		end := Day(target)
		start := end.AddDate(0, 0, -(days - 1))
		return !d.Before(start) && !d.After(end)
	}
	return false
}

// Apply filters notes in order and returns the survivors with the target day.
func Apply(notes []types.Note, p types.RecencyPolicy, now time.Time) ([]types.Note, time.Time) {
	target := Target(notes, p, now)
	kept := make([]types.Note, 0, len(notes))
	for _, n := range notes {
		if Keep(n, p, target) {
			kept = append(kept, n)
		}
	}
	return kept, target
}

// Day truncates t to midnight of its own calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
