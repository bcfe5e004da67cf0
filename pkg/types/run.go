// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DailyLog is one invocation's record handed to the log sink.
type DailyLog struct {
	// Date is the invocation's calendar day; it names the log file.
	Date time.Time

	// Mode is the recency mode ("today", "latest", or "range").
	Mode RecencyMode

	// TargetDate is the selection day the filter matched against.
	TargetDate time.Time

	GeneratedAt time.Time
	RunID       string
	Keyword     string

	Notes []ScoredNote

	// Summary is the summarizer output, empty in offline mode.
	Summary string
}
