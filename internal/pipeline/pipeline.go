// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one search-to-log pass over Xiaohongshu notes.
//
// A run probes the search capability, issues a single search, normalizes
// every item, applies the recency filter and the quality gate, ranks and
// truncates the survivors, and then hands them to the optional summarizer
// and log sink. Nothing is written when the search fails.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/xhs-alpha-picks/internal/filter"
	"github.com/pdiddy/xhs-alpha-picks/internal/normalize"
	"github.com/pdiddy/xhs-alpha-picks/internal/quality"
	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// ErrConnectivity marks failures of the search capability: the probe or the
// search call did not succeed. It is distinct from a search that returns
// zero items.
var ErrConnectivity = errors.New("search capability unavailable")

// Searcher is the search capability.
type Searcher interface {
	// Ping is a fast-fail reachability probe.
	Ping(ctx context.Context) error
	Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error)
}

// Summarizer condenses the surviving notes into free-form text.
type Summarizer interface {
	Summarize(ctx context.Context, keyword string, notes []types.ScoredNote) (string, error)
}

// LogWriter persists one invocation and returns the file path written.
type LogWriter interface {
	Write(entry types.DailyLog) (string, error)
}

// Request carries the per-invocation parameters.
type Request struct {
	Keyword  string
	Count    int
	NoteType types.NoteType
	Sort     types.SortOrder
	Policy   types.RecencyPolicy

	// MaxResults caps the survivors after ranking.
	MaxResults int
}

// Result is the outcome of a run.
type Result struct {
	RunID      string
	Keyword    string
	Policy     types.RecencyPolicy
	TargetDate time.Time
	Tool       string

	// Retrieved is the number of items the search returned.
	Retrieved int

	// DateKept is the number of notes that passed the recency filter.
	DateKept int

	// Scored holds every date-kept note with its score, in search order.
	Scored []types.ScoredNote

	// Notes are the high-quality survivors, ranked and truncated.
	Notes []types.ScoredNote

	Summary string
	LogPath string

	// Raw is the decoded search payload, for raw dumps.
	Raw any
}

// Controller wires the capabilities to the note processing steps. Summarizer
// and LogWriter are optional.
type Controller struct {
	Searcher   Searcher
	Summarizer Summarizer
	LogWriter  LogWriter
	Config     types.PipelineConfig

	// Progress receives human-readable progress lines. Nil discards them.
	Progress io.Writer

	// NewRunID overrides run identifier generation.
	NewRunID func() string
}

// Run executes one pass. now defines the current calendar day.
func (c *Controller) Run(ctx context.Context, req Request, now time.Time) (Result, error) {
	if c.Searcher == nil {
		return Result{}, fmt.Errorf("pipeline has no searcher")
	}
	scorer, err := quality.NewScorer(c.Config.Quality)
	if err != nil {
		return Result{}, fmt.Errorf("quality config: %w", err)
	}
	w := c.Progress
	if w == nil {
		w = io.Discard
	}
	newID := c.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}

	res := Result{RunID: newID(), Keyword: req.Keyword, Policy: req.Policy}
	slog.Debug("pipeline run", "run_id", res.RunID, "keyword", req.Keyword, "policy", req.Policy.String())

	if err := c.Searcher.Ping(ctx); err != nil {
		return res, fmt.Errorf("%w: probe: %w", ErrConnectivity, err)
	}

	resp, err := c.Searcher.Search(ctx, types.SearchRequest{
		Keyword:  req.Keyword,
		Count:    req.Count,
		NoteType: req.NoteType,
		Sort:     req.Sort,
	})
	if err != nil {
		return res, fmt.Errorf("%w: search: %w", ErrConnectivity, err)
	}
	res.Raw = resp.Raw
	res.Tool = resp.Tool
	res.Retrieved = len(resp.Items)
	fmt.Fprintf(w, "Retrieved %d notes for keyword %q\n", res.Retrieved, req.Keyword)

	notes := normalize.NormalizeAll(resp.Items, now)
	kept, target := filter.Apply(notes, req.Policy, now)
	res.TargetDate = target
	res.DateKept = len(kept)
	fmt.Fprintf(w, "%d notes match %s (target %s)\n", res.DateKept, req.Policy, target.Format(types.DayLayout))

	res.Scored = make([]types.ScoredNote, 0, len(kept))
	var survivors []types.ScoredNote
	for _, n := range kept {
		sn := scorer.Score(n)
		res.Scored = append(res.Scored, sn)
		if sn.Quality.HighQuality {
			survivors = append(survivors, sn)
		}
	}
	Rank(survivors)
	if req.MaxResults > 0 && len(survivors) > req.MaxResults {
		survivors = survivors[:req.MaxResults]
	}
	res.Notes = survivors
	fmt.Fprintf(w, "%d high-quality notes selected\n", len(res.Notes))

	if len(res.Notes) == 0 {
		return res, nil
	}

	if c.Summarizer != nil && !c.Config.Offline {
		summary, err := c.Summarizer.Summarize(ctx, req.Keyword, res.Notes)
		if err != nil {
			return res, fmt.Errorf("summarizing notes: %w", err)
		}
		res.Summary = summary
	}

	if c.LogWriter != nil && !c.Config.Log.Disabled {
		path, err := c.LogWriter.Write(types.DailyLog{
			Date:        filter.Day(now),
			Mode:        req.Policy.Mode,
			TargetDate:  target,
			GeneratedAt: now,
			RunID:       res.RunID,
			Keyword:     req.Keyword,
			Notes:       res.Notes,
			Summary:     res.Summary,
		})
		if err != nil {
			return res, fmt.Errorf("writing daily log: %w", err)
		}
		res.LogPath = path
	}

	return res, nil
}

// Rank sorts notes by selection date, newest first, with undated notes last.
// Notes on the same day are ordered by score, higher first. Remaining ties,
// including all undated notes, keep their input order.
func Rank(notes []types.ScoredNote) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		switch {
		case !a.HasSelectionDate():
			return false
		case !b.HasSelectionDate():
			return true
		case !filter.Day(a.SelectionDate).Equal(filter.Day(b.SelectionDate)):
			return a.SelectionDate.After(b.SelectionDate)
		}
		return a.Quality.Score > b.Quality.Score
	})
}
