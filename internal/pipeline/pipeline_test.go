// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/xhs-alpha-picks/internal/dailylog"
	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

var now = time.Date(2025, time.October, 14, 20, 0, 0, 0, time.Local)

// --- fakes ---

type fakeSearcher struct {
	items    []types.RawItem
	pingErr  error
	err      error
	pings    int
	searches int
	lastReq  types.SearchRequest
}

func (f *fakeSearcher) Ping(context.Context) error {
	f.pings++
	return f.pingErr
}

func (f *fakeSearcher) Search(_ context.Context, req types.SearchRequest) (types.SearchResponse, error) {
	f.searches++
	f.lastReq = req
	if f.err != nil {
		return types.SearchResponse{}, f.err
	}
	return types.SearchResponse{Items: f.items, Raw: map[string]any{"feeds": len(f.items)}, Tool: "search_feeds"}, nil
}

type fakeSummarizer struct {
	calls int
	notes []types.ScoredNote
	err   error
}

func (f *fakeSummarizer) Summarize(_ context.Context, keyword string, notes []types.ScoredNote) (string, error) {
	f.calls++
	f.notes = notes
	if f.err != nil {
		return "", f.err
	}
	return "summary for " + keyword, nil
}

// --- fixtures ---

func qualifying(id, extra string) types.RawItem {
	return types.RawItem{
		"id": id,
		"noteCard": map[string]any{
			"displayTitle": "Alpha Picks 2025-10-14 " + id,
			"desc":         "Seeking Alpha 本期精选: AAPL NVDA TSLA\n" + extra,
			"user":         map[string]any{"nickname": "author-" + id},
		},
	}
}

func lowQuality(id string) types.RawItem {
	return types.RawItem{"id": id, "title": "随便看看", "desc": "今天天气不错"}
}

// fiveItems returns three qualifying items (q2 lacks substantial text and so
// scores lower) and two short undated ones.
func fiveItems() []types.RawItem {
	long := strings.Repeat("详细分析和买入理由。", 25)
	return []types.RawItem{
		lowQuality("l1"),
		qualifying("q1", long),
		qualifying("q2", "短评"),
		lowQuality("l2"),
		qualifying("q3", long),
	}
}

func ids(notes []types.ScoredNote) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func newController(s Searcher, sum Summarizer, logDir string) *Controller {
	c := &Controller{
		Searcher:   s,
		Summarizer: sum,
		NewRunID:   func() string { return "run-test" },
	}
	if logDir != "" {
		c.LogWriter = dailylog.New(logDir)
	}
	return c
}

func todayRequest(max int) Request {
	return Request{
		Keyword:    "alpha pick 2025-10-14",
		Count:      10,
		NoteType:   types.NoteTypeImageText,
		Sort:       types.SortTimeDescending,
		Policy:     types.Today(),
		MaxResults: max,
	}
}

// --- tests ---

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	s := &fakeSearcher{items: fiveItems()}
	c := newController(s, nil, dir)

	res, err := c.Run(context.Background(), todayRequest(2), now)
	require.NoError(t, err)

	assert.Equal(t, 1, s.pings)
	assert.Equal(t, 1, s.searches)
	assert.Equal(t, 5, res.Retrieved)
	assert.Equal(t, 3, res.DateKept)
	assert.Equal(t, []string{"q1", "q3"}, ids(res.Notes))
	for _, n := range res.Notes {
		assert.True(t, n.Quality.HighQuality)
		assert.InDelta(t, 1.0, n.Quality.Score, 1e-9)
	}
	assert.Equal(t, "2025-10-14", res.TargetDate.Format(types.DayLayout))
	assert.Equal(t, "search_feeds", res.Tool)

	require.Equal(t, filepath.Join(dir, "2025-10-14_today.txt"), res.LogPath)
	data, err := os.ReadFile(res.LogPath)
	require.NoError(t, err)
	log := string(data)
	assert.Contains(t, log, "Alpha Picks 2025-10-14 q1")
	assert.Contains(t, log, "Alpha Picks 2025-10-14 q3")
	assert.NotContains(t, log, "q2")
	assert.NotContains(t, log, "随便看看")
}

func TestRunPassesSearchParameters(t *testing.T) {
	s := &fakeSearcher{}
	_, err := newController(s, nil, "").Run(context.Background(), todayRequest(1), now)
	require.NoError(t, err)
	assert.Equal(t, types.SearchRequest{
		Keyword:  "alpha pick 2025-10-14",
		Count:    10,
		NoteType: types.NoteTypeImageText,
		Sort:     types.SortTimeDescending,
	}, s.lastReq)
}

func TestRunOfflineMatchesOnline(t *testing.T) {
	online := &fakeSummarizer{}
	cOnline := newController(&fakeSearcher{items: fiveItems()}, online, "")
	resOnline, err := cOnline.Run(context.Background(), todayRequest(3), now)
	require.NoError(t, err)

	offline := &fakeSummarizer{}
	cOffline := newController(&fakeSearcher{items: fiveItems()}, offline, "")
	cOffline.Config.Offline = true
	resOffline, err := cOffline.Run(context.Background(), todayRequest(3), now)
	require.NoError(t, err)

	assert.Equal(t, resOnline.Notes, resOffline.Notes)
	assert.Equal(t, 1, online.calls)
	assert.Equal(t, resOnline.Notes, online.notes)
	assert.Equal(t, "summary for alpha pick 2025-10-14", resOnline.Summary)
	assert.Equal(t, 0, offline.calls)
	assert.Empty(t, resOffline.Summary)
}

func TestRunSummaryIsLogged(t *testing.T) {
	dir := t.TempDir()
	c := newController(&fakeSearcher{items: fiveItems()}, &fakeSummarizer{}, dir)
	res, err := c.Run(context.Background(), todayRequest(1), now)
	require.NoError(t, err)

	data, err := os.ReadFile(res.LogPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "summary for alpha pick 2025-10-14")
}

func TestRunSearchFailureAborts(t *testing.T) {
	tests := []struct {
		name         string
		searcher     *fakeSearcher
		wantSearches int
	}{
		{"probe fails", &fakeSearcher{pingErr: errors.New("connection refused"), items: fiveItems()}, 0},
		{"search fails", &fakeSearcher{err: errors.New("503"), items: fiveItems()}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "logs")
			sum := &fakeSummarizer{}
			c := newController(tt.searcher, sum, dir)

			res, err := c.Run(context.Background(), todayRequest(2), now)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConnectivity))
			assert.Equal(t, tt.wantSearches, tt.searcher.searches)
			assert.Equal(t, 0, sum.calls)
			assert.Empty(t, res.Notes)
			assert.Empty(t, res.LogPath)

			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr), "no log directory should be created")
		})
	}
}

func TestRunZeroResultsIsSuccess(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	sum := &fakeSummarizer{}
	res, err := newController(&fakeSearcher{}, sum, dir).Run(context.Background(), todayRequest(2), now)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Retrieved)
	assert.Empty(t, res.Notes)
	assert.Equal(t, 0, sum.calls)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunSummarizerFailureSkipsLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	sum := &fakeSummarizer{err: errors.New("unauthorized")}
	_, err := newController(&fakeSearcher{items: fiveItems()}, sum, dir).Run(context.Background(), todayRequest(2), now)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrConnectivity))
	assert.Contains(t, err.Error(), "unauthorized")
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunLogDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	c := newController(&fakeSearcher{items: fiveItems()}, nil, dir)
	c.Config.Log.Disabled = true
	res, err := c.Run(context.Background(), todayRequest(2), now)
	require.NoError(t, err)
	assert.Len(t, res.Notes, 2)
	assert.Empty(t, res.LogPath)
}

func TestRunLatestPolicy(t *testing.T) {
	long := strings.Repeat("详细分析。", 50)
	items := []types.RawItem{
		{"id": "old", "desc": "Alpha Picks 2025-10-10 AAPL NVDA TSLA " + long},
		{"id": "new", "desc": "Alpha Picks 2025-10-12 AMD META GOOG " + long},
	}
	req := todayRequest(5)
	req.Policy = types.Latest()
	dir := t.TempDir()
	res, err := newController(&fakeSearcher{items: items}, nil, dir).Run(context.Background(), req, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids(res.Notes))
	assert.Equal(t, "2025-10-12", res.TargetDate.Format(types.DayLayout))
	assert.Equal(t, filepath.Join(dir, "2025-10-14_latest.txt"), res.LogPath)
}

func TestRunProgressOutput(t *testing.T) {
	var buf bytes.Buffer
	c := newController(&fakeSearcher{items: fiveItems()}, nil, "")
	c.Progress = &buf
	_, err := c.Run(context.Background(), todayRequest(2), now)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Retrieved 5 notes")
	assert.Contains(t, buf.String(), "2 high-quality notes selected")
}

func TestRunInvalidQualityConfig(t *testing.T) {
	s := &fakeSearcher{}
	c := newController(s, nil, "")
	c.Config.Quality.Weights = types.QualityWeights{ServiceMention: 0.9}
	_, err := c.Run(context.Background(), todayRequest(1), now)
	require.Error(t, err)
	assert.Equal(t, 0, s.pings)
}

func TestRank(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, time.October, d, 0, 0, 0, 0, time.Local) }
	notes := []types.ScoredNote{
		{Note: types.Note{ID: "u1"}, Quality: types.Quality{Score: 1}},
		{Note: types.Note{ID: "d12", SelectionDate: day(12)}, Quality: types.Quality{Score: 1}},
		{Note: types.Note{ID: "d14low", SelectionDate: day(14)}, Quality: types.Quality{Score: 0.7}},
		{Note: types.Note{ID: "u2"}, Quality: types.Quality{Score: 0.7}},
		{Note: types.Note{ID: "d14high", SelectionDate: day(14)}, Quality: types.Quality{Score: 1}},
		{Note: types.Note{ID: "u3"}, Quality: types.Quality{Score: 0.9}},
	}
	Rank(notes)
	assert.Equal(t, []string{"d14high", "d14low", "d12", "u1", "u2", "u3"}, ids(notes))
}
