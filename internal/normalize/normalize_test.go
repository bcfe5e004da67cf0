// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

func TestNormalizeEmptyItem(t *testing.T) {
	for name, item := range map[string]types.RawItem{
		"empty map": {},
		"nil":       nil,
	} {
		t.Run(name, func(t *testing.T) {
			var note types.Note
			require.NotPanics(t, func() { note = Normalize(item, refDay) })
			assert.Empty(t, note.ID)
			assert.Empty(t, note.Title)
			assert.Empty(t, note.Author)
			assert.Empty(t, note.BodyText)
			assert.Empty(t, note.OCRText)
			assert.Empty(t, note.URL)
			assert.False(t, note.HasSelectionDate())
			assert.True(t, note.PublishTime.IsZero())
		})
	}
}

func TestNormalizeMistypedFields(t *testing.T) {
	item := types.RawItem{
		"title":    42,
		"desc":     []any{"not", "a", "string"},
		"user":     "just a string",
		"images":   "not-a-list",
		"noteCard": []any{1, 2},
		"time":     map[string]any{"nested": true},
		"ocr_text": nil,
	}
	var note types.Note
	require.NotPanics(t, func() { note = Normalize(item, refDay) })
	assert.Empty(t, note.Title)
	assert.Empty(t, note.BodyText)
	assert.Empty(t, note.Author)
	assert.Empty(t, note.OCRText)
	assert.True(t, note.PublishTime.IsZero())
}

func TestNormalizeFeedShape(t *testing.T) {
	const payload = `{
		"id": "66f0c1",
		"xsecToken": "tok",
		"noteCard": {
			"displayTitle": "Alpha Picks 2025-10-14",
			"user": {"nickname": "美股小王", "userId": "u1"},
			"interactInfo": {"likedCount": "12"}
		}
	}`
	var item types.RawItem
	require.NoError(t, json.Unmarshal([]byte(payload), &item))

	note := Normalize(item, refDay)
	assert.Equal(t, "66f0c1", note.ID)
	assert.Equal(t, "Alpha Picks 2025-10-14", note.Title)
	assert.Equal(t, "美股小王", note.Author)
	assert.Equal(t, "Alpha Picks 2025-10-14", note.BodyText)
	assert.Equal(t, "https://www.xiaohongshu.com/explore/66f0c1", note.URL)
	assert.Equal(t, "2025-10-14", note.SelectionDay())
	assert.Equal(t, item, note.Raw)
}

func TestNormalizeBodyText(t *testing.T) {
	tests := []struct {
		name string
		item types.RawItem
		want string
	}{
		{"title and desc", types.RawItem{"title": "T", "desc": "D"}, "T\nD"},
		{"desc only", types.RawItem{"description": " D "}, "D"},
		{"title only", types.RawItem{"note_title": "T"}, "T"},
		{"same title and desc", types.RawItem{"title": "X", "content": "X"}, "X"},
		{"nested desc", types.RawItem{"title": "T", "note_detail": map[string]any{"desc": "D"}}, "T\nD"},
		{"blank values skipped", types.RawItem{"title": "  ", "displayTitle": "Real", "desc": ""}, "Real"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.item, refDay).BodyText)
		})
	}
}

func TestNormalizeAuthor(t *testing.T) {
	tests := []struct {
		name string
		item types.RawItem
		want string
	}{
		{"flat nickname", types.RawItem{"user_nickname": "a"}, "a"},
		{"author key", types.RawItem{"author": "b"}, "b"},
		{"nested user nickName", types.RawItem{"user": map[string]any{"nickName": "c"}}, "c"},
		{"note_card user", types.RawItem{"note_card": map[string]any{"user": map[string]any{"nick_name": "d"}}}, "d"},
		{"flat beats nested", types.RawItem{"author": "e", "user": map[string]any{"nickname": "f"}}, "e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.item, refDay).Author)
		})
	}
}

func TestNormalizeOCR(t *testing.T) {
	item := types.RawItem{
		"ocr_text":    " first ",
		"image_texts": []any{"second", "", "  "},
		"images": []any{
			map[string]any{"ocr_text": "img one"},
			map[string]any{"url": "https://img/2.jpg"},
			map[string]any{"text": "   "},
			map[string]any{"infoList": []any{
				map[string]any{"text": "part a"},
				map[string]any{"imageScene": "WB_DFT", "url": "x"},
				map[string]any{"text": "part b"},
			}},
			"https://img/plain.jpg",
			42,
		},
	}
	note := Normalize(item, refDay)
	assert.Equal(t, "first\nsecond\nimg one\npart a\npart b", note.OCRText)
}

func TestNormalizeOCRStringSlice(t *testing.T) {
	item := types.RawItem{"ocr_texts": []string{"a", "b"}}
	assert.Equal(t, "a\nb", Normalize(item, refDay).OCRText)
}

func TestNormalizeSelectionDateSources(t *testing.T) {
	tests := []struct {
		name string
		item types.RawItem
		want string
	}{
		{
			name: "body wins over OCR",
			item: types.RawItem{"desc": "2025年10月13日 名单", "ocr_text": "2025-10-14"},
			want: "2025-10-13",
		},
		{
			name: "OCR when body has none",
			item: types.RawItem{"desc": "今日精选", "images": []any{map[string]any{"ocr_text": "10月14日"}}},
			want: "2025-10-14",
		},
		{
			name: "invalid body date falls through to OCR",
			item: types.RawItem{"desc": "2025-13-05", "ocr_text": "2025/10/12"},
			want: "2025-10-12",
		},
		{
			name: "publish time is not a selection date",
			item: types.RawItem{"desc": "no date", "time": float64(1760400000)},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.item, refDay).SelectionDay())
		})
	}
}

func TestNormalizeIDAndURL(t *testing.T) {
	tests := []struct {
		name    string
		item    types.RawItem
		wantID  string
		wantURL string
	}{
		{"numeric id", types.RawItem{"note_id": float64(12345)}, "12345", "https://www.xiaohongshu.com/explore/12345"},
		{"explicit url", types.RawItem{"id": "x", "share_link": "https://xhslink.com/a"}, "x", "https://xhslink.com/a"},
		{"no id no url", types.RawItem{"title": "t"}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := Normalize(tt.item, refDay)
			assert.Equal(t, tt.wantID, note.ID)
			assert.Equal(t, tt.wantURL, note.URL)
		})
	}
}

func TestNormalizePublishTime(t *testing.T) {
	tests := []struct {
		name string
		item types.RawItem
		want time.Time
	}{
		{"epoch seconds", types.RawItem{"time": float64(1760400000)}, time.Unix(1760400000, 0)},
		{"epoch millis", types.RawItem{"timestamp": float64(1760400000123)}, time.UnixMilli(1760400000123)},
		{"numeric string", types.RawItem{"create_time": "1760400000"}, time.Unix(1760400000, 0)},
		{"rfc3339", types.RawItem{"created_at": "2025-10-14T08:00:00Z"}, time.Date(2025, 10, 14, 8, 0, 0, 0, time.UTC)},
		{"nested", types.RawItem{"noteCard": map[string]any{"lastUpdateTime": float64(1760400000000)}}, time.UnixMilli(1760400000000)},
		{"garbage", types.RawItem{"time": "yesterday"}, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.item, refDay).PublishTime
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestNormalizeAllPreservesOrder(t *testing.T) {
	items := []types.RawItem{{"id": "a"}, {}, {"id": "c"}}
	notes := NormalizeAll(items, refDay)
	require.Len(t, notes, 3)
	assert.Equal(t, "a", notes[0].ID)
	assert.Equal(t, "", notes[1].ID)
	assert.Equal(t, "c", notes[2].ID)
}
