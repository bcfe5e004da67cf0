// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refDay = time.Date(2025, time.October, 14, 9, 30, 0, 0, time.Local)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Time
		ok   bool
	}{
		{"iso dashes", "精选日期：2025-10-14", day(2025, 10, 14), true},
		{"slashes single digits", "更新 2025/1/5 名单", day(2025, 1, 5), true},
		{"dots", "2025.10.14 Alpha Picks", day(2025, 10, 14), true},
		{"chinese full date", "2025年10月14日更新", day(2025, 10, 14), true},
		{"chinese with spaces and hao", "2025 年 3 月 9 号", day(2025, 3, 9), true},
		{"full-width digits", "２０２５年１０月１４日", day(2025, 10, 14), true},
		{"full-width iso", "２０２５－１０－１４", day(2025, 10, 14), true},
		{"us order", "picks for 10/14/2025", day(2025, 10, 14), true},
		{"yearless same year", "10月14日的精选", day(2025, 10, 14), true},
		{"yearless after ref steps back a year", "12月1日", day(2024, 12, 1), true},
		{"month 13 rejected", "2025-13-01", time.Time{}, false},
		{"day 32 rejected", "2025-10-32", time.Time{}, false},
		{"feb 30 rejected", "2025年2月30日", time.Time{}, false},
		{"invalid then valid keeps scanning", "2025-13-01 改为 2025-10-13", day(2025, 10, 13), true},
		{"leftmost wins", "10月12日 回顾 2025-10-14", day(2025, 10, 12), true},
		{"dots run into latin text", "2025.10.14Alpha Picks更新", day(2025, 10, 14), true},
		{"iso with time suffix", "发布于2025-10-14T08:00:00", day(2025, 10, 14), true},
		{"us order run into ticker", "10/14/2025AAPL", day(2025, 10, 14), true},
		{"underscore suffix", "2025-10-14_picks", day(2025, 10, 14), true},
		{"latin prefix", "v2025-10-14", day(2025, 10, 14), true},
		{"glued to digits rejected", "编号12025-10-145", time.Time{}, false},
		{"no date", "AAPL NVDA TSLA", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.text, refDay)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			} else {
				assert.True(t, got.IsZero())
			}
		})
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	layouts := []string{"2006-01-02", "2006/01/02", "2006.01.02", "2006年1月2日", "01/02/2006"}
	start := day(2024, time.January, 1)
	for i := 0; i < 366; i += 7 {
		want := start.AddDate(0, 0, i)
		for _, layout := range layouts {
			text := want.Format(layout)
			got, ok := ParseDate(text, refDay)
			require.True(t, ok, "no date found in %q", text)
			assert.True(t, want.Equal(got), "%q: got %v, want %v", text, got, want)
		}
	}
}

func TestParseDateReturnsMidnight(t *testing.T) {
	got, ok := ParseDate("2025-10-14", refDay)
	require.True(t, ok)
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.Equal(t, refDay.Location(), got.Location())
}

func TestFindSelectionDate(t *testing.T) {
	t.Run("body before OCR", func(t *testing.T) {
		got, ok := FindSelectionDate(refDay, "2025-10-13", "2025-10-14")
		require.True(t, ok)
		assert.True(t, day(2025, 10, 13).Equal(got))
	})
	t.Run("falls through to OCR", func(t *testing.T) {
		got, ok := FindSelectionDate(refDay, "no date here", "截图 2025年10月14日")
		require.True(t, ok)
		assert.True(t, day(2025, 10, 14).Equal(got))
	})
	t.Run("invalid body date falls through", func(t *testing.T) {
		got, ok := FindSelectionDate(refDay, "2025-13-40", "2025-10-11")
		require.True(t, ok)
		assert.True(t, day(2025, 10, 11).Equal(got))
	})
	t.Run("absent everywhere", func(t *testing.T) {
		_, ok := FindSelectionDate(refDay, "", "nothing")
		assert.False(t, ok)
	})
}
