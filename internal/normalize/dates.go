// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/width"
)

// datePattern is one entry of the recognized date vocabulary. The build func
// turns submatches into year, month, and day; ref supplies the year for
// patterns that omit it.
type datePattern struct {
	re    *regexp.Regexp
	build func(m []string, ref time.Time) (year, month, day int)
}

func ymd(y, m, d int) func([]string, time.Time) (int, int, int) {
	return func(sub []string, _ time.Time) (int, int, int) {
		return atoi(sub[y]), atoi(sub[m]), atoi(sub[d])
	}
}

// datePatterns lists the vocabulary. When several candidates occur in one
// text, the leftmost wins; on equal offsets, earlier patterns win. A match
// touching another digit is not a candidate; letters may touch it
// ("2025-10-14T08:00", "10/14/2025AAPL").
var datePatterns = []datePattern{
	// 2025年10月14日, 2025 年 10 月 14 号
	{regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*[日号]`), ymd(1, 2, 3)},
	// 2025-10-14, 2025/10/14, 2025.10.14
	{regexp.MustCompile(`(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`), ymd(1, 2, 3)},
	// 10/14/2025
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`), ymd(3, 1, 2)},
	// 10月14日: the year is taken from ref, stepping back one year if the
	// result would land after ref.
	{regexp.MustCompile(`(\d{1,2})\s*月\s*(\d{1,2})\s*[日号]`), func(sub []string, ref time.Time) (int, int, int) {
		month, day := atoi(sub[1]), atoi(sub[2])
		year := ref.Year()
		if month > int(ref.Month()) || (month == int(ref.Month()) && day > ref.Day()) {
			year--
		}
		return year, month, day
	}},
}

type dateCandidate struct {
	start   int
	pattern int
	sub     []string
}

// ParseDate returns the first valid calendar date in text. Full-width digits
// and separators are folded to ASCII first. Candidates naming an impossible
// day (month 13, Feb 30) are skipped and the scan continues. The returned
// time is midnight in ref's location.
func ParseDate(text string, ref time.Time) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	if ref.IsZero() {
		ref = time.Now()
	}
	folded := width.Fold.String(text)

	var candidates []dateCandidate
	for i, p := range datePatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(folded, -1) {
			if !digitBounded(folded, loc[0], loc[1]) {
				continue
			}
			sub := make([]string, len(loc)/2)
			for g := range sub {
				if loc[2*g] >= 0 {
					sub[g] = folded[loc[2*g]:loc[2*g+1]]
				}
			}
			candidates = append(candidates, dateCandidate{start: loc[0], pattern: i, sub: sub})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return candidates[i].pattern < candidates[j].pattern
	})

	for _, c := range candidates {
		y, m, d := datePatterns[c.pattern].build(c.sub, ref)
		if t, ok := calendarDay(y, m, d, ref.Location()); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// FindSelectionDate scans texts in order and returns the first valid date.
func FindSelectionDate(ref time.Time, texts ...string) (time.Time, bool) {
	for _, text := range texts {
		if t, ok := ParseDate(text, ref); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// calendarDay builds the date and rejects values time.Date would normalize
// into a different day.
func calendarDay(year, month, day int, loc *time.Location) (time.Time, bool) {
	if year <= 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// digitBounded reports whether s[start:end] is not glued to a neighbouring
// ASCII digit. s is already width-folded.
func digitBounded(s string, start, end int) bool {
	if start > 0 && isDigit(s[start-1]) {
		return false
	}
	return end >= len(s) || !isDigit(s[end])
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
