// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts raw search items into canonical notes.
// Normalization is total: every RawItem yields exactly one Note, and any
// missing or mistyped field degrades to an empty value.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// noteURLBase builds a note link when the item carries only an ID.
const noteURLBase = "https://www.xiaohongshu.com/explore/"

// Nested containers consulted after the item's top level, in order.
var nestedViews = []string{"noteCard", "note_card", "note_detail", "note"}

var (
	idKeys         = []string{"note_id", "id", "noteId", "nid"}
	titleKeys      = []string{"title", "displayTitle", "display_title", "note_title", "name"}
	descKeys       = []string{"desc", "description", "note_desc", "content", "text"}
	authorKeys     = []string{"user_nickname", "user_name", "author", "nickname"}
	userNameKeys   = []string{"nickname", "nickName", "nick_name"}
	urlKeys        = []string{"note_url", "url", "share_link", "link"}
	timeKeys       = []string{"time", "timestamp", "publish_time", "create_time", "created_at", "lastUpdateTime"}
	ocrStringKeys  = []string{"ocr_text", "image_text"}
	ocrListKeys    = []string{"image_texts", "ocr_texts"}
	imageListKeys  = []string{"images", "image_list", "imageList"}
	descriptorKeys = []string{"ocr_text", "image_text", "text"}
	timeLayouts    = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}
)

// Normalize builds the Note for one item. ref anchors yearless dates and
// defines the calendar day used for parsed dates.
func Normalize(item types.RawItem, ref time.Time) types.Note {
	vs := views(item)

	title := firstString(vs, titleKeys)
	desc := firstString(vs, descKeys)
	body := joinNonEmpty("\n", title, desc)
	if title == desc {
		body = title
	}
	ocr := collectOCR(vs)

	note := types.Note{
		ID:          firstScalar(vs, idKeys),
		Title:       title,
		Author:      author(vs),
		BodyText:    body,
		OCRText:     ocr,
		URL:         firstString(vs, urlKeys),
		PublishTime: publishTime(vs),
		Raw:         item,
	}
	if note.URL == "" && note.ID != "" {
		note.URL = noteURLBase + note.ID
	}
	if d, ok := FindSelectionDate(ref, body, ocr); ok {
		note.SelectionDate = d
	}
	return note
}

// NormalizeAll normalizes every item, preserving order.
func NormalizeAll(items []types.RawItem, ref time.Time) []types.Note {
	notes := make([]types.Note, 0, len(items))
	for _, item := range items {
		notes = append(notes, Normalize(item, ref))
	}
	return notes
}

func views(item types.RawItem) []map[string]any {
	if item == nil {
		return nil
	}
	vs := []map[string]any{item}
	for _, key := range nestedViews {
		if m, ok := asMap(item[key]); ok {
			vs = append(vs, m)
		}
	}
	return vs
}

func author(vs []map[string]any) string {
	if s := firstString(vs, authorKeys); s != "" {
		return s
	}
	for _, v := range vs {
		if user, ok := asMap(v["user"]); ok {
			if s := firstString([]map[string]any{user}, userNameKeys); s != "" {
				return s
			}
		}
	}
	return ""
}

// collectOCR gathers image text in item order: direct OCR fields first, then
// each image descriptor. Blank fragments contribute nothing.
func collectOCR(vs []map[string]any) string {
	var fragments []string
	add := func(s string) {
		if t := strings.TrimSpace(s); t != "" {
			fragments = append(fragments, t)
		}
	}

	for _, v := range vs {
		for _, key := range ocrStringKeys {
			if s, ok := v[key].(string); ok {
				add(s)
			}
		}
		for _, key := range ocrListKeys {
			for _, e := range asSlice(v[key]) {
				if s, ok := e.(string); ok {
					add(s)
				}
			}
		}
		for _, key := range imageListKeys {
			for _, d := range asSlice(v[key]) {
				for _, s := range descriptorTexts(d) {
					add(s)
				}
			}
		}
	}
	return strings.Join(fragments, "\n")
}

// descriptorTexts returns the text carried by one image descriptor. A plain
// string descriptor is an image reference, not text.
func descriptorTexts(d any) []string {
	m, ok := asMap(d)
	if !ok {
		return nil
	}
	for _, key := range descriptorKeys {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return []string{s}
		}
	}
	var texts []string
	for _, e := range asSlice(m["infoList"]) {
		switch v := e.(type) {
		case string:
			texts = append(texts, v)
		default:
			if im, ok := asMap(v); ok {
				if s := firstString([]map[string]any{im}, []string{"text", "ocr_text"}); s != "" {
					texts = append(texts, s)
				}
			}
		}
	}
	return texts
}

func publishTime(vs []map[string]any) time.Time {
	for _, v := range vs {
		for _, key := range timeKeys {
			if t, ok := parseTimestamp(v[key]); ok {
				return t
			}
		}
	}
	return time.Time{}
}

// parseTimestamp accepts epoch seconds or milliseconds, numeric strings, and
// a few ISO-like layouts.
func parseTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case float64:
		return epoch(x)
	case int:
		return epoch(float64(x))
	case int64:
		return epoch(float64(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return epoch(f)
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return epoch(f)
		}
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func epoch(f float64) (time.Time, bool) {
	if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return time.Time{}, false
	}
	if f > 1e12 {
		return time.UnixMilli(int64(f)), true
	}
	return time.Unix(int64(f), 0), true
}

// firstString returns the first non-blank string value under keys, checking
// every key of a view before moving to the next view.
func firstString(vs []map[string]any, keys []string) string {
	for _, v := range vs {
		for _, key := range keys {
			if s, ok := v[key].(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					return t
				}
			}
		}
	}
	return ""
}

// firstScalar is firstString that also accepts numeric identifiers.
func firstScalar(vs []map[string]any, keys []string) string {
	for _, v := range vs {
		for _, key := range keys {
			switch x := v[key].(type) {
			case string:
				if t := strings.TrimSpace(x); t != "" {
					return t
				}
			case float64:
				return strconv.FormatFloat(x, 'f', -1, 64)
			case int:
				return strconv.Itoa(x)
			case int64:
				return strconv.FormatInt(x, 10)
			case json.Number:
				return x.String()
			}
		}
	}
	return ""
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case types.RawItem:
		return m, m != nil
	}
	return nil, false
}

func asSlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	case []map[string]any:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	}
	return nil
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
