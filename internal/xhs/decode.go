// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xhs

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// noteKeys mark an object as a note rather than a container.
var noteKeys = []string{"id", "note_id", "noteId"}

// Decode extracts RawItems from a tool result. Structured content is walked
// first, then every text block that parses as JSON. raw is the decoded
// payload: a single value when there was one, a list otherwise.
func Decode(res *mcp.CallToolResult) (items []types.RawItem, raw any) {
	var payloads []any
	if res.StructuredContent != nil {
		if v, ok := normalizeJSON(res.StructuredContent); ok {
			payloads = append(payloads, v)
		}
	}
	for _, c := range res.Content {
		tc, ok := c.(*mcp.TextContent)
		if !ok {
			continue
		}
		text := strings.TrimSpace(tc.Text)
		if text == "" || (text[0] != '{' && text[0] != '[') {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(text), &v); err == nil {
			payloads = append(payloads, v)
		}
	}

	// Structured content usually mirrors the text block; walk only the first
	// payload that yields items.
	for _, p := range payloads {
		if items = collect(p, items); len(items) > 0 {
			break
		}
	}

	switch len(payloads) {
	case 0:
	case 1:
		raw = payloads[0]
	default:
		raw = payloads
	}
	return items, raw
}

// collect appends the note-like objects reachable from v. Notes are not
// descended into. Container keys are visited in sorted order, with "feeds"
// first since that is where the server puts results.
func collect(v any, out []types.RawItem) []types.RawItem {
	switch x := v.(type) {
	case []any:
		for _, e := range x {
			out = collect(e, out)
		}
	case map[string]any:
		if isNote(x) {
			return append(out, types.RawItem(x))
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if (keys[i] == "feeds") != (keys[j] == "feeds") {
				return keys[i] == "feeds"
			}
			return keys[i] < keys[j]
		})
		for _, k := range keys {
			out = collect(x[k], out)
		}
	}
	return out
}

func isNote(m map[string]any) bool {
	for _, k := range noteKeys {
		if v, ok := m[k]; ok && v != nil && v != "" {
			return true
		}
	}
	return false
}

// normalizeJSON round-trips v through JSON so typed structured content
// becomes plain maps and slices.
func normalizeJSON(v any) (any, bool) {
	switch v.(type) {
	case map[string]any, []any:
		return v, true
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return out, true
}
