// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xhs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// Server-side filter values for note type and sort order.
var (
	noteTypeFilter = map[types.NoteType]string{
		types.NoteTypeAll:       "不限",
		types.NoteTypeVideo:     "视频",
		types.NoteTypeImageText: "图文",
	}
	sortFilter = map[types.SortOrder]string{
		types.SortGeneral:              "综合",
		types.SortTimeDescending:       "最新",
		types.SortPopularityDescending: "最多点赞",
	}
)

// Arguments maps a search request to the search tool's arguments.
func Arguments(req types.SearchRequest) map[string]any {
	filters := map[string]any{}
	if v, ok := noteTypeFilter[req.NoteType]; ok {
		filters["note_type"] = v
	}
	if v, ok := sortFilter[req.Sort]; ok {
		filters["sort_by"] = v
	}
	args := map[string]any{"keyword": req.Keyword}
	if len(filters) > 0 {
		args["filters"] = filters
	}
	return args
}

// SelectTool picks the note search tool. A configured name must match
// exactly. Otherwise the first tool matching each rule, in rule order:
// a name containing "search" and "note" or "feed", a description
// containing 搜索, a name containing "search".
func SelectTool(tools []*mcp.Tool, name string) (*mcp.Tool, error) {
	if name != "" {
		for _, t := range tools {
			if t.Name == name {
				return t, nil
			}
		}
		return nil, fmt.Errorf("%w: no tool named %q (available: %s)", ErrToolNotFound, name, toolNames(tools))
	}

	rules := []func(*mcp.Tool) bool{
		func(t *mcp.Tool) bool {
			n := strings.ToLower(t.Name)
			return strings.Contains(n, "search") && (strings.Contains(n, "note") || strings.Contains(n, "feed"))
		},
		func(t *mcp.Tool) bool { return strings.Contains(t.Description, "搜索") },
		func(t *mcp.Tool) bool { return strings.Contains(strings.ToLower(t.Name), "search") },
	}
	for _, rule := range rules {
		for _, t := range tools {
			if rule(t) {
				return t, nil
			}
		}
	}
	return nil, fmt.Errorf("%w (available: %s)", ErrToolNotFound, toolNames(tools))
}

func toolNames(tools []*mcp.Tool) string {
	if len(tools) == 0 {
		return "none"
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
