// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xhs searches Xiaohongshu notes through an MCP server.
//
// The client speaks MCP over streamable HTTP: it initializes a session,
// probes it with ping, locates the note search tool from tools/list, and
// issues one tools/call per search. Results are walked for note-like
// objects, which become RawItems.
package xhs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pdiddy/xhs-alpha-picks/internal/httputil"
	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

var (
	// ErrUnreachable is returned when the MCP server cannot be reached or
	// answers a request with a failure.
	ErrUnreachable = errors.New("xiaohongshu MCP server unreachable")

	// ErrToolNotFound is returned when the server is reachable but exposes no
	// note search tool.
	ErrToolNotFound = errors.New("xiaohongshu search tool not found")
)

const (
	// DefaultBaseURL is where the xiaohongshu-mcp server listens by default.
	DefaultBaseURL = "http://127.0.0.1:18060"

	// DefaultTimeout bounds each MCP operation.
	DefaultTimeout = 30 * time.Second

	clientName    = "xhs-alpha-picks"
	clientVersion = "0.1.0"
)

// Endpoint derives the MCP endpoint. An explicit URL wins; otherwise "/mcp"
// is appended to base unless it already ends with it. An empty base means
// DefaultBaseURL.
func Endpoint(explicit, base string) string {
	if e := strings.TrimSpace(explicit); e != "" {
		return e
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if strings.HasSuffix(base, "/mcp") {
		return base
	}
	return base + "/mcp"
}

// ValidateEndpoint checks that endpoint is an absolute http(s) URL.
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parsing MCP endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("MCP endpoint %q must use http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("MCP endpoint %q has no host", endpoint)
	}
	return nil
}

// ConnectionInfo describes the configured connection for debug output.
type ConnectionInfo struct {
	Endpoint  string
	Timeout   time.Duration
	HasAPIKey bool
	ToolName  string
}

// Client is an MCP client bound to one server. It is not safe for
// concurrent use.
type Client struct {
	cfg     types.SearchConfig
	mcp     *mcp.Client
	session *mcp.ClientSession
}

// New returns a client for cfg. No connection is made until Ping or Search.
func New(cfg types.SearchConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = Endpoint("", "")
	}
	return &Client{
		cfg: cfg,
		mcp: mcp.NewClient(&mcp.Implementation{Name: clientName, Version: clientVersion}, nil),
	}
}

// Info reports the connection settings.
func (c *Client) Info() ConnectionInfo {
	return ConnectionInfo{
		Endpoint:  c.cfg.Endpoint,
		Timeout:   c.cfg.Timeout,
		HasAPIKey: c.cfg.APIKey != "",
		ToolName:  c.cfg.ToolName,
	}
}

// Ping connects if needed and sends an MCP ping.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	session, err := c.connect(ctx)
	if err != nil {
		return err
	}
	if err := session.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: ping %s: %w", ErrUnreachable, c.cfg.Endpoint, err)
	}
	return nil
}

// Tools lists the tools the server exposes.
func (c *Client) Tools(ctx context.Context) ([]*mcp.Tool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	session, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	return listTools(ctx, session)
}

// Search issues one tools/call against the note search tool. Items are cut
// to req.Count when it is positive.
func (c *Client) Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	session, err := c.connect(ctx)
	if err != nil {
		return types.SearchResponse{}, err
	}
	tools, err := listTools(ctx, session)
	if err != nil {
		return types.SearchResponse{}, err
	}
	tool, err := SelectTool(tools, c.cfg.ToolName)
	if err != nil {
		return types.SearchResponse{}, err
	}

	args := Arguments(req)
	slog.Debug("calling search tool", "tool", tool.Name, "args", args)
	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: tool.Name, Arguments: args})
	if err != nil {
		return types.SearchResponse{}, fmt.Errorf("%w: calling %s: %w", ErrUnreachable, tool.Name, err)
	}
	if res.IsError {
		return types.SearchResponse{}, fmt.Errorf("%w: tool %s failed: %s", ErrUnreachable, tool.Name, resultText(res))
	}

	items, raw := Decode(res)
	if req.Count > 0 && len(items) > req.Count {
		items = items[:req.Count]
	}
	return types.SearchResponse{Items: items, Raw: raw, Tool: tool.Name}, nil
}

// Close ends the MCP session, if one was opened.
func (c *Client) Close() error {
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

func (c *Client) connect(ctx context.Context) (*mcp.ClientSession, error) {
	if c.session != nil {
		return c.session, nil
	}
	// Request deadlines come from ctx; a client timeout would also cut the
	// session's long-lived event stream.
	httpClient := httputil.NewClient(types.HTTPConfig{UserAgent: c.cfg.UserAgent}, c.cfg.APIKey)
	transport := &mcp.StreamableClientTransport{
		Endpoint:   c.cfg.Endpoint,
		HTTPClient: httpClient,
	}
	session, err := c.mcp.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to %s: %w", ErrUnreachable, c.cfg.Endpoint, err)
	}
	slog.Debug("connected to MCP server", "endpoint", c.cfg.Endpoint)
	c.session = session
	return session, nil
}

func listTools(ctx context.Context, session *mcp.ClientSession) ([]*mcp.Tool, error) {
	var tools []*mcp.Tool
	params := &mcp.ListToolsParams{}
	for {
		res, err := session.ListTools(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("%w: listing tools: %w", ErrUnreachable, err)
		}
		tools = append(tools, res.Tools...)
		if res.NextCursor == "" {
			return tools, nil
		}
		params = &mcp.ListToolsParams{Cursor: res.NextCursor}
	}
}

func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok && tc.Text != "" {
			parts = append(parts, tc.Text)
		}
	}
	if len(parts) == 0 {
		return "no detail"
	}
	return strings.Join(parts, "; ")
}
