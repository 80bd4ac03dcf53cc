// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes mindsync conversions and sweeps via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/mindsync/internal/mindmap"
	"github.com/starford/mindsync/internal/models"
	"github.com/starford/mindsync/internal/syncer"
)

const contractURI = "mindsync://outline-format"

// HistoryReader lists journaled conversions.
type HistoryReader interface {
	History(pair string, limit int) ([]models.SyncRecord, error)
}

// Server wraps the MCP server with mindsync tools.
type Server struct {
	mcp      *server.MCPServer
	sweeper  *syncer.Sweeper
	history  HistoryReader
	template mindmap.Template
	palette  []string
}

// New creates a new MCP server with all tools registered. history may be
// nil when the journal is disabled.
func New(sweeper *syncer.Sweeper, history HistoryReader, tmpl mindmap.Template, palette []string, version string) *Server {
	s := &Server{
		sweeper:  sweeper,
		history:  history,
		template: tmpl,
		palette:  palette,
	}

	s.mcp = server.NewMCPServer(
		"Mindsync",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("outline_to_graph",
		mcp.WithDescription("Convert a tab-indented outline into a Minder mind-map document. "+
			"Read the outline format via the mindsync://outline-format resource first."),
		mcp.WithString("outline", mcp.Required(), mcp.Description("Outline text, one node per line, depth by leading tabs")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Label of the mind-map root")),
	), s.outlineToGraph)

	s.mcp.AddTool(mcp.NewTool("graph_to_outline",
		mcp.WithDescription("Convert a Minder mind-map document into a canonical outline."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("Minder XML document")),
	), s.graphToOutline)

	s.mcp.AddTool(mcp.NewTool("sync_now",
		mcp.WithDescription("Run one sweep over every tracked pair and return the summary."),
	), s.syncNow)

	s.mcp.AddTool(mcp.NewTool("list_pairs",
		mcp.WithDescription("List the tracked outline/mind-map pairs."),
	), s.listPairs)

	s.mcp.AddTool(mcp.NewTool("sync_history",
		mcp.WithDescription("List journaled conversions, newest first."),
		mcp.WithString("pair", mcp.Description("Optional pair name to filter by")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of rows (default 20)")),
	), s.syncHistory)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Outline Format",
			mcp.WithResourceDescription("Outline format accepted and produced by the conversion tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readOutlineFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) outlineToGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	outline, err := req.RequireString("outline")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := mindmap.FromOutline(s.template, outline, name, s.palette)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) graphToOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graph, err := req.RequireString("graph")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := mindmap.Decode([]byte(graph))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) syncNow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sum, err := s.sweeper.Sweep(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sweep failed: %v", err)), nil
	}
	return jsonResult(sum)
}

func (s *Server) listPairs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pairs, err := s.sweeper.Pairs()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if pairs == nil {
		pairs = []models.Pair{}
	}
	return jsonResult(pairs)
}

func (s *Server) syncHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("journal is disabled"), nil
	}
	pair := req.GetString("pair", "")
	limit := req.GetInt("limit", 0)
	rows, err := s.history.History(pair, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if rows == nil {
		rows = []models.SyncRecord{}
	}
	return jsonResult(rows)
}

func (s *Server) readOutlineFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     OutlineFormatContract,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
