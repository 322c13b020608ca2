// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes DataHub tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/datahub/internal/dashboard"
	"github.com/starford/datahub/internal/filter"
	"github.com/starford/datahub/internal/models"
	"github.com/starford/datahub/internal/records"
)

// Server wraps the MCP server with DataHub tools.
type Server struct {
	mcp     *server.MCPServer
	records *records.Service
	dash    *dashboard.Service
}

// New creates a new MCP server with all DataHub tools registered.
func New(rec *records.Service, dash *dashboard.Service) *Server {
	s := &Server{records: rec, dash: dash}

	s.mcp = server.NewMCPServer(
		"DataHub",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Case-insensitive search through record names and descriptions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("read_record",
		mcp.WithDescription("Read a single record by its id, including attachment metadata."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
	), s.readRecord)

	s.mcp.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("List records, optionally filtered by status and category."),
		mcp.WithString("status", mcp.Description("Status filter: active, pending, archived, or all")),
		mcp.WithString("category", mcp.Description("Category filter, or all")),
	), s.listRecords)

	s.mcp.AddTool(mcp.NewTool("create_record",
		mcp.WithDescription("Create a new record. Fields MUST follow the record schema; "+
			"read it first via the get_record_schema tool or the datahub://record-schema resource."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Record name")),
		mcp.WithString("category", mcp.Description("Business category, e.g. Sales")),
		mcp.WithString("status", mcp.Description("active, pending, or archived (default active)")),
		mcp.WithString("date", mcp.Description("Calendar date YYYY-MM-DD (default today)")),
		mcp.WithString("value", mcp.Description("Non-negative numeric value, e.g. 15000")),
		mcp.WithString("description", mcp.Description("Free-text description")),
	), s.createRecord)

	s.mcp.AddTool(mcp.NewTool("get_record_schema",
		mcp.WithDescription("Returns the canonical record schema. "+
			"Call this before creating records to ensure correct fields."),
	), s.getRecordSchema)

	s.mcp.AddTool(mcp.NewTool("dashboard_stats",
		mcp.WithDescription("Get headline statistics: total and active records, document counts."),
	), s.dashboardStats)

	// Resource: record schema contract.
	s.mcp.AddResource(
		mcp.NewResource("datahub://record-schema", "Record Schema",
			mcp.WithResourceDescription("Canonical record fields that all submissions must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordSchemaResource,
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

func (s *Server) searchRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, _, _ := s.records.List(ctx, filter.Options{Search: query})
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var opts filter.Options
	if v, err := req.RequireString("status"); err == nil {
		opts.Status = v
	}
	if v, err := req.RequireString("category"); err == nil {
		opts.Category = v
	}

	items, total, _ := s.records.List(ctx, opts)
	out, _ := json.MarshalIndent(map[string]any{
		"records": items,
		"total":   total,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d := records.Draft{Name: name}
	if v, err := req.RequireString("category"); err == nil {
		d.Category = v
	}
	if v, err := req.RequireString("status"); err == nil {
		d.Status = models.Status(v)
	}
	if v, err := req.RequireString("date"); err == nil {
		d.Date = v
	}
	if v, err := req.RequireString("description"); err == nil {
		d.Description = v
	}
	if v, err := req.RequireString("value"); err == nil && v != "" {
		f, parseErr := strconv.ParseFloat(v, 64)
		if parseErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("value must be numeric: %s", v)), nil
		}
		d.Value = f
	}

	rec, err := s.records.Create(ctx, d)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", rec.ID)), nil
}

func (s *Server) getRecordSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordSchemaContract), nil
}

func (s *Server) readRecordSchemaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "datahub://record-schema",
			MIMEType: "text/markdown",
			Text:     RecordSchemaContract,
		},
	}, nil
}

func (s *Server) dashboardStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.dash.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
