package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/datahub/internal/dashboard"
	"github.com/starford/datahub/internal/models"
	"github.com/starford/datahub/internal/records"
	"github.com/starford/datahub/internal/store"
	"github.com/starford/datahub/internal/upload"
)

type fakeBucket struct{}

func (fakeBucket) Put(_ string, r io.Reader) (int64, error) { return io.Copy(io.Discard, r) }
func (fakeBucket) Open(string) (io.ReadCloser, error)       { return nil, io.ErrUnexpectedEOF }
func (fakeBucket) List() ([]string, error)                  { return nil, nil }
func (fakeBucket) PublicURL(key string) string              { return "/files/" + key }

type fakeCatalog struct{ excel, word int }

func (f fakeCatalog) CountByType() (int, int, error) { return f.excel, f.word, nil }

func testServer(t *testing.T, seed []models.DataRecord) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(seed)
	rec := records.NewService(st, upload.NewUploader(fakeBucket{}, logger), nil, logger)
	dash := dashboard.NewService(st, fakeCatalog{excel: 2, word: 2})
	return New(rec, dash)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_records":
		result, err = srv.searchRecords(ctx, req)
	case "read_record":
		result, err = srv.readRecord(ctx, req)
	case "list_records":
		result, err = srv.listRecords(ctx, req)
	case "create_record":
		result, err = srv.createRecord(ctx, req)
	case "get_record_schema":
		result, err = srv.getRecordSchema(ctx, req)
	case "dashboard_stats":
		result, err = srv.dashboardStats(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadRecord(t *testing.T) {
	srv := testServer(t, nil)

	r := callTool(t, srv, "create_record", map[string]interface{}{
		"name":     "MCP Record",
		"category": "Sales",
		"value":    "1500",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(text, "created: ")

	r = callTool(t, srv, "read_record", map[string]interface{}{"id": id})
	text = resultText(r)
	if !strings.Contains(text, `"MCP Record"`) {
		t.Errorf("read result = %q", text)
	}
	if !strings.Contains(text, "1500") {
		t.Errorf("value missing from %q", text)
	}
}

func TestCreateRecordRejectsBadValue(t *testing.T) {
	srv := testServer(t, nil)

	r := callTool(t, srv, "create_record", map[string]interface{}{
		"name":  "Bad",
		"value": "not-a-number",
	})
	if !r.IsError {
		t.Error("expected error for non-numeric value")
	}
}

func TestSearchRecords(t *testing.T) {
	srv := testServer(t, []models.DataRecord{
		{ID: "1", Name: "Quarterly Sales", Status: models.StatusActive, Date: "2024-01-01"},
		{ID: "2", Name: "Budget", Status: models.StatusActive, Date: "2024-01-02"},
	})

	r := callTool(t, srv, "search_records", map[string]interface{}{"query": "sales"})
	text := resultText(r)
	if !strings.Contains(text, "Quarterly Sales") {
		t.Errorf("search missing hit: %q", text)
	}
	if strings.Contains(text, "Budget") {
		t.Errorf("search returned non-match: %q", text)
	}
}

func TestListRecordsWithStatusFilter(t *testing.T) {
	srv := testServer(t, []models.DataRecord{
		{ID: "1", Name: "A", Status: models.StatusActive, Date: "2024-01-01"},
		{ID: "2", Name: "B", Status: models.StatusArchived, Date: "2024-01-02"},
	})

	r := callTool(t, srv, "list_records", map[string]interface{}{"status": "archived"})
	text := resultText(r)
	if strings.Contains(text, `"A"`) || !strings.Contains(text, `"B"`) {
		t.Errorf("filtered list = %q", text)
	}
	if !strings.Contains(text, `"total": 2`) {
		t.Errorf("total should stay unfiltered: %q", text)
	}
}

func TestReadRecordMissing(t *testing.T) {
	srv := testServer(t, nil)
	r := callTool(t, srv, "read_record", map[string]interface{}{"id": "999"})
	if !r.IsError {
		t.Error("expected error for missing record")
	}
}

func TestDashboardStats(t *testing.T) {
	srv := testServer(t, []models.DataRecord{
		{ID: "1", Name: "A", Status: models.StatusActive, Date: "2024-01-01"},
		{ID: "2", Name: "B", Status: models.StatusPending, Date: "2024-01-02"},
	})

	r := callTool(t, srv, "dashboard_stats", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, `"totalRecords": 2`) {
		t.Errorf("stats = %q", text)
	}
	if !strings.Contains(text, `"activeRecords": 1`) {
		t.Errorf("stats = %q", text)
	}
}

func TestGetRecordSchema(t *testing.T) {
	srv := testServer(t, nil)
	r := callTool(t, srv, "get_record_schema", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Record Schema") {
		t.Error("schema contract missing")
	}
}
