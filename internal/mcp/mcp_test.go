package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"slices"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/asodergren/korjournal/internal/config"
	"github.com/asodergren/korjournal/internal/db"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	opened, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { opened.DB.Close() })

	return opened.DB, config.DefaultConfig()
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

const exportContent = "Kategori;Startdatum;Start;Pos;Slutdatum;Slut;Dest;Restid;Str;Bränsle;Titel;Batteri;Åter;Ant\n" +
	"Privat;2024-03-05 08:12;12000;Hemma;2024-03-05 08:55;12042;Kontoret;0h 43m;42,0;2,8 l;;0 kWh;0 kWh;\n" +
	"Arbete;2024-03-06 17:00;12042;Kontoret;2024-03-06 17:40;12080;Hemma;0h 40m;38,0;2,5 l;;0 kWh;0 kWh;\n"

func TestHandleImport_Content(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleImport(context.Background(), makeRequest(map[string]any{
		"content":  exportContent,
		"filename": "export.csv",
	}))
	if err != nil {
		t.Fatalf("HandleImport() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleImport() returned error result: %s", resultText(t, result))
	}

	var payload struct {
		Imported   int    `json:"imported"`
		Duplicates int    `json:"duplicates"`
		RunID      string `json:"run_id"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if payload.Imported != 2 {
		t.Errorf("imported = %d, want 2", payload.Imported)
	}
	if payload.RunID == "" {
		t.Error("run_id is empty")
	}
}

func TestHandleImport_PathAndContentExclusive(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleImport(context.Background(), makeRequest(map[string]any{
		"path":    "/tmp/x.csv",
		"content": "y",
	}))
	if err != nil {
		t.Fatalf("HandleImport() error = %v", err)
	}
	if !result.IsError {
		t.Error("IsError = false, want true for conflicting arguments")
	}
}

func TestHandleList(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	if _, err := h.HandleImport(ctx, makeRequest(map[string]any{"content": exportContent})); err != nil {
		t.Fatal(err)
	}

	result, err := h.HandleList(ctx, makeRequest(map[string]any{"category": "Arbete"}))
	if err != nil {
		t.Fatalf("HandleList() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("error result: %s", resultText(t, result))
	}

	var payload struct {
		Items      []map[string]any `json:"items"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Pagination.Total != 1 || len(payload.Items) != 1 {
		t.Errorf("total = %d, items = %d, want 1, 1", payload.Pagination.Total, len(payload.Items))
	}
}

func TestHandleUpdate_ErrorPayload(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleUpdate(context.Background(), makeRequest(map[string]any{"id": 0}))
	if err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("IsError = false, want true")
	}

	var payload struct {
		Error struct {
			Code   string `json:"code"`
			Status int    `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Error.Code != "INVALID_REQUEST" || payload.Error.Status != 400 {
		t.Errorf("error = %+v", payload.Error)
	}
}

func TestHandleSettings(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	setResult, err := h.HandleSettingsSet(ctx, makeRequest(map[string]any{
		"key":   "import_auto_remap",
		"value": "true",
	}))
	if err != nil {
		t.Fatalf("HandleSettingsSet() error = %v", err)
	}
	if setResult.IsError {
		t.Fatalf("error result: %s", resultText(t, setResult))
	}

	getResult, err := h.HandleSettingsGet(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("HandleSettingsGet() error = %v", err)
	}

	var payload struct {
		Settings map[string]string `json:"settings"`
	}
	if err := json.Unmarshal([]byte(resultText(t, getResult)), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Settings["import_auto_remap"] != "true" {
		t.Errorf("settings = %v", payload.Settings)
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"trips_import", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v, want [bogus_tool]", unknown)
	}
}

func TestValidateDisabledTypes(t *testing.T) {
	unknown := ValidateDisabledTypes([]string{"trips", "vehicles"})
	if len(unknown) != 1 || unknown[0] != "vehicles" {
		t.Errorf("unknown = %v, want [vehicles]", unknown)
	}
}

func TestExpandTypesToTools(t *testing.T) {
	tools := ExpandTypesToTools([]string{"settings"})
	slices.Sort(tools)
	want := []string{"settings_get", "settings_set"}
	if !slices.Equal(tools, want) {
		t.Errorf("tools = %v, want %v", tools, want)
	}

	if got := ExpandTypesToTools(nil); got != nil {
		t.Errorf("ExpandTypesToTools(nil) = %v, want nil", got)
	}
}

func TestGetTypeForTool(t *testing.T) {
	if got := GetTypeForTool("trips_import"); got != "trips" {
		t.Errorf("GetTypeForTool = %q, want trips", got)
	}
	if got := GetTypeForTool("nounderscores"); got != "" {
		t.Errorf("GetTypeForTool = %q, want empty", got)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Errorf("len = %d, want %d", len(names), len(toolRegistry))
	}
	if !slices.Contains(names, "trips_import") {
		t.Error("trips_import missing from tool names")
	}
}
