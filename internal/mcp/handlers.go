package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/asodergren/korjournal/internal/config"
	"github.com/asodergren/korjournal/internal/errors"
	"github.com/asodergren/korjournal/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// ImportRequest represents the arguments for trips_import.
type ImportRequest struct {
	Path     string `json:"path,omitempty"`
	Content  string `json:"content,omitempty"`
	Filename string `json:"filename,omitempty"`
	Remap    *bool  `json:"remap,omitempty"`
}

// ListRequest represents the arguments for trips_list.
type ListRequest struct {
	Category string `json:"category,omitempty"`
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
	Sort     string `json:"sort,omitempty"`
}

// UpdateRequest represents the arguments for trips_update.
type UpdateRequest struct {
	ID       int64   `json:"id"`
	Category *string `json:"category,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// FilterRequest represents the arguments for trips_summary and trips_stats.
type FilterRequest struct {
	Category string `json:"category,omitempty"`
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
}

// RunsRequest represents the arguments for trips_runs.
type RunsRequest struct {
	Limit int `json:"limit,omitempty"`
}

// SettingsGetRequest represents the arguments for settings_get.
type SettingsGetRequest struct {
	Keys []string `json:"keys,omitempty"`
}

// SettingsSetRequest represents the arguments for settings_set.
type SettingsSetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Handler implementations

// HandleImport handles the trips_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.Path != "" && input.Content != "" {
		return errorResult(errors.NewInvalidRequest("path and content are mutually exclusive")), nil
	}

	var raw []byte
	filename := input.Filename
	if input.Path != "" {
		// Read bytes directly so non-UTF-8 exports survive to the decoder
		raw, err = os.ReadFile(input.Path)
		if err != nil {
			return errorResult(errors.NewInvalidRequest("cannot read file: " + input.Path)), nil
		}
		if filename == "" {
			filename = filepath.Base(input.Path)
		}
	} else {
		raw = []byte(input.Content)
	}

	result, err := ops.Import(ctx, h.db, ops.ImportInput{
		Raw:      raw,
		Filename: filename,
		Remap:    input.Remap,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the trips_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, h.cfg, ops.ListInput{
		Filter: ops.TripFilter{
			Category: input.Category,
			DateFrom: input.DateFrom,
			DateTo:   input.DateTo,
		},
		Limit:  input.Limit,
		Offset: input.Offset,
		Sort:   input.Sort,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the trips_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(ctx, h.db, ops.UpdateInput{
		ID:       input.ID,
		Category: input.Category,
		Notes:    input.Notes,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSummary handles the trips_summary tool call.
func (h *Handlers) HandleSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FilterRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Summary(ctx, h.db, ops.SummaryInput{
		Filter: ops.TripFilter{
			Category: input.Category,
			DateFrom: input.DateFrom,
			DateTo:   input.DateTo,
		},
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the trips_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FilterRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Stats(ctx, h.db, ops.StatsInput{
		Filter: ops.TripFilter{
			Category: input.Category,
			DateFrom: input.DateFrom,
			DateTo:   input.DateTo,
		},
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRuns handles the trips_runs tool call.
func (h *Handlers) HandleRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RunsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Runs(ctx, h.db, ops.RunsInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSettingsGet handles the settings_get tool call.
func (h *Handlers) HandleSettingsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SettingsGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetSettings(ctx, h.db, ops.GetSettingsInput{Keys: input.Keys})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSettingsSet handles the settings_set tool call.
func (h *Handlers) HandleSettingsSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SettingsSetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SetSetting(ctx, h.db, ops.SetSettingInput{
		Key:   input.Key,
		Value: input.Value,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if appErr, ok := err.(*errors.AppError); ok {
		errorObj := map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
			"status":  appErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if appErr.Code != errors.ErrInternal && appErr.Details != nil {
			errorObj["details"] = appErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
