package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var importToolDef = mcp.NewTool("trips_import",
	mcp.WithDescription("Import an exported trip file (semicolon-separated CSV). Re-importing the same file is safe; rows already stored are counted as duplicates."),
	mcp.WithString("path",
		mcp.Description("Path to the export file on disk. Mutually exclusive with content."),
	),
	mcp.WithString("content",
		mcp.Description("Export file content as text. Use path instead when the file is not UTF-8."),
	),
	mcp.WithString("filename",
		mcp.Description("Filename recorded in the import audit trail. Defaults to the basename of path."),
	),
	mcp.WithBoolean("remap",
		mcp.Description("Remap 'Okategoriserat' trips to 'Privat' before validation. Overrides the import_auto_remap setting."),
	),
)

var listToolDef = mcp.NewTool("trips_list",
	mcp.WithDescription("List trips, newest first by default, with pagination."),
	mcp.WithString("category",
		mcp.Description("Filter by exact category (Privat, Arbete, Okategoriserat)."),
	),
	mcp.WithString("date_from",
		mcp.Description("Inclusive lower bound on start date (YYYY-MM-DD)."),
	),
	mcp.WithString("date_to",
		mcp.Description("Inclusive upper bound on start date (YYYY-MM-DD)."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Page size. Defaults to the configured page size."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Rows to skip before the page. Defaults to 0."),
	),
	mcp.WithString("sort",
		mcp.Description("Sort order by start date: asc or desc. Defaults to desc."),
	),
)

var updateToolDef = mcp.NewTool("trips_update",
	mcp.WithDescription("Update the category and/or notes of a stored trip. Other fields are immutable after import."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Trip ID."),
	),
	mcp.WithString("category",
		mcp.Description("New category."),
	),
	mcp.WithString("notes",
		mcp.Description("New notes (markdown)."),
	),
)

var summaryToolDef = mcp.NewTool("trips_summary",
	mcp.WithDescription("Trip count, total distance (km) and total duration (minutes) for a filtered set of trips."),
	mcp.WithString("category",
		mcp.Description("Filter by exact category."),
	),
	mcp.WithString("date_from",
		mcp.Description("Inclusive lower bound on start date (YYYY-MM-DD)."),
	),
	mcp.WithString("date_to",
		mcp.Description("Inclusive upper bound on start date (YYYY-MM-DD)."),
	),
)

var statsToolDef = mcp.NewTool("trips_stats",
	mcp.WithDescription("Full statistics report: totals, per-100km fuel and electricity averages, and breakdowns by category and by month (latest 12)."),
	mcp.WithString("category",
		mcp.Description("Filter by exact category."),
	),
	mcp.WithString("date_from",
		mcp.Description("Inclusive lower bound on start date (YYYY-MM-DD)."),
	),
	mcp.WithString("date_to",
		mcp.Description("Inclusive upper bound on start date (YYYY-MM-DD)."),
	),
)

var runsToolDef = mcp.NewTool("trips_runs",
	mcp.WithDescription("List recent import runs with their imported/duplicate/failed/skipped counters, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum runs to return. Defaults to 20."),
	),
)

var settingsGetToolDef = mcp.NewTool("settings_get",
	mcp.WithDescription("Read stored settings. Keys never written are absent from the result."),
	mcp.WithArray("keys",
		mcp.Description("Setting keys to read. Empty means all known keys."),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var settingsSetToolDef = mcp.NewTool("settings_set",
	mcp.WithDescription("Store one setting. Known keys: import_auto_remap, fuel_price, electricity_price."),
	mcp.WithString("key",
		mcp.Required(),
		mcp.Description("Setting key."),
	),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("Setting value."),
	),
)
