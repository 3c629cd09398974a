package web

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/asodergren/korjournal/internal/config"
	"github.com/asodergren/korjournal/internal/errors"
	"github.com/asodergren/korjournal/internal/ops"
	"github.com/asodergren/korjournal/internal/trip"
)

// maxUploadBytes caps import uploads. Exports are small; a few MB covers
// years of trips.
const maxUploadBytes = 16 << 20

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /trips — list trips with filters and pagination.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	dateFrom := r.URL.Query().Get("date_from")
	dateTo := r.URL.Query().Get("date_to")
	sort := r.URL.Query().Get("sort")

	input := ops.ListInput{
		Filter: ops.TripFilter{
			Category: category,
			DateFrom: dateFrom,
			DateTo:   dateTo,
		},
		Limit:  parseIntParam(r, "limit", 0),
		Offset: parseIntParam(r, "offset", 0),
		Sort:   sort,
	}

	result, err := ops.List(r.Context(), h.db, h.cfg, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Trips",
			Version: h.renderer.version,
			Nav:     "trips",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Category:   category,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		Sort:       result.Sort,
		Categories: trip.KnownCategories,
	})
}

// HandleDetail handles GET /trips/{id} — view a single trip.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseTripID(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	t, err := ops.Get(r.Context(), h.db, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Trip %s", t.StartDate),
			Version: h.renderer.version,
			Nav:     "trips",
		},
		Trip:       t,
		NotesHTML:  renderMarkdown(t.Notes),
		Categories: trip.KnownCategories,
		Saved:      r.URL.Query().Get("saved") == "1",
	})
}

// HandleUpdate handles POST /trips/{id} — update category and/or notes.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseTripID(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	input := ops.UpdateInput{ID: id}
	if r.Form.Has("category") {
		category := r.FormValue("category")
		input.Category = &category
	}
	if r.Form.Has("notes") {
		notes := r.FormValue("notes")
		input.Notes = &notes
	}

	result, err := ops.Update(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/trips/%d?saved=1", id), http.StatusSeeOther)
}

// HandleStats handles GET /stats — statistics report.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	dateFrom := r.URL.Query().Get("date_from")
	dateTo := r.URL.Query().Get("date_to")

	report, err := ops.Stats(r.Context(), h.db, ops.StatsInput{
		Filter: ops.TripFilter{
			Category: category,
			DateFrom: dateFrom,
			DateTo:   dateTo,
		},
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "stats", StatsPageData{
		PageData: PageData{
			Title:   "Statistics",
			Version: h.renderer.version,
			Nav:     "stats",
		},
		Report:   report,
		Category: category,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
}

// HandleImportForm handles GET /import — the upload form.
func (h *Handlers) HandleImportForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "import", ImportPageData{
		PageData: PageData{
			Title:   "Import",
			Version: h.renderer.version,
			Nav:     "import",
		},
	})
}

// HandleImport handles POST /import — ingest an uploaded export file.
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("file is required"))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	input := ops.ImportInput{
		Raw:      raw,
		Filename: header.Filename,
	}
	if r.FormValue("remap") != "" {
		remap := r.FormValue("remap") == "true"
		input.Remap = &remap
	}

	result, err := ops.Import(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "import", ImportPageData{
		PageData: PageData{
			Title:   "Import",
			Version: h.renderer.version,
			Nav:     "import",
		},
		Result: result,
	})
}

// HandleRuns handles GET /runs — import run history.
func (h *Handlers) HandleRuns(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Runs(r.Context(), h.db, ops.RunsInput{
		Limit: parseIntParam(r, "limit", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "runs", RunsPageData{
		PageData: PageData{
			Title:   "Import Runs",
			Version: h.renderer.version,
			Nav:     "runs",
		},
		Runs: result.Runs,
	})
}

// parseTripID extracts and validates the {id} path value.
func parseTripID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidRequest("trip ID must be a positive integer")
	}
	return id, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
