// Package ingest parses decoded telematics exports into trip records.
//
// Two source layouts exist: the current line-delimited layout (one
// semicolon-separated row per line, header first) and a legacy single-line
// layout where all rows are concatenated without row breaks and boundaries
// must be recovered by splitting before each category keyword. Malformed
// rows are skipped and counted, never fatal.
package ingest

import (
	"regexp"
	"strings"

	"github.com/asodergren/korjournal/internal/trip"
)

// fieldCount is the number of semicolon-delimited columns in an export row:
// Category;StartDate;OdometerStart;StartPosition;EndDate;OdometerEnd;
// EndDestination;Duration;Distance;FuelConsumption;Title;
// BatteryConsumption;BatteryRegeneration;Notes
const fieldCount = 14

// lineBreakRegex splits on any of the line-break conventions seen in the wild.
var lineBreakRegex = regexp.MustCompile(`\r\n|\r|\n`)

// legacyRowRegex locates row boundaries in the legacy single-line layout.
// It assumes the category literals never appear inside free-text fields;
// this heuristic is deliberate and must not grow into a real CSV parser.
var legacyRowRegex = regexp.MustCompile(`(Privat|Arbete|Okategoriserat);`)

// Result contains the parsed records and a tally of skipped rows.
type Result struct {
	// Trips holds accepted records in source order, not deduplicated.
	// Duplicate suppression is the store's responsibility.
	Trips []trip.Trip

	// Skipped counts rows rejected by validation or structure.
	Skipped int
}

// Parse turns decoded export text into trip records. When remap is set,
// "Okategoriserat" rows are rewritten to "Privat" before validation.
// Pure function of its inputs.
func Parse(text string, remap bool) Result {
	text = preClean(text)

	var result Result
	for _, row := range splitRows(text) {
		t, ok := decodeRow(row, remap)
		if !ok {
			result.Skipped++
			continue
		}
		result.Trips = append(result.Trips, t)
	}
	return result
}

// preClean strips byte-order-mark artifacts and null characters, and
// replaces non-breaking spaces, before any structural parsing.
func preClean(text string) string {
	text = strings.ReplaceAll(text, "\uFEFF", "")
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\u00A0", " ")
	return text
}

// splitRows detects the source layout and returns the candidate rows.
func splitRows(text string) []string {
	lines := lineBreakRegex.Split(text, -1)
	if len(lines) > 2 {
		// Line-delimited layout: first line is the header.
		var rows []string
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) == "" {
				continue
			}
			rows = append(rows, line)
		}
		return rows
	}
	return splitLegacy(text)
}

// splitLegacy recovers row boundaries from the legacy single-line layout
// by splitting immediately before every category-keyword occurrence. The
// segment before the first match is a header/preamble and is discarded.
func splitLegacy(text string) []string {
	matches := legacyRowRegex.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var rows []string
	for i, m := range matches {
		start := m[0]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		rows = append(rows, text[start:end])
	}
	return rows
}

// decodeRow maps one semicolon-delimited row onto a Trip and validates it.
// Returns ok=false for rows that must be skipped.
func decodeRow(row string, remap bool) (trip.Trip, bool) {
	fields := strings.Split(row, ";")
	if len(fields) < fieldCount {
		return trip.Trip{}, false
	}

	for i := range fields {
		fields[i] = trip.CleanField(fields[i])
	}

	t := trip.Trip{
		Category:            fields[0],
		StartDate:           fields[1],
		OdometerStart:       trip.ParseInt(fields[2]),
		StartPosition:       fields[3],
		EndDate:             fields[4],
		OdometerEnd:         trip.ParseInt(fields[5]),
		EndDestination:      fields[6],
		Duration:            fields[7],
		Distance:            trip.ParseDecimal(fields[8]),
		FuelConsumption:     fields[9],
		Title:               fields[10],
		BatteryConsumption:  fields[11],
		BatteryRegeneration: fields[12],
		Notes:               fields[13],
	}

	if remap && t.Category == trip.CategoryUncategorized {
		t.Category = trip.CategoryPrivate
	}

	if !validRow(t) {
		return trip.Trip{}, false
	}
	return t, true
}

// validRow applies the rejection rules required for compatibility with the
// source system:
//   - category and start date must be present
//   - reversed odometer readings with a positive distance indicate corrupt
//     source data (reversed readings with zero distance are tolerated)
//   - a row with zero odometers and zero distance is an empty placeholder
func validRow(t trip.Trip) bool {
	if t.Category == "" || t.StartDate == "" {
		return false
	}
	if t.OdometerStart > t.OdometerEnd && t.Distance > 0 {
		return false
	}
	if t.OdometerStart == 0 && t.OdometerEnd == 0 && t.Distance == 0 {
		return false
	}
	return true
}
