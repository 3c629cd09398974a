package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/asodergren/korjournal/internal/db"
	"github.com/asodergren/korjournal/internal/encoding"
	"github.com/asodergren/korjournal/internal/errors"
	"github.com/asodergren/korjournal/internal/ingest"
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	// Raw is the uploaded file content, bytes as received
	Raw []byte

	// Filename is recorded in the import run audit trail
	Filename string

	// Remap overrides the stored auto-remap setting when non-nil
	Remap *bool
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	RunID      string `json:"run_id"`
	Imported   int    `json:"imported"`
	Duplicates int    `json:"duplicates"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
}

// Import ingests one exported trip file: decode bytes to text, parse rows,
// insert each surviving record. Re-importing the same file is a no-op; the
// natural key absorbs every row as a duplicate. Row-level insert failures
// are counted and do not stop the run, but store corruption aborts it.
func Import(ctx context.Context, database *sql.DB, input ImportInput) (*ImportOutput, error) {
	if len(input.Raw) == 0 {
		return nil, errors.NewInvalidRequest("file content is required")
	}

	remap, err := resolveRemap(ctx, database, input.Remap)
	if err != nil {
		return nil, err
	}

	text := encoding.Decode(input.Raw)
	parsed := ingest.Parse(text, remap)

	output := &ImportOutput{
		RunID:   generateULID(),
		Skipped: parsed.Skipped,
	}

	for i := range parsed.Trips {
		_, err := db.InsertTrip(ctx, database, &parsed.Trips[i])
		switch {
		case err == nil:
			output.Imported++
		case errors.Is(err, errors.ErrDuplicateTrip):
			output.Duplicates++
		case errors.Is(err, errors.ErrCorruptDatabase):
			return nil, err
		default:
			output.Failed++
		}
	}

	run := &db.ImportRun{
		ID:         output.RunID,
		Filename:   input.Filename,
		Imported:   output.Imported,
		Duplicates: output.Duplicates,
		Failed:     output.Failed,
		Skipped:    output.Skipped,
		CreatedAt:  time.Now().Unix(),
	}
	if err := db.RecordImportRun(ctx, database, run); err != nil {
		return nil, err
	}

	return output, nil
}

// resolveRemap picks the remap behavior: explicit override first, stored
// setting second, off by default.
func resolveRemap(ctx context.Context, database *sql.DB, override *bool) (bool, error) {
	if override != nil {
		return *override, nil
	}
	value, ok, err := db.GetSetting(ctx, database, db.SettingAutoRemap)
	if err != nil {
		return false, err
	}
	return ok && value == "true", nil
}

// generateULID creates a sortable unique ID for an import run.
func generateULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
