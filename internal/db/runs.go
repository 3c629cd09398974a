package db

import (
	"context"
	"database/sql"

	"github.com/asodergren/korjournal/internal/errors"
)

// ImportRun is the audit record of one ingestion.
type ImportRun struct {
	// ID is a ULID identifying the run
	ID string `json:"id"`

	// Filename is the name of the uploaded file
	Filename string `json:"filename"`

	// Imported counts rows inserted
	Imported int `json:"imported"`

	// Duplicates counts natural-key collisions silently absorbed
	Duplicates int `json:"duplicates"`

	// Failed counts rows that failed to insert for other reasons
	Failed int `json:"failed"`

	// Skipped counts rows the parser rejected
	Skipped int `json:"skipped"`

	// CreatedAt is the Unix timestamp of the run
	CreatedAt int64 `json:"created_at"`
}

// RecordImportRun stores the audit record of an ingestion.
func RecordImportRun(ctx context.Context, database *sql.DB, run *ImportRun) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return classifyWriteError(err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_runs (id, filename, imported, duplicates, failed, skipped, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Filename, run.Imported, run.Duplicates, run.Failed, run.Skipped, run.CreatedAt)
	if err != nil {
		return classifyWriteError(err)
	}

	if err := tx.Commit(); err != nil {
		return classifyWriteError(err)
	}
	return nil
}

// ListImportRuns returns the most recent ingestion audit records.
func ListImportRuns(ctx context.Context, database *sql.DB, limit int) ([]ImportRun, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, filename, imported, duplicates, failed, skipped, created_at
		FROM import_runs ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, classifyReadError(err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var r ImportRun
		if err := rows.Scan(&r.ID, &r.Filename, &r.Imported, &r.Duplicates,
			&r.Failed, &r.Skipped, &r.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyReadError(err)
	}

	return runs, nil
}
