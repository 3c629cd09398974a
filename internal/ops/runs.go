package ops

import (
	"context"
	"database/sql"

	"github.com/asodergren/korjournal/internal/db"
)

// RunsInput contains parameters for the Runs operation.
type RunsInput struct {
	Limit int // default: DefaultRunLimit
}

// RunsOutput contains the result of the Runs operation.
type RunsOutput struct {
	Runs []db.ImportRun `json:"runs"`
}

// Runs lists the most recent import runs, newest first.
func Runs(ctx context.Context, database *sql.DB, input RunsInput) (*RunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultRunLimit
	}

	runs, err := db.ListImportRuns(ctx, database, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []db.ImportRun{}
	}
	return &RunsOutput{Runs: runs}, nil
}
