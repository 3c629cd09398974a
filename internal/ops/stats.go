package ops

import (
	"context"
	"database/sql"

	"github.com/asodergren/korjournal/internal/db"
	"github.com/asodergren/korjournal/internal/stats"
)

// StatsInput contains parameters for the Stats operation.
type StatsInput struct {
	Filter TripFilter
}

// Stats builds the full statistics report for the filtered set of trips.
func Stats(ctx context.Context, database *sql.DB, input StatsInput) (*stats.Report, error) {
	rows, err := db.StatRows(ctx, database, input.Filter.toDBFilter())
	if err != nil {
		return nil, err
	}
	return stats.Aggregate(rows), nil
}
