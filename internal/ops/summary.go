package ops

import (
	"context"
	"database/sql"

	"github.com/asodergren/korjournal/internal/db"
)

// SummaryInput contains parameters for the Summary operation.
type SummaryInput struct {
	Filter TripFilter
}

// SummaryOutput contains the result of the Summary operation.
type SummaryOutput struct {
	Count           int     `json:"count"`
	Distance        float64 `json:"distance"`
	DurationMinutes int     `json:"duration_minutes"`
}

// Summary computes trip count, total distance and total duration for the
// filtered set.
func Summary(ctx context.Context, database *sql.DB, input SummaryInput) (*SummaryOutput, error) {
	s, err := db.Summarize(ctx, database, input.Filter.toDBFilter())
	if err != nil {
		return nil, err
	}
	return &SummaryOutput{
		Count:           s.Count,
		Distance:        s.Distance,
		DurationMinutes: s.DurationMinutes,
	}, nil
}
