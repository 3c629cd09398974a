package ops

import (
	"context"
	"database/sql"

	"github.com/asodergren/korjournal/internal/config"
	"github.com/asodergren/korjournal/internal/db"
	"github.com/asodergren/korjournal/internal/trip"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Filter TripFilter
	Limit  int    // default: config page size
	Offset int    // default: 0
	Sort   string // "asc" | "desc", default: "desc"
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []trip.Trip `json:"items"`
	Pagination Pagination  `json:"pagination"`
	Sort       string      `json:"sort"`
}

// List retrieves one page of trips ordered by start date, with a total
// count that is independent of pagination.
func List(ctx context.Context, database *sql.DB, cfg *config.Config, input ListInput) (*ListOutput, error) {
	order, err := parseSort(input.Sort)
	if err != nil {
		return nil, err
	}

	limit := pageBounds(cfg, input.Limit)
	offset := max(input.Offset, 0)

	trips, total, err := db.ListTrips(ctx, database, input.Filter.toDBFilter(), limit, offset, order)
	if err != nil {
		return nil, err
	}

	if trips == nil {
		trips = []trip.Trip{}
	}

	return &ListOutput{
		Items: trips,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(trips) < total,
			Total:   total,
		},
		Sort: string(order),
	}, nil
}
