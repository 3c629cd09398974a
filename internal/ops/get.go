package ops

import (
	"context"
	"database/sql"

	"github.com/asodergren/korjournal/internal/db"
	"github.com/asodergren/korjournal/internal/errors"
	"github.com/asodergren/korjournal/internal/trip"
)

// Get retrieves a single trip by ID.
func Get(ctx context.Context, database *sql.DB, id int64) (*trip.Trip, error) {
	if id <= 0 {
		return nil, errors.NewInvalidRequest("id is required")
	}
	return db.GetTrip(ctx, database, id)
}
