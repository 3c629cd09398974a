package ops

import (
	"context"
	"database/sql"

	"github.com/asodergren/korjournal/internal/db"
	"github.com/asodergren/korjournal/internal/errors"
	"github.com/asodergren/korjournal/internal/trip"
)

// UpdateInput contains parameters for the Update operation. Category and
// notes are the only fields mutable after import.
type UpdateInput struct {
	ID       int64
	Category *string
	Notes    *string
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID      int64     `json:"id"`
	Updated bool      `json:"updated"`
	Trip    *trip.Trip `json:"trip,omitempty"`
}

// Update partially updates a trip. A call that supplies neither category
// nor notes is a no-op reported as updated=false.
func Update(ctx context.Context, database *sql.DB, input UpdateInput) (*UpdateOutput, error) {
	if input.ID <= 0 {
		return nil, errors.NewInvalidRequest("id is required")
	}

	updated, err := db.UpdateTrip(ctx, database, input.ID, input.Category, input.Notes)
	if err != nil {
		return nil, err
	}

	output := &UpdateOutput{ID: input.ID, Updated: updated}
	if updated {
		t, err := db.GetTrip(ctx, database, input.ID)
		if err != nil {
			return nil, err
		}
		output.Trip = t
	}
	return output, nil
}
