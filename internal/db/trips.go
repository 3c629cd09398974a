package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/asodergren/korjournal/internal/errors"
	"github.com/asodergren/korjournal/internal/trip"
)

// SortOrder controls trip listing order by start date.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter narrows trip queries. Zero values mean "no restriction".
type Filter struct {
	// Category matches the trip category exactly.
	Category string

	// DateFrom includes trips with start_date >= DateFrom.
	DateFrom string

	// DateTo includes trips up to and including the entire end day
	// (internally start_date < DateTo + 1 day).
	DateTo string
}

// Summary aggregates a filtered set without pagination cost.
type Summary struct {
	Count           int     `json:"count"`
	Distance        float64 `json:"distance"`
	DurationMinutes int     `json:"duration_minutes"`
}

// StatRow is one trip's statistics-relevant columns, consumed by the
// aggregator. Consumption values stay as exported magnitude strings here;
// trip.ParseAmount interprets them.
type StatRow struct {
	Category            string
	StartDate           string
	Distance            float64
	FuelConsumption     string
	BatteryConsumption  string
	BatteryRegeneration string
}

const tripColumns = `id, category, start_date, odometer_start, start_position,
	end_date, odometer_end, end_destination, duration, distance,
	fuel_consumption, title, battery_consumption, battery_regeneration,
	notes, created_at, updated_at`

// InsertTrip stores a trip inside an explicit transaction and returns the
// new row identifier. A natural-key collision (start_date, odometer_start,
// odometer_end) returns a DUPLICATE_TRIP error that callers absorb as a
// counter. Known corruption signatures surface as CORRUPT_DATABASE so the
// caller can trigger recovery; everything else is INTERNAL.
func InsertTrip(ctx context.Context, database *sql.DB, t *trip.Trip) (int64, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return 0, classifyWriteError(err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().Unix()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO trips (
			category, start_date, odometer_start, start_position,
			end_date, odometer_end, end_destination, duration, distance,
			fuel_consumption, title, battery_consumption,
			battery_regeneration, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.Category, t.StartDate, t.OdometerStart, t.StartPosition,
		t.EndDate, t.OdometerEnd, t.EndDestination, t.Duration, t.Distance,
		t.FuelConsumption, t.Title, t.BatteryConsumption,
		t.BatteryRegeneration, t.Notes, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, errors.NewDuplicateTrip(t.StartDate, t.OdometerStart, t.OdometerEnd)
		}
		return 0, classifyWriteError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, classifyWriteError(err)
	}

	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return id, nil
}

// ListTrips returns one page of trips ordered by start date, plus the total
// count matching the same filter independent of pagination.
func ListTrips(ctx context.Context, database *sql.DB, f Filter, limit, offset int, order SortOrder) ([]trip.Trip, int, error) {
	where, args := buildFilter(f)

	var total int
	countQuery := "SELECT COUNT(*) FROM trips" + where
	if err := database.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, classifyReadError(err)
	}

	direction := "ASC"
	if order == SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM trips%s ORDER BY start_date %s, id %s LIMIT ? OFFSET ?",
		tripColumns, where, direction, direction,
	)
	rows, err := database.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, classifyReadError(err)
	}
	defer rows.Close()

	var trips []trip.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classifyReadError(err)
	}

	return trips, total, nil
}

// GetTrip retrieves a single trip by row identifier.
func GetTrip(ctx context.Context, database *sql.DB, id int64) (*trip.Trip, error) {
	row := database.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM trips WHERE id = ?", tripColumns), id)

	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(fmt.Sprintf("%d", id))
	}
	if err != nil {
		return nil, classifyReadError(err)
	}
	return &t, nil
}

// UpdateTrip partially updates a trip's mutable fields (category, notes).
// A call with neither field supplied is a no-op returning false. Returns
// whether a row actually changed.
func UpdateTrip(ctx context.Context, database *sql.DB, id int64, category, notes *string) (bool, error) {
	if category == nil && notes == nil {
		return false, nil
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return false, classifyWriteError(err)
	}
	defer tx.Rollback() //nolint:errcheck

	set := "updated_at = ?"
	args := []any{time.Now().Unix()}
	if category != nil {
		set += ", category = ?"
		args = append(args, *category)
	}
	if notes != nil {
		set += ", notes = ?"
		args = append(args, *notes)
	}
	args = append(args, id)

	result, err := tx.ExecContext(ctx, "UPDATE trips SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return false, classifyWriteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return false, classifyWriteError(err)
	}

	return affected > 0, nil
}

// Summarize aggregates count, summed distance, and summed duration minutes
// over a filtered set. Durations are free-text strings, so the minute sum
// is computed from the rows rather than in SQL.
func Summarize(ctx context.Context, database *sql.DB, f Filter) (*Summary, error) {
	where, args := buildFilter(f)

	s := &Summary{}
	err := database.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(distance), 0) FROM trips"+where, args...,
	).Scan(&s.Count, &s.Distance)
	if err != nil {
		return nil, classifyReadError(err)
	}

	rows, err := database.QueryContext(ctx, "SELECT duration FROM trips"+where, args...)
	if err != nil {
		return nil, classifyReadError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var duration string
		if err := rows.Scan(&duration); err != nil {
			return nil, errors.NewInternal(err)
		}
		s.DurationMinutes += trip.DurationMinutes(duration)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyReadError(err)
	}

	return s, nil
}

// StatRows returns the statistics-relevant columns of every trip matching
// the filter, in start-date order.
func StatRows(ctx context.Context, database *sql.DB, f Filter) ([]StatRow, error) {
	where, args := buildFilter(f)

	rows, err := database.QueryContext(ctx, `
		SELECT category, start_date, distance, fuel_consumption,
			battery_consumption, battery_regeneration
		FROM trips`+where+" ORDER BY start_date", args...)
	if err != nil {
		return nil, classifyReadError(err)
	}
	defer rows.Close()

	var stats []StatRow
	for rows.Next() {
		var r StatRow
		if err := rows.Scan(&r.Category, &r.StartDate, &r.Distance,
			&r.FuelConsumption, &r.BatteryConsumption, &r.BatteryRegeneration); err != nil {
			return nil, errors.NewInternal(err)
		}
		stats = append(stats, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyReadError(err)
	}

	return stats, nil
}

// buildFilter translates a Filter into a WHERE clause and arguments.
// The date-to bound is inclusive of the entire end day.
func buildFilter(f Filter) (string, []any) {
	var clauses []string
	var args []any

	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.DateFrom != "" {
		clauses = append(clauses, "start_date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		clauses = append(clauses, "start_date < date(?, '+1 day')")
		args = append(args, f.DateTo)
	}

	if len(clauses) == 0 {
		return "", nil
	}

	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTrip scans one trips row.
func scanTrip(row rowScanner) (trip.Trip, error) {
	var t trip.Trip
	err := row.Scan(
		&t.ID, &t.Category, &t.StartDate, &t.OdometerStart, &t.StartPosition,
		&t.EndDate, &t.OdometerEnd, &t.EndDestination, &t.Duration, &t.Distance,
		&t.FuelConsumption, &t.Title, &t.BatteryConsumption, &t.BatteryRegeneration,
		&t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}
