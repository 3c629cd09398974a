package db

import (
	"strings"

	"github.com/asodergren/korjournal/internal/errors"
)

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint
// violation (the natural-key duplicate case).
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// classifyWriteError maps a storage-engine error from a mutating statement
// onto the error taxonomy: corruption signatures become CORRUPT_DATABASE so
// callers can trigger recovery and inform the user; everything else is a
// generic internal failure.
func classifyWriteError(err error) error {
	if IsCorruptionError(err) {
		return errors.NewCorruptDatabase(err.Error(), "")
	}
	return errors.NewInternal(err)
}

// classifyReadError mirrors classifyWriteError for query paths.
func classifyReadError(err error) error {
	if IsCorruptionError(err) {
		return errors.NewCorruptDatabase(err.Error(), "")
	}
	return errors.NewInternal(err)
}
