package errors

import "fmt"

// ErrorCode represents a korjournal error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrDuplicateTrip   ErrorCode = "DUPLICATE_TRIP"   // 409
	ErrCorruptDatabase ErrorCode = "CORRUPT_DATABASE" // 503
	ErrInternal        ErrorCode = "INTERNAL"         // 500
)

// AppError represents a structured error with code, status, and details.
type AppError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *AppError {
	return &AppError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a trip cannot be found.
func NewNotFound(identifier string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("trip not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewDuplicateTrip creates a 409 error for natural-key collisions.
// Callers that import trips treat this as a counter, never as a failure.
func NewDuplicateTrip(startDate string, odometerStart, odometerEnd int) *AppError {
	return &AppError{
		Code:    ErrDuplicateTrip,
		Status:  409,
		Message: fmt.Sprintf("trip already exists for %s (%d-%d)", startDate, odometerStart, odometerEnd),
		Details: map[string]any{
			"start_date":     startDate,
			"odometer_start": odometerStart,
			"odometer_end":   odometerEnd,
		},
	}
}

// NewCorruptDatabase creates a 503 error for a damaged database file.
// This is the one condition interfaces must surface to the user distinctly:
// the store either recovered by backing up the old file, or must be
// reopened so recovery can run.
func NewCorruptDatabase(msg, backupPath string) *AppError {
	e := &AppError{
		Code:    ErrCorruptDatabase,
		Status:  503,
		Message: msg,
	}
	if backupPath != "" {
		e.Details = map[string]any{"backup_path": backupPath}
	}
	return e
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *AppError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	if aErr, ok := err.(*AppError); ok {
		return aErr.Code == code
	}
	return false
}
