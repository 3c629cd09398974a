package errors

import "testing"

func TestAppError_Error(t *testing.T) {
	err := &AppError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "trip not found: 7",
	}

	expected := "NOT_FOUND: trip not found: 7"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("file content is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "file content is required" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewDuplicateTrip(t *testing.T) {
	err := NewDuplicateTrip("2024-01-10 08:00", 1000, 1030)

	if err.Code != ErrDuplicateTrip {
		t.Errorf("Code = %q, want %q", err.Code, ErrDuplicateTrip)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["start_date"] != "2024-01-10 08:00" {
		t.Errorf("Details[start_date] = %v", err.Details["start_date"])
	}
	if err.Details["odometer_start"] != 1000 || err.Details["odometer_end"] != 1030 {
		t.Errorf("Details odometers = %v, %v", err.Details["odometer_start"], err.Details["odometer_end"])
	}
}

func TestNewCorruptDatabase(t *testing.T) {
	err := NewCorruptDatabase("database disk image is malformed", "/data/journal.db.corrupt-20240101-000000")

	if err.Code != ErrCorruptDatabase {
		t.Errorf("Code = %q, want %q", err.Code, ErrCorruptDatabase)
	}
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
	if err.Details["backup_path"] != "/data/journal.db.corrupt-20240101-000000" {
		t.Errorf("Details[backup_path] = %v", err.Details["backup_path"])
	}

	// No backup path, no details
	err = NewCorruptDatabase("corrupt", "")
	if err.Details != nil {
		t.Errorf("Details = %v, want nil", err.Details)
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("7")
	if !Is(err, ErrNotFound) {
		t.Error("Is(NewNotFound, ErrNotFound) = false")
	}
	if Is(err, ErrInternal) {
		t.Error("Is(NewNotFound, ErrInternal) = true")
	}
	if Is(nil, ErrNotFound) {
		t.Error("Is(nil, ErrNotFound) = true")
	}
}
