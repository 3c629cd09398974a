package ops

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/asodergren/korjournal/internal/db"
	"github.com/asodergren/korjournal/internal/errors"
	"github.com/asodergren/korjournal/internal/trip"
)

// testDB opens a fresh store in a temp directory.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	opened, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	t.Cleanup(func() { opened.DB.Close() })
	return opened.DB
}

const exportHeader = "Kategori;Startdatum;Mätarställning start;Startposition;Slutdatum;Mätarställning slut;Destination;Restid;Körsträcka;Bränsleförbrukning;Titel;Batteriförbrukning;Återvunnen energi;Anteckningar"

// exportFile builds a line-delimited export from rows.
func exportFile(rows ...string) []byte {
	return []byte(exportHeader + "\n" + strings.Join(rows, "\n") + "\n")
}

const (
	rowCommute = "Arbete;2024-03-05 08:12;12000;Hemma;2024-03-05 08:55;12042;Kontoret;0h 43m;42,0;2,8 l;Pendling;0 kWh;0 kWh;"
	rowErrand  = "Privat;2024-03-06 17:00;12042;Kontoret;2024-03-06 17:40;12080;Hemma;0h 40m;38,0;2,5 l;;0 kWh;0 kWh;"
	rowBroken  = "Privat;2024-03-07 09:00;500;A;2024-03-07 09:30;400;B;0h 30m;25,0;;;;;"
	rowUncat   = "Okategoriserat;2024-03-08 10:00;12080;Hemma;2024-03-08 10:30;12100;Affären;0h 30m;20,0;1,5 l;;0 kWh;0 kWh;"
)

func TestImport(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	output, err := Import(ctx, database, ImportInput{
		Raw:      exportFile(rowCommute, rowErrand, rowBroken),
		Filename: "export.csv",
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if output.Imported != 2 {
		t.Errorf("Imported = %d, want 2", output.Imported)
	}
	if output.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1 (reversed odometer)", output.Skipped)
	}
	if output.Duplicates != 0 || output.Failed != 0 {
		t.Errorf("Duplicates = %d, Failed = %d, want 0, 0", output.Duplicates, output.Failed)
	}
	if output.RunID == "" {
		t.Error("RunID is empty")
	}

	// The run was recorded
	runs, err := db.ListImportRuns(ctx, database, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].ID != output.RunID || runs[0].Filename != "export.csv" || runs[0].Imported != 2 {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestImport_Idempotent(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	raw := exportFile(rowCommute, rowErrand)
	if _, err := Import(ctx, database, ImportInput{Raw: raw, Filename: "a.csv"}); err != nil {
		t.Fatalf("first Import() error = %v", err)
	}

	second, err := Import(ctx, database, ImportInput{Raw: raw, Filename: "a.csv"})
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if second.Imported != 0 {
		t.Errorf("Imported = %d, want 0 on re-import", second.Imported)
	}
	if second.Duplicates != 2 {
		t.Errorf("Duplicates = %d, want 2", second.Duplicates)
	}
	if second.Failed != 0 {
		t.Errorf("Failed = %d, want 0 (duplicates are not failures)", second.Failed)
	}

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM trips").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("trips = %d, want 2", count)
	}
}

func TestImport_RemapOverride(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	remap := true
	_, err := Import(ctx, database, ImportInput{
		Raw:      exportFile(rowUncat),
		Filename: "u.csv",
		Remap:    &remap,
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	var category string
	if err := database.QueryRow("SELECT category FROM trips").Scan(&category); err != nil {
		t.Fatal(err)
	}
	if category != trip.CategoryPrivate {
		t.Errorf("category = %q, want %q", category, trip.CategoryPrivate)
	}
}

func TestImport_RemapFromSetting(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	if err := db.SetSetting(ctx, database, db.SettingAutoRemap, "true"); err != nil {
		t.Fatal(err)
	}

	if _, err := Import(ctx, database, ImportInput{Raw: exportFile(rowUncat), Filename: "u.csv"}); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	var category string
	if err := database.QueryRow("SELECT category FROM trips").Scan(&category); err != nil {
		t.Fatal(err)
	}
	if category != trip.CategoryPrivate {
		t.Errorf("category = %q, want %q (setting-driven remap)", category, trip.CategoryPrivate)
	}

	// Explicit override beats the stored setting
	noRemap := false
	if _, err := Import(ctx, database, ImportInput{
		Raw:      exportFile("Okategoriserat;2024-04-01 10:00;200;A;2024-04-01 10:30;220;B;0h 30m;20,0;;;;;"),
		Filename: "v.csv",
		Remap:    &noRemap,
	}); err != nil {
		t.Fatal(err)
	}

	var uncat int
	if err := database.QueryRow("SELECT COUNT(*) FROM trips WHERE category = ?", trip.CategoryUncategorized).Scan(&uncat); err != nil {
		t.Fatal(err)
	}
	if uncat != 1 {
		t.Errorf("uncategorized trips = %d, want 1", uncat)
	}
}

func TestImport_EmptyFile(t *testing.T) {
	database := testDB(t)

	_, err := Import(context.Background(), database, ImportInput{Filename: "empty.csv"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Import() error = %v, want INVALID_REQUEST", err)
	}
}

func TestImport_Latin1Bytes(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	// "Vårgårda" in ISO 8859-1; the decoder must recover the å before parsing
	row := "Privat;2024-05-01 09:00;300;V\xe5rg\xe5rda;2024-05-01 09:30;320;Alings\xe5s;0h 30m;20,0;;;;;"
	raw := []byte(exportHeader + "\n" + row + "\n")

	output, err := Import(ctx, database, ImportInput{Raw: raw, Filename: "latin1.csv"})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if output.Imported != 1 {
		t.Fatalf("Imported = %d, want 1", output.Imported)
	}

	var startPos string
	if err := database.QueryRow("SELECT start_position FROM trips").Scan(&startPos); err != nil {
		t.Fatal(err)
	}
	if startPos != "Vårgårda" {
		t.Errorf("start_position = %q, want %q", startPos, "Vårgårda")
	}
}
