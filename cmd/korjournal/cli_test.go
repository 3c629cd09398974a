package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/asodergren/korjournal/internal/config"
	"github.com/asodergren/korjournal/internal/db"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	opened, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { opened.DB.Close() })
	return opened.DB
}

const exportText = "Kategori;Startdatum;Start;Pos;Slutdatum;Slut;Dest;Restid;Str;Bränsle;Titel;Batteri;Åter;Ant\n" +
	"Privat;2024-03-05 08:12;12000;Hemma;2024-03-05 08:55;12042;Kontoret;0h 43m;42,0;2,8 l;;0 kWh;0 kWh;\n"

// writeExport writes the fixture export to a temp file and returns its path.
func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(exportText), 0600); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"12345", 12345, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCLI_ImportAndList(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()
	app := newCLIApp(database, cfg)

	path := writeExport(t)
	if err := app.Run([]string{"korjournal", "import", path}); err != nil {
		t.Fatalf("import command error = %v", err)
	}

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM trips").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("trips = %d, want 1", count)
	}

	if err := app.Run([]string{"korjournal", "list"}); err != nil {
		t.Fatalf("list command error = %v", err)
	}
}

func TestCLI_ImportMissingFile(t *testing.T) {
	database := setupTestDB(t)
	app := newCLIApp(database, config.DefaultConfig())

	err := app.Run([]string{"korjournal", "import", "/nonexistent/file.csv"})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCLI_UpdateAndShow(t *testing.T) {
	database := setupTestDB(t)
	app := newCLIApp(database, config.DefaultConfig())

	if err := app.Run([]string{"korjournal", "import", writeExport(t)}); err != nil {
		t.Fatal(err)
	}

	if err := app.Run([]string{"korjournal", "update", "--category", "Arbete", "--notes", "client visit", "1"}); err != nil {
		t.Fatalf("update command error = %v", err)
	}

	var category, notes string
	if err := database.QueryRow("SELECT category, notes FROM trips WHERE id = 1").Scan(&category, &notes); err != nil {
		t.Fatal(err)
	}
	if category != "Arbete" || notes != "client visit" {
		t.Errorf("category=%q notes=%q", category, notes)
	}

	if err := app.Run([]string{"korjournal", "show", "1"}); err != nil {
		t.Fatalf("show command error = %v", err)
	}
}

func TestCLI_Settings(t *testing.T) {
	database := setupTestDB(t)
	app := newCLIApp(database, config.DefaultConfig())

	if err := app.Run([]string{"korjournal", "settings", "set", "import_auto_remap", "true"}); err != nil {
		t.Fatalf("settings set error = %v", err)
	}

	value, ok, err := db.GetSetting(context.Background(), database, db.SettingAutoRemap)
	if err != nil || !ok || value != "true" {
		t.Errorf("GetSetting = %q, %v, %v", value, ok, err)
	}

	// Unknown key fails
	if err := app.Run([]string{"korjournal", "settings", "set", "bogus", "x"}); err == nil {
		t.Error("expected error for unknown setting key")
	}
}

func TestIsCLIMode(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"korjournal"}, false},
		{[]string{"korjournal", "list"}, true},
		{[]string{"korjournal", "import", "f.csv"}, true},
		{[]string{"korjournal", "--help"}, true},
		{[]string{"korjournal", "-v"}, true},
		{[]string{"korjournal", "bogus"}, false},
	}
	for _, tt := range tests {
		os.Args = tt.args
		if got := isCLIMode(); got != tt.want {
			t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
