package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asodergren/korjournal/internal/config"
	_ "modernc.org/sqlite"
)

// FileName is the database file name inside the base directory.
const FileName = "journal.db"

// requiredTables are the tables the health probe checks for. A pre-existing
// file missing any of them is classified corrupt; import_runs is auxiliary
// and deliberately not part of the probe.
var requiredTables = []string{"trips", "settings"}

// HealthState classifies the database file at startup.
type HealthState string

const (
	// HealthyExisting: file pre-existed and passed validation.
	HealthyExisting HealthState = "healthy-existing"
	// HealthyFresh: file did not exist; schema was created from scratch.
	HealthyFresh HealthState = "healthy-fresh"
	// Corrupt: integrity check failed or required tables vanished from an
	// existing file; backup-and-rebuild recovery ran.
	Corrupt HealthState = "corrupt"
)

// OpenResult reports the outcome of opening the store.
type OpenResult struct {
	DB *sql.DB

	// State is the health classification computed during startup.
	State HealthState

	// Recovered is true when the original file was backed up and replaced.
	Recovered bool

	// BackupPath is the path the corrupted file was renamed to.
	BackupPath string
}

// Open initializes the SQLite database at baseDir/journal.db, running the
// startup validation state machine: open → validate → (create schema |
// backup-and-rebuild). The original file is never deleted; a corrupt file
// is renamed to a timestamped sibling before a fresh file is created.
// If recovery itself fails, Open fails — there is no further fallback.
//
// The baseDir parameter allows tests to use t.TempDir() instead of
// ~/.korjournal. Callers open the store once and share the handle.
func Open(baseDir string) (*OpenResult, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, FileName)
	existed := fileExists(dbPath)

	handle, err := openFile(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	state, err := validate(handle, existed)
	if err != nil {
		handle.Close()
		return nil, err
	}

	result := &OpenResult{DB: handle, State: state}

	if state == Corrupt {
		recovered, backupPath, err := rebuild(handle, dbPath)
		if err != nil {
			return nil, fmt.Errorf("recovery failed: %w", err)
		}
		result.DB = recovered
		result.Recovered = true
		result.BackupPath = backupPath
	} else {
		// Idempotent create-if-not-exists runs on healthy files too, for
		// forward compatibility.
		if err := createSchema(result.DB); err != nil {
			result.DB.Close()
			return nil, err
		}
	}

	if err := verifyWALMode(result.DB); err != nil {
		result.DB.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return result, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// openFile opens the database with pragmas in the connection string so they
// apply to every pooled connection.
func openFile(dbPath string) (*sql.DB, error) {
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	return sql.Open("sqlite", dsn)
}

// validate runs the health probes and classifies the file.
// Probe order: connectivity, structural integrity, required tables.
func validate(handle *sql.DB, existed bool) (HealthState, error) {
	// Connectivity probe. A file that is not a database fails here or on
	// the integrity check with a known corruption signature.
	var one int
	if err := handle.QueryRow("SELECT 1").Scan(&one); err != nil {
		if IsCorruptionError(err) {
			return Corrupt, nil
		}
		return "", fmt.Errorf("connectivity probe failed: %w", err)
	}

	var integrity string
	if err := handle.QueryRow("PRAGMA integrity_check").Scan(&integrity); err != nil {
		if IsCorruptionError(err) {
			return Corrupt, nil
		}
		return "", fmt.Errorf("integrity check failed: %w", err)
	}
	if integrity != "ok" {
		return Corrupt, nil
	}

	missing, err := missingTables(handle)
	if err != nil {
		if IsCorruptionError(err) {
			return Corrupt, nil
		}
		return "", err
	}
	if len(missing) > 0 {
		if existed {
			// Tables vanishing from an existing file is a corruption
			// symptom, not a fresh install.
			return Corrupt, nil
		}
		return HealthyFresh, nil
	}

	return HealthyExisting, nil
}

// missingTables returns the required tables absent from sqlite_master.
func missingTables(handle *sql.DB) ([]string, error) {
	var missing []string
	for _, table := range requiredTables {
		var name string
		err := handle.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			missing = append(missing, table)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to probe table %s: %w", table, err)
		}
	}
	return missing, nil
}

// rebuild closes the corrupt handle, renames the file to a timestamped
// backup path, and creates a fresh database at the original path.
func rebuild(handle *sql.DB, dbPath string) (*sql.DB, string, error) {
	handle.Close()

	backupPath := fmt.Sprintf("%s.corrupt-%s", dbPath, time.Now().UTC().Format("20060102-150405"))
	if err := os.Rename(dbPath, backupPath); err != nil {
		return nil, "", fmt.Errorf("failed to back up corrupt database: %w", err)
	}
	log.Printf("corrupt database backed up to %s", backupPath)

	// WAL sidecar files belong to the old image; move them aside too so the
	// fresh file does not inherit stale pages.
	for _, suffix := range []string{"-wal", "-shm"} {
		if fileExists(dbPath + suffix) {
			_ = os.Rename(dbPath+suffix, backupPath+suffix)
		}
	}

	fresh, err := openFile(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create replacement database: %w", err)
	}
	if err := createSchema(fresh); err != nil {
		fresh.Close()
		return nil, "", err
	}

	return fresh, backupPath, nil
}

// createSchema creates the tables and indexes. Idempotent; schema changes
// beyond create-if-not-exists are out of scope.
func createSchema(handle *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS trips (
	  id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	  category             TEXT NOT NULL,
	  start_date           TEXT NOT NULL,
	  odometer_start       INTEGER NOT NULL,
	  start_position       TEXT NOT NULL DEFAULT '',
	  end_date             TEXT NOT NULL DEFAULT '',
	  odometer_end         INTEGER NOT NULL,
	  end_destination      TEXT NOT NULL DEFAULT '',
	  duration             TEXT NOT NULL DEFAULT '',
	  distance             REAL NOT NULL DEFAULT 0,
	  fuel_consumption     TEXT NOT NULL DEFAULT '',
	  title                TEXT NOT NULL DEFAULT '',
	  battery_consumption  TEXT NOT NULL DEFAULT '',
	  battery_regeneration TEXT NOT NULL DEFAULT '',
	  notes                TEXT NOT NULL DEFAULT '',
	  created_at           INTEGER NOT NULL,
	  updated_at           INTEGER NOT NULL,
	  UNIQUE(start_date, odometer_start, odometer_end)
	);

	CREATE INDEX IF NOT EXISTS idx_trips_start_date
	ON trips(start_date);

	CREATE INDEX IF NOT EXISTS idx_trips_category
	ON trips(category, start_date);

	CREATE TABLE IF NOT EXISTS settings (
	  key   TEXT PRIMARY KEY,
	  value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS import_runs (
	  id         TEXT PRIMARY KEY,
	  filename   TEXT NOT NULL,
	  imported   INTEGER NOT NULL,
	  duplicates INTEGER NOT NULL,
	  failed     INTEGER NOT NULL,
	  skipped    INTEGER NOT NULL,
	  created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_import_runs_created
	ON import_runs(created_at DESC);
	`
	if _, err := handle.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(handle *sql.DB) error {
	var journalMode string
	if err := handle.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// IsCorruptionError reports whether err carries a known corruption
// signature from the storage engine (a malformed database image, or a file
// that is not a database at all).
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database") ||
		strings.Contains(msg, "malformed database schema")
}

// fileExists reports whether path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
