package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/asodergren/korjournal/internal/errors"
)

// Well-known settings keys.
const (
	// SettingAutoRemap controls whether "Okategoriserat" trips are
	// rewritten to "Privat" during ingestion ("true"/"false").
	SettingAutoRemap = "import_auto_remap"

	// SettingFuelPrice is the per-litre fuel price used by reporting.
	SettingFuelPrice = "fuel_price"

	// SettingElectricityPrice is the per-kWh price used by reporting.
	SettingElectricityPrice = "electricity_price"
)

// GetSetting reads one setting. The second return value reports whether
// the key exists.
func GetSetting(ctx context.Context, database *sql.DB, key string) (string, bool, error) {
	var value string
	err := database.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, classifyReadError(err)
	}
	return value, true, nil
}

// SetSetting upserts one setting inside an explicit transaction.
// Settings are never deleted; writes always overwrite.
func SetSetting(ctx context.Context, database *sql.DB, key, value string) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return classifyWriteError(err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return classifyWriteError(err)
	}

	if err := tx.Commit(); err != nil {
		return classifyWriteError(err)
	}
	return nil
}

// GetSettings reads a batch of settings. Missing keys are absent from the
// returned map.
func GetSettings(ctx context.Context, database *sql.DB, keys []string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := database.QueryContext(ctx,
		fmt.Sprintf("SELECT key, value FROM settings WHERE key IN (%s)", placeholders), args...)
	if err != nil {
		return nil, classifyReadError(err)
	}
	defer rows.Close()

	values := make(map[string]string, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.NewInternal(err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, classifyReadError(err)
	}

	return values, nil
}
