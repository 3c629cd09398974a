package ops

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/asodergren/korjournal/internal/db"
	"github.com/asodergren/korjournal/internal/errors"
)

// knownSettings are the keys the application interprets. Unknown keys are
// rejected rather than stored, so typos surface immediately.
var knownSettings = []string{
	db.SettingAutoRemap,
	db.SettingFuelPrice,
	db.SettingElectricityPrice,
}

// GetSettingsInput contains parameters for the GetSettings operation.
type GetSettingsInput struct {
	// Keys limits the read; empty means all known keys
	Keys []string
}

// GetSettingsOutput contains the result of the GetSettings operation.
type GetSettingsOutput struct {
	Settings map[string]string `json:"settings"`
}

// GetSettings reads stored settings. Keys never written are absent from
// the result.
func GetSettings(ctx context.Context, database *sql.DB, input GetSettingsInput) (*GetSettingsOutput, error) {
	keys := input.Keys
	if len(keys) == 0 {
		keys = knownSettings
	}
	for _, key := range keys {
		if !slices.Contains(knownSettings, key) {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown setting: %s", key))
		}
	}

	settings, err := db.GetSettings(ctx, database, keys)
	if err != nil {
		return nil, err
	}
	return &GetSettingsOutput{Settings: settings}, nil
}

// SetSettingInput contains parameters for the SetSetting operation.
type SetSettingInput struct {
	Key   string
	Value string
}

// SetSettingOutput contains the result of the SetSetting operation.
type SetSettingOutput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetSetting upserts one setting.
func SetSetting(ctx context.Context, database *sql.DB, input SetSettingInput) (*SetSettingOutput, error) {
	if !slices.Contains(knownSettings, input.Key) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown setting: %s", input.Key))
	}
	if input.Key == db.SettingAutoRemap && input.Value != "true" && input.Value != "false" {
		return nil, errors.NewInvalidRequest("import_auto_remap must be true or false")
	}

	if err := db.SetSetting(ctx, database, input.Key, input.Value); err != nil {
		return nil, err
	}
	return &SetSettingOutput{Key: input.Key, Value: input.Value}, nil
}
