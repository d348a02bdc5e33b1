package repository

import (
	"fmt"

	"glossify/internal/database"
)

// SettingsRepository stores per-user settings as key/value rows
type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSettings returns every stored setting of a user. A user without rows
// gets an empty map.
func (r *SettingsRepository) GetSettings(userID string) (map[string]string, error) {
	rows, err := r.db.Query(`SELECT setting_key, setting_value FROM user_settings WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, rows.Err()
}

func (r *SettingsRepository) upsertQuery(d database.Dialect) string {
	return d.Upsert("user_settings", []string{"user_id", "setting_key"}, []string{"setting_value"})
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(userID, key, value string) error {
	if _, err := r.db.Exec(r.upsertQuery(r.db.Dialect), userID, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// SetSettings writes several settings in one transaction
func (r *SettingsRepository) SetSettings(userID string, values map[string]string) error {
	return r.db.WithTx(func(tx *database.Tx) error {
		for key, value := range values {
			if _, err := tx.Exec(r.upsertQuery(tx.GetDialect()), userID, key, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", key, err)
			}
		}
		return nil
	})
}
