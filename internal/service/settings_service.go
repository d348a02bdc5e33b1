package service

import (
	"fmt"

	"glossify/internal/models"
)

// SettingsStore is the persistence SettingsService needs
type SettingsStore interface {
	GetSettings(userID string) (map[string]string, error)
	SetSettings(userID string, values map[string]string) error
}

// SettingsService reads and writes typed user settings
type SettingsService struct {
	store SettingsStore
}

// NewSettingsService creates a new settings service
func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the user's settings with defaults for anything not stored
func (s *SettingsService) Get(userID string) (models.Settings, error) {
	values, err := s.store.GetSettings(userID)
	if err != nil {
		return models.DefaultSettings(), fmt.Errorf("failed to load settings: %w", err)
	}
	return models.SettingsFromValues(values), nil
}

// Update validates and stores all settings
func (s *SettingsService) Update(userID string, settings models.Settings) error {
	direction, err := models.ParseDirection(string(settings.Direction))
	if err != nil {
		return err
	}
	settings.Direction = direction
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.SetSettings(userID, settings.Values()); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
