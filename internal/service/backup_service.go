package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// BackupVersion is written into every backup
const BackupVersion = "1.0"

// BackupData is a user's stored word lists and settings
type BackupData struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	UserID     string            `json:"user_id"`
	Lists      []ListBackup      `json:"lists"`
	Settings   map[string]string `json:"settings"`
}

// ListBackup is one stored list in its text form
type ListBackup struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// BackupService exports and restores a user's lists and settings as JSON
type BackupService struct {
	lists    WordListStore
	settings SettingsStore
	logger   *zap.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(lists WordListStore, settings SettingsStore, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{lists: lists, settings: settings, logger: logger}
}

// ExportToWriter writes the user's backup as indented JSON
func (s *BackupService) ExportToWriter(userID string, w io.Writer) error {
	backup := &BackupData{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		UserID:     userID,
		Lists:      []ListBackup{},
	}

	names, err := s.lists.ListNames(userID)
	if err != nil {
		return fmt.Errorf("failed to export lists: %w", err)
	}
	for _, name := range names {
		content, found, err := s.lists.GetWordList(userID, name)
		if err != nil {
			return fmt.Errorf("failed to export list %s: %w", name, err)
		}
		if found {
			backup.Lists = append(backup.Lists, ListBackup{Name: name, Content: content})
		}
	}

	if backup.Settings, err = s.settings.GetSettings(userID); err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.Info("Backup exported",
		zap.String("user", userID),
		zap.Int("lists", len(backup.Lists)),
		zap.Int("settings", len(backup.Settings)),
	)
	return nil
}

// ImportFromReader restores a backup. A non-empty userID overrides the user
// recorded in the backup. Lists are validated like saves from the API.
func (s *BackupService) ImportFromReader(userID string, r io.Reader) (*BackupData, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if userID == "" {
		userID = backup.UserID
	}
	if userID == "" {
		return nil, errors.New("backup names no user")
	}

	lists := NewListService(s.lists)
	for _, l := range backup.Lists {
		if _, err := lists.Save(userID, l.Name, l.Content); err != nil {
			return nil, fmt.Errorf("failed to import list %s: %w", l.Name, err)
		}
	}
	if len(backup.Settings) > 0 {
		if err := s.settings.SetSettings(userID, backup.Settings); err != nil {
			return nil, fmt.Errorf("failed to import settings: %w", err)
		}
	}

	s.logger.Info("Backup imported",
		zap.String("user", userID),
		zap.String("version", backup.Version),
		zap.Time("exported_at", backup.ExportedAt),
		zap.Int("lists", len(backup.Lists)),
	)
	return &backup, nil
}
