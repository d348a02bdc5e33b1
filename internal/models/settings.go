package models

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidLanguage  = errors.New("invalid target language")
)

// Direction decides which side of a word pair is asked for
type Direction string

const (
	// DirectionSourceTarget shows the source term and expects the target
	DirectionSourceTarget Direction = "source-target"
	// DirectionTargetSource shows the target term and expects the source
	DirectionTargetSource Direction = "target-source"
)

// ParseDirection parses a direction, accepting the legacy sv-target/target-sv spellings
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "source-target", "sv-target":
		return DirectionSourceTarget, nil
	case "target-source", "target-sv":
		return DirectionTargetSource, nil
	}
	return "", ErrInvalidDirection
}

// TargetLanguages lists the languages a user can practise
var TargetLanguages = map[string]string{
	"en": "Engelska",
	"de": "Tyska",
	"es": "Spanska",
}

// Setting keys as stored in the key/value settings table
const (
	SettingCaseSensitive  = "case_sensitive"
	SettingDirection      = "direction"
	SettingSoundEnabled   = "sound_enabled"
	SettingTargetLanguage = "target_language"
)

// Settings holds a user's practice preferences
type Settings struct {
	CaseSensitive  bool      `json:"caseSensitive"`
	Direction      Direction `json:"direction"`
	SoundEnabled   bool      `json:"soundEnabled"`
	TargetLanguage string    `json:"targetLanguage"`
}

// DefaultSettings returns the settings used when a user has saved none
func DefaultSettings() Settings {
	return Settings{
		CaseSensitive:  true,
		Direction:      DirectionSourceTarget,
		SoundEnabled:   true,
		TargetLanguage: "en",
	}
}

// SettingsFromValues builds settings from stored key/value pairs.
// Missing or unparsable values keep their defaults.
func SettingsFromValues(values map[string]string) Settings {
	s := DefaultSettings()
	if v, ok := values[SettingCaseSensitive]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.CaseSensitive = b
		}
	}
	if v, ok := values[SettingDirection]; ok {
		if d, err := ParseDirection(v); err == nil {
			s.Direction = d
		}
	}
	if v, ok := values[SettingSoundEnabled]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.SoundEnabled = b
		}
	}
	if v, ok := values[SettingTargetLanguage]; ok {
		if _, known := TargetLanguages[v]; known {
			s.TargetLanguage = v
		}
	}
	return s
}

// Values converts settings to key/value pairs for storage
func (s Settings) Values() map[string]string {
	return map[string]string{
		SettingCaseSensitive:  strconv.FormatBool(s.CaseSensitive),
		SettingDirection:      string(s.Direction),
		SettingSoundEnabled:   strconv.FormatBool(s.SoundEnabled),
		SettingTargetLanguage: s.TargetLanguage,
	}
}

// Validate checks the direction and target language
func (s Settings) Validate() error {
	if _, err := ParseDirection(string(s.Direction)); err != nil {
		return err
	}
	if _, ok := TargetLanguages[s.TargetLanguage]; !ok {
		return ErrInvalidLanguage
	}
	return nil
}
