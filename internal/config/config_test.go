package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_TYPE", "JWT_SECRET", "FEEDBACK_DURATION", "CELEBRATION_DURATION", "STREAK_POLICY", "DETERMINISTIC_ORDER", "LENIENT_ANSWERS", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, 1200*time.Millisecond, cfg.FeedbackDuration)
	assert.Equal(t, 3200*time.Millisecond, cfg.CelebrationDuration)
	assert.Equal(t, "milestone", cfg.StreakPolicy)
	assert.False(t, cfg.DeterministicOrder)
	assert.False(t, cfg.LenientAnswers)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.True(t, cfg.SingleUser())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_TYPE", "Postgres")
	t.Setenv("FEEDBACK_DURATION", "500")
	t.Setenv("CELEBRATION_DURATION", "2s")
	t.Setenv("DETERMINISTIC_ORDER", "true")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LENIENT_ANSWERS", "1")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, 500*time.Millisecond, cfg.FeedbackDuration)
	assert.Equal(t, 2*time.Second, cfg.CelebrationDuration)
	assert.True(t, cfg.DeterministicOrder)
	assert.True(t, cfg.LenientAnswers)
	assert.False(t, cfg.SingleUser())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("FEEDBACK_DURATION", "soon")
	t.Setenv("DETERMINISTIC_ORDER", "maybe")
	t.Setenv("HISTORY_LIMIT", "-3")

	cfg := Load()
	assert.Equal(t, 1200*time.Millisecond, cfg.FeedbackDuration)
	assert.False(t, cfg.DeterministicOrder)
	assert.Equal(t, 20, cfg.HistoryLimit)
}
