package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glossify/internal/database"
	"glossify/internal/models"
	"glossify/migrations"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Initialize(database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(migrations.FS, nil))
	return db
}

func TestWordListRepository(t *testing.T) {
	repo := NewWordListRepository(setupTestDB(t))

	_, found, err := repo.GetWordList("u1", models.ListWeekly)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.SaveWordList("u1", models.ListWeekly, "bara;nur"))
	require.NoError(t, repo.SaveWordList("u1", models.ListWeekly, "redan;schon"))
	require.NoError(t, repo.SaveWordList("u1", models.ListAll, "huset;das Haus"))
	require.NoError(t, repo.SaveWordList("u2", models.ListVerbs, "jag sover;ich schlafe"))

	content, found, err := repo.GetWordList("u1", models.ListWeekly)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "redan;schon", content, "saving again replaces the list")

	names, err := repo.ListNames("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{models.ListAll, models.ListWeekly}, names)

	_, found, err = repo.GetWordList("u2", models.ListWeekly)
	require.NoError(t, err)
	assert.False(t, found, "lists are per user")

	require.NoError(t, repo.DeleteWordList("u1", models.ListAll))
	names, err = repo.ListNames("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{models.ListWeekly}, names)
}

func TestSettingsRepository(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))

	values, err := repo.GetSettings("u1")
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, repo.SetSetting("u1", models.SettingDirection, "target-source"))
	require.NoError(t, repo.SetSettings("u1", map[string]string{
		models.SettingDirection:     "source-target",
		models.SettingCaseSensitive: "false",
	}))
	require.NoError(t, repo.SetSetting("u2", models.SettingSoundEnabled, "false"))

	values, err = repo.GetSettings("u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		models.SettingDirection:     "source-target",
		models.SettingCaseSensitive: "false",
	}, values)
}

func TestPracticeRepository(t *testing.T) {
	repo := NewPracticeRepository(setupTestDB(t))
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		round := &models.PracticeRound{
			SessionID:   "s1",
			UserID:      "u1",
			ListName:    models.ListWeekly,
			IsRetry:     i > 0,
			Score:       4 + i,
			Total:       5 + i,
			WrongCount:  1,
			StartedAt:   start.Add(time.Duration(i) * time.Hour),
			CompletedAt: start.Add(time.Duration(i)*time.Hour + 5*time.Minute),
		}
		require.NoError(t, repo.RecordRound(round))
		assert.Positive(t, round.ID)
	}
	require.NoError(t, repo.RecordRound(&models.PracticeRound{
		SessionID: "s2", UserID: "u2", ListName: models.ListVerbs,
		StartedAt: start, CompletedAt: start,
	}))

	rounds, err := repo.GetRecentRounds("u1", 2)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, 6, rounds[0].Score, "newest first")
	assert.True(t, rounds[0].IsRetry)
	assert.Equal(t, 5, rounds[1].Score)
	assert.True(t, rounds[0].CompletedAt.Equal(start.Add(2*time.Hour+5*time.Minute)))

	count, err := repo.CountRounds("u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
