package service

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glossify/internal/database"
	"glossify/internal/models"
	"glossify/internal/practice"
	"glossify/internal/repository"
	"glossify/migrations"
)

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) practice.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fireAll runs every timer that has not been stopped
func (c *manualClock) fireAll() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.f()
		}
	}
}

type fixture struct {
	db       *database.DB
	lists    *ListService
	settings *SettingsService
	practice *PracticeService
	rounds   *repository.PracticeRepository
	store    *SessionStore
	metrics  *Metrics
	clock    *manualClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Initialize(database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(migrations.FS, nil))

	clock := &manualClock{now: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)}
	f := &fixture{
		db:       db,
		lists:    NewListService(repository.NewWordListRepository(db)),
		settings: NewSettingsService(repository.NewSettingsRepository(db)),
		rounds:   repository.NewPracticeRepository(db),
		store:    NewSessionStore(),
		metrics:  NewMetrics(prometheus.NewRegistry()),
		clock:    clock,
	}
	f.practice = NewPracticeService(f.lists, f.settings, f.rounds, f.store, f.metrics, PracticeOptions{
		DeterministicOrder:    true,
		DeterministicMessages: true,
		IdleTimeout:           10 * time.Minute,
		AfterFunc:             clock.AfterFunc,
		Now:                   clock.Now,
	}, nil)
	return f
}

func TestListServiceFallsBackToDefaults(t *testing.T) {
	f := newFixture(t)

	list, err := f.lists.Get("u1", models.ListWeekly)
	require.NoError(t, err)
	assert.True(t, list.Builtin)
	assert.NotEmpty(t, list.Pairs)

	_, err = f.lists.Save("u1", models.ListWeekly, "svenska;tyska\nbara;nur")
	require.NoError(t, err)
	list, err = f.lists.Get("u1", models.ListWeekly)
	require.NoError(t, err)
	assert.False(t, list.Builtin)
	assert.Equal(t, []models.WordPair{{Source: "bara", Target: "nur"}}, list.Pairs)

	// a stored list with no valid lines does not hide the default
	require.NoError(t, repository.NewWordListRepository(f.db).SaveWordList("u1", models.ListAll, "nonsense"))
	list, err = f.lists.Get("u1", models.ListAll)
	require.NoError(t, err)
	assert.True(t, list.Builtin)

	_, err = f.lists.Get("u1", "custom")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestListServiceValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.lists.Save("u1", "../etc", "bara;nur")
	assert.ErrorIs(t, err, ErrInvalidListName)

	_, err = f.lists.Save("u1", "custom", "svenska;tyska\n\nno separator")
	assert.ErrorIs(t, err, ErrEmptyList)

	_, err = f.lists.Save("u1", "custom", "bara;nur")
	require.NoError(t, err)

	names, err := f.lists.Names("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{models.ListAll, "custom", models.ListVerbs, models.ListWeekly}, names)

	require.NoError(t, f.lists.Delete("u1", "custom"))
	_, err = f.lists.Get("u1", "custom")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestListServiceImport(t *testing.T) {
	f := newFixture(t)

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("bara;nur\nfoo\n"), 0o644))

	result, err := f.lists.Import("u1", "imported", path)
	require.NoError(t, err)
	assert.Len(t, result.Pairs, 1)

	list, err := f.lists.Get("u1", "imported")
	require.NoError(t, err)
	assert.Equal(t, "bara;nur", list.Content)
}

func TestSettingsService(t *testing.T) {
	f := newFixture(t)

	s, err := f.settings.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)

	s.CaseSensitive = false
	s.Direction = "target-sv"
	require.NoError(t, f.settings.Update("u1", s))

	got, err := f.settings.Get("u1")
	require.NoError(t, err)
	assert.False(t, got.CaseSensitive)
	assert.Equal(t, models.DirectionTargetSource, got.Direction)

	s.Direction = "diagonal"
	assert.ErrorIs(t, f.settings.Update("u1", s), models.ErrInvalidDirection)
}

func saveTwoCards(t *testing.T, f *fixture) {
	t.Helper()
	_, err := f.lists.Save("u1", models.ListWeekly, "bara;nur\nredan;schon")
	require.NoError(t, err)
}

func TestPracticeSessionLifecycle(t *testing.T) {
	f := newFixture(t)
	saveTwoCards(t, f)

	view, err := f.practice.Start("u1", models.ListWeekly, false)
	require.NoError(t, err)
	assert.Equal(t, "bara", view.Question)
	assert.Equal(t, 1, view.Position)
	assert.Equal(t, 2, view.Total)

	fb, view, err := f.practice.Answer("u1", view.ID, "nur")
	require.NoError(t, err)
	assert.True(t, fb.Result.Correct)
	assert.True(t, view.Pending)

	_, _, err = f.practice.Answer("u1", view.ID, "nur")
	assert.ErrorIs(t, err, ErrFeedbackPending)

	f.clock.fireAll()
	view, err = f.practice.State("u1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, "redan", view.Question)
	assert.False(t, view.Pending)

	fb, _, err = f.practice.Answer("u1", view.ID, "fel")
	require.NoError(t, err)
	assert.Equal(t, "✗ Fel, rätt svar är: schon", fb.Text)

	view, err = f.practice.Next("u1", view.ID)
	require.NoError(t, err)
	assert.True(t, view.Complete)
	assert.Equal(t, [][2]string{{"redan", "schon"}}, view.LastMistakes)

	_, _, err = f.practice.Answer("u1", view.ID, "schon")
	assert.ErrorIs(t, err, ErrRoundComplete)

	history, err := f.practice.History("u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Score)
	assert.Equal(t, 2, history[0].Total)
	assert.Equal(t, 1, history[0].WrongCount)
	assert.False(t, history[0].IsRetry)

	view, err = f.practice.Retry("u1", view.ID)
	require.NoError(t, err)
	assert.True(t, view.IsRetrySession)
	assert.Equal(t, "redan", view.Question)
	assert.Equal(t, &models.RoundStats{Score: 1, Total: 2}, view.OriginalSessionStats)

	f.practice.Answer("u1", view.ID, "schon")
	f.clock.fireAll()

	history, err = f.practice.History("u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsRetry)

	_, err = f.practice.Retry("u1", view.ID)
	assert.ErrorIs(t, err, ErrNothingToRetry)

	view, err = f.practice.Restart("u1", view.ID)
	require.NoError(t, err)
	assert.False(t, view.IsRetrySession)
	assert.Equal(t, 2, view.Total)
	assert.Nil(t, view.OriginalSessionStats)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.RoundsCompleted.WithLabelValues("first"))+testutil.ToFloat64(f.metrics.RoundsCompleted.WithLabelValues("retry")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Answers.WithLabelValues("correct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Answers.WithLabelValues("wrong")))
}

func TestPracticeUsesSettings(t *testing.T) {
	f := newFixture(t)
	saveTwoCards(t, f)
	require.NoError(t, f.settings.Update("u1", models.Settings{
		CaseSensitive:  false,
		Direction:      models.DirectionTargetSource,
		TargetLanguage: "de",
	}))

	view, err := f.practice.Start("u1", models.ListWeekly, false)
	require.NoError(t, err)
	assert.Equal(t, "nur", view.Question)

	fb, _, err := f.practice.Answer("u1", view.ID, "BARA")
	require.NoError(t, err)
	assert.True(t, fb.Result.Correct)
}

func TestPracticeVerbPrompts(t *testing.T) {
	f := newFixture(t)
	_, err := f.lists.Save("u1", models.ListVerbs, "jag sover;ich schlafe")
	require.NoError(t, err)

	view, err := f.practice.Start("u1", models.ListVerbs, false)
	require.NoError(t, err)
	assert.True(t, view.Verbs)
	assert.Equal(t, "jag sover", view.Question)
	assert.Equal(t, "ich ___", view.Prompt)

	fb, _, err := f.practice.Answer("u1", view.ID, "schlafe")
	require.NoError(t, err)
	assert.True(t, fb.Result.Correct)
}

func TestPracticeVerbPromptFollowsTimerAdvance(t *testing.T) {
	f := newFixture(t)
	_, err := f.lists.Save("u1", models.ListVerbs, "jag sover;ich schlafe\ndu äter;du isst")
	require.NoError(t, err)

	view, err := f.practice.Start("u1", models.ListVerbs, false)
	require.NoError(t, err)
	_, view, err = f.practice.Answer("u1", view.ID, "schlafe")
	require.NoError(t, err)
	assert.Equal(t, "jag sover", view.Question, "client still sees the first card")

	// feedback timer advances before the next answer arrives
	f.clock.fireAll()

	fb, view, err := f.practice.Answer("u1", view.ID, "isst")
	require.NoError(t, err)
	assert.True(t, fb.Result.Correct)
	assert.Equal(t, "isst", fb.Result.Expected)
	assert.Equal(t, 2, view.Score)
	assert.Empty(t, view.WrongPairs)
}

func TestPracticeSessionsArePerUser(t *testing.T) {
	f := newFixture(t)

	first, err := f.practice.Start("u1", models.ListWeekly, false)
	require.NoError(t, err)

	_, err = f.practice.State("u2", first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	second, err := f.practice.Start("u1", models.ListAll, false)
	require.NoError(t, err)
	_, err = f.practice.State("u1", first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "a new session replaces the old one")
	assert.Equal(t, 1, f.store.Len())

	require.NoError(t, f.practice.End("u1", second.ID))
	assert.Equal(t, 0, f.store.Len())
	assert.ErrorIs(t, f.practice.End("u1", second.ID), ErrSessionNotFound)
}

func TestPracticeStartErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.practice.Start("u1", "missing", false)
	assert.ErrorIs(t, err, ErrListNotFound)

	_, err = f.practice.Start("u1", "bad name!", false)
	assert.ErrorIs(t, err, ErrInvalidListName)
}

func TestSweepIdle(t *testing.T) {
	f := newFixture(t)

	old, err := f.practice.Start("u1", models.ListWeekly, false)
	require.NoError(t, err)
	f.clock.Advance(8 * time.Minute)
	fresh, err := f.practice.Start("u2", models.ListWeekly, false)
	require.NoError(t, err)

	f.clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, f.practice.SweepIdle())

	_, err = f.practice.State("u1", old.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.practice.State("u2", fresh.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ActiveSessions))
}

func TestBackupRoundTrip(t *testing.T) {
	f := newFixture(t)
	lists := repository.NewWordListRepository(f.db)
	settings := repository.NewSettingsRepository(f.db)
	backups := NewBackupService(lists, settings, nil)

	saveTwoCards(t, f)
	require.NoError(t, settings.SetSetting("u1", models.SettingDirection, "target-source"))

	var buf bytes.Buffer
	require.NoError(t, backups.ExportToWriter("u1", &buf))

	data, err := backups.ImportFromReader("u2", &buf)
	require.NoError(t, err)
	assert.Equal(t, "u1", data.UserID)
	assert.Equal(t, BackupVersion, data.Version)

	content, found, err := lists.GetWordList("u2", models.ListWeekly)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "bara;nur\nredan;schon", content)

	values, err := settings.GetSettings("u2")
	require.NoError(t, err)
	assert.Equal(t, "target-source", values[models.SettingDirection])

	_, err = backups.ImportFromReader("", bytes.NewBufferString(`{"version":"1.0","lists":[]}`))
	assert.Error(t, err)
}
