package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"glossify/internal/models"
	"glossify/internal/practice"
)

// RoundStore persists finished rounds
type RoundStore interface {
	RecordRound(round *models.PracticeRound) error
	GetRecentRounds(userID string, limit int) ([]models.PracticeRound, error)
}

// PracticeOptions configures sessions created by PracticeService
type PracticeOptions struct {
	FeedbackDuration      time.Duration
	CelebrationDuration   time.Duration
	StreakPolicy          practice.StreakPolicy
	DeterministicOrder    bool
	DeterministicMessages bool
	NormalizeLevel        practice.NormalizeLevel
	IdleTimeout           time.Duration
	HistoryLimit          int

	// AfterFunc and Now replace the real clock in tests
	AfterFunc practice.AfterFunc
	Now       func() time.Time
}

// SessionView is the client's view of a session. The queue itself is not
// exposed so upcoming answers stay hidden.
type SessionView struct {
	ID                   string             `json:"id"`
	ListName             string             `json:"listName"`
	Direction            models.Direction   `json:"direction"`
	Verbs                bool               `json:"verbs"`
	Question             string             `json:"question,omitempty"`
	Prompt               string             `json:"prompt,omitempty"`
	Position             int                `json:"position"`
	Remaining            int                `json:"remaining"`
	Total                int                `json:"total"`
	Score                int                `json:"score"`
	TotalAnswered        int                `json:"totalAnswered"`
	Streak               int                `json:"streak"`
	WrongPairs           [][2]string        `json:"wrongPairs"`
	LastMistakes         [][2]string        `json:"lastMistakes"`
	IsRetrySession       bool               `json:"isRetrySession"`
	OriginalSessionStats *models.RoundStats `json:"originalSessionStats,omitempty"`
	Complete             bool               `json:"complete"`
	Pending              bool               `json:"pending"`
	Feedback             *practice.Feedback `json:"feedback,omitempty"`
}

// PracticeService runs practice sessions on top of the practice engine
type PracticeService struct {
	lists    *ListService
	settings *SettingsService
	rounds   RoundStore
	store    *SessionStore
	metrics  *Metrics
	opts     PracticeOptions
	logger   *zap.Logger
}

// NewPracticeService creates a new practice service
func NewPracticeService(lists *ListService, settings *SettingsService, rounds RoundStore, store *SessionStore, metrics *Metrics, opts PracticeOptions, logger *zap.Logger) *PracticeService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 20
	}
	if opts.StreakPolicy == "" {
		opts.StreakPolicy = practice.PolicyMilestone
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PracticeService{
		lists:    lists,
		settings: settings,
		rounds:   rounds,
		store:    store,
		metrics:  metrics,
		opts:     opts,
		logger:   logger,
	}
}

// Start begins a session over the named list, replacing any session the
// user already has. Verb prompts are used when verbs is set or the list is
// the built-in verbs list.
func (s *PracticeService) Start(userID, listName string, verbs bool) (*SessionView, error) {
	list, err := s.lists.Get(userID, listName)
	if err != nil {
		return nil, err
	}
	if len(list.Pairs) == 0 {
		return nil, ErrEmptyList
	}

	settings, err := s.settings.Get(userID)
	if err != nil {
		s.logger.Warn("Using default settings", zap.String("user", userID), zap.Error(err))
	}

	now := s.opts.Now()
	sess := &Session{
		ID:        NewSessionID(),
		UserID:    userID,
		ListName:  listName,
		Verbs:     verbs || listName == models.ListVerbs,
		Settings:  settings,
		StartedAt: now,
		Normalize: practice.Normalizer(practice.NormalizeOptions{
			CaseSensitive: settings.CaseSensitive,
			Level:         s.opts.NormalizeLevel,
		}),
	}
	sess.touch(now)
	sess.startRound(now)

	engine := practice.NewEngine(practice.EngineOptions{DeterministicOrder: s.opts.DeterministicOrder})
	streaks := practice.NewStreakEvaluator(s.opts.StreakPolicy, s.opts.DeterministicMessages, nil)
	sess.Orch = practice.NewOrchestrator(engine, streaks, practice.FeedbackOptions{
		Base:        s.opts.FeedbackDuration,
		Celebration: s.opts.CelebrationDuration,
		AfterFunc:   s.opts.AfterFunc,
		OnRoundComplete: func(state practice.State) {
			s.roundFinished(sess, state)
		},
	})
	sess.Orch.Load(list.Pairs)

	s.store.Put(sess)
	s.metrics.SessionsStarted.WithLabelValues(listName).Inc()
	s.metrics.ActiveSessions.Set(float64(s.store.Len()))
	s.logger.Info("Practice session started",
		zap.String("session", sess.ID),
		zap.String("user", userID),
		zap.String("list", listName),
		zap.Int("cards", len(list.Pairs)),
		zap.Bool("verbs", sess.Verbs),
	)

	return s.view(sess), nil
}

// State returns the current view of a session
func (s *PracticeService) State(userID, id string) (*SessionView, error) {
	sess, err := s.session(userID, id)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Answer submits an answer for the current card
func (s *PracticeService) Answer(userID, id, answer string) (*practice.Feedback, *SessionView, error) {
	sess, err := s.session(userID, id)
	if err != nil {
		return nil, nil, err
	}

	fb, ok := sess.Orch.Submit(answer, sess.Normalize, sess.Settings.Direction, sess.promptResolver())
	if !ok {
		if sess.Orch.Pending() {
			return nil, nil, ErrFeedbackPending
		}
		return nil, nil, ErrRoundComplete
	}

	s.metrics.observeAnswer(fb.Result.Correct)
	if fb.Celebration {
		s.metrics.Milestones.Inc()
	}
	return &fb, s.view(sess), nil
}

// Next skips the remaining feedback time. Without pending feedback it
// changes nothing.
func (s *PracticeService) Next(userID, id string) (*SessionView, error) {
	sess, err := s.session(userID, id)
	if err != nil {
		return nil, err
	}
	sess.Orch.AdvanceNow()
	return s.view(sess), nil
}

// Retry starts a round over the cards missed in the last finished round
func (s *PracticeService) Retry(userID, id string) (*SessionView, error) {
	sess, err := s.session(userID, id)
	if err != nil {
		return nil, err
	}

	wrong := sess.Orch.State().LastMistakes
	if len(wrong) == 0 {
		return nil, ErrNothingToRetry
	}
	sess.startRound(s.opts.Now())
	sess.Orch.ResetToWrong(wrong)
	return s.view(sess), nil
}

// Restart reloads the full deck in a fresh order
func (s *PracticeService) Restart(userID, id string) (*SessionView, error) {
	sess, err := s.session(userID, id)
	if err != nil {
		return nil, err
	}

	sess.startRound(s.opts.Now())
	sess.Orch.Load(sess.Orch.Deck())
	return s.view(sess), nil
}

// End discards a session
func (s *PracticeService) End(userID, id string) error {
	if _, err := s.session(userID, id); err != nil {
		return err
	}
	s.store.Delete(id)
	s.metrics.ActiveSessions.Set(float64(s.store.Len()))
	return nil
}

// History returns the user's most recent finished rounds
func (s *PracticeService) History(userID string) ([]models.PracticeRound, error) {
	rounds, err := s.rounds.GetRecentRounds(userID, s.opts.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if rounds == nil {
		rounds = []models.PracticeRound{}
	}
	return rounds, nil
}

// SweepIdle drops sessions nobody has touched within the idle timeout
func (s *PracticeService) SweepIdle() int {
	removed := s.store.Sweep(s.opts.Now().Add(-s.opts.IdleTimeout))
	s.metrics.ActiveSessions.Set(float64(s.store.Len()))
	if removed > 0 {
		s.logger.Info("Expired idle practice sessions", zap.Int("count", removed))
	}
	return removed
}

func (s *PracticeService) session(userID, id string) (*Session, error) {
	sess, ok := s.store.Get(userID, id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.opts.Now())
	return sess, nil
}

func (s *PracticeService) roundFinished(sess *Session, state practice.State) {
	s.metrics.observeRound(state.IsRetrySession)
	if s.rounds == nil {
		return
	}

	round := &models.PracticeRound{
		SessionID:   sess.ID,
		UserID:      sess.UserID,
		ListName:    sess.ListName,
		IsRetry:     state.IsRetrySession,
		Score:       state.Score,
		Total:       state.TotalAnswered,
		WrongCount:  len(state.WrongPairs),
		StartedAt:   sess.roundStart(),
		CompletedAt: s.opts.Now(),
	}
	if err := s.rounds.RecordRound(round); err != nil {
		s.logger.Error("Failed to record practice round", zap.String("session", sess.ID), zap.Error(err))
		return
	}
	s.logger.Debug("Practice round recorded",
		zap.String("session", sess.ID),
		zap.Int("score", round.Score),
		zap.Int("total", round.Total),
	)
}

func (s *PracticeService) view(sess *Session) *SessionView {
	state := sess.Orch.State()
	v := &SessionView{
		ID:                   sess.ID,
		ListName:             sess.ListName,
		Direction:            sess.Settings.Direction,
		Verbs:                sess.Verbs,
		Total:                len(state.Queue),
		Score:                state.Score,
		TotalAnswered:        state.TotalAnswered,
		Streak:               state.Streak,
		WrongPairs:           nonNil(state.WrongPairs),
		LastMistakes:         nonNil(state.LastMistakes),
		IsRetrySession:       state.IsRetrySession,
		OriginalSessionStats: state.OriginalSessionStats,
		Complete:             state.Complete(),
		Pending:              sess.Orch.Pending(),
		Feedback:             sess.Orch.Feedback(),
	}

	if state.Current != nil {
		v.Position = state.Index + 1
		v.Remaining = len(state.Queue) - state.Index
		v.Question = state.Current.Source
		if sess.Settings.Direction == models.DirectionTargetSource {
			v.Question = state.Current.Target
		}
		if partial := sess.partialPrompt(state.Current); partial != nil {
			v.Question = partial.Question
			v.Prompt = partial.Prompt
		}
	}
	return v
}

func nonNil(pairs [][2]string) [][2]string {
	if pairs == nil {
		return [][2]string{}
	}
	return pairs
}
