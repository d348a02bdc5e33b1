package service

import (
	"sync"
	"time"

	"glossify/internal/models"
	"glossify/internal/practice"
	"glossify/internal/security"
)

// Session is one user's live practice session
type Session struct {
	ID        string
	UserID    string
	ListName  string
	Verbs     bool
	Settings  models.Settings
	Normalize practice.NormalizeFunc
	Orch      *practice.Orchestrator
	StartedAt time.Time

	mu             sync.Mutex
	lastActive     time.Time
	roundStartedAt time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) startRound(now time.Time) {
	s.mu.Lock()
	s.roundStartedAt = now
	s.mu.Unlock()
}

func (s *Session) roundStart() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roundStartedAt
}

// partialPrompt resolves the verb prompt for the current card, if any
func (s *Session) partialPrompt(current *models.WordPair) *practice.PartialPrompt {
	if !s.Verbs || current == nil {
		return nil
	}
	return practice.ResolvePartialPrompt(*current, s.Settings.Direction)
}

// promptResolver returns the verb prompt resolver for Submit, or nil when
// the session does not drill verbs
func (s *Session) promptResolver() practice.PromptResolver {
	if !s.Verbs {
		return nil
	}
	return func(card models.WordPair) *practice.PartialPrompt {
		return s.partialPrompt(&card)
	}
}

// SessionStore holds live sessions in memory, at most one per user
type SessionStore struct {
	mu     sync.RWMutex
	byID   map[string]*Session
	byUser map[string]string
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		byID:   make(map[string]*Session),
		byUser: make(map[string]string),
	}
}

// NewSessionID returns a random session identifier
func NewSessionID() string {
	return security.GenerateSessionID()
}

// Put stores sess, stopping and dropping any earlier session of the same user
func (st *SessionStore) Put(sess *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if oldID, ok := st.byUser[sess.UserID]; ok && oldID != sess.ID {
		if old := st.byID[oldID]; old != nil {
			old.Orch.Stop()
		}
		delete(st.byID, oldID)
	}
	st.byID[sess.ID] = sess
	st.byUser[sess.UserID] = sess.ID
}

// Get returns the session with id if it belongs to userID
func (st *SessionStore) Get(userID, id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	sess, ok := st.byID[id]
	if !ok || sess.UserID != userID {
		return nil, false
	}
	return sess, true
}

// Delete stops and removes a session
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.deleteLocked(id)
}

func (st *SessionStore) deleteLocked(id string) {
	sess, ok := st.byID[id]
	if !ok {
		return
	}
	sess.Orch.Stop()
	delete(st.byID, id)
	if st.byUser[sess.UserID] == id {
		delete(st.byUser, sess.UserID)
	}
}

// Sweep removes sessions idle since before cutoff and returns how many went
func (st *SessionStore) Sweep(cutoff time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.byID {
		if sess.idleSince().Before(cutoff) {
			st.deleteLocked(id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.byID)
}
