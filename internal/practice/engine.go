// Package practice holds the flashcard session engine: answer normalisation,
// verb drill prompts, streak encouragement, the deck/queue state machine and
// the timed feedback that sits on top of it.
package practice

import (
	"math/rand"
	"time"

	"glossify/internal/models"
)

// Result is the outcome of one answer
type Result struct {
	Correct   bool            `json:"correct"`
	Card      models.WordPair `json:"card"`
	NewStreak int             `json:"newStreak"`
	// Expected is the answer the input was compared against
	Expected string `json:"expected"`
}

// ResultFunc receives the outcome of AnswerCurrent synchronously
type ResultFunc func(correct bool, card models.WordPair, newStreak int)

// EngineOptions configures an Engine
type EngineOptions struct {
	// DeterministicOrder keeps the deck order instead of shuffling
	DeterministicOrder bool
	// Rand is the shuffle source; nil seeds one from the clock
	Rand *rand.Rand
}

// State is a copy of the engine state for display
type State struct {
	Queue                []models.WordPair  `json:"queue"`
	Index                int                `json:"index"`
	Current              *models.WordPair   `json:"current"`
	TotalAnswered        int                `json:"totalAnswered"`
	Score                int                `json:"score"`
	Streak               int                `json:"streak"`
	WrongPairs           [][2]string        `json:"wrongPairs"`
	LastMistakes         [][2]string        `json:"lastMistakes"`
	IsRetrySession       bool               `json:"isRetrySession"`
	OriginalSessionStats *models.RoundStats `json:"originalSessionStats"`
}

// Complete reports whether the round has run out of cards
func (s State) Complete() bool {
	return s.Current == nil
}

// Engine owns the deck, the queue being iterated and the score of a practice
// session. It is not safe for concurrent use; Orchestrator serialises access.
type Engine struct {
	deterministic bool
	rng           *rand.Rand

	deck    []models.WordPair
	queue   []models.WordPair
	index   int
	current *models.WordPair

	totalAnswered int
	score         int
	streak        int
	wrongPairs    [][2]string
	lastMistakes  [][2]string

	isRetry  bool
	original *models.RoundStats
}

// NewEngine creates an empty engine; LoadWords starts the first round
func NewEngine(opts EngineOptions) *Engine {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		deterministic: opts.DeterministicOrder,
		rng:           rng,
	}
}

// LoadWords replaces the deck and starts a fresh, non-retry round
func (e *Engine) LoadWords(words []models.WordPair) {
	e.deck = append([]models.WordPair(nil), words...)
	e.queue = append([]models.WordPair(nil), words...)
	if !e.deterministic {
		e.rng.Shuffle(len(e.queue), func(i, j int) {
			e.queue[i], e.queue[j] = e.queue[j], e.queue[i]
		})
	}

	e.startRound()
	e.lastMistakes = nil
	e.isRetry = false
	e.original = nil
}

// AnswerCurrent evaluates raw against the current card. It does nothing and
// returns false when the round is complete. With a partial prompt only the
// elided verb is accepted. The index is never advanced here.
func (e *Engine) AnswerCurrent(raw string, normalize NormalizeFunc, onResult ResultFunc, dir models.Direction, partial *PartialPrompt) (Result, bool) {
	if e.current == nil {
		return Result{}, false
	}
	if normalize == nil {
		normalize = Normalizer(NormalizeOptions{CaseSensitive: true})
	}

	card := *e.current
	expected := card.Target
	if dir == models.DirectionTargetSource {
		expected = card.Source
	}
	if partial != nil {
		expected = partial.ExpectedAnswer
	}

	correct := normalize(raw) == normalize(expected)
	e.totalAnswered++
	if correct {
		e.score++
		e.streak++
	} else {
		e.wrongPairs = append(e.wrongPairs, card.Tuple())
		e.streak = 0
	}

	res := Result{Correct: correct, Card: card, NewStreak: e.streak, Expected: expected}
	if onResult != nil {
		onResult(res.Correct, res.Card, res.NewStreak)
	}
	return res, true
}

// Advance moves to the next card, or marks the round complete when the
// queue is exhausted
func (e *Engine) Advance() {
	if e.current == nil {
		return
	}

	e.index++
	if e.index < len(e.queue) {
		next := e.queue[e.index]
		e.current = &next
		return
	}

	e.current = nil
	e.index = -1
	e.lastMistakes = append([][2]string(nil), e.wrongPairs...)
}

// ResetToWrong starts a retry round over the given [source, target] pairs in
// the order supplied. An empty list leaves the engine untouched. The score of
// the first round is kept as the original session stats.
func (e *Engine) ResetToWrong(wrong [][2]string) {
	if len(wrong) == 0 {
		return
	}

	if e.original == nil {
		e.original = &models.RoundStats{Score: e.score, Total: e.totalAnswered}
	}

	e.queue = make([]models.WordPair, len(wrong))
	for i, t := range wrong {
		e.queue[i] = models.PairFromTuple(t)
	}
	e.startRound()
	e.isRetry = true
}

func (e *Engine) startRound() {
	e.index = 0
	e.current = nil
	if len(e.queue) > 0 {
		first := e.queue[0]
		e.current = &first
	}
	e.totalAnswered = 0
	e.score = 0
	e.streak = 0
	e.wrongPairs = nil
}

// Current returns a copy of the card being asked, or nil when the round is complete
func (e *Engine) Current() *models.WordPair {
	if e.current == nil {
		return nil
	}
	c := *e.current
	return &c
}

// Streak returns the current run of correct answers
func (e *Engine) Streak() int {
	return e.streak
}

// WrongPairs returns the pairs missed in the current round
func (e *Engine) WrongPairs() [][2]string {
	return append([][2]string(nil), e.wrongPairs...)
}

// LastMistakes returns the pairs missed in the most recently completed round
func (e *Engine) LastMistakes() [][2]string {
	return append([][2]string(nil), e.lastMistakes...)
}

// Deck returns the full deck loaded by the last LoadWords
func (e *Engine) Deck() []models.WordPair {
	return append([]models.WordPair(nil), e.deck...)
}

// Snapshot copies the engine state
func (e *Engine) Snapshot() State {
	s := State{
		Queue:          append([]models.WordPair(nil), e.queue...),
		Index:          e.index,
		Current:        e.Current(),
		TotalAnswered:  e.totalAnswered,
		Score:          e.score,
		Streak:         e.streak,
		WrongPairs:     e.WrongPairs(),
		LastMistakes:   e.LastMistakes(),
		IsRetrySession: e.isRetry,
	}
	if e.original != nil {
		stats := *e.original
		s.OriginalSessionStats = &stats
	}
	return s
}
