package practice

import (
	"sync"
	"time"

	"glossify/internal/models"
)

// Default feedback display durations
const (
	DefaultFeedbackDuration    = 1200 * time.Millisecond
	DefaultCelebrationDuration = 3200 * time.Millisecond
)

// Timer is the part of *time.Timer the orchestrator needs
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FeedbackOptions configures an Orchestrator
type FeedbackOptions struct {
	Base        time.Duration
	Celebration time.Duration
	AfterFunc   AfterFunc
	// OnRoundComplete is called, outside the orchestrator lock, each time an
	// advance finishes a round
	OnRoundComplete func(State)
}

// Feedback is what the user sees after submitting an answer
type Feedback struct {
	Result      Result        `json:"result"`
	Text        string        `json:"text"`
	Message     string        `json:"message,omitempty"`
	Celebration bool          `json:"celebration"`
	Duration    time.Duration `json:"duration"`
}

// Orchestrator sequences submit, feedback display and advance on top of an
// Engine. A generation counter invalidates timers left over from a session
// that was reloaded or reset while feedback was showing.
type Orchestrator struct {
	mu      sync.Mutex
	engine  *Engine
	streaks *StreakEvaluator
	opts    FeedbackOptions

	generation uint64
	pending    bool
	timer      Timer
	feedback   *Feedback
}

// NewOrchestrator wraps engine. Zero durations take the defaults.
func NewOrchestrator(engine *Engine, streaks *StreakEvaluator, opts FeedbackOptions) *Orchestrator {
	if opts.Base <= 0 {
		opts.Base = DefaultFeedbackDuration
	}
	if opts.Celebration <= 0 {
		opts.Celebration = DefaultCelebrationDuration
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	if streaks == nil {
		streaks = NewStreakEvaluator(PolicyMilestone, false, nil)
	}
	return &Orchestrator{
		engine:  engine,
		streaks: streaks,
		opts:    opts,
	}
}

// Load starts a fresh round over words, cancelling any pending advance
func (o *Orchestrator) Load(words []models.WordPair) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.invalidateLocked()
	o.engine.LoadWords(words)
}

// ResetToWrong starts a retry round, cancelling any pending advance.
// An empty list changes nothing.
func (o *Orchestrator) ResetToWrong(wrong [][2]string) bool {
	if len(wrong) == 0 {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.invalidateLocked()
	o.engine.ResetToWrong(wrong)
	return true
}

// PromptResolver returns the partial prompt for a card, or nil to grade
// against the whole answer
type PromptResolver func(card models.WordPair) *PartialPrompt

// Submit answers the current card and schedules the advance. It returns
// false without touching the engine while feedback for the card is still
// pending or when the round is complete. resolve runs under the lock
// against the card being graded; nil means no partial prompts.
func (o *Orchestrator) Submit(raw string, normalize NormalizeFunc, dir models.Direction, resolve PromptResolver) (Feedback, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.pending {
		return Feedback{}, false
	}

	// decided before the answer is committed so the display time can be stretched
	message := o.streaks.Evaluate(o.engine.Streak() + 1)

	var partial *PartialPrompt
	if current := o.engine.Current(); current != nil && resolve != nil {
		partial = resolve(*current)
	}

	res, ok := o.engine.AnswerCurrent(raw, normalize, nil, dir, partial)
	if !ok {
		return Feedback{}, false
	}

	fb := Feedback{Result: res, Duration: o.opts.Base}
	if res.Correct {
		fb.Text = "✓ Rätt!"
		if message != "" {
			fb.Message = message
			fb.Text += " " + message
			fb.Duration = o.opts.Celebration
			fb.Celebration = IsMilestone(res.NewStreak)
		}
	} else {
		answer := res.Card.Target
		if dir == models.DirectionTargetSource {
			answer = res.Card.Source
		}
		fb.Text = "✗ Fel, rätt svar är: " + answer
	}

	o.pending = true
	o.feedback = &fb
	gen := o.generation
	o.timer = o.opts.AfterFunc(fb.Duration, func() {
		o.fire(gen)
	})
	return fb, true
}

// AdvanceNow skips the rest of the feedback wait. It returns false when no
// feedback is pending.
func (o *Orchestrator) AdvanceNow() bool {
	o.mu.Lock()
	if !o.pending {
		o.mu.Unlock()
		return false
	}
	o.invalidateLocked()
	state, finished := o.advanceLocked()
	o.mu.Unlock()

	o.roundComplete(state, finished)
	return true
}

// Pending reports whether feedback is showing and the advance has not happened yet
func (o *Orchestrator) Pending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending
}

// Feedback returns the feedback currently displayed, if any
func (o *Orchestrator) Feedback() *Feedback {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.feedback == nil {
		return nil
	}
	fb := *o.feedback
	return &fb
}

// State returns a snapshot of the engine
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.Snapshot()
}

// Deck returns the deck of the current session
func (o *Orchestrator) Deck() []models.WordPair {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.Deck()
}

// Stop cancels any pending advance, e.g. when the session is discarded
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.invalidateLocked()
}

func (o *Orchestrator) fire(gen uint64) {
	o.mu.Lock()
	if gen != o.generation || !o.pending {
		o.mu.Unlock()
		return
	}
	o.timer = nil
	state, finished := o.advanceLocked()
	o.mu.Unlock()

	o.roundComplete(state, finished)
}

func (o *Orchestrator) advanceLocked() (State, bool) {
	o.pending = false
	o.feedback = nil
	o.engine.Advance()
	state := o.engine.Snapshot()
	return state, state.Complete()
}

func (o *Orchestrator) invalidateLocked() {
	o.generation++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.pending = false
	o.feedback = nil
}

func (o *Orchestrator) roundComplete(state State, finished bool) {
	if finished && o.opts.OnRoundComplete != nil {
		o.opts.OnRoundComplete(state)
	}
}
