package practice

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glossify/internal/models"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) last() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}

// fire runs a timer callback even if it was stopped, as a real timer racing
// with Stop could
func (t *fakeTimer) fire() {
	t.f()
}

func newTestOrchestrator(words []models.WordPair, opts FeedbackOptions) (*Orchestrator, *fakeClock) {
	clock := &fakeClock{}
	opts.AfterFunc = clock.AfterFunc
	o := NewOrchestrator(
		NewEngine(EngineOptions{DeterministicOrder: true}),
		NewStreakEvaluator(PolicyMilestone, true, nil),
		opts,
	)
	o.Load(words)
	return o, clock
}

func TestSubmitCorrectSchedulesAdvance(t *testing.T) {
	o, clock := newTestOrchestrator(twoCardDeck(), FeedbackOptions{})

	fb, ok := o.Submit("nur", caseSensitive, models.DirectionSourceTarget, nil)
	require.True(t, ok)
	assert.True(t, fb.Result.Correct)
	assert.Equal(t, "✓ Rätt!", fb.Text)
	assert.Empty(t, fb.Message)
	assert.Equal(t, DefaultFeedbackDuration, fb.Duration)
	assert.True(t, o.Pending())
	require.NotNil(t, o.Feedback())

	timer := clock.last()
	require.NotNil(t, timer)
	assert.Equal(t, DefaultFeedbackDuration, timer.d)
	assert.Equal(t, "bara", o.State().Current.Source, "still showing the answered card")

	timer.fire()
	assert.False(t, o.Pending())
	assert.Nil(t, o.Feedback())
	assert.Equal(t, "redan", o.State().Current.Source)
}

func TestSubmitWrongShowsCorrectAnswer(t *testing.T) {
	o, _ := newTestOrchestrator(twoCardDeck(), FeedbackOptions{})

	fb, ok := o.Submit("fel", caseSensitive, models.DirectionSourceTarget, nil)
	require.True(t, ok)
	assert.Equal(t, "✗ Fel, rätt svar är: nur", fb.Text)
	assert.Equal(t, DefaultFeedbackDuration, fb.Duration)

	o2, _ := newTestOrchestrator(twoCardDeck(), FeedbackOptions{})
	fb, _ = o2.Submit("fel", caseSensitive, models.DirectionTargetSource, nil)
	assert.Equal(t, "✗ Fel, rätt svar är: bara", fb.Text)
}

func TestSubmitWrongPartialPromptShowsFullAnswer(t *testing.T) {
	deck := []models.WordPair{{Source: "jag sover", Target: "ich schlafe"}}
	o, _ := newTestOrchestrator(deck, FeedbackOptions{})
	require.NotNil(t, ResolvePartialPrompt(deck[0], models.DirectionSourceTarget))

	fb, ok := o.Submit("schlaf", caseSensitive, models.DirectionSourceTarget, verbPrompts)
	require.True(t, ok)
	assert.Equal(t, "✗ Fel, rätt svar är: ich schlafe", fb.Text)
}

func verbPrompts(card models.WordPair) *PartialPrompt {
	return ResolvePartialPrompt(card, models.DirectionSourceTarget)
}

func TestSubmitResolvesPromptForGradedCard(t *testing.T) {
	deck := []models.WordPair{
		{Source: "jag sover", Target: "ich schlafe"},
		{Source: "du äter", Target: "du isst"},
	}
	o, clock := newTestOrchestrator(deck, FeedbackOptions{})

	fb, ok := o.Submit("schlafe", caseSensitive, models.DirectionSourceTarget, verbPrompts)
	require.True(t, ok)
	assert.True(t, fb.Result.Correct)

	// the advance lands between the client reading the state and submitting
	clock.last().fire()

	var seen []models.WordPair
	resolve := func(card models.WordPair) *PartialPrompt {
		seen = append(seen, card)
		return verbPrompts(card)
	}
	fb, ok = o.Submit("isst", caseSensitive, models.DirectionSourceTarget, resolve)
	require.True(t, ok)
	assert.Equal(t, []models.WordPair{deck[1]}, seen)
	assert.True(t, fb.Result.Correct)
	assert.Equal(t, "isst", fb.Result.Expected)
	assert.Empty(t, o.State().WrongPairs)
}

func TestSubmitWhilePendingIsIgnored(t *testing.T) {
	o, clock := newTestOrchestrator(twoCardDeck(), FeedbackOptions{})

	_, ok := o.Submit("nur", caseSensitive, models.DirectionSourceTarget, nil)
	require.True(t, ok)
	_, ok = o.Submit("nur", caseSensitive, models.DirectionSourceTarget, nil)
	assert.False(t, ok)

	s := o.State()
	assert.Equal(t, 1, s.TotalAnswered)
	assert.Equal(t, 1, s.Score)
	assert.Len(t, clock.timers, 1)
}

func TestMilestoneStretchesFeedback(t *testing.T) {
	deck := fiveCardDeck()
	o, clock := newTestOrchestrator(deck, FeedbackOptions{})

	for i := 0; i < 2; i++ {
		fb, ok := o.Submit(deck[i].Target, caseSensitive, models.DirectionSourceTarget, nil)
		require.True(t, ok)
		assert.Equal(t, DefaultFeedbackDuration, fb.Duration)
		clock.last().fire()
	}

	fb, ok := o.Submit(deck[2].Target, caseSensitive, models.DirectionSourceTarget, nil)
	require.True(t, ok)
	assert.Equal(t, 3, fb.Result.NewStreak)
	assert.Equal(t, "Tre i rad! Bra jobbat!", fb.Message)
	assert.Equal(t, "✓ Rätt! Tre i rad! Bra jobbat!", fb.Text)
	assert.True(t, fb.Celebration)
	assert.Equal(t, DefaultCelebrationDuration, fb.Duration)
	assert.Equal(t, DefaultCelebrationDuration, clock.last().d)
	clock.last().fire()

	fb, _ = o.Submit(deck[3].Target, caseSensitive, models.DirectionSourceTarget, nil)
	assert.Empty(t, fb.Message)
	assert.False(t, fb.Celebration)
	assert.Equal(t, DefaultFeedbackDuration, fb.Duration)
}

func TestWrongAnswerAtMilestoneHasNoMessage(t *testing.T) {
	deck := fiveCardDeck()
	o, clock := newTestOrchestrator(deck, FeedbackOptions{})

	for i := 0; i < 2; i++ {
		o.Submit(deck[i].Target, caseSensitive, models.DirectionSourceTarget, nil)
		clock.last().fire()
	}

	fb, ok := o.Submit("fel", caseSensitive, models.DirectionSourceTarget, nil)
	require.True(t, ok)
	assert.Empty(t, fb.Message)
	assert.Equal(t, DefaultFeedbackDuration, fb.Duration)
}

func TestCustomDurations(t *testing.T) {
	o, clock := newTestOrchestrator(twoCardDeck(), FeedbackOptions{
		Base:        10 * time.Millisecond,
		Celebration: 20 * time.Millisecond,
	})

	o.Submit("nur", caseSensitive, models.DirectionSourceTarget, nil)
	assert.Equal(t, 10*time.Millisecond, clock.last().d)
}

func TestLoadDiscardsStaleTimer(t *testing.T) {
	o, clock := newTestOrchestrator(twoCardDeck(), FeedbackOptions{})

	o.Submit("nur", caseSensitive, models.DirectionSourceTarget, nil)
	stale := clock.last()

	o.Load(fiveCardDeck())
	assert.True(t, stale.stopped)
	assert.False(t, o.Pending())

	stale.fire()
	s := o.State()
	assert.Equal(t, 0, s.Index, "stale timer must not advance the new session")
	assert.Equal(t, "bara", s.Current.Source)
	assert.Equal(t, 0, s.TotalAnswered)
}

func TestResetToWrongDiscardsStaleTimer(t *testing.T) {
	deck := twoCardDeck()
	o, clock := newTestOrchestrator(deck, FeedbackOptions{})

	o.Submit("fel", caseSensitive, models.DirectionSourceTarget, nil)
	stale := clock.last()

	require.True(t, o.ResetToWrong(o.State().WrongPairs))
	stale.fire()

	s := o.State()
	assert.True(t, s.IsRetrySession)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, "bara", s.Current.Source)

	assert.False(t, o.ResetToWrong(nil))
}

func TestAdvanceNow(t *testing.T) {
	o, clock := newTestOrchestrator(twoCardDeck(), FeedbackOptions{})

	assert.False(t, o.AdvanceNow(), "nothing pending yet")

	o.Submit("nur", caseSensitive, models.DirectionSourceTarget, nil)
	timer := clock.last()
	require.True(t, o.AdvanceNow())
	assert.Equal(t, "redan", o.State().Current.Source)
	assert.True(t, timer.stopped)

	timer.fire()
	assert.Equal(t, "redan", o.State().Current.Source, "the cancelled timer does not advance twice")
}

func TestRoundCompleteHook(t *testing.T) {
	var completed []State
	o, clock := newTestOrchestrator(twoCardDeck(), FeedbackOptions{
		OnRoundComplete: func(s State) { completed = append(completed, s) },
	})

	o.Submit("nur", caseSensitive, models.DirectionSourceTarget, nil)
	clock.last().fire()
	assert.Empty(t, completed)

	o.Submit("fel", caseSensitive, models.DirectionSourceTarget, nil)
	clock.last().fire()
	require.Len(t, completed, 1)
	assert.True(t, completed[0].Complete())
	assert.Equal(t, 1, completed[0].Score)
	assert.Equal(t, 2, completed[0].TotalAnswered)
	assert.Equal(t, [][2]string{{"redan", "schon"}}, completed[0].LastMistakes)

	_, ok := o.Submit("schon", caseSensitive, models.DirectionSourceTarget, nil)
	assert.False(t, ok, "a complete round takes no answers")
}

func TestRealTimerAdvances(t *testing.T) {
	o := NewOrchestrator(
		NewEngine(EngineOptions{DeterministicOrder: true}),
		nil,
		FeedbackOptions{Base: 5 * time.Millisecond, Celebration: 5 * time.Millisecond},
	)
	o.Load(twoCardDeck())
	defer o.Stop()

	_, ok := o.Submit("nur", caseSensitive, models.DirectionSourceTarget, nil)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		return !o.Pending()
	}, time.Second, time.Millisecond)
	assert.Equal(t, "redan", o.State().Current.Source)
}
