package practice

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMilestonePolicy(t *testing.T) {
	e := NewStreakEvaluator(PolicyMilestone, true, nil)

	assert.Equal(t, "Tre i rad! Bra jobbat!", e.Evaluate(3))
	assert.Equal(t, e.Evaluate(3), e.Evaluate(3))
	assert.Equal(t, "Femtio i rad! Bra jobbat!", e.Evaluate(50))

	for _, streak := range []int{-1, 0, 1, 2, 4, 6, 11, 51, 100} {
		assert.Empty(t, e.Evaluate(streak), "streak %d", streak)
	}
}

func TestPhrasePools(t *testing.T) {
	assert.Len(t, generalPhrases, 50)
	assert.Equal(t, "Bra jobbat!", generalPhrases[0])
	assert.Equal(t, "*Fett bra gjort*.", generalPhrases[len(generalPhrases)-1])

	e := NewStreakEvaluator(PolicyMilestone, true, nil)
	assert.Equal(t, "Tretti i rad! Bra jobbat!", e.Evaluate(30))
	for _, m := range Milestones {
		assert.NotEmpty(t, milestonePhrases[m], "milestone %d", m)
	}
}

func TestMilestonePolicyAlwaysFiresAtMilestones(t *testing.T) {
	e := NewStreakEvaluator(PolicyMilestone, false, rand.New(rand.NewSource(7)))
	for _, m := range Milestones {
		for i := 0; i < 20; i++ {
			assert.NotEmpty(t, e.Evaluate(m), "milestone %d", m)
		}
	}
}

func TestProbabilisticPolicy(t *testing.T) {
	e := NewStreakEvaluator(PolicyProbabilistic, false, rand.New(rand.NewSource(42)))

	assert.Equal(t, "Tio i rad!", e.Evaluate(10))
	assert.Empty(t, e.Evaluate(0))

	hits := 0
	const draws = 2000
	for i := 0; i < draws; i++ {
		if e.Evaluate(4) != "" {
			hits++
		}
	}
	// roughly 20%
	assert.InDelta(t, ProbabilisticChance, float64(hits)/draws, 0.05)
}

func TestProbabilisticPolicyDeterministicMode(t *testing.T) {
	e := NewStreakEvaluator(PolicyProbabilistic, true, nil)
	assert.Equal(t, "Tre i rad!", e.Evaluate(3))
	for i := 0; i < 50; i++ {
		assert.Empty(t, e.Evaluate(4))
	}
}

func TestParseStreakPolicy(t *testing.T) {
	assert.Equal(t, PolicyProbabilistic, ParseStreakPolicy(" Probabilistic "))
	assert.Equal(t, PolicyMilestone, ParseStreakPolicy("milestone"))
	assert.Equal(t, PolicyMilestone, ParseStreakPolicy("nonsense"))
}
