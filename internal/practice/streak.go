package practice

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// StreakPolicy selects when encouragement messages are produced
type StreakPolicy string

const (
	// PolicyMilestone produces a message only at milestone streaks
	PolicyMilestone StreakPolicy = "milestone"
	// PolicyProbabilistic always fires at milestones and sometimes in between
	PolicyProbabilistic StreakPolicy = "probabilistic"
)

// ParseStreakPolicy parses a policy name; unknown names fall back to PolicyMilestone
func ParseStreakPolicy(s string) StreakPolicy {
	if StreakPolicy(strings.ToLower(strings.TrimSpace(s))) == PolicyProbabilistic {
		return PolicyProbabilistic
	}
	return PolicyMilestone
}

// Milestones are the streak lengths that always earn a message
var Milestones = []int{3, 5, 7, 10, 15, 20, 25, 30, 35, 40, 45, 50}

// ProbabilisticChance is the chance of a general message between milestones
const ProbabilisticChance = 0.2

var milestonePhrases = map[int][]string{
	3:  {"Tre i rad!"},
	5:  {"Fem raka!"},
	7:  {"Sju i rad!"},
	10: {"Tio i rad!"},
	15: {"Femton i rad!"},
	20: {"Tjugo i rad!"},
	25: {"Tjugofem i rad!"},
	30: {"Tretti i rad!"},
	35: {"Trettiofem i rad!"},
	40: {"Fyrtio i rad!"},
	45: {"Fyrtiofem i rad!"},
	50: {"Femtio i rad!"},
}

var generalPhrases = []string{
	"Bra jobbat!",
	"Du är på rätt spår.",
	"Fortsätt så där, det funkar!",
	"Starkt jobbat!",
	"Du fixade det!",
	"Grymt gjort!",
	"Stabilt!",
	"Rätt igen – snyggt.",
	"Du börjar få flyt nu!",
	"Det där satt!",
	"Nice!",
	"Exakt så!",
	"Det går bättre än du tror.",
	"Snyggt tänkt!",
	"Det här går ju galant.",
	"Imponerande!",
	"Du gör det här riktigt bra.",
	"Fortsätt – du är nära nu!",
	"Smart löst.",
	"Du har koll!",
	"Där satt den!",
	"Du gör framsteg hela tiden.",
	"Bra fokus!",
	"Japp, det var helt rätt!",
	"Du är på gång nu.",
	"Det här är kvalitet.",
	"Jag ser att du anstränger dig – bra!",
	"Den här nivån är du definitivt redo för.",
	"Helt korrekt – snyggt.",
	"Du ger inte upp, och det märks.",
	"Boom! Rätt svar!",
	"Starkt av dig att fortsätta.",
	"Du har flow!",
	"Det går snabbare för varje fråga nu.",
	"Du borde vara stolt över det här.",
	"Fint jobbat!",
	"Det märks att du tänker efter – bra!",
	"Rätt igen, och med stil.",
	"Stabil insats!",
	"Du har hittat rytmen.",
	"Det är så här man gör framsteg.",
	"Riktigt bra driv!",
	"Härligt att se!",
	"Det är inte lätt – men du fixar det ändå.",
	"Fullträff!",
	"Du är helt klart på rätt nivå.",
	"Det där krävde hjärna – och du nailade det.",
	"Du överraskar!",
	"Det där borde ge en high five.",
	"*Fett bra gjort*.",
}

// IsMilestone reports whether streak is one of the milestone values
func IsMilestone(streak int) bool {
	for _, m := range Milestones {
		if m == streak {
			return true
		}
	}
	return false
}

// StreakEvaluator maps a streak length to an optional encouragement message
type StreakEvaluator struct {
	policy        StreakPolicy
	deterministic bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStreakEvaluator creates an evaluator. A nil rng is seeded from the clock.
// In deterministic mode the first phrase of each pool is used and the
// probabilistic branch never fires.
func NewStreakEvaluator(policy StreakPolicy, deterministic bool, rng *rand.Rand) *StreakEvaluator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &StreakEvaluator{
		policy:        policy,
		deterministic: deterministic,
		rng:           rng,
	}
}

// Policy returns the configured policy
func (e *StreakEvaluator) Policy() StreakPolicy {
	return e.policy
}

// Evaluate returns the message for the streak reached by the current answer,
// or "" when there is none
func (e *StreakEvaluator) Evaluate(streak int) string {
	if streak <= 0 {
		return ""
	}

	if IsMilestone(streak) {
		milestone := e.pick(milestoneFor(streak))
		if e.policy == PolicyProbabilistic {
			return milestone
		}
		return milestone + " " + e.pick(generalPhrases)
	}

	if e.policy == PolicyProbabilistic && !e.deterministic && e.chance() < ProbabilisticChance {
		return e.pick(generalPhrases)
	}
	return ""
}

func milestoneFor(streak int) []string {
	if phrases := milestonePhrases[streak]; len(phrases) > 0 {
		return phrases
	}
	return []string{fmt.Sprintf("Du har %d i rad!", streak)}
}

func (e *StreakEvaluator) pick(pool []string) string {
	if e.deterministic || len(pool) == 1 {
		return pool[0]
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return pool[e.rng.Intn(len(pool))]
}

func (e *StreakEvaluator) chance() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}
