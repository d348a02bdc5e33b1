package practice

import (
	"strings"

	"glossify/internal/models"
)

// PronounMap maps Swedish personal pronouns to their German counterparts
var PronounMap = map[string]string{
	"jag":         "ich",
	"du":          "du",
	"han/hon/den": "er/sie/es",
	"vi":          "wir",
	"ni":          "ihr",
	"de/Ni":       "sie/Sie",
}

// PartialPrompt is a verb drill card where the pronoun is given and only
// the conjugated verb has to be typed
type PartialPrompt struct {
	Question       string `json:"question"`
	Prompt         string `json:"prompt"`
	ExpectedAnswer string `json:"expectedAnswer"`
	FullAnswer     string `json:"fullAnswer"`
}

// ResolvePartialPrompt derives the pronoun-elided prompt for a verb pair.
// It returns nil when the pair is not a "<pronoun> <verb>" phrase or the
// direction is not source to target.
func ResolvePartialPrompt(pair models.WordPair, dir models.Direction) *PartialPrompt {
	if dir != models.DirectionSourceTarget {
		return nil
	}

	prompt, ok := formatPrompt(pair.Source)
	if !ok {
		return nil
	}
	expected, ok := expectedVerb(pair.Target)
	if !ok {
		return nil
	}

	return &PartialPrompt{
		Question:       pair.Source,
		Prompt:         prompt,
		ExpectedAnswer: expected,
		FullAnswer:     pair.Target,
	}
}

// formatPrompt turns "jag sover" into "ich ___"
func formatPrompt(source string) (string, bool) {
	parts := strings.Fields(source)
	if len(parts) != 2 {
		return "", false
	}

	pronoun, ok := PronounMap[parts[0]]
	if !ok {
		pronoun, ok = PronounMap[strings.ToLower(parts[0])]
	}
	if !ok {
		return "", false
	}
	return pronoun + " ___", true
}

// expectedVerb strips the leading pronoun from a target phrase. A single
// word target is taken to be the verb already.
func expectedVerb(target string) (string, bool) {
	words := strings.Fields(target)
	switch len(words) {
	case 0:
		return "", false
	case 1:
		return words[0], true
	}
	return strings.Join(words[1:], " "), true
}
