package practice

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeLevel controls how aggressively answers are canonicalised
type NormalizeLevel int

const (
	// LevelStrict trims and maps ß but keeps inner spacing and punctuation
	LevelStrict NormalizeLevel = iota
	// LevelLenient also collapses inner whitespace and drops trailing punctuation
	LevelLenient
)

// NormalizeOptions configures Normalize
type NormalizeOptions struct {
	CaseSensitive bool
	Level         NormalizeLevel
}

// NormalizeFunc canonicalises a string before answers are compared
type NormalizeFunc func(string) string

var sharpS = strings.NewReplacer("ß", "ss", "ẞ", "ss")

// Normalize canonicalises user input and expected answers for comparison.
// Normalize(Normalize(s, o), o) == Normalize(s, o) for every s.
func Normalize(raw string, opts NormalizeOptions) string {
	// ß goes first: the trailing s of "ss" composes with a following mark
	s := norm.NFC.String(sharpS.Replace(raw))
	s = strings.TrimSpace(s)

	if opts.Level == LevelLenient {
		s = strings.Join(strings.Fields(s), " ")
		s = strings.TrimRightFunc(s, func(r rune) bool {
			return isTerminalPunct(r) || unicode.IsSpace(r)
		})
	}

	if !opts.CaseSensitive {
		// cases.Caser keeps state, so one per call
		s = sharpS.Replace(cases.Fold().String(s))
	}
	return norm.NFC.String(s)
}

// Normalizer returns a NormalizeFunc bound to opts
func Normalizer(opts NormalizeOptions) NormalizeFunc {
	return func(s string) string {
		return Normalize(s, opts)
	}
}

func isTerminalPunct(r rune) bool {
	switch r {
	case '.', '!', '?', ',', ';', ':':
		return true
	}
	return false
}
