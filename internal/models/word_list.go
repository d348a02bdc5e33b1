package models

import "encoding/json"

// WordPair is a single vocabulary entry: a source-language term and its
// target-language translation
type WordPair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// UnmarshalJSON accepts both the current field names and the sv/ty names
// used by lists exported from the old web client
func (p *WordPair) UnmarshalJSON(data []byte) error {
	var raw struct {
		Source string `json:"source"`
		Target string `json:"target"`
		SV     string `json:"sv"`
		TY     string `json:"ty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Source = raw.Source
	if p.Source == "" {
		p.Source = raw.SV
	}
	p.Target = raw.Target
	if p.Target == "" {
		p.Target = raw.TY
	}
	return nil
}

// Tuple returns the pair in the [source, target] form used for wrong answers
func (p WordPair) Tuple() [2]string {
	return [2]string{p.Source, p.Target}
}

// PairFromTuple converts a [source, target] tuple back into a WordPair
func PairFromTuple(t [2]string) WordPair {
	return WordPair{Source: t[0], Target: t[1]}
}

// WordList is a named list of word pairs as served to a user.
// Content is the raw semicolon separated text; Builtin is set when the user
// has no stored list of that name and the default is shown instead.
type WordList struct {
	Name    string     `json:"name"`
	Content string     `json:"content"`
	Pairs   []WordPair `json:"pairs"`
	Builtin bool       `json:"builtin"`
}

// Built-in list names
const (
	ListWeekly = "weeklyWords"
	ListAll    = "allWords"
	ListVerbs  = "verbs"
)
