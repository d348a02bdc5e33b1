package models

import "time"

// RoundStats is the score of a finished round
type RoundStats struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// PracticeRound is the persisted summary of one finished practice round
type PracticeRound struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"sessionId"`
	UserID      string    `json:"-"`
	ListName    string    `json:"listName"`
	IsRetry     bool      `json:"isRetry"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	WrongCount  int       `json:"wrongCount"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// Accuracy returns the percentage of correct answers in the round
func (r PracticeRound) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total) * 100
}
