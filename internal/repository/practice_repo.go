package repository

import (
	"fmt"

	"glossify/internal/database"
	"glossify/internal/models"
)

// PracticeRepository handles finished practice rounds
type PracticeRepository struct {
	db *database.DB
}

// NewPracticeRepository creates a new practice repository
func NewPracticeRepository(db *database.DB) *PracticeRepository {
	return &PracticeRepository{db: db}
}

// RecordRound stores a finished round and sets its ID
func (r *PracticeRepository) RecordRound(round *models.PracticeRound) error {
	query := `
		INSERT INTO practice_rounds (session_id, user_id, list_name, is_retry, score, total, wrong_count, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		round.SessionID,
		round.UserID,
		round.ListName,
		round.IsRetry,
		round.Score,
		round.Total,
		round.WrongCount,
		round.StartedAt.UTC(),
		round.CompletedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record round: %w", err)
	}
	round.ID = id
	return nil
}

// GetRecentRounds returns the user's latest rounds, newest first
func (r *PracticeRepository) GetRecentRounds(userID string, limit int) ([]models.PracticeRound, error) {
	query := `
		SELECT id, session_id, user_id, list_name, is_retry, score, total, wrong_count, started_at, completed_at
		FROM practice_rounds
		WHERE user_id = ?
		ORDER BY completed_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}
	defer rows.Close()

	var rounds []models.PracticeRound
	for rows.Next() {
		var round models.PracticeRound
		err := rows.Scan(
			&round.ID,
			&round.SessionID,
			&round.UserID,
			&round.ListName,
			&round.IsRetry,
			&round.Score,
			&round.Total,
			&round.WrongCount,
			&round.StartedAt,
			&round.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// CountRounds returns how many rounds a user has finished
func (r *PracticeRepository) CountRounds(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM practice_rounds WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}
