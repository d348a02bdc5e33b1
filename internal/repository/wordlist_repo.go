package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"glossify/internal/database"
)

// WordListRepository stores the raw text of each user's word lists
type WordListRepository struct {
	db *database.DB
}

// NewWordListRepository creates a new word list repository
func NewWordListRepository(db *database.DB) *WordListRepository {
	return &WordListRepository{db: db}
}

// GetWordList returns the stored text of a list. found is false when the
// user has never saved a list with that name.
func (r *WordListRepository) GetWordList(userID, name string) (content string, found bool, err error) {
	query := `SELECT content FROM word_lists WHERE user_id = ? AND name = ?`
	err = r.db.QueryRow(query, userID, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get word list %q: %w", name, err)
	}
	return content, true, nil
}

// SaveWordList creates or replaces a list
func (r *WordListRepository) SaveWordList(userID, name, content string) error {
	if _, err := r.db.Exec(r.db.Dialect.Upsert("word_lists", []string{"user_id", "name"}, []string{"content"}), userID, name, content); err != nil {
		return fmt.Errorf("failed to save word list %q: %w", name, err)
	}
	return nil
}

// DeleteWordList removes a stored list; the built-in default shows through again
func (r *WordListRepository) DeleteWordList(userID, name string) error {
	_, err := r.db.Exec(`DELETE FROM word_lists WHERE user_id = ? AND name = ?`, userID, name)
	if err != nil {
		return fmt.Errorf("failed to delete word list %q: %w", name, err)
	}
	return nil
}

// ListNames returns the names of the user's stored lists
func (r *WordListRepository) ListNames(userID string) ([]string, error) {
	rows, err := r.db.Query(`SELECT name FROM word_lists WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list word lists: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
