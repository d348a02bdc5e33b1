package service

import (
	"fmt"
	"regexp"
	"sort"

	"glossify/internal/models"
	"glossify/internal/wordlist"
)

// WordListStore is the persistence ListService needs
type WordListStore interface {
	GetWordList(userID, name string) (string, bool, error)
	SaveWordList(userID, name, content string) error
	DeleteWordList(userID, name string) error
	ListNames(userID string) ([]string, error)
}

var listNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ListService loads and saves word lists, falling back to the built-in
// lists when a user has not stored their own
type ListService struct {
	store WordListStore
}

// NewListService creates a new list service
func NewListService(store WordListStore) *ListService {
	return &ListService{store: store}
}

// ValidateListName checks that a name is usable as a list identifier
func ValidateListName(name string) error {
	if !listNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidListName, name)
	}
	return nil
}

// Get returns the user's list. A stored list that parses to no pairs is
// treated as absent, and the built-in list of the same name is used.
func (s *ListService) Get(userID, name string) (*models.WordList, error) {
	if err := ValidateListName(name); err != nil {
		return nil, err
	}

	content, found, err := s.store.GetWordList(userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}
	if found {
		if pairs := wordlist.Parse(content); len(pairs) > 0 {
			return &models.WordList{Name: name, Content: content, Pairs: pairs}, nil
		}
	}

	if pairs, ok := wordlist.Default(name); ok {
		return &models.WordList{Name: name, Content: wordlist.Serialize(pairs), Pairs: pairs, Builtin: true}, nil
	}
	if found {
		return &models.WordList{Name: name, Content: content, Pairs: []models.WordPair{}}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrListNotFound, name)
}

// Names returns the built-in list names plus the user's own lists
func (s *ListService) Names(userID string) ([]string, error) {
	stored, err := s.store.ListNames(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list word lists: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, name := range append(wordlist.DefaultNames(), stored...) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Save stores list text after checking it holds at least one pair. It
// returns the parsed pairs.
func (s *ListService) Save(userID, name, content string) ([]models.WordPair, error) {
	if err := ValidateListName(name); err != nil {
		return nil, err
	}
	pairs := wordlist.Parse(content)
	if len(pairs) == 0 {
		return nil, ErrEmptyList
	}
	if err := s.store.SaveWordList(userID, name, content); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}
	return pairs, nil
}

// SavePairs stores pairs in the text format
func (s *ListService) SavePairs(userID, name string, pairs []models.WordPair) error {
	_, err := s.Save(userID, name, wordlist.Serialize(pairs))
	return err
}

// Import reads a .txt, .csv or .xlsx file into the named list
func (s *ListService) Import(userID, name, path string) (*wordlist.ImportResult, error) {
	if err := ValidateListName(name); err != nil {
		return nil, err
	}
	result, err := wordlist.ImportFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.SavePairs(userID, name, result.Pairs); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the user's stored copy of a list
func (s *ListService) Delete(userID, name string) error {
	if err := ValidateListName(name); err != nil {
		return err
	}
	return s.store.DeleteWordList(userID, name)
}
