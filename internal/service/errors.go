package service

import "errors"

var (
	ErrSessionNotFound = errors.New("practice session not found")
	ErrEmptyList       = errors.New("word list has no valid pairs")
	ErrInvalidListName = errors.New("invalid list name")
	ErrListNotFound    = errors.New("list not found")
	ErrFeedbackPending = errors.New("feedback for the previous answer is still showing")
	ErrRoundComplete   = errors.New("round is complete")
	ErrNothingToRetry  = errors.New("no wrong answers to retry")
)
