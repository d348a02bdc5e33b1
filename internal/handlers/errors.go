package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"glossify/internal/models"
	"glossify/internal/service"
	"glossify/internal/wordlist"
)

// APIError is the JSON body of every error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondWithError(w http.ResponseWriter, logger *zap.Logger, status int, code, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			logger.Error(logMsg, zap.Error(err))
		} else {
			logger.Debug(logMsg, zap.Error(err))
		}
	}

	respondJSON(w, status, APIError{Code: code, Message: userMsg})
}

// respondWithServiceError maps service errors to a status and user message
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, logMsg string, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondWithError(w, logger, http.StatusNotFound, CodeNotFound, "Practice session not found", logMsg, err)
	case errors.Is(err, service.ErrListNotFound):
		respondWithError(w, logger, http.StatusNotFound, CodeNotFound, "Word list not found", logMsg, err)
	case errors.Is(err, service.ErrInvalidListName):
		respondWithError(w, logger, http.StatusBadRequest, CodeBadRequest, "Invalid list name", logMsg, err)
	case errors.Is(err, service.ErrEmptyList):
		respondWithError(w, logger, http.StatusBadRequest, CodeBadRequest, "Word list has no valid lines", logMsg, err)
	case errors.Is(err, models.ErrInvalidDirection):
		respondWithError(w, logger, http.StatusBadRequest, CodeBadRequest, "Invalid direction", logMsg, err)
	case errors.Is(err, models.ErrInvalidLanguage):
		respondWithError(w, logger, http.StatusBadRequest, CodeBadRequest, "Invalid target language", logMsg, err)
	case errors.Is(err, wordlist.ErrUnsupportedFormat):
		respondWithError(w, logger, http.StatusBadRequest, CodeBadRequest, "Unsupported file format", logMsg, err)
	case errors.Is(err, service.ErrFeedbackPending):
		respondWithError(w, logger, http.StatusConflict, CodeConflict, "Feedback is still showing", logMsg, err)
	case errors.Is(err, service.ErrRoundComplete):
		respondWithError(w, logger, http.StatusConflict, CodeConflict, "The round is complete", logMsg, err)
	case errors.Is(err, service.ErrNothingToRetry):
		respondWithError(w, logger, http.StatusConflict, CodeConflict, "No wrong answers to retry", logMsg, err)
	default:
		respondWithError(w, logger, http.StatusInternalServerError, CodeInternal, ErrInternalServerError, logMsg, err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}
