package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"glossify/internal/models"
	"glossify/internal/practice"
	"glossify/internal/service"
)

// PracticeHandler handles practice session HTTP requests
type PracticeHandler struct {
	practiceService *service.PracticeService
	logger          *zap.Logger
}

// NewPracticeHandler creates a new practice handler
func NewPracticeHandler(practiceService *service.PracticeService, logger *zap.Logger) *PracticeHandler {
	return &PracticeHandler{practiceService: practiceService, logger: logger}
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type answerResponse struct {
	Feedback *practice.Feedback   `json:"feedback"`
	Session  *service.SessionView `json:"session"`
}

// Start begins a session over the list named in the path. ?verbs=1 turns on
// verb prompts for lists other than the verbs list.
func (h *PracticeHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	verbs, _ := strconv.ParseBool(r.URL.Query().Get("verbs"))

	view, err := h.practiceService.Start(userID, r.PathValue("name"), verbs)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error starting practice", err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// State returns the current card, progress and feedback
func (h *PracticeHandler) State(w http.ResponseWriter, r *http.Request) {
	view, err := h.practiceService.State(GetUserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, h.logger, "Error loading practice state", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Answer submits an answer for the current card
func (h *PracticeHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, CodeBadRequest, ErrInvalidJSON, "Error decoding answer", err)
		return
	}

	fb, view, err := h.practiceService.Answer(GetUserIDFromContext(r.Context()), r.PathValue("id"), req.Answer)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error submitting answer", err)
		return
	}
	respondJSON(w, http.StatusOK, answerResponse{Feedback: fb, Session: view})
}

// Action dispatches POST /api/practice/{id}/{action}. Answers are rate limited.
func (h *PracticeHandler) Action(mw *Middleware) http.HandlerFunc {
	answer := mw.RateLimit(h.Answer)
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("action") {
		case "answer":
			answer(w, r)
		case "next":
			h.Next(w, r)
		case "retry":
			h.Retry(w, r)
		case "restart":
			h.Restart(w, r)
		default:
			respondWithError(w, h.logger, http.StatusNotFound, CodeNotFound, "Unknown practice action", "", nil)
		}
	}
}

// Next skips the rest of the feedback display
func (h *PracticeHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, "Error advancing", h.practiceService.Next)
}

// Retry starts a round over the last round's wrong answers
func (h *PracticeHandler) Retry(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, "Error starting retry round", h.practiceService.Retry)
}

// Restart reloads the whole deck
func (h *PracticeHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, "Error restarting practice", h.practiceService.Restart)
}

// End discards the session
func (h *PracticeHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.practiceService.End(GetUserIDFromContext(r.Context()), r.PathValue("id")); err != nil {
		respondWithServiceError(w, h.logger, "Error ending practice", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// History lists the user's recent finished rounds
func (h *PracticeHandler) History(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.practiceService.History(GetUserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.logger, "Error loading history", err)
		return
	}

	type roundView struct {
		models.PracticeRound
		Accuracy float64 `json:"accuracy"`
	}
	views := make([]roundView, len(rounds))
	for i, round := range rounds {
		views[i] = roundView{PracticeRound: round, Accuracy: round.Accuracy()}
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *PracticeHandler) sessionAction(w http.ResponseWriter, r *http.Request, logMsg string, action func(userID, id string) (*service.SessionView, error)) {
	view, err := action(GetUserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, h.logger, logMsg, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
