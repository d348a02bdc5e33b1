package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"glossify/internal/service"
)

// SettingsHandler handles user settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
	logger          *zap.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, logger: logger}
}

// Get returns the user's settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(GetUserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.logger, "Error loading settings", err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// Update applies the fields present in the body on top of the stored settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	settings, err := h.settingsService.Get(userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error loading settings", err)
		return
	}

	if err := decodeJSON(w, r, &settings); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, CodeBadRequest, ErrInvalidJSON, "Error decoding settings", err)
		return
	}

	if err := h.settingsService.Update(userID, settings); err != nil {
		respondWithServiceError(w, h.logger, "Error saving settings", err)
		return
	}

	settings, err = h.settingsService.Get(userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error loading settings", err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}
