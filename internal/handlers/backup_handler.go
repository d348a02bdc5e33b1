package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"glossify/internal/service"
)

// BackupHandler serves a user's lists and settings as a JSON download
type BackupHandler struct {
	backupService *service.BackupService
	logger        *zap.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupService *service.BackupService, logger *zap.Logger) *BackupHandler {
	return &BackupHandler{backupService: backupService, logger: logger}
}

// Export downloads the user's backup
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	timestamp := time.Now().Format("20060102_150405")
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=glossify_backup_%s.json", timestamp))

	if err := h.backupService.ExportToWriter(GetUserIDFromContext(r.Context()), w); err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, CodeInternal, "Failed to export backup", "Error exporting backup", err)
	}
}

// Import restores a backup into the calling user's account
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	backup, err := h.backupService.ImportFromReader(GetUserIDFromContext(r.Context()), r.Body)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error importing backup", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"lists": len(backup.Lists), "settings": len(backup.Settings)})
}
