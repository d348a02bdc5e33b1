package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"glossify/internal/service"
)

// ListHandler handles word list HTTP requests
type ListHandler struct {
	listService *service.ListService
	logger      *zap.Logger
}

// NewListHandler creates a new list handler
func NewListHandler(listService *service.ListService, logger *zap.Logger) *ListHandler {
	return &ListHandler{listService: listService, logger: logger}
}

type saveListRequest struct {
	Content string `json:"content"`
}

// Names returns the lists the user can practise
func (h *ListHandler) Names(w http.ResponseWriter, r *http.Request) {
	names, err := h.listService.Names(GetUserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.logger, "Error listing word lists", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"lists": names})
}

// Get returns a list as text and pairs
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.listService.Get(GetUserIDFromContext(r.Context()), r.PathValue("name"))
	if err != nil {
		respondWithServiceError(w, h.logger, "Error loading word list", err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// Save replaces the user's copy of a list
func (h *ListHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, CodeBadRequest, ErrInvalidJSON, "Error decoding word list", err)
		return
	}

	userID := GetUserIDFromContext(r.Context())
	name := r.PathValue("name")
	if _, err := h.listService.Save(userID, name, req.Content); err != nil {
		respondWithServiceError(w, h.logger, "Error saving word list", err)
		return
	}

	list, err := h.listService.Get(userID, name)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error loading saved word list", err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// Delete removes the user's copy of a list
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.listService.Delete(GetUserIDFromContext(r.Context()), r.PathValue("name")); err != nil {
		respondWithServiceError(w, h.logger, "Error deleting word list", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import reads an uploaded .txt, .csv or .xlsx file (form field "file")
// into the named list
func (h *ListHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, CodeBadRequest, "Invalid upload", "Error parsing upload", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, CodeBadRequest, "Missing file", "Error reading upload", err)
		return
	}
	defer file.Close()

	// the importers work on paths, so the upload is spooled to disk
	ext := strings.ToLower(filepath.Ext(header.Filename))
	tmp, err := os.CreateTemp("", "glossify-import-*"+ext)
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, CodeInternal, ErrInternalServerError, "Error creating temp file", err)
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, CodeInternal, ErrInternalServerError, "Error spooling upload", err)
		return
	}

	result, err := h.listService.Import(GetUserIDFromContext(r.Context()), r.PathValue("name"), tmp.Name())
	if err != nil {
		respondWithServiceError(w, h.logger, "Error importing word list", err)
		return
	}

	h.logger.Info("Word list imported",
		zap.String("list", r.PathValue("name")),
		zap.String("file", header.Filename),
		zap.Int("pairs", len(result.Pairs)),
		zap.Int("skipped", result.Skipped),
	)
	respondJSON(w, http.StatusOK, map[string]int{"imported": len(result.Pairs), "skipped": result.Skipped})
}
