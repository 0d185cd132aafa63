package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Browser is the Drive listing surface exposed over HTTP.
type Browser interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
	FindFolderByPath(ctx context.Context, path string) (string, error)
}

type Handler struct {
	service       Browser
	ingestService *IngestService
	folderID      string
}

// NewHandler serves Drive routes. defaultFolderID is used when a request
// names no folder.
func NewHandler(service Browser, ingestService *IngestService, defaultFolderID string) *Handler {
	return &Handler{
		service:       service,
		ingestService: ingestService,
		folderID:      defaultFolderID,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods("GET")
	router.HandleFunc("/api/drive/files/download", h.DownloadFile).Methods("GET")
	router.HandleFunc("/api/drive/ingest", h.IngestFile).Methods("POST")
	router.HandleFunc("/api/drive/ingest/folder", h.IngestFolder).Methods("POST")
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID := query.Get("folderId")
	folderPath := query.Get("path")

	var err error
	if folderPath != "" {
		folderID, err = h.service.FindFolderByPath(r.Context(), folderPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}
	if folderID == "" {
		folderID = h.folderID
	}

	files, err := h.service.ListFiles(r.Context(), folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename="+fileID)

	if err := h.service.DownloadFile(r.Context(), fileID, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// IngestFile imports one Drive file. kind is optional when the file name
// names the record kind.
func (h *Handler) IngestFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}
	kind, ok := parseKindParam(w, r)
	if !ok {
		return
	}

	res, err := h.ingestService.IngestFile(r.Context(), fileID, kind)
	if err != nil {
		status := http.StatusInternalServerError
		if domain.IsValidation(err) || errors.Is(err, domain.ErrNotFound) {
			status = http.StatusUnprocessableEntity
		}
		log.Error().Err(err).Str("file_id", fileID).Msg("drive ingest failed")
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), status)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) IngestFolder(w http.ResponseWriter, r *http.Request) {
	folderID := r.URL.Query().Get("folderId")
	if folderID == "" {
		folderID = h.folderID
	}
	if folderID == "" {
		http.Error(w, "folderId parameter is required", http.StatusBadRequest)
		return
	}
	kind, ok := parseKindParam(w, r)
	if !ok {
		return
	}

	results, err := h.ingestService.IngestFolder(r.Context(), folderID, kind)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"files": results})
}

func parseKindParam(w http.ResponseWriter, r *http.Request) (domain.Kind, bool) {
	raw := r.URL.Query().Get("kind")
	if raw == "" {
		return "", true
	}
	kind, ok := domain.ParseKind(raw)
	if !ok {
		http.Error(w, "kind must be arrivals, transactions or vas", http.StatusBadRequest)
		return "", false
	}
	return kind, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("drive: failed to encode response")
	}
}
