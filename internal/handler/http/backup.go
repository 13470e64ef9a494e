package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/backup"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BackupHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type backupHandlerImpl struct {
	backupService backup.BackupService
}

func NewBackupHandler(backupService backup.BackupService) BackupHandler {
	return &backupHandlerImpl{backupService: backupService}
}

// Create implements BackupHandler.
func (h *backupHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.backupService.Create(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Backup created", snapshot)
}

// List implements BackupHandler.
func (h *backupHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.backupService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, snapshots)
}

// Download implements BackupHandler.
func (h *backupHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rc, err := h.backupService.Open(r.Context(), name)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	response.Attachment(w, "application/json", name, rc)
}

// Delete implements BackupHandler.
func (h *backupHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.backupService.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Backup deleted", nil)
}
