package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

type backupResponse struct {
	Key string `json:"key,omitempty"`
	URL string `json:"url"`
}

func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	key, url, err := h.backups.PresignUpload(r.Context(), owner(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, backupResponse{Key: key, URL: url})
}

func (h *Handler) GetBackup(w http.ResponseWriter, r *http.Request) {
	url, err := h.backups.PresignDownload(r.Context(), owner(r), mux.Vars(r)["key"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, backupResponse{URL: url})
}
