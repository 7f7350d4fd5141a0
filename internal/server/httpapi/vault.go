package httpapi

import (
	"net/http"
)

type recordRequest struct {
	ID   string `json:"id"`
	Data string `json:"data"`
	IV   string `json:"iv"`
}

func owner(r *http.Request) string {
	id, _ := UserIDFromContext(r.Context())
	return id
}

func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(w, r, vaultBodyLimit, &req); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.vault.Create(r.Context(), owner(r), req.Data, req.IV)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Entry added",
		"entry":   toRecordResponse(rec),
	})
}

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := h.vault.List(r.Context(), owner(r))
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(w, r, vaultBodyLimit, &req); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.vault.Update(r.Context(), owner(r), req.ID, req.Data, req.IV)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Entry updated",
		"updated": toRecordResponse(rec),
	})
}

// DeleteRecord takes the id from ?id= or, failing that, a JSON body.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" && r.ContentLength != 0 {
		var req recordRequest
		if err := decodeJSON(w, r, authBodyLimit, &req); err != nil {
			writeError(w, err)
			return
		}
		id = req.ID
	}
	if err := h.vault.Delete(r.Context(), owner(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Entry deleted")
}
