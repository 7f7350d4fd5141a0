package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/common"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, messageResponse{Message: msg})
}

// statusFor maps the error taxonomy to an HTTP status and a message safe to
// show to the caller.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrEmailTaken):
		return http.StatusConflict, "User already exists"
	case errors.Is(err, common.ErrStorageFailure):
		return http.StatusServiceUnavailable, "Storage unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	code, msg := statusFor(err)
	writeMessage(w, code, msg)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrInvalidInput)
	}
	return nil
}
