package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cohorttools/cohort-tools-api/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// decodeJSON reads a JSON request body into dst. On failure it writes the
// error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

// writeError maps a service error to its HTTP status. Unrecognised errors
// are logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrCohortConflict),
		errors.Is(err, service.ErrStudentConflict):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCohortNotFound),
		errors.Is(err, service.ErrStudentNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
