package network

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/leengari/recordstore/internal/domain/errors"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondFailure maps an engine error to its status code. Storage failures
// are logged in full and reported to the client as a 500.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	respondError(w, r, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrNotFound),
		stderrors.Is(err, errors.ErrIndexOutOfRange):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrAlreadyExists),
		stderrors.Is(err, errors.ErrInvalidArgs),
		stderrors.Is(err, errors.ErrMissingField),
		stderrors.Is(err, errors.ErrInvalidValue),
		stderrors.Is(err, errors.ErrSchemaMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
