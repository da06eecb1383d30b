package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikbrunner/speeddial/internal/speeddial"
)

type errorBody struct {
	Error string `json:"error"`
}

const maxRequestBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	return dec.Decode(v)
}

// statusFor maps store errors to HTTP status codes. Persistence and
// unexpected errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, speeddial.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, speeddial.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, speeddial.ErrLastGroup):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
