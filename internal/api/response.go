package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/blooddonors/internal/donor"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// storeError answers a failed donor store call. Store messages are passed
// through so admins see what the backend reported.
func storeError(w http.ResponseWriter, op string, err error) {
	var dae *donor.DataAccessError
	switch {
	case errors.Is(err, donor.ErrNotFound):
		jsonError(w, http.StatusNotFound, "donor not found")
	case errors.As(err, &dae):
		slog.Error(op, "error", err)
		jsonError(w, http.StatusBadGateway, dae.Message)
	default:
		slog.Error(op, "error", err)
		jsonError(w, http.StatusInternalServerError, op)
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
