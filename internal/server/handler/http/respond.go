// Package http provides HTTP handlers for the marketplace API:
// registration, login, profile and product reads, and product creation.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/guillsango/marketplace/internal/models"
)

// writeJSON writes payload as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a domain error to its status code and writes a JSON
// error body. Unrecognized errors are reported as persistence failures.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrUnknownIdentity),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidCategory),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrMalformedImage),
		errors.Is(err, models.ErrInvalidContentType):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrProductNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
