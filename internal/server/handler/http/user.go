package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/guillsango/marketplace/internal/models"
)

// ProfileService defines the profile read required by the user handler.
type ProfileService interface {
	// Profile resolves an account into its profile view, including the
	// owned products with base64-encoded images.
	Profile(ctx context.Context, accountID string) (*models.UserProfile, error)
}

// UserHandler handles HTTP requests for profile reads.
type UserHandler struct {
	// Users performs the profile resolution.
	Users ProfileService
	// Logger reports handler failures.
	Logger *zap.Logger
}

// Profile handles profile read requests. The account is identified by
// the userId query parameter.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	profile, err := h.Users.Profile(r.Context(), userID)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.Logger.Error("failed to fetch user profile", zap.Error(err))
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
