package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/guillsango/marketplace/internal/middleware"
	"github.com/guillsango/marketplace/internal/models"
)

// UserService defines the registration operations required by the auth
// handlers.
type UserService interface {
	// Register creates a new account gated by the identity allow-list.
	Register(ctx context.Context, email, password, idNumber string) (*models.User, error)
}

// Authenticator defines the login operations required by the auth
// handlers.
type Authenticator interface {
	// Authenticate resolves identifier+password to an account id.
	Authenticate(ctx context.Context, identifier, password string) (string, error)
	// CreateSession mints an opaque session marker for the account.
	CreateSession(ctx context.Context, accountID string) (string, error)
	// Logout discards the session bound to the marker.
	Logout(ctx context.Context, sessionID string) error
}

// AuthMetrics counts registration and login outcomes.
type AuthMetrics interface {
	RecordRegistration()
	RecordLogin(result string)
}

// AuthHandler handles HTTP requests for registration, login, and logout.
type AuthHandler struct {
	// Users performs account registration.
	Users UserService
	// Auth performs credential verification and session management.
	Auth Authenticator
	// Metrics counts auth outcomes.
	Metrics AuthMetrics
	// Logger reports handler failures.
	Logger *zap.Logger
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IDNumber string `json:"id_number"`
}

// LoginRequest represents the JSON payload for login. Identifier may be
// the account's email or its id number.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Register handles user registration requests.
// It expects a JSON body with non-empty email, password, and id_number
// fields. The id_number must be pre-provisioned in the allow-list and
// the email must not already be registered.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Email == "" || req.Password == "" || req.IDNumber == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	if _, err := h.Users.Register(r.Context(), req.Email, req.Password, req.IDNumber); err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.Logger.Error("failed to register user", zap.Error(err))
		}
		writeError(w, err)
		return
	}

	h.Metrics.RecordRegistration()
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

// Login handles login requests. On success it binds a new session to
// the client via an HTTP-only cookie and returns the account id.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Identifier == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	accountID, err := h.Auth.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.Logger.Error("failed to log in user", zap.Error(err))
		}
		if errors.Is(err, models.ErrInvalidCredentials) {
			h.Metrics.RecordLogin("failure")
		}
		writeError(w, err)
		return
	}

	sessionID, err := h.Auth.CreateSession(r.Context(), accountID)
	if err != nil {
		h.Logger.Error("failed to create session", zap.Error(err))
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.Metrics.RecordLogin("success")
	writeJSON(w, http.StatusOK, map[string]string{
		"userId":  accountID,
		"message": "Login successful",
	})
}

// Logout discards the client's session and clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.Auth.Logout(r.Context(), cookie.Value); err != nil {
			h.Logger.Error("failed to delete session", zap.Error(err))
			writeError(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
