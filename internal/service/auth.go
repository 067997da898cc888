// Package service provides the marketplace business logic, delegating
// persistence to repository interfaces.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/guillsango/marketplace/internal/models"
)

// UserFinder defines the account lookups required by the authenticator.
type UserFinder interface {
	// FindByEmail retrieves an account by email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByIDNumber retrieves an account by identity number.
	FindByIDNumber(ctx context.Context, idNumber string) (*models.User, error)
}

// SessionStore is the injected capability holding login sessions.
// Production uses the Postgres-backed store; tests use an in-memory one.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	// FindByID returns (nil, nil) for unknown or expired markers.
	FindByID(ctx context.Context, id string) (*models.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(password, hash string) (bool, error)
}

// AuthService verifies credentials and manages login sessions.
type AuthService struct {
	users    UserFinder
	sessions SessionStore
	verifier PasswordVerifier
	ttl      time.Duration
}

// NewAuthService constructs an AuthService. ttl controls how long issued
// sessions stay valid.
func NewAuthService(users UserFinder, sessions SessionStore, verifier PasswordVerifier, ttl time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, verifier: verifier, ttl: ttl}
}

// Authenticate resolves the identifier to an account and checks the
// password. The identifier may be either an email or an identity number;
// an email match always takes precedence, so the lookup order is
// deterministic even when both could match. Returns the account id on
// success and models.ErrInvalidCredentials when no account matches or
// the password does not verify.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, identifier)
	if errors.Is(err, models.ErrAccountNotFound) {
		user, err = s.users.FindByIDNumber(ctx, identifier)
	}
	if errors.Is(err, models.ErrAccountNotFound) {
		return "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	ok, err := s.verifier.Verify(password, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", models.ErrInvalidCredentials
	}
	return user.ID, nil
}

// CreateSession mints an opaque session marker for the account and
// stores it with the configured lifetime.
func (s *AuthService) CreateSession(ctx context.Context, accountID string) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := &models.Session{
		ID:        id,
		UserID:    accountID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}
	return id, nil
}

// RequireSession resolves a session marker to the account it
// authenticates. Returns models.ErrUnauthenticated when the marker is
// empty, unknown, or expired.
func (s *AuthService) RequireSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", models.ErrUnauthenticated
	}
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", models.ErrUnauthenticated
	}
	return session.UserID, nil
}

// Logout discards the session bound to the given marker.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.DeleteByID(ctx, sessionID)
}

// newSessionID returns an unguessable session marker.
func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
