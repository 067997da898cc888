// Package middleware provides HTTP middlewares for authentication,
// logging, rate limiting, CORS, and metrics.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/guillsango/marketplace/internal/models"
)

// SessionCookieName is the cookie carrying the opaque session marker.
const SessionCookieName = "session_id"

type ctxKey string

const accountKey ctxKey = "account"

// SessionResolver resolves a session marker to the account it
// authenticates.
type SessionResolver interface {
	// RequireSession returns the account id for a valid marker,
	// models.ErrUnauthenticated for an invalid one, and any other
	// error when the session store fails.
	RequireSession(ctx context.Context, sessionID string) (string, error)
}

// SessionAuth is a middleware that enforces cookie-based session
// authentication.
//
// It reads the session marker from the session cookie, resolves it to an
// account, and stores the account id in the request context so it can be
// used downstream as the authenticated user ID. Requests without a valid
// session are rejected with 401; a session-store failure is reported as
// 500, not as a missing session.
func SessionAuth(resolver SessionResolver, log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			accountID, err := resolver.RequireSession(r.Context(), cookie.Value)
			if errors.Is(err, models.ErrUnauthenticated) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err != nil {
				log.Error("resolve session", zap.Error(err))
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), accountKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccountIDFromContext extracts the authenticated account id from the
// request context. Returns an empty string if not found.
func GetAccountIDFromContext(ctx context.Context) string {
	val := ctx.Value(accountKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// ContextWithAccountID stores an account id in the context. Used by
// tests to simulate an authenticated request.
func ContextWithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountKey, accountID)
}
