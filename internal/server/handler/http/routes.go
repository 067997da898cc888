// Package http provides HTTP routing and middleware configuration
// for the marketplace service.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/guillsango/marketplace/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries the collaborators and settings the router needs.
type RouterConfig struct {
	// Auth handles registration, login, and logout.
	Auth *AuthHandler
	// Users handles profile reads.
	Users *UserHandler
	// Products handles product creation and detail reads.
	Products *ProductHandler
	// Sessions resolves session cookies on protected routes.
	Sessions middleware.SessionResolver
	// StatusMetrics counts responses by status code.
	StatusMetrics middleware.StatusRecorder
	// RateLimiter limits per-client request rates.
	RateLimiter *middleware.RateLimiter
	// Logger is used by the request logging middleware.
	Logger *zap.Logger
	// AllowedOrigin is the origin permitted by CORS.
	AllowedOrigin string
	// MaxBodyBytes caps the size of request bodies.
	MaxBodyBytes int64
}

// NewRouter constructs and returns an HTTP handler that serves the
// marketplace API.
//
// Routes:
//
//	POST /register             → Auth.Register
//	POST /login                → Auth.Login
//	POST /logout               → Auth.Logout        (session required)
//	GET  /get-user-profile     → Users.Profile
//	GET  /get-product-details  → Products.Details
//	POST /add-product          → Products.Add       (session required)
//
// Middleware chain (applied in order):
//  1. CORS for the configured origin
//  2. RequestSize — caps request bodies
//  3. AllowContentType("application/json") — rejects non-JSON bodies
//  4. WithRequestLogging(logger) — logs incoming requests
//  5. WithStatusMetrics — counts responses by status code
//  6. RateLimiter — per-client token buckets
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(cfg.AllowedOrigin))
	r.Use(chiMiddleware.RequestSize(cfg.MaxBodyBytes))

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(cfg.Logger))
	r.Use(middleware.WithStatusMetrics(cfg.StatusMetrics))
	r.Use(cfg.RateLimiter.Middleware)

	// Public endpoints
	r.Post("/register", cfg.Auth.Register)
	r.Post("/login", cfg.Auth.Login)
	r.Get("/get-user-profile", cfg.Users.Profile)
	r.Get("/get-product-details", cfg.Products.Details)

	// Protected group: requires a valid session cookie
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.Sessions, cfg.Logger))
		r.Post("/add-product", cfg.Products.Add)
		r.Post("/logout", cfg.Auth.Logout)
	})

	return r
}
