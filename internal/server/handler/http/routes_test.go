package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/guillsango/marketplace/internal/middleware"
	"github.com/guillsango/marketplace/internal/models"
)

// fakeSessionResolver implements middleware.SessionResolver for testing.
type fakeSessionResolver struct {
	accounts map[string]string
}

func (f *fakeSessionResolver) RequireSession(ctx context.Context, sessionID string) (string, error) {
	if accountID, ok := f.accounts[sessionID]; ok {
		return accountID, nil
	}
	return "", models.ErrUnauthenticated
}

func newTestRouter(catalog *fakeCatalog) http.Handler {
	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	return NewRouter(RouterConfig{
		Auth:          &AuthHandler{Users: &fakeUserService{}, Auth: &fakeAuthenticator{accountID: "u1", sessionID: "marker"}, Metrics: newFakeMetrics(), Logger: zap.NewNop()},
		Users:         &UserHandler{Users: &fakeProfileService{profile: &models.UserProfile{Email: "a@x.com"}}, Logger: zap.NewNop()},
		Products:      &ProductHandler{Catalog: catalog, Metrics: newFakeMetrics(), Logger: zap.NewNop()},
		Sessions:      &fakeSessionResolver{accounts: map[string]string{"marker": "u1"}},
		StatusMetrics: newFakeMetrics(),
		RateLimiter:   limiter,
		Logger:        zap.NewNop(),
		AllowedOrigin: "http://localhost:5173",
		MaxBodyBytes:  10 << 20,
	})
}

func TestRouter_AddProductRequiresSession(t *testing.T) {
	catalog := &fakeCatalog{}
	router := newTestRouter(catalog)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/add-product", bytes.NewBufferString(addProductBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", rec.Code)
	}
	if len(catalog.added) != 0 {
		t.Errorf("catalog received %d products without a session; want 0", len(catalog.added))
	}
}

func TestRouter_AddProductWithSession(t *testing.T) {
	catalog := &fakeCatalog{}
	router := newTestRouter(catalog)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/add-product", bytes.NewBufferString(addProductBody()))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "marker"})
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200; body: %s", rec.Code, rec.Body.String())
	}
	if len(catalog.owners) != 1 || catalog.owners[0] != "u1" {
		t.Errorf("owners = %v; want [u1]", catalog.owners)
	}
}

func TestRouter_RejectsUnsupportedContentType(t *testing.T) {
	router := newTestRouter(&fakeCatalog{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(`email=a`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d; want 415", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(&fakeCatalog{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d; want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow-origin = %q; want configured origin", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("allow-credentials = %q; want true", got)
	}
}

func TestRouter_ProfileRoute(t *testing.T) {
	router := newTestRouter(&fakeCatalog{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/get-user-profile?userId=u1", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200; body: %s", rec.Code, rec.Body.String())
	}
}
