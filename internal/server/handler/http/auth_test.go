package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/guillsango/marketplace/internal/middleware"
	"github.com/guillsango/marketplace/internal/models"
)

// fakeUserService implements UserService for testing.
type fakeUserService struct {
	registerErr error
	registered  []string
}

func (f *fakeUserService) Register(ctx context.Context, email, password, idNumber string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = append(f.registered, email)
	return &models.User{ID: "u1", Email: email, IDNumber: idNumber}, nil
}

// fakeAuthenticator implements Authenticator for testing.
type fakeAuthenticator struct {
	authErr    error
	accountID  string
	sessionID  string
	sessionErr error
	loggedOut  []string
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, identifier, password string) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return f.accountID, nil
}

func (f *fakeAuthenticator) CreateSession(ctx context.Context, accountID string) (string, error) {
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	return f.sessionID, nil
}

func (f *fakeAuthenticator) Logout(ctx context.Context, sessionID string) error {
	f.loggedOut = append(f.loggedOut, sessionID)
	return nil
}

// fakeMetrics implements the handler metrics interfaces for testing.
type fakeMetrics struct {
	registrations int
	logins        map[string]int
	products      int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{logins: make(map[string]int)}
}

func (f *fakeMetrics) RecordRegistration()       { f.registrations++ }
func (f *fakeMetrics) RecordLogin(result string) { f.logins[result]++ }
func (f *fakeMetrics) RecordProductAdded()       { f.products++ }
func (f *fakeMetrics) RecordHTTPStatus(code int) {}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeUserService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeUserService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "missing fields",
			body:           `{"email":"a@x.com"}`,
			service:        &fakeUserService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "unknown identity",
			body:           `{"email":"a@x.com","password":"pw","id_number":"NOPE"}`,
			service:        &fakeUserService{registerErr: models.ErrUnknownIdentity},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "unknown id number",
		},
		{
			name:           "duplicate email",
			body:           `{"email":"a@x.com","password":"pw","id_number":"ID1"}`,
			service:        &fakeUserService{registerErr: models.ErrDuplicateEmail},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "already registered",
		},
		{
			name:           "persistence failure",
			body:           `{"email":"a@x.com","password":"pw","id_number":"ID1"}`,
			service:        &fakeUserService{registerErr: io.ErrUnexpectedEOF},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "unexpected EOF",
		},
		{
			name:           "success",
			body:           `{"email":"a@x.com","password":"pw","id_number":"ID1"}`,
			service:        &fakeUserService{},
			expectedCode:   http.StatusOK,
			expectedSubstr: "registered successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(tt.body))
			h := &AuthHandler{Users: tt.service, Auth: &fakeAuthenticator{}, Metrics: newFakeMetrics(), Logger: zap.NewNop()}
			h.Register(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Errorf("status = %d; want %d", res.StatusCode, tt.expectedCode)
			}
			body, _ := io.ReadAll(res.Body)
			if !strings.Contains(string(body), tt.expectedSubstr) {
				t.Errorf("body = %q; want substring %q", body, tt.expectedSubstr)
			}
		})
	}
}

func TestAuthHandler_Register_CountsMetric(t *testing.T) {
	metrics := newFakeMetrics()
	h := &AuthHandler{Users: &fakeUserService{}, Auth: &fakeAuthenticator{}, Metrics: metrics, Logger: zap.NewNop()}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/register",
		bytes.NewBufferString(`{"email":"a@x.com","password":"pw","id_number":"ID1"}`))
	h.Register(rec, req)

	if metrics.registrations != 1 {
		t.Errorf("registrations metric = %d; want 1", metrics.registrations)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		auth         *fakeAuthenticator
		expectedCode int
		wantCookie   bool
	}{
		{
			name:         "invalid JSON",
			body:         `{`,
			auth:         &fakeAuthenticator{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing password",
			body:         `{"identifier":"a@x.com"}`,
			auth:         &fakeAuthenticator{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "invalid credentials",
			body:         `{"identifier":"a@x.com","password":"wrong"}`,
			auth:         &fakeAuthenticator{authErr: models.ErrInvalidCredentials},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "session store failure",
			body:         `{"identifier":"a@x.com","password":"pw"}`,
			auth:         &fakeAuthenticator{accountID: "u1", sessionErr: io.ErrUnexpectedEOF},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "success",
			body:         `{"identifier":"a@x.com","password":"pw"}`,
			auth:         &fakeAuthenticator{accountID: "u1", sessionID: "marker"},
			expectedCode: http.StatusOK,
			wantCookie:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(tt.body))
			h := &AuthHandler{Users: &fakeUserService{}, Auth: tt.auth, Metrics: newFakeMetrics(), Logger: zap.NewNop()}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Errorf("status = %d; want %d", res.StatusCode, tt.expectedCode)
			}

			var sessionCookie *http.Cookie
			for _, c := range res.Cookies() {
				if c.Name == middleware.SessionCookieName {
					sessionCookie = c
				}
			}
			if tt.wantCookie {
				if sessionCookie == nil || sessionCookie.Value != "marker" {
					t.Fatalf("expected session cookie, got %+v", sessionCookie)
				}
				if !sessionCookie.HttpOnly {
					t.Error("session cookie must be HTTP-only")
				}

				var payload map[string]string
				if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if payload["userId"] != "u1" {
					t.Errorf("userId = %q; want %q", payload["userId"], "u1")
				}
			} else if sessionCookie != nil {
				t.Errorf("unexpected session cookie on failure: %+v", sessionCookie)
			}
		})
	}
}

func TestAuthHandler_Login_CountsMetrics(t *testing.T) {
	metrics := newFakeMetrics()
	h := &AuthHandler{
		Users:   &fakeUserService{},
		Auth:    &fakeAuthenticator{authErr: models.ErrInvalidCredentials},
		Metrics: metrics,
		Logger:  zap.NewNop(),
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login",
		bytes.NewBufferString(`{"identifier":"a@x.com","password":"wrong"}`))
	h.Login(rec, req)

	if metrics.logins["failure"] != 1 {
		t.Errorf("failure logins = %d; want 1", metrics.logins["failure"])
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	auth := &fakeAuthenticator{}
	h := &AuthHandler{Users: &fakeUserService{}, Auth: auth, Metrics: newFakeMetrics(), Logger: zap.NewNop()}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "marker"})
	h.Logout(rec, req)
	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d; want 200", res.StatusCode)
	}
	if len(auth.loggedOut) != 1 || auth.loggedOut[0] != "marker" {
		t.Errorf("logged out sessions = %v; want [marker]", auth.loggedOut)
	}

	var cleared *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == middleware.SessionCookieName {
			cleared = c
		}
	}
	if cleared == nil || cleared.MaxAge != -1 {
		t.Errorf("expected cleared session cookie, got %+v", cleared)
	}
}
