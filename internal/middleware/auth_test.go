package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cohorttools/cohort-tools-api/internal/crypto"
)

func newTestTokens(t *testing.T, secret string) *crypto.TokenManager {
	t.Helper()
	m, err := crypto.NewTokenManager(secret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() unexpected error: %v", err)
	}
	return m
}

func TestJWTAuth(t *testing.T) {
	tokens := newTestTokens(t, "test-secret")
	valid, err := tokens.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	foreign, err := newTestTokens(t, "other-secret").Issue("user-42")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid token", header: "Bearer " + valid, status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "no scheme", header: valid, status: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", status: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", status: http.StatusUnauthorized},
		{name: "truncated token", header: "Bearer " + valid[:len(valid)-1], status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				called  bool
				subject string
			)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				subject, _ = SubjectFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/verify", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			JWTAuth(tokens)(next).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				if called {
					t.Fatal("next handler ran for a rejected request")
				}
				var body map[string]string
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body["error"] == "" {
					t.Error("rejection body has no error message")
				}
				return
			}
			if subject != "user-42" {
				t.Errorf("subject = %q, want %q", subject, "user-42")
			}
		})
	}
}

func TestSubjectFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := SubjectFromContext(req.Context()); ok {
		t.Error("SubjectFromContext() ok = true on a bare context")
	}
	if _, ok := SubjectFromContext(WithSubject(req.Context(), "")); ok {
		t.Error("SubjectFromContext() ok = true for an empty subject")
	}
	if s, ok := SubjectFromContext(WithSubject(req.Context(), "u1")); !ok || s != "u1" {
		t.Errorf("SubjectFromContext() = %q, %v", s, ok)
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if rec.Body.String() != "short and stout" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
