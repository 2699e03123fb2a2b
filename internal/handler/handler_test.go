package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cohorttools/cohort-tools-api/internal/crypto"
	"github.com/cohorttools/cohort-tools-api/internal/middleware"
	"github.com/cohorttools/cohort-tools-api/internal/repository"
	"github.com/cohorttools/cohort-tools-api/internal/service"
)

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()

	hasher, err := crypto.NewHasher(crypto.HasherConfig{
		Algorithm: crypto.AlgorithmArgon2id,
		Argon2:    crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1},
	})
	if err != nil {
		t.Fatalf("NewHasher() unexpected error: %v", err)
	}
	tokens, err := crypto.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() unexpected error: %v", err)
	}

	return NewAuthHandler(service.NewAuthService(repository.NewMemoryUserRepository(), hasher, tokens))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleSignupBadBody(t *testing.T) {
	h := newTestAuthHandler(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "malformed json", body: `{"email":`, status: http.StatusBadRequest},
		{name: "wrong type", body: `{"email":42}`, status: http.StatusBadRequest},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, status: http.StatusRequestEntityTooLarge},
		{name: "missing fields", body: `{}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.HandleSignup(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandleSignupValidationFields(t *testing.T) {
	h := newTestAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"nope","password":"secret"}`))
	rec := httptest.NewRecorder()
	h.HandleSignup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body validationResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "validation failed" {
		t.Errorf("error = %q, want %q", body.Error, "validation failed")
	}
	if _, ok := body.Fields["email"]; !ok {
		t.Errorf("fields = %v, want an email entry", body.Fields)
	}
	if _, ok := body.Fields["name"]; !ok {
		t.Errorf("fields = %v, want a name entry", body.Fields)
	}
}

func TestHandleGetUserUnknownIDIsNull(t *testing.T) {
	h := newTestAuthHandler(t)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/users/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()
	h.HandleGetUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "null" {
		t.Errorf("body = %q, want null", got)
	}
}

func TestHandleVerifyWithoutSubject(t *testing.T) {
	h := newTestAuthHandler(t)

	rec := httptest.NewRecorder()
	h.HandleVerify(rec, httptest.NewRequest(http.MethodGet, "/verify", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest(http.MethodGet, "/verify", nil)
	req = req.WithContext(middleware.WithSubject(req.Context(), "deleted-user"))
	rec = httptest.NewRecorder()
	h.HandleVerify(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: &service.ValidationError{Fields: map[string]string{"email": "cannot be blank"}}, status: http.StatusBadRequest},
		{err: service.ErrInvalidCredentials, status: http.StatusUnauthorized},
		{err: service.ErrEmailTaken, status: http.StatusConflict},
		{err: fmt.Errorf("create: %w", service.ErrCohortConflict), status: http.StatusConflict},
		{err: service.ErrStudentConflict, status: http.StatusConflict},
		{err: service.ErrUserNotFound, status: http.StatusNotFound},
		{err: service.ErrCohortNotFound, status: http.StatusNotFound},
		{err: service.ErrStudentNotFound, status: http.StatusNotFound},
		{err: errors.New("connection refused"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(rec.Body.String(), "connection refused") {
				t.Error("500 response leaked the internal error")
			}
		})
	}
}

func TestCohortHandlerNotFound(t *testing.T) {
	h := NewCohortHandler(service.NewCohortService(repository.NewMemoryCohortRepository()))

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/cohorts/x", nil), "id", "x"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestStudentHandlerListEmpty(t *testing.T) {
	h := NewStudentHandler(service.NewStudentService(repository.NewMemoryStudentRepository()))

	rec := httptest.NewRecorder()
	h.HandleListByCohort(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/students/cohort/c1", nil), "cohortId", "c1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}
