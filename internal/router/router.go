package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cohorttools/cohort-tools-api/internal/crypto"
	"github.com/cohorttools/cohort-tools-api/internal/handler"
	"github.com/cohorttools/cohort-tools-api/internal/middleware"
	"github.com/cohorttools/cohort-tools-api/internal/repository"
	"github.com/cohorttools/cohort-tools-api/internal/service"
)

const healthTimeout = 2 * time.Second

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Store  *repository.Store
	Hasher *crypto.Hasher
	Tokens *crypto.TokenManager
}

// New assembles the chi router: public auth routes, the guarded group and
// the cohort and student resources.
func New(deps Deps) http.Handler {
	authHandler := handler.NewAuthHandler(service.NewAuthService(deps.Store.Users, deps.Hasher, deps.Tokens))
	cohortHandler := handler.NewCohortHandler(service.NewCohortService(deps.Store.Cohorts))
	studentHandler := handler.NewStudentHandler(service.NewStudentService(deps.Store.Students))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler(deps.Store))

	r.Post("/signup", authHandler.HandleSignup)
	r.Post("/login", authHandler.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(deps.Tokens))
		r.Get("/verify", authHandler.HandleVerify)
		r.Get("/api/users/{id}", authHandler.HandleGetUser)
	})

	r.Route("/api/cohorts", func(r chi.Router) {
		r.Get("/", cohortHandler.HandleList)
		r.Post("/", cohortHandler.HandleCreate)
		r.Get("/{id}", cohortHandler.HandleGet)
		r.Put("/{id}", cohortHandler.HandleUpdate)
		r.Delete("/{id}", cohortHandler.HandleDelete)
	})

	r.Route("/api/students", func(r chi.Router) {
		r.Get("/", studentHandler.HandleList)
		r.Post("/", studentHandler.HandleCreate)
		r.Get("/cohort/{cohortId}", studentHandler.HandleListByCohort)
		r.Get("/{id}", studentHandler.HandleGet)
		r.Put("/{id}", studentHandler.HandleUpdate)
		r.Delete("/{id}", studentHandler.HandleDelete)
	})

	return r
}

// pinger reports whether a backend is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// healthHandler answers 200 when the store responds to a ping and 503 with
// a short reason otherwise. Driver error text stays in the server log.
func healthHandler(store pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp, status := healthResponse{Status: "ok"}, http.StatusOK
		if err := store.Ping(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			resp, status = healthResponse{Status: "unavailable", Error: "store unreachable"}, http.StatusServiceUnavailable
			if errors.Is(err, context.DeadlineExceeded) {
				resp.Error = "store ping timed out"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}
}
