package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cohorttools/cohort-tools-api/internal/model"
	"github.com/cohorttools/cohort-tools-api/internal/service"
)

// CohortHandler handles HTTP requests for cohorts.
type CohortHandler struct {
	service *service.CohortService
}

// NewCohortHandler creates a new CohortHandler.
func NewCohortHandler(svc *service.CohortService) *CohortHandler {
	return &CohortHandler{service: svc}
}

// HandleList handles GET /api/cohorts requests.
func (h *CohortHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	cohorts, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cohorts)
}

// HandleGet handles GET /api/cohorts/{id} requests.
func (h *CohortHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cohort, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cohort)
}

// HandleCreate handles POST /api/cohorts requests.
func (h *CohortHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CohortRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cohort, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, cohort)
}

// HandleUpdate handles PUT /api/cohorts/{id} requests.
func (h *CohortHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.CohortRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cohort, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cohort)
}

// HandleDelete handles DELETE /api/cohorts/{id} requests.
func (h *CohortHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
