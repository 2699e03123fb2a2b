package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cohorttools/cohort-tools-api/internal/model"
	"github.com/cohorttools/cohort-tools-api/internal/service"
)

// StudentHandler handles HTTP requests for students.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// HandleList handles GET /api/students requests.
func (h *StudentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, students)
}

// HandleListByCohort handles GET /api/students/cohort/{cohortId} requests.
func (h *StudentHandler) HandleListByCohort(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.ListByCohort(r.Context(), chi.URLParam(r, "cohortId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, students)
}

// HandleGet handles GET /api/students/{id} requests.
func (h *StudentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	student, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

// HandleCreate handles POST /api/students requests.
func (h *StudentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.StudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	student, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, student)
}

// HandleUpdate handles PUT /api/students/{id} requests.
func (h *StudentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.StudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	student, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

// HandleDelete handles DELETE /api/students/{id} requests.
func (h *StudentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
