package handlers

import (
	"net/http"

	"samaj-backend/internal/middleware"
	"samaj-backend/internal/repository"
	"samaj-backend/internal/services"
)

// StudentHandler handles student profile HTTP requests
type StudentHandler struct {
	studentService *services.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *services.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// List handles GET /api/v1/students?q=&study_level=&gol=
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	students, err := h.studentService.List(r.Context(), repository.StudentFilter{
		Query:      q.Get("q"),
		StudyLevel: q.Get("study_level"),
		Gol:        q.Get("gol"),
	})
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, students)
}

// Create handles POST /api/v1/students
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.StudentInput
	if !decodeJSON(w, r, &req) {
		return
	}

	student, err := h.studentService.Create(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, student)
}
