package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"coursefeedback/internal/model"
	"coursefeedback/internal/service"
	"coursefeedback/internal/transport/rest/middleware"
)

// CourseHandler handles courses, enrollment and materials
type CourseHandler struct {
	courseSvc *service.CourseService
	logger    *zap.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseSvc *service.CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc, logger: logger}
}

// List handles GET /api/courses
//
//	@Summary	Courses visible to the caller
//	@Tags		courses
//	@Produce	json
//	@Success	200	{array}	model.CourseListItem
//	@Security	BearerAuth
//	@Router		/courses [get]
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.courseSvc.List(r.Context(), middleware.GetActor(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create handles POST /api/courses
//
//	@Summary	Create a course
//	@Tags		courses
//	@Accept		json
//	@Produce	json
//	@Param		body	body		model.CourseRequest	true	"course"
//	@Success	201		{object}	model.Course
//	@Failure	409		{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/courses [post]
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.courseSvc.Create(r.Context(), middleware.GetActor(r.Context()), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// Get handles GET /api/courses/{id}
//
//	@Summary	Course with materials and active forms
//	@Tags		courses
//	@Produce	json
//	@Param		id	path		string	true	"course id"
//	@Success	200	{object}	model.CourseDetail
//	@Security	BearerAuth
//	@Router		/courses/{id} [get]
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.courseSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Update handles PUT /api/courses/{id}
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.CourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.courseSvc.Update(r.Context(), middleware.GetActor(r.Context()), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// Delete handles DELETE /api/courses/{id}
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.courseSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Course deactivated"})
}

// Enroll handles POST /api/courses/{id}/enroll
//
//	@Summary	Enroll the calling student
//	@Tags		courses
//	@Produce	json
//	@Param		id	path		string	true	"course id"
//	@Success	201	{object}	map[string]string
//	@Failure	409	{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	if err := h.courseSvc.Enroll(r.Context(), middleware.GetActor(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Enrolled successfully"})
}

// AddMaterial handles POST /api/courses/{id}/materials
func (h *CourseHandler) AddMaterial(w http.ResponseWriter, r *http.Request) {
	var req model.Material
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.courseSvc.AddMaterial(r.Context(), middleware.GetActor(r.Context()), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// DeleteMaterial handles DELETE /api/materials/{id}
func (h *CourseHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	if err := h.courseSvc.DeleteMaterial(r.Context(), middleware.GetActor(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Material deleted"})
}
