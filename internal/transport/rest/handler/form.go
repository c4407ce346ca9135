package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"coursefeedback/internal/model"
	"coursefeedback/internal/service"
	"coursefeedback/internal/transport/rest/middleware"
)

// FormHandler handles feedback forms and submissions
type FormHandler struct {
	formSvc *service.FormService
	logger  *zap.Logger
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService, logger *zap.Logger) *FormHandler {
	return &FormHandler{formSvc: formSvc, logger: logger}
}

// Create handles POST /api/courses/{id}/forms
//
//	@Summary	Create a feedback form for a course
//	@Tags		forms
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"course id"
//	@Param		body	body		model.CreateFormRequest	true	"form"
//	@Success	201		{object}	model.FeedbackForm
//	@Security	BearerAuth
//	@Router		/courses/{id}/forms [post]
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateFormRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	form, err := h.formSvc.Create(r.Context(), middleware.GetActor(r.Context()), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

// Get handles GET /api/forms/{id}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.formSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Submit handles POST /api/forms/{id}/submit
//
//	@Summary	Submit feedback to a form
//	@Tags		forms
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"form id"
//	@Param		body	body		model.SubmitRequest	true	"answers"
//	@Success	201		{object}	map[string]string
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/forms/{id}/submit [post]
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.formSvc.Submit(r.Context(), middleware.GetActor(r.Context()), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Feedback submitted successfully",
		"id":      resp.ID,
	})
}
