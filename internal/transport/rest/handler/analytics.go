package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"coursefeedback/internal/model"
	"coursefeedback/internal/service"
	"coursefeedback/internal/transport/rest/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyticsHandler serves course, teacher and admin analytics
type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
	exportSvc    *service.ExportService
	logger       *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService, exportSvc *service.ExportService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc, exportSvc: exportSvc, logger: logger}
}

// Course handles GET /api/courses/{id}/analytics
//
//	@Summary	Sentiment, keywords, summary, score and suggestions for a course
//	@Tags		analytics
//	@Produce	json
//	@Param		id	path		string	true	"course id"
//	@Success	200	{object}	model.CourseAnalytics
//	@Failure	403	{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/courses/{id}/analytics [get]
func (h *AnalyticsHandler) Course(w http.ResponseWriter, r *http.Request) {
	a, err := h.analyticsSvc.CourseAnalytics(r.Context(), middleware.GetActor(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Teacher handles GET /api/teacher/analytics
//
//	@Summary	Overview of the calling teacher's courses
//	@Tags		analytics
//	@Produce	json
//	@Success	200	{object}	model.TeacherOverview
//	@Security	BearerAuth
//	@Router		/teacher/analytics [get]
func (h *AnalyticsHandler) Teacher(w http.ResponseWriter, r *http.Request) {
	o, err := h.analyticsSvc.TeacherOverview(r.Context(), middleware.GetActor(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// Export handles GET /api/teacher/analytics/export
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var buf bytes.Buffer
	if err := h.exportSvc.TeacherOverviewXLSX(r.Context(), actor.UserID, &buf); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analytics-%s.xlsx"`, actor.Username))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Trends handles GET /api/trends/{teacher_id}. Teachers may only read
// their own trends.
//
//	@Summary	Average rating per semester period for a teacher's courses
//	@Tags		analytics
//	@Produce	json
//	@Param		teacher_id	path	string	true	"teacher id"
//	@Success	200			{array}	model.CourseTrend
//	@Security	BearerAuth
//	@Router		/trends/{teacher_id} [get]
func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	teacherID := mux.Vars(r)["teacher_id"]
	actor := middleware.GetActor(r.Context())
	if actor.Role == model.RoleTeacher && actor.UserID != teacherID {
		writeServiceError(w, h.logger, service.ErrForbidden)
		return
	}

	trends, err := h.analyticsSvc.Trends(r.Context(), teacherID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

// Dashboard handles GET /api/admin/dashboard
//
//	@Summary	System-wide counts, sentiment overview and top courses
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	model.AdminDashboard
//	@Security	BearerAuth
//	@Router		/admin/dashboard [get]
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.analyticsSvc.AdminDashboard(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
