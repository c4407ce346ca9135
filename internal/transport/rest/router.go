package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/swaggo/swag"
	"go.uber.org/zap"

	_ "coursefeedback/docs"
	"coursefeedback/internal/metrics"
	"coursefeedback/internal/model"
	"coursefeedback/internal/service"
	"coursefeedback/internal/transport/rest/handler"
	"coursefeedback/internal/transport/rest/middleware"
	"coursefeedback/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	UserService      *service.UserService
	CourseService    *service.CourseService
	FormService      *service.FormService
	AnalyticsService *service.AnalyticsService
	ExportService    *service.ExportService
	WSHub            *ws.Hub
	Metrics          *metrics.Metrics
	Logger           *zap.Logger

	CORSAllowedOrigins []string
	LoginRatePerMinute int
	LoginBurst         int
	TrustProxyHeaders  bool

	// Ready reports backing store health for /health; nil means always ready
	Ready func(r *http.Request) error
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService, logger)
	courseHandler := handler.NewCourseHandler(c.CourseService, logger)
	formHandler := handler.NewFormHandler(c.FormService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService, c.ExportService, logger)
	userHandler := handler.NewUserHandler(c.UserService, logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.CourseService, c.CORSAllowedOrigins, logger)

	authMW := middleware.NewAuthMiddleware(c.AuthService)
	loginLimiter := middleware.NewRateLimiter(c.LoginRatePerMinute, c.LoginBurst, c.TrustProxyHeaders)

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	if c.Metrics != nil {
		r.Use(c.Metrics.Middleware)
		r.Handle("/metrics", c.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", health(c.Ready)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.Handle("/auth/login", loginLimiter.Limit(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/docs/swagger.json", swaggerDoc).Methods(http.MethodGet)

	// WebSocket route (token in query param)
	api.HandleFunc("/ws/courses/{id}", wsHandler.CourseWS).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(authMW.Require())
	authed.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	authed.HandleFunc("/courses", courseHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/courses/{id}", courseHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/forms/{id}", formHandler.Get).Methods(http.MethodGet)

	student := api.NewRoute().Subrouter()
	student.Use(authMW.Require(model.RoleStudent))
	student.HandleFunc("/courses/{id}/enroll", courseHandler.Enroll).Methods(http.MethodPost)
	student.HandleFunc("/forms/{id}/submit", formHandler.Submit).Methods(http.MethodPost)

	staff := api.NewRoute().Subrouter()
	staff.Use(authMW.Require(model.RoleTeacher, model.RoleAdmin))
	staff.HandleFunc("/courses", courseHandler.Create).Methods(http.MethodPost)
	staff.HandleFunc("/courses/{id}", courseHandler.Update).Methods(http.MethodPut)
	staff.HandleFunc("/courses/{id}/materials", courseHandler.AddMaterial).Methods(http.MethodPost)
	staff.HandleFunc("/materials/{id}", courseHandler.DeleteMaterial).Methods(http.MethodDelete)
	staff.HandleFunc("/courses/{id}/forms", formHandler.Create).Methods(http.MethodPost)
	staff.HandleFunc("/courses/{id}/analytics", analyticsHandler.Course).Methods(http.MethodGet)
	staff.HandleFunc("/trends/{teacher_id}", analyticsHandler.Trends).Methods(http.MethodGet)
	staff.HandleFunc("/teachers", userHandler.Teachers).Methods(http.MethodGet)

	teacher := api.NewRoute().Subrouter()
	teacher.Use(authMW.Require(model.RoleTeacher))
	teacher.HandleFunc("/teacher/analytics", analyticsHandler.Teacher).Methods(http.MethodGet)
	teacher.HandleFunc("/teacher/analytics/export", analyticsHandler.Export).Methods(http.MethodGet)

	admin := api.NewRoute().Subrouter()
	admin.Use(authMW.Require(model.RoleAdmin))
	admin.HandleFunc("/courses/{id}", courseHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/admin/dashboard", analyticsHandler.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users", userHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users", userHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/admin/users/{id}", userHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/admin/users/{id}", userHandler.Deactivate).Methods(http.MethodDelete)

	return cors.New(cors.Options{
		AllowedOrigins: c.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
	}).Handler(r)
}

func health(ready func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ready != nil {
			if err := ready(r); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, `{"error":"docs unavailable"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
