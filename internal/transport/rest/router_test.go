package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coursefeedback/internal/analytics"
	"coursefeedback/internal/metrics"
	"coursefeedback/internal/model"
	"coursefeedback/internal/service"
	"coursefeedback/internal/testutil/fakes"
	"coursefeedback/internal/transport/ws"
)

type testServer struct {
	srv    *httptest.Server
	auth   *service.AuthService
	tokens map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hash, err := service.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	userList := []*model.User{
		{ID: "t1", Username: "teacher1", Email: "t1@uni.edu", PasswordHash: hash, Role: model.RoleTeacher, FullName: "Dr. Smith", IsActive: true},
		{ID: "t2", Username: "teacher2", Email: "t2@uni.edu", PasswordHash: hash, Role: model.RoleTeacher, IsActive: true},
		{ID: "s1", Username: "student1", Email: "s1@uni.edu", PasswordHash: hash, Role: model.RoleStudent, IsActive: true},
		{ID: "a1", Username: "admin", Email: "admin@uni.edu", PasswordHash: hash, Role: model.RoleAdmin, IsActive: true},
	}
	users := fakes.NewUsers(userList...)
	courses := fakes.NewCourses(&model.Course{ID: "c1", Code: "CS101", Title: "Intro", TeacherID: "t1", Semester: "Fall", IsActive: true})
	enrollments := &fakes.Enrollments{}
	forms := fakes.NewForms(&model.FeedbackForm{
		ID:       "f1",
		CourseID: "c1",
		IsActive: true,
		Questions: []model.Question{
			{ID: "q1", Text: "Rate the course", Type: model.QuestionRating, IsRequired: true},
			{ID: "q2", Text: "Comments", Type: model.QuestionText},
		},
	})
	responses := &fakes.Responses{}
	analyticsCache := fakes.NewAnalyticsCache()

	authSvc := service.NewAuthService(users, "test-secret", time.Hour)
	analyticsSvc := service.NewAnalyticsService(analytics.NewEngine(), courses, enrollments, responses, users,
		&fakes.Snapshots{}, analyticsCache, fakes.NewRanking(), nil)
	m := metrics.New("test")
	analyticsSvc.SetRecorder(m)

	hub := ws.NewHub(m, nil)
	t.Cleanup(hub.Stop)

	handler := NewRouter(&Container{
		AuthService:        authSvc,
		UserService:        service.NewUserService(users),
		CourseService:      service.NewCourseService(courses, enrollments, fakes.NewMaterials(), forms, users),
		FormService:        service.NewFormService(forms, courses, responses, analyticsCache, &fakes.Publisher{}, nil),
		AnalyticsService:   analyticsSvc,
		ExportService:      service.NewExportService(analyticsSvc),
		WSHub:              hub,
		Metrics:            m,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		LoginRatePerMinute: 60,
		LoginBurst:         3,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ts := &testServer{srv: srv, auth: authSvc, tokens: map[string]string{}}
	for _, u := range userList {
		token, err := authSvc.IssueToken(u)
		if err != nil {
			t.Fatalf("IssueToken() error = %v", err)
		}
		ts.tokens[u.ID] = token
	}
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, userID string, body interface{}) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, rdr)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+ts.tokens[userID])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, body)
	}
}

func TestHealthAndDocs(t *testing.T) {
	ts := newTestServer(t)

	expectStatus(t, ts.do(t, http.MethodGet, "/health", "", nil), http.StatusOK)

	resp := ts.do(t, http.MethodGet, "/api/docs/swagger.json", "", nil)
	expectStatus(t, resp, http.StatusOK)
	var doc map[string]interface{}
	decode(t, resp, &doc)
	if doc["basePath"] != "/api" {
		t.Fatalf("unexpected swagger document %v", doc["basePath"])
	}

	resp = ts.do(t, http.MethodGet, "/metrics", "", nil)
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "feedback_http_requests_total") {
		t.Fatal("expected http metrics to be exported")
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/auth/login", "", model.LoginRequest{Username: "teacher1", Password: "password123"})
	expectStatus(t, resp, http.StatusOK)
	var auth model.AuthResponse
	decode(t, resp, &auth)
	if auth.Token == "" || auth.User.Role != model.RoleTeacher {
		t.Fatalf("unexpected login response %+v", auth)
	}

	resp = ts.do(t, http.MethodPost, "/api/auth/login", "", model.LoginRequest{Username: "teacher1", Password: "wrong"})
	expectStatus(t, resp, http.StatusUnauthorized)

	resp = ts.do(t, http.MethodPost, "/api/auth/login", "", model.LoginRequest{})
	expectStatus(t, resp, http.StatusBadRequest)

	// burst of three is spent
	resp = ts.do(t, http.MethodPost, "/api/auth/login", "", model.LoginRequest{Username: "teacher1", Password: "password123"})
	expectStatus(t, resp, http.StatusTooManyRequests)
}

func TestRegisterOverlongPasswordIsBadRequest(t *testing.T) {
	ts := newTestServer(t)

	req := model.RegisterRequest{Username: "newbie", Email: "newbie@uni.edu", Password: strings.Repeat("p", 100), FullName: "New Student"}
	expectStatus(t, ts.do(t, http.MethodPost, "/api/auth/register", "", req), http.StatusBadRequest)
}

func TestAuthAndRoleGates(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		method string
		path   string
		user   string
		want   int
	}{
		{http.MethodGet, "/api/courses", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/courses", "s1", http.StatusOK},
		{http.MethodGet, "/api/auth/me", "t1", http.StatusOK},
		{http.MethodPost, "/api/courses/c1/enroll", "t1", http.StatusForbidden},
		{http.MethodGet, "/api/courses/c1/analytics", "s1", http.StatusForbidden},
		{http.MethodGet, "/api/courses/c1/analytics", "t2", http.StatusForbidden},
		{http.MethodGet, "/api/courses/nope/analytics", "a1", http.StatusNotFound},
		{http.MethodGet, "/api/admin/dashboard", "t1", http.StatusForbidden},
		{http.MethodGet, "/api/admin/dashboard", "a1", http.StatusOK},
		{http.MethodGet, "/api/trends/t1", "t2", http.StatusForbidden},
		{http.MethodGet, "/api/trends/t1", "t1", http.StatusOK},
		{http.MethodGet, "/api/teachers", "t1", http.StatusOK},
		{http.MethodGet, "/api/teacher/analytics", "a1", http.StatusForbidden},
	}
	for _, tc := range cases {
		resp := ts.do(t, tc.method, tc.path, tc.user, nil)
		expectStatus(t, resp, tc.want)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.srv.URL+"/api/courses", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.StatusCode)
	}
}

func TestSubmitThenAnalytics(t *testing.T) {
	ts := newTestServer(t)

	expectStatus(t, ts.do(t, http.MethodPost, "/api/courses/c1/enroll", "s1", nil), http.StatusCreated)
	expectStatus(t, ts.do(t, http.MethodPost, "/api/courses/c1/enroll", "s1", nil), http.StatusConflict)

	rating, text := 5.0, "Excellent course, very clear lectures"
	submit := model.SubmitRequest{Answers: []model.AnswerInput{
		{QuestionID: "q1", Value: &rating},
		{QuestionID: "q2", Text: &text},
	}}
	resp := ts.do(t, http.MethodPost, "/api/forms/f1/submit", "s1", submit)
	expectStatus(t, resp, http.StatusCreated)
	var created map[string]string
	decode(t, resp, &created)
	if created["id"] == "" {
		t.Fatalf("expected response id, got %v", created)
	}

	bad := 9.0
	resp = ts.do(t, http.MethodPost, "/api/forms/f1/submit", "s1", model.SubmitRequest{Answers: []model.AnswerInput{{QuestionID: "q1", Value: &bad}}})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = ts.do(t, http.MethodGet, "/api/courses/c1/analytics", "t1", nil)
	expectStatus(t, resp, http.StatusOK)
	var a model.CourseAnalytics
	decode(t, resp, &a)
	if a.TotalFeedback != 1 || a.AvgRating != 5 || a.EnrolledCount != 1 || a.ResponseCount != 1 {
		t.Fatalf("unexpected analytics %+v", a)
	}
	if a.SentimentDistribution.Positive != 1 {
		t.Fatalf("expected positive feedback, got %+v", a.SentimentDistribution)
	}

	resp = ts.do(t, http.MethodGet, "/api/teacher/analytics/export", "t1", nil)
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected export content type %q", ct)
	}
}

func TestCreateCourseConflict(t *testing.T) {
	ts := newTestServer(t)

	req := model.CourseRequest{Title: "Compilers", Code: "CS301"}
	expectStatus(t, ts.do(t, http.MethodPost, "/api/courses", "t1", req), http.StatusCreated)
	expectStatus(t, ts.do(t, http.MethodPost, "/api/courses", "t2", req), http.StatusConflict)
	expectStatus(t, ts.do(t, http.MethodPost, "/api/courses", "s1", req), http.StatusForbidden)
	expectStatus(t, ts.do(t, http.MethodDelete, "/api/courses/c1", "t1", nil), http.StatusForbidden)
	expectStatus(t, ts.do(t, http.MethodDelete, "/api/courses/c1", "a1", nil), http.StatusOK)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.srv.URL+"/api/courses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}
