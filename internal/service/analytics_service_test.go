package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursefeedback/internal/analytics"
	"coursefeedback/internal/model"
	"coursefeedback/internal/testutil/fakes"
)

type analyticsFixture struct {
	svc         *AnalyticsService
	cache       *fakes.AnalyticsCache
	ranking     *fakes.Ranking
	snapshots   *fakes.Snapshots
	broadcaster *fakes.Broadcaster
	recorder    *fakes.Recorder
	responses   *fakes.Responses
}

func ratingResponse(courseID string, at time.Time, rating float64, text string) *model.FeedbackResponse {
	answers := []model.Answer{{QuestionID: "q1", QuestionType: model.QuestionRating, Value: floatPtr(rating)}}
	if text != "" {
		answers = append(answers, model.Answer{QuestionID: "q2", QuestionType: model.QuestionText, Text: text})
	}
	return &model.FeedbackResponse{ID: courseID + at.String(), CourseID: courseID, SubmittedAt: at, Answers: answers}
}

func newAnalyticsFixture() analyticsFixture {
	users := fakes.NewUsers(
		&model.User{ID: "t1", FullName: "Dr. Smith", Role: model.RoleTeacher, IsActive: true},
		&model.User{ID: "t2", FullName: "Dr. Jones", Role: model.RoleTeacher, IsActive: true},
		&model.User{ID: "s1", Role: model.RoleStudent, IsActive: true},
		&model.User{ID: "s2", Role: model.RoleStudent, IsActive: true},
		&model.User{ID: "s3", Role: model.RoleStudent, IsActive: false},
	)
	courses := fakes.NewCourses(
		&model.Course{ID: "c1", Code: "CS101", Title: "Intro", TeacherID: "t1", Semester: "Fall", IsActive: true},
		&model.Course{ID: "c2", Code: "CS102", Title: "Lab", TeacherID: "t1", Semester: "Spring", IsActive: true},
		&model.Course{ID: "c3", Code: "MA101", Title: "Calculus", TeacherID: "t2", Semester: "Fall", IsActive: true},
	)
	enrollments := &fakes.Enrollments{Items: []*model.Enrollment{
		{StudentID: "s1", CourseID: "c1"},
		{StudentID: "s2", CourseID: "c1"},
		{StudentID: "s1", CourseID: "c3"},
	}}
	responses := &fakes.Responses{Items: []*model.FeedbackResponse{
		ratingResponse("c1", time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), 5, "Excellent course, the examples were really helpful"),
		ratingResponse("c1", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), 2, "Lectures were confusing and the pace was slow"),
		ratingResponse("c1", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), 4, "Great instructor, clear explanations"),
		ratingResponse("c3", time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC), 3, ""),
	}}

	fx := analyticsFixture{
		cache:       fakes.NewAnalyticsCache(),
		ranking:     fakes.NewRanking(),
		snapshots:   &fakes.Snapshots{},
		broadcaster: &fakes.Broadcaster{},
		recorder:    &fakes.Recorder{},
		responses:   responses,
	}
	fx.svc = NewAnalyticsService(analytics.NewEngine(), courses, enrollments, responses, users, fx.snapshots, fx.cache, fx.ranking, nil)
	fx.svc.SetBroadcaster(fx.broadcaster)
	fx.svc.SetRecorder(fx.recorder)
	return fx
}

func TestCollectInputs(t *testing.T) {
	responses := []*model.FeedbackResponse{
		{Answers: []model.Answer{
			{QuestionType: model.QuestionRating, Value: floatPtr(4)},
			{QuestionType: model.QuestionScale, Value: floatPtr(9)},
			{QuestionType: model.QuestionText, Text: "first"},
		}},
		{Answers: []model.Answer{
			{QuestionType: model.QuestionMultipleChoice, Text: "second"},
			{QuestionType: model.QuestionRating, Value: floatPtr(2)},
		}},
	}

	texts, ratings := CollectInputs(responses)
	if len(texts) != 2 || texts[0] != "first" || texts[1] != "second" {
		t.Fatalf("unexpected texts %v", texts)
	}
	if len(ratings) != 2 || ratings[0] != 4 || ratings[1] != 2 {
		t.Fatalf("expected only rating answers, got %v", ratings)
	}

	texts, ratings = CollectInputs(nil)
	if texts == nil || ratings == nil {
		t.Fatal("expected empty slices, not nil")
	}
}

func TestCourseAnalyticsComputesThenCaches(t *testing.T) {
	fx := newAnalyticsFixture()
	ctx := context.Background()
	owner := Actor{UserID: "t1", Role: model.RoleTeacher}

	a, err := fx.svc.CourseAnalytics(ctx, owner, "c1")
	if err != nil {
		t.Fatalf("CourseAnalytics() error = %v", err)
	}
	if a.TotalFeedback != 3 || a.ResponseCount != 3 || a.EnrolledCount != 2 {
		t.Fatalf("unexpected counts %+v", a)
	}
	if a.AvgRating != 3.67 {
		t.Fatalf("expected avg 3.67, got %v", a.AvgRating)
	}
	if fx.recorder.Misses != 1 || fx.recorder.Hits != 0 {
		t.Fatalf("expected one cache miss, got hits %d misses %d", fx.recorder.Hits, fx.recorder.Misses)
	}

	snap, _ := fx.snapshots.GetLatest(ctx, "c1", model.AnalysisFeedback)
	if snap == nil || snap.Result.PerformanceScore != a.PerformanceScore || snap.TeacherID != "t1" {
		t.Fatalf("expected snapshot of computed record, got %+v", snap)
	}
	if fx.ranking.Scores["c1"] != a.PerformanceScore {
		t.Fatalf("expected ranking score %v, got %v", a.PerformanceScore, fx.ranking.Scores["c1"])
	}

	again, err := fx.svc.CourseAnalytics(ctx, Actor{UserID: "a1", Role: model.RoleAdmin}, "c1")
	if err != nil {
		t.Fatalf("CourseAnalytics() error = %v", err)
	}
	if fx.recorder.Hits != 1 || again != fx.cache.Items["c1"] {
		t.Fatal("expected second read to be served from cache")
	}
}

func TestCourseAnalyticsAccess(t *testing.T) {
	fx := newAnalyticsFixture()
	ctx := context.Background()

	if _, err := fx.svc.CourseAnalytics(ctx, Actor{UserID: "t2", Role: model.RoleTeacher}, "c1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := fx.svc.CourseAnalytics(ctx, Actor{UserID: "t1", Role: model.RoleTeacher}, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCourseAnalyticsWithoutFeedback(t *testing.T) {
	fx := newAnalyticsFixture()

	a, err := fx.svc.CourseAnalytics(context.Background(), Actor{UserID: "t1", Role: model.RoleTeacher}, "c2")
	if err != nil {
		t.Fatalf("CourseAnalytics() error = %v", err)
	}
	if a.Summary != analytics.NoFeedbackSummary || a.PerformanceScore != 0 || a.TotalFeedback != 0 {
		t.Fatalf("unexpected empty analytics %+v", a)
	}
}

func TestRefreshRecomputesAndBroadcasts(t *testing.T) {
	fx := newAnalyticsFixture()
	ctx := context.Background()
	fx.cache.Items["c1"] = &model.CourseAnalytics{CourseID: "c1"}

	err := fx.svc.HandleFeedbackEvent(ctx, model.FeedbackEvent{CourseID: "c1"})
	if err != nil {
		t.Fatalf("HandleFeedbackEvent() error = %v", err)
	}
	if got := fx.cache.Items["c1"]; got == nil || got.TotalFeedback != 3 {
		t.Fatalf("expected fresh record cached, got %+v", got)
	}
	if len(fx.broadcaster.Sent) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(fx.broadcaster.Sent))
	}
	msg := fx.broadcaster.Sent[0]
	update, ok := msg.Payload.(model.AnalyticsUpdate)
	if msg.CourseID != "c1" || msg.MsgType != MsgAnalyticsUpdate || !ok {
		t.Fatalf("unexpected broadcast %+v", msg)
	}
	if update.TotalFeedback != 3 || update.Distribution.Total() != 3 {
		t.Fatalf("unexpected update payload %+v", update)
	}

	if err := fx.svc.Refresh(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeacherOverview(t *testing.T) {
	fx := newAnalyticsFixture()
	ctx := context.Background()

	o, err := fx.svc.TeacherOverview(ctx, "t1")
	if err != nil {
		t.Fatalf("TeacherOverview() error = %v", err)
	}
	if o.TotalCourses != 2 || o.TotalStudents != 2 || o.TotalFeedback != 3 {
		t.Fatalf("unexpected totals %+v", o)
	}
	if len(o.CoursesAnalytics) != 2 || o.CoursesAnalytics[0].CourseCode != "CS101" {
		t.Fatalf("unexpected course rows %+v", o.CoursesAnalytics)
	}
	want := analytics.Round(o.CoursesAnalytics[0].PerformanceScore/2, 1)
	if o.AvgPerformance != want {
		t.Fatalf("expected avg performance %v, got %v", want, o.AvgPerformance)
	}

	empty, err := fx.svc.TeacherOverview(ctx, "nobody")
	if err != nil {
		t.Fatalf("TeacherOverview() error = %v", err)
	}
	if empty.TotalCourses != 0 || empty.AvgPerformance != 0 || empty.CoursesAnalytics == nil {
		t.Fatalf("unexpected empty overview %+v", empty)
	}
}

func TestTrends(t *testing.T) {
	fx := newAnalyticsFixture()

	trends, err := fx.svc.Trends(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Trends() error = %v", err)
	}
	if len(trends) != 1 || trends[0].CourseID != "c1" {
		t.Fatalf("expected only the course with ratings, got %+v", trends)
	}
	data := trends[0].Data
	if len(data) != 2 {
		t.Fatalf("expected two periods, got %+v", data)
	}
	if data[0].Period != "Fall 2025" || data[0].AvgRating != 3.5 || data[0].Count != 2 {
		t.Fatalf("unexpected first period %+v", data[0])
	}
	if data[1].Period != "Fall 2026" || data[1].AvgRating != 4 || data[1].Count != 1 {
		t.Fatalf("unexpected second period %+v", data[1])
	}
}

func TestTrendsRoundsTiesToEven(t *testing.T) {
	fx := newAnalyticsFixture()
	for i, rating := range []float64{4, 4, 4, 4, 4, 4, 4, 5} {
		at := time.Date(2027, 3, i+1, 0, 0, 0, 0, time.UTC)
		fx.responses.Items = append(fx.responses.Items, ratingResponse("c3", at, rating, ""))
	}

	trends, err := fx.svc.Trends(context.Background(), "t2")
	if err != nil {
		t.Fatalf("Trends() error = %v", err)
	}
	if len(trends) != 1 || len(trends[0].Data) != 2 {
		t.Fatalf("unexpected trends %+v", trends)
	}
	if got := trends[0].Data[1]; got.Period != "Fall 2027" || got.AvgRating != 4.12 || got.Count != 8 {
		t.Fatalf("expected Fall 2027 avg 4.12 over 8 ratings, got %+v", got)
	}
}

func TestAdminDashboard(t *testing.T) {
	fx := newAnalyticsFixture()
	ctx := context.Background()

	if _, err := fx.svc.CourseAnalytics(ctx, Actor{Role: model.RoleAdmin}, "c1"); err != nil {
		t.Fatalf("CourseAnalytics() error = %v", err)
	}

	d, err := fx.svc.AdminDashboard(ctx)
	if err != nil {
		t.Fatalf("AdminDashboard() error = %v", err)
	}
	if d.TotalUsers != 4 || d.TotalStudents != 2 || d.TotalTeachers != 2 {
		t.Fatalf("unexpected user counts %+v", d)
	}
	if d.TotalCourses != 3 || d.TotalFeedback != 4 || d.TotalEnrollments != 3 {
		t.Fatalf("unexpected totals %+v", d)
	}
	if d.SentimentOverview.Total() != 3 {
		t.Fatalf("expected three classified texts, got %+v", d.SentimentOverview)
	}
	if len(d.TopCourses) != 3 || d.TopCourses[0].CourseID != "c1" || d.TopCourses[0].Teacher != "Dr. Smith" {
		t.Fatalf("unexpected top courses %+v", d.TopCourses)
	}
	if d.TopCourses[0].FeedbackCount != 3 || d.TopCourses[0].Students != 2 {
		t.Fatalf("unexpected top course counts %+v", d.TopCourses[0])
	}
	if len(d.TopPerforming) != 1 || d.TopPerforming[0].CourseID != "c1" || d.TopPerforming[0].Rank != 1 {
		t.Fatalf("unexpected ranking %+v", d.TopPerforming)
	}
}
