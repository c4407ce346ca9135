package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"coursefeedback/internal/analytics"
	"coursefeedback/internal/cache"
	"coursefeedback/internal/model"
	"coursefeedback/internal/repository"
)

const (
	// MsgAnalyticsUpdate is the websocket message type for refreshed analytics
	MsgAnalyticsUpdate = "analytics_update"

	topCoursesLimit = 5
)

// AnalyticsService runs the feedback engine over stored responses
type AnalyticsService struct {
	engine      *analytics.Engine
	courses     repository.CourseRepo
	enrollments repository.EnrollmentRepo
	responses   repository.ResponseRepo
	users       repository.UserRepo
	snapshots   repository.SnapshotRepo
	cache       cache.AnalyticsCache
	ranking     cache.RankingCache
	broadcaster Broadcaster
	recorder    AnalyticsRecorder
	logger      *zap.Logger
	now         func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	engine *analytics.Engine,
	courses repository.CourseRepo,
	enrollments repository.EnrollmentRepo,
	responses repository.ResponseRepo,
	users repository.UserRepo,
	snapshots repository.SnapshotRepo,
	analyticsCache cache.AnalyticsCache,
	ranking cache.RankingCache,
	logger *zap.Logger,
) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		engine:      engine,
		courses:     courses,
		enrollments: enrollments,
		responses:   responses,
		users:       users,
		snapshots:   snapshots,
		cache:       analyticsCache,
		ranking:     ranking,
		recorder:    nopRecorder{},
		logger:      logger,
		now:         time.Now,
	}
}

// SetBroadcaster sets the websocket broadcaster
func (s *AnalyticsService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetRecorder sets the metrics sink
func (s *AnalyticsService) SetRecorder(r AnalyticsRecorder) {
	if r != nil {
		s.recorder = r
	}
}

// CollectInputs extracts engine inputs from responses: every non-empty
// text answer in submission order, and the values of rating answers.
func CollectInputs(responses []*model.FeedbackResponse) (texts []string, ratings []float64) {
	texts = []string{}
	ratings = []float64{}
	for _, r := range responses {
		for _, a := range r.Answers {
			if a.Text != "" {
				texts = append(texts, a.Text)
			}
			if a.QuestionType == model.QuestionRating && a.Value != nil {
				ratings = append(ratings, *a.Value)
			}
		}
	}
	return texts, ratings
}

// CourseAnalytics returns the analytics of one course. Teachers may only
// read their own courses.
func (s *AnalyticsService) CourseAnalytics(ctx context.Context, actor Actor, courseID string) (*model.CourseAnalytics, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrNotFound
	}
	if !actor.canManage(course) {
		return nil, ErrForbidden
	}
	return s.analyticsFor(ctx, course)
}

// analyticsFor serves from cache or computes and stores a fresh record
func (s *AnalyticsService) analyticsFor(ctx context.Context, course *model.Course) (*model.CourseAnalytics, error) {
	cached, err := s.cache.Get(ctx, course.ID)
	if err != nil {
		s.logger.Warn("analytics cache read failed", zap.String("course_id", course.ID), zap.Error(err))
	}
	s.recorder.RecordCacheLookup(cached != nil)
	if cached != nil {
		s.recorder.RecordAnalysis("cache", nil, cached.PerformanceScore)
		return cached, nil
	}
	return s.compute(ctx, course)
}

func (s *AnalyticsService) compute(ctx context.Context, course *model.Course) (*model.CourseAnalytics, error) {
	responses, err := s.responses.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.enrollments.CountByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	texts, ratings := CollectInputs(responses)
	rec, err := s.engine.Analyze(texts, ratings)
	if err != nil {
		return nil, fmt.Errorf("analyze course %s: %w", course.ID, err)
	}

	result := &model.CourseAnalytics{
		CourseID:      course.ID,
		EnrolledCount: enrolled,
		ResponseCount: len(responses),
		Record:        *rec,
	}
	d := rec.SentimentDistribution
	s.recorder.RecordAnalysis("computed", map[string]int{
		string(analytics.LabelPositive): d.Positive,
		string(analytics.LabelNeutral):  d.Neutral,
		string(analytics.LabelNegative): d.Negative,
	}, rec.PerformanceScore)

	s.store(ctx, course, result)
	return result, nil
}

// store writes the cache, snapshot and ranking. Failures are logged only.
func (s *AnalyticsService) store(ctx context.Context, course *model.Course, result *model.CourseAnalytics) {
	if err := s.cache.Set(ctx, result); err != nil {
		s.logger.Warn("analytics cache write failed", zap.String("course_id", course.ID), zap.Error(err))
	}
	if err := s.ranking.UpdateScore(ctx, course.ID, result.PerformanceScore); err != nil {
		s.logger.Warn("ranking update failed", zap.String("course_id", course.ID), zap.Error(err))
	}
	snapshot := &model.AnalyticsSnapshot{
		ID:           course.ID + ":" + model.AnalysisFeedback,
		CourseID:     course.ID,
		TeacherID:    course.TeacherID,
		AnalysisType: model.AnalysisFeedback,
		Result:       result.Record,
		AnalyzedAt:   s.now().UTC(),
		Semester:     course.Semester,
		Year:         course.Year,
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		s.logger.Warn("snapshot save failed", zap.String("course_id", course.ID), zap.Error(err))
	}
}

// Refresh recomputes a course after new feedback and notifies subscribers
func (s *AnalyticsService) Refresh(ctx context.Context, courseID string) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrNotFound
	}
	if err := s.cache.Invalidate(ctx, courseID); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.String("course_id", courseID), zap.Error(err))
	}

	result, err := s.compute(ctx, course)
	if err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToCourse(courseID, MsgAnalyticsUpdate, model.AnalyticsUpdate{
			CourseID:         courseID,
			PerformanceScore: result.PerformanceScore,
			AvgRating:        result.AvgRating,
			TotalFeedback:    result.TotalFeedback,
			Distribution:     result.SentimentDistribution,
			UpdatedAt:        s.now().UTC(),
		})
	}
	s.logger.Info("analytics refreshed",
		zap.String("course_id", courseID),
		zap.Float64("performance_score", result.PerformanceScore),
		zap.Int("total_feedback", result.TotalFeedback),
	)
	return nil
}

// HandleFeedbackEvent adapts Refresh to the event subscriber signature
func (s *AnalyticsService) HandleFeedbackEvent(ctx context.Context, evt model.FeedbackEvent) error {
	return s.Refresh(ctx, evt.CourseID)
}

// TeacherOverview aggregates analytics across a teacher's active courses
func (s *AnalyticsService) TeacherOverview(ctx context.Context, teacherID string) (*model.TeacherOverview, error) {
	courses, err := s.courses.List(ctx, repository.CourseFilter{TeacherID: teacherID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	out := &model.TeacherOverview{
		TotalCourses:     len(courses),
		CoursesAnalytics: []model.CourseScore{},
	}
	var scoreSum float64
	for _, c := range courses {
		a, err := s.analyticsFor(ctx, c)
		if err != nil {
			return nil, err
		}
		out.TotalStudents += a.EnrolledCount
		out.TotalFeedback += a.TotalFeedback
		scoreSum += a.PerformanceScore
		out.CoursesAnalytics = append(out.CoursesAnalytics, model.CourseScore{
			CourseID:         c.ID,
			CourseTitle:      c.Title,
			CourseCode:       c.Code,
			Enrolled:         a.EnrolledCount,
			FeedbackCount:    a.TotalFeedback,
			PerformanceScore: a.PerformanceScore,
			AvgRating:        a.AvgRating,
		})
	}
	if len(courses) > 0 {
		out.AvgPerformance = analytics.Round(scoreSum/float64(len(courses)), 1)
	}
	return out, nil
}

// Trends groups each course's ratings by "semester year" period. The year
// is taken from the submission time. Courses without ratings are omitted.
func (s *AnalyticsService) Trends(ctx context.Context, teacherID string) ([]model.CourseTrend, error) {
	courses, err := s.courses.List(ctx, repository.CourseFilter{TeacherID: teacherID})
	if err != nil {
		return nil, err
	}

	trends := []model.CourseTrend{}
	for _, c := range courses {
		responses, err := s.responses.ListByCourse(ctx, c.ID)
		if err != nil {
			return nil, err
		}

		semester := c.Semester
		if semester == "" {
			semester = "Unknown"
		}
		periods := map[string][]float64{}
		for _, r := range responses {
			key := fmt.Sprintf("%s %d", semester, r.SubmittedAt.Year())
			for _, a := range r.Answers {
				if a.QuestionType == model.QuestionRating && a.Value != nil {
					periods[key] = append(periods[key], *a.Value)
				}
			}
		}
		if len(periods) == 0 {
			continue
		}

		keys := make([]string, 0, len(periods))
		for k := range periods {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		trend := model.CourseTrend{CourseID: c.ID, Course: c.Title, Code: c.Code}
		for _, k := range keys {
			vals := periods[k]
			trend.Data = append(trend.Data, model.TrendPoint{
				Period:    k,
				AvgRating: analytics.Round(analytics.Mean(vals), 2),
				Count:     len(vals),
			})
		}
		trends = append(trends, trend)
	}
	return trends, nil
}

// AdminDashboard builds the system-wide overview
func (s *AnalyticsService) AdminDashboard(ctx context.Context) (*model.AdminDashboard, error) {
	var (
		d   model.AdminDashboard
		err error
	)
	if d.TotalUsers, err = s.users.CountActive(ctx, ""); err != nil {
		return nil, err
	}
	if d.TotalStudents, err = s.users.CountActive(ctx, model.RoleStudent); err != nil {
		return nil, err
	}
	if d.TotalTeachers, err = s.users.CountActive(ctx, model.RoleTeacher); err != nil {
		return nil, err
	}
	if d.TotalCourses, err = s.courses.CountActive(ctx); err != nil {
		return nil, err
	}
	if d.TotalFeedback, err = s.responses.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalEnrollments, err = s.enrollments.Count(ctx); err != nil {
		return nil, err
	}

	all, err := s.responses.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	texts, _ := CollectInputs(all)
	d.SentimentOverview = analytics.Distribute(s.engine.ClassifyAll(texts))

	if d.TopCourses, err = s.topCourses(ctx); err != nil {
		return nil, err
	}

	d.TopPerforming, err = s.ranking.GetTop(ctx, topCoursesLimit)
	if err != nil {
		s.logger.Warn("ranking read failed", zap.Error(err))
		d.TopPerforming = []model.RankedCourse{}
	}
	return &d, nil
}

// topCourses ranks active courses by number of responses
func (s *AnalyticsService) topCourses(ctx context.Context) ([]model.TopCourse, error) {
	courses, err := s.courses.List(ctx, repository.CourseFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	feedback, err := s.responses.CountsByCourse(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.enrollments.CountsByCourse(ctx)
	if err != nil {
		return nil, err
	}

	top := make([]model.TopCourse, 0, len(courses))
	for _, c := range courses {
		teacher := ""
		if u, err := s.users.GetByID(ctx, c.TeacherID); err == nil && u != nil {
			teacher = u.FullName
		}
		top = append(top, model.TopCourse{
			CourseID:      c.ID,
			Title:         c.Title,
			Code:          c.Code,
			Teacher:       teacher,
			Students:      students[c.ID],
			FeedbackCount: feedback[c.ID],
		})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].FeedbackCount > top[j].FeedbackCount
	})
	if len(top) > topCoursesLimit {
		top = top[:topCoursesLimit]
	}
	return top, nil
}
