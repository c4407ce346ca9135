package model

import (
	"time"

	"coursefeedback/internal/analytics"
)

// AnalysisFeedback is the analysis type of engine snapshots
const AnalysisFeedback = "feedback"

// CourseAnalytics is the engine record for a course plus enrolment context
type CourseAnalytics struct {
	CourseID      string `json:"course_id"`
	EnrolledCount int    `json:"enrolled_count"`
	ResponseCount int    `json:"response_count"`
	analytics.Record
}

// AnalyticsSnapshot is a persisted analytics run for a course
type AnalyticsSnapshot struct {
	ID           string           `json:"id" bson:"_id,omitempty"`
	CourseID     string           `json:"course_id" bson:"courseId"`
	TeacherID    string           `json:"teacher_id" bson:"teacherId"`
	AnalysisType string           `json:"analysis_type" bson:"analysisType"`
	Result       analytics.Record `json:"result" bson:"result"`
	AnalyzedAt   time.Time        `json:"analyzed_at" bson:"analyzedAt"`
	Semester     string           `json:"semester" bson:"semester"`
	Year         int              `json:"year" bson:"year"`
}

// CourseScore is one row of a teacher overview
type CourseScore struct {
	CourseID         string  `json:"course_id"`
	CourseTitle      string  `json:"course_title"`
	CourseCode       string  `json:"course_code"`
	Enrolled         int     `json:"enrolled"`
	FeedbackCount    int     `json:"feedback_count"`
	PerformanceScore float64 `json:"performance_score"`
	AvgRating        float64 `json:"avg_rating"`
}

// TeacherOverview aggregates analytics over a teacher's active courses
type TeacherOverview struct {
	TotalCourses     int           `json:"total_courses"`
	TotalStudents    int           `json:"total_students"`
	TotalFeedback    int           `json:"total_feedback"`
	AvgPerformance   float64       `json:"avg_performance"`
	CoursesAnalytics []CourseScore `json:"courses_analytics"`
}

// TopCourse is a course ranked by feedback volume
type TopCourse struct {
	CourseID      string `json:"course_id"`
	Title         string `json:"title"`
	Code          string `json:"code"`
	Teacher       string `json:"teacher"`
	Students      int    `json:"students"`
	FeedbackCount int    `json:"feedback_count"`
}

// RankedCourse is a course ranked by its last computed performance score
type RankedCourse struct {
	CourseID         string  `json:"course_id"`
	PerformanceScore float64 `json:"performance_score"`
	Rank             int     `json:"rank"`
}

// AdminDashboard is the system-wide overview
type AdminDashboard struct {
	TotalUsers        int                    `json:"total_users"`
	TotalStudents     int                    `json:"total_students"`
	TotalTeachers     int                    `json:"total_teachers"`
	TotalCourses      int                    `json:"total_courses"`
	TotalFeedback     int                    `json:"total_feedback"`
	TotalEnrollments  int                    `json:"total_enrollments"`
	SentimentOverview analytics.Distribution `json:"sentiment_overview"`
	TopCourses        []TopCourse            `json:"top_courses"`
	TopPerforming     []RankedCourse         `json:"top_performing"`
}

// TrendPoint is the average rating for one "semester year" period
type TrendPoint struct {
	Period    string  `json:"period"`
	AvgRating float64 `json:"avg_rating"`
	Count     int     `json:"count"`
}

// CourseTrend is the rating history of one course
type CourseTrend struct {
	CourseID string       `json:"course_id"`
	Course   string       `json:"course"`
	Code     string       `json:"code"`
	Data     []TrendPoint `json:"data"`
}

// AnalyticsUpdate is pushed to websocket subscribers of a course
type AnalyticsUpdate struct {
	CourseID         string                 `json:"course_id"`
	PerformanceScore float64                `json:"performance_score"`
	AvgRating        float64                `json:"avg_rating"`
	TotalFeedback    int                    `json:"total_feedback"`
	Distribution     analytics.Distribution `json:"sentiment_distribution"`
	UpdatedAt        time.Time              `json:"updated_at"`
}
