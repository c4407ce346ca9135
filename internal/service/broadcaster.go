package service

import (
	"context"

	"coursefeedback/internal/model"
)

// Broadcaster pushes messages to websocket subscribers of a course
// (declared here to avoid an import cycle with transport/ws)
type Broadcaster interface {
	BroadcastToCourse(courseID string, msgType string, payload interface{})
}

// EventPublisher announces stored feedback to other instances
type EventPublisher interface {
	PublishFeedbackSubmitted(ctx context.Context, evt model.FeedbackEvent) error
}

// AnalyticsRecorder receives analytics metrics
type AnalyticsRecorder interface {
	RecordAnalysis(source string, labels map[string]int, score float64)
	RecordCacheLookup(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordAnalysis(string, map[string]int, float64) {}
func (nopRecorder) RecordCacheLookup(bool)                         {}

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID   string
	Role     model.Role
	Username string
}

// canManage reports whether actor may edit course-owned resources
func (a Actor) canManage(course *model.Course) bool {
	return a.Role == model.RoleAdmin || (a.Role == model.RoleTeacher && course.TeacherID == a.UserID)
}
