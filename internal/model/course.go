package model

import "time"

// Course is a taught course owned by one teacher
type Course struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Code        string    `json:"code" bson:"code"`
	TeacherID   string    `json:"teacher_id" bson:"teacherId"`
	Semester    string    `json:"semester" bson:"semester"`
	Year        int       `json:"year" bson:"year"`
	Department  string    `json:"department" bson:"department"`
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
	IsActive    bool      `json:"is_active" bson:"isActive"`
}

// CourseListItem is a course as shown in role-scoped listings
type CourseListItem struct {
	Course
	TeacherName   string `json:"teacher_name"`
	EnrolledCount int    `json:"enrolled_count"`
	IsEnrolled    bool   `json:"is_enrolled"`
}

// CourseDetail is a course with its materials and active forms
type CourseDetail struct {
	Course
	TeacherName   string         `json:"teacher_name"`
	TeacherEmail  string         `json:"teacher_email"`
	Materials     []Material     `json:"materials"`
	FeedbackForms []FeedbackForm `json:"feedback_forms"`
}

// CourseRequest is the create/update body. On update, zero values keep
// the stored field.
type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
	TeacherID   string `json:"teacher_id"`
	Semester    string `json:"semester"`
	Year        int    `json:"year"`
	Department  string `json:"department"`
}

// Enrollment links a student to a course. (StudentID, CourseID) is unique.
type Enrollment struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	StudentID  string    `json:"student_id" bson:"studentId"`
	CourseID   string    `json:"course_id" bson:"courseId"`
	EnrolledAt time.Time `json:"enrolled_at" bson:"enrolledAt"`
}

// Material is a link or document attached to a course
type Material struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	CourseID    string    `json:"course_id" bson:"courseId"`
	Title       string    `json:"title" bson:"title"`
	Type        string    `json:"type" bson:"type"`
	URL         string    `json:"url" bson:"url"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
}
