package model

import "time"

// Answer is a student's answer to one question. Text carries free-text
// answers, Value numeric ones.
type Answer struct {
	QuestionID   string       `json:"question_id" bson:"questionId"`
	QuestionType QuestionType `json:"question_type" bson:"questionType"`
	Text         string       `json:"answer_text,omitempty" bson:"text,omitempty"`
	Value        *float64     `json:"answer_value,omitempty" bson:"value,omitempty"`
}

// FeedbackResponse is one submission of a form. StudentID is empty for
// anonymous submissions.
type FeedbackResponse struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	FormID      string    `json:"form_id" bson:"formId"`
	CourseID    string    `json:"course_id" bson:"courseId"`
	StudentID   string    `json:"student_id,omitempty" bson:"studentId,omitempty"`
	IsAnonymous bool      `json:"is_anonymous" bson:"isAnonymous"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submittedAt"`
	Answers     []Answer  `json:"answers" bson:"answers"`
}

// AnswerInput is one answer in a submission body
type AnswerInput struct {
	QuestionID string   `json:"question_id"`
	Text       *string  `json:"text"`
	Value      *float64 `json:"value"`
}

// SubmitRequest is the form submission body. A nil IsAnonymous follows
// the form default.
type SubmitRequest struct {
	IsAnonymous *bool         `json:"is_anonymous"`
	Answers     []AnswerInput `json:"answers"`
}

// FeedbackEvent is published after a response is stored
type FeedbackEvent struct {
	CourseID    string    `json:"course_id"`
	FormID      string    `json:"form_id"`
	ResponseID  string    `json:"response_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}
