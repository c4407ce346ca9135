package model

import "time"

// QuestionType defines how a question is answered
type QuestionType string

const (
	QuestionRating         QuestionType = "rating"
	QuestionScale          QuestionType = "scale"
	QuestionYesNo          QuestionType = "yes_no"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionText           QuestionType = "text"
)

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionRating, QuestionScale, QuestionYesNo, QuestionMultipleChoice, QuestionText:
		return true
	}
	return false
}

// Question is one entry of a feedback form
type Question struct {
	ID         string       `json:"id" bson:"id"`
	Text       string       `json:"question_text" bson:"text"`
	Type       QuestionType `json:"question_type" bson:"type"`
	Options    []string     `json:"options,omitempty" bson:"options,omitempty"`
	IsRequired bool         `json:"is_required" bson:"isRequired"`
	Order      int          `json:"order_index" bson:"order"`
}

// FeedbackForm is a questionnaire attached to a course
type FeedbackForm struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	CourseID    string     `json:"course_id" bson:"courseId"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	IsAnonymous bool       `json:"is_anonymous" bson:"isAnonymous"`
	IsActive    bool       `json:"is_active" bson:"isActive"`
	CreatedBy   string     `json:"created_by" bson:"createdBy"`
	CreatedAt   time.Time  `json:"created_at" bson:"createdAt"`
	Deadline    *time.Time `json:"deadline,omitempty" bson:"deadline,omitempty"`
	Questions   []Question `json:"questions" bson:"questions"`
}

// QuestionByID returns the form question with the given ID, or nil
func (f *FeedbackForm) QuestionByID(id string) *Question {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i]
		}
	}
	return nil
}

// QuestionInput is one question in a form creation body
type QuestionInput struct {
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options"`
	Required *bool        `json:"required"`
}

// CreateFormRequest is the form creation body
type CreateFormRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	IsAnonymous bool            `json:"is_anonymous"`
	Deadline    *time.Time      `json:"deadline"`
	Questions   []QuestionInput `json:"questions"`
}
