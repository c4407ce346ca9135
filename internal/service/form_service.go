package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coursefeedback/internal/cache"
	"coursefeedback/internal/model"
	"coursefeedback/internal/repository"
)

const (
	minRating = 1.0
	maxRating = 5.0
)

// FormService handles feedback forms and submissions
type FormService struct {
	forms     repository.FormRepo
	courses   repository.CourseRepo
	responses repository.ResponseRepo
	cache     cache.AnalyticsCache
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewFormService creates a new form service
func NewFormService(
	forms repository.FormRepo,
	courses repository.CourseRepo,
	responses repository.ResponseRepo,
	analyticsCache cache.AnalyticsCache,
	publisher EventPublisher,
	logger *zap.Logger,
) *FormService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{
		forms:     forms,
		courses:   courses,
		responses: responses,
		cache:     analyticsCache,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *FormService) Create(ctx context.Context, actor Actor, courseID string, req model.CreateFormRequest) (*model.FeedbackForm, error) {
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

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Feedback Form"
	}
	form := &model.FeedbackForm{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       title,
		Description: req.Description,
		IsAnonymous: req.IsAnonymous,
		IsActive:    true,
		CreatedBy:   actor.UserID,
		CreatedAt:   s.now().UTC(),
		Deadline:    req.Deadline,
		Questions:   make([]model.Question, 0, len(req.Questions)),
	}
	for i, q := range req.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("question %d has no text: %w", i+1, ErrInvalidInput)
		}
		if !q.Type.Valid() {
			return nil, fmt.Errorf("question %d has unknown type %q: %w", i+1, q.Type, ErrInvalidInput)
		}
		required := true
		if q.Required != nil {
			required = *q.Required
		}
		form.Questions = append(form.Questions, model.Question{
			ID:         uuid.NewString(),
			Text:       q.Text,
			Type:       q.Type,
			Options:    q.Options,
			IsRequired: required,
			Order:      i,
		})
	}

	if err := s.forms.Create(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *FormService) Get(ctx context.Context, id string) (*model.FeedbackForm, error) {
	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}
	return form, nil
}

// Submit stores a response to an active form. Anonymous responses keep no
// student ID. The course analytics cache is dropped and an event is
// published; neither failure rejects the submission.
func (s *FormService) Submit(ctx context.Context, actor Actor, formID string, req model.SubmitRequest) (*model.FeedbackResponse, error) {
	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil || !form.IsActive {
		return nil, fmt.Errorf("form not found or inactive: %w", ErrNotFound)
	}
	now := s.now().UTC()
	if form.Deadline != nil && now.After(*form.Deadline) {
		return nil, fmt.Errorf("form closed on %s: %w", form.Deadline.Format(time.RFC3339), ErrInvalidInput)
	}

	answers, err := buildAnswers(form, req.Answers)
	if err != nil {
		return nil, err
	}

	anonymous := form.IsAnonymous
	if req.IsAnonymous != nil {
		anonymous = *req.IsAnonymous
	}
	resp := &model.FeedbackResponse{
		ID:          uuid.NewString(),
		FormID:      form.ID,
		CourseID:    form.CourseID,
		IsAnonymous: anonymous,
		SubmittedAt: now,
		Answers:     answers,
	}
	if !anonymous {
		resp.StudentID = actor.UserID
	}

	if err := s.responses.Create(ctx, resp); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, form.CourseID); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.String("course_id", form.CourseID), zap.Error(err))
	}
	evt := model.FeedbackEvent{CourseID: form.CourseID, FormID: form.ID, ResponseID: resp.ID, SubmittedAt: now}
	if err := s.publisher.PublishFeedbackSubmitted(ctx, evt); err != nil {
		s.logger.Warn("publish feedback event failed", zap.String("course_id", form.CourseID), zap.Error(err))
	}
	return resp, nil
}

func buildAnswers(form *model.FeedbackForm, inputs []model.AnswerInput) ([]model.Answer, error) {
	seen := make(map[string]bool, len(inputs))
	answers := make([]model.Answer, 0, len(inputs))
	for _, in := range inputs {
		q := form.QuestionByID(in.QuestionID)
		if q == nil {
			return nil, fmt.Errorf("unknown question %q: %w", in.QuestionID, ErrInvalidInput)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("question %q answered twice: %w", q.ID, ErrInvalidInput)
		}
		seen[q.ID] = true

		a := model.Answer{QuestionID: q.ID, QuestionType: q.Type}
		if in.Text != nil {
			a.Text = *in.Text
		}
		if in.Value != nil {
			v := *in.Value
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("question %q: value is not a number: %w", q.ID, ErrInvalidInput)
			}
			if q.Type == model.QuestionRating && (v < minRating || v > maxRating) {
				return nil, fmt.Errorf("question %q: rating %v outside %v-%v: %w", q.ID, v, minRating, maxRating, ErrInvalidInput)
			}
			a.Value = &v
		}
		if a.Text == "" && a.Value == nil {
			continue
		}
		answers = append(answers, a)
	}

	for _, q := range form.Questions {
		if q.IsRequired && !answered(answers, q.ID) {
			return nil, fmt.Errorf("question %q is required: %w", q.Text, ErrInvalidInput)
		}
	}
	return answers, nil
}

func answered(answers []model.Answer, questionID string) bool {
	for _, a := range answers {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}
