package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"coursefeedback/internal/model"
	"coursefeedback/internal/testutil/fakes"
)

type formFixture struct {
	svc       *FormService
	responses *fakes.Responses
	cache     *fakes.AnalyticsCache
	publisher *fakes.Publisher
	forms     *fakes.Forms
}

func newFormFixture() formFixture {
	courses := fakes.NewCourses(&model.Course{ID: "c1", TeacherID: "t1", IsActive: true})
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
	cache := fakes.NewAnalyticsCache()
	publisher := &fakes.Publisher{}
	return formFixture{
		svc:       NewFormService(forms, courses, responses, cache, publisher, nil),
		responses: responses,
		cache:     cache,
		publisher: publisher,
		forms:     forms,
	}
}

func TestFormCreate(t *testing.T) {
	fx := newFormFixture()
	ctx := context.Background()
	owner := Actor{UserID: "t1", Role: model.RoleTeacher}

	form, err := fx.svc.Create(ctx, owner, "c1", model.CreateFormRequest{
		Questions: []model.QuestionInput{
			{Text: "Overall", Type: model.QuestionRating},
			{Text: "Anything else?", Type: model.QuestionText, Required: boolPtr(false)},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if form.Title != "Feedback Form" || !form.IsActive || form.CreatedBy != "t1" {
		t.Fatalf("unexpected form %+v", form)
	}
	if len(form.Questions) != 2 || !form.Questions[0].IsRequired || form.Questions[1].IsRequired {
		t.Fatalf("unexpected questions %+v", form.Questions)
	}
	if form.Questions[1].Order != 1 || form.Questions[0].ID == form.Questions[1].ID {
		t.Fatalf("expected ordered questions with distinct IDs, got %+v", form.Questions)
	}

	_, err = fx.svc.Create(ctx, Actor{UserID: "t9", Role: model.RoleTeacher}, "c1", model.CreateFormRequest{})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	_, err = fx.svc.Create(ctx, owner, "c1", model.CreateFormRequest{
		Questions: []model.QuestionInput{{Text: "Bad", Type: "essay"}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
}

func TestSubmitStoresAndNotifies(t *testing.T) {
	fx := newFormFixture()
	ctx := context.Background()
	fx.cache.Items["c1"] = &model.CourseAnalytics{CourseID: "c1"}

	resp, err := fx.svc.Submit(ctx, Actor{UserID: "s1", Role: model.RoleStudent}, "f1", model.SubmitRequest{
		Answers: []model.AnswerInput{
			{QuestionID: "q1", Value: floatPtr(4)},
			{QuestionID: "q2", Text: strPtr("Great labs")},
		},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.StudentID != "s1" || resp.CourseID != "c1" || len(resp.Answers) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Answers[0].QuestionType != model.QuestionRating {
		t.Fatalf("expected question type copied onto answer, got %q", resp.Answers[0].QuestionType)
	}
	if len(fx.responses.Items) != 1 {
		t.Fatalf("expected one stored response, got %d", len(fx.responses.Items))
	}
	if _, ok := fx.cache.Items["c1"]; ok {
		t.Fatal("expected analytics cache to be invalidated")
	}
	if len(fx.publisher.Events) != 1 || fx.publisher.Events[0].ResponseID != resp.ID {
		t.Fatalf("unexpected events %+v", fx.publisher.Events)
	}
}

func TestSubmitAnonymous(t *testing.T) {
	fx := newFormFixture()
	resp, err := fx.svc.Submit(context.Background(), Actor{UserID: "s1", Role: model.RoleStudent}, "f1", model.SubmitRequest{
		IsAnonymous: boolPtr(true),
		Answers:     []model.AnswerInput{{QuestionID: "q1", Value: floatPtr(5)}},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.StudentID != "" || !resp.IsAnonymous {
		t.Fatalf("expected anonymous response, got %+v", resp)
	}
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name    string
		answers []model.AnswerInput
	}{
		{"missing required", []model.AnswerInput{{QuestionID: "q2", Text: strPtr("hi")}}},
		{"unknown question", []model.AnswerInput{{QuestionID: "q1", Value: floatPtr(3)}, {QuestionID: "zz", Text: strPtr("x")}}},
		{"duplicate answer", []model.AnswerInput{{QuestionID: "q1", Value: floatPtr(3)}, {QuestionID: "q1", Value: floatPtr(4)}}},
		{"rating too high", []model.AnswerInput{{QuestionID: "q1", Value: floatPtr(6)}}},
		{"rating too low", []model.AnswerInput{{QuestionID: "q1", Value: floatPtr(0)}}},
		{"not a number", []model.AnswerInput{{QuestionID: "q1", Value: floatPtr(math.NaN())}}},
		{"empty required answer", []model.AnswerInput{{QuestionID: "q1", Text: strPtr("")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFormFixture()
			_, err := fx.svc.Submit(context.Background(), Actor{UserID: "s1"}, "f1", model.SubmitRequest{Answers: tc.answers})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if len(fx.responses.Items) != 0 || len(fx.publisher.Events) != 0 {
				t.Fatal("rejected submission must not be stored or published")
			}
		})
	}
}

func TestSubmitClosedForms(t *testing.T) {
	fx := newFormFixture()
	ctx := context.Background()
	answers := []model.AnswerInput{{QuestionID: "q1", Value: floatPtr(3)}}

	if _, err := fx.svc.Submit(ctx, Actor{UserID: "s1"}, "missing", model.SubmitRequest{Answers: answers}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	past := time.Now().Add(-time.Hour)
	fx.forms.ByID["f1"].Deadline = &past
	if _, err := fx.svc.Submit(ctx, Actor{UserID: "s1"}, "f1", model.SubmitRequest{Answers: answers}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput after deadline, got %v", err)
	}

	fx.forms.ByID["f1"].Deadline = nil
	fx.forms.ByID["f1"].IsActive = false
	if _, err := fx.svc.Submit(ctx, Actor{UserID: "s1"}, "f1", model.SubmitRequest{Answers: answers}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive form, got %v", err)
	}
}
