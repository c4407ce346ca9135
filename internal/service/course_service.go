package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"coursefeedback/internal/model"
	"coursefeedback/internal/repository"
)

// CourseService handles courses, enrollment and materials
type CourseService struct {
	courses     repository.CourseRepo
	enrollments repository.EnrollmentRepo
	materials   repository.MaterialRepo
	forms       repository.FormRepo
	users       repository.UserRepo
	now         func() time.Time
}

// NewCourseService creates a new course service
func NewCourseService(
	courses repository.CourseRepo,
	enrollments repository.EnrollmentRepo,
	materials repository.MaterialRepo,
	forms repository.FormRepo,
	users repository.UserRepo,
) *CourseService {
	return &CourseService{
		courses:     courses,
		enrollments: enrollments,
		materials:   materials,
		forms:       forms,
		users:       users,
		now:         time.Now,
	}
}

// List returns the courses visible to actor: every active course for
// students, own active courses for teachers and all courses for admins.
func (s *CourseService) List(ctx context.Context, actor Actor) ([]model.CourseListItem, error) {
	var filter repository.CourseFilter
	switch actor.Role {
	case model.RoleStudent:
		filter.ActiveOnly = true
	case model.RoleTeacher:
		filter.ActiveOnly = true
		filter.TeacherID = actor.UserID
	}

	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.enrollments.CountsByCourse(ctx)
	if err != nil {
		return nil, err
	}
	enrolled := map[string]bool{}
	if actor.Role == model.RoleStudent {
		if enrolled, err = s.enrollments.CourseIDsByStudent(ctx, actor.UserID); err != nil {
			return nil, err
		}
	}

	names := map[string]string{}
	items := make([]model.CourseListItem, 0, len(courses))
	for _, c := range courses {
		name, ok := names[c.TeacherID]
		if !ok {
			name = s.teacherName(ctx, c.TeacherID)
			names[c.TeacherID] = name
		}
		items = append(items, model.CourseListItem{
			Course:        *c,
			TeacherName:   name,
			EnrolledCount: counts[c.ID],
			IsEnrolled:    enrolled[c.ID],
		})
	}
	return items, nil
}

func (s *CourseService) teacherName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil || u == nil {
		return ""
	}
	return u.FullName
}

// Create adds a course. Admins may assign any teacher; teachers own what
// they create.
func (s *CourseService) Create(ctx context.Context, actor Actor, req model.CourseRequest) (*model.Course, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Code = strings.TrimSpace(req.Code)
	if req.Title == "" || req.Code == "" {
		return nil, fmt.Errorf("title and code required: %w", ErrInvalidInput)
	}

	teacherID := actor.UserID
	if actor.Role == model.RoleAdmin {
		teacherID = req.TeacherID
	}
	if req.Semester == "" {
		req.Semester = "Fall"
	}
	if req.Year == 0 {
		req.Year = s.now().Year()
	}

	course := &model.Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		TeacherID:   teacherID,
		Semester:    req.Semester,
		Year:        req.Year,
		Department:  req.Department,
		CreatedAt:   s.now().UTC(),
		IsActive:    true,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("course code %s: %w", course.Code, ErrConflict)
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrNotFound
	}
	return course, nil
}

// Get returns a course with its materials and active forms
func (s *CourseService) Get(ctx context.Context, id string) (*model.CourseDetail, error) {
	course, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.CourseDetail{
		Course:        *course,
		Materials:     []model.Material{},
		FeedbackForms: []model.FeedbackForm{},
	}
	if course.TeacherID != "" {
		if t, err := s.users.GetByID(ctx, course.TeacherID); err == nil && t != nil {
			detail.TeacherName = t.FullName
			detail.TeacherEmail = t.Email
		}
	}

	materials, err := s.materials.ListByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, m := range materials {
		detail.Materials = append(detail.Materials, *m)
	}

	forms, err := s.forms.ListByCourse(ctx, id, true)
	if err != nil {
		return nil, err
	}
	for _, f := range forms {
		detail.FeedbackForms = append(detail.FeedbackForms, *f)
	}
	return detail, nil
}

// Update edits course metadata. Empty fields keep their stored value.
func (s *CourseService) Update(ctx context.Context, actor Actor, id string, req model.CourseRequest) (*model.Course, error) {
	course, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canManage(course) {
		return nil, ErrForbidden
	}

	if t := strings.TrimSpace(req.Title); t != "" {
		course.Title = t
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Semester != "" {
		course.Semester = req.Semester
	}
	if req.Year != 0 {
		course.Year = req.Year
	}
	if req.Department != "" {
		course.Department = req.Department
	}
	if actor.Role == model.RoleAdmin && req.TeacherID != "" {
		course.TeacherID = req.TeacherID
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete deactivates a course
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	return s.courses.SetActive(ctx, id, false)
}

// Enroll adds the student actor to an active course
func (s *CourseService) Enroll(ctx context.Context, actor Actor, courseID string) error {
	course, err := s.get(ctx, courseID)
	if err != nil {
		return err
	}
	if !course.IsActive {
		return ErrNotFound
	}

	err = s.enrollments.Create(ctx, &model.Enrollment{
		ID:         uuid.NewString(),
		StudentID:  actor.UserID,
		CourseID:   courseID,
		EnrolledAt: s.now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("enrollment: %w", ErrConflict)
	}
	return err
}

func (s *CourseService) AddMaterial(ctx context.Context, actor Actor, courseID string, m model.Material) (*model.Material, error) {
	course, err := s.get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !actor.canManage(course) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(m.Title) == "" {
		return nil, fmt.Errorf("title required: %w", ErrInvalidInput)
	}
	if m.Type == "" {
		m.Type = "document"
	}

	m.ID = uuid.NewString()
	m.CourseID = courseID
	m.CreatedAt = s.now().UTC()
	if err := s.materials.Create(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *CourseService) DeleteMaterial(ctx context.Context, actor Actor, id string) error {
	m, err := s.materials.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}
	course, err := s.get(ctx, m.CourseID)
	if err != nil {
		return err
	}
	if !actor.canManage(course) {
		return ErrForbidden
	}
	return s.materials.Delete(ctx, id)
}

// Authorize reports whether actor may manage a course
func (s *CourseService) Authorize(ctx context.Context, actor Actor, courseID string) error {
	course, err := s.get(ctx, courseID)
	if err != nil {
		return err
	}
	if !actor.canManage(course) {
		return ErrForbidden
	}
	return nil
}
