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

// DefaultPassword is assigned to admin-created users without one
const DefaultPassword = "password123"

// UserService handles admin user management
type UserService struct {
	users repository.UserRepo
	now   func() time.Time
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepo) *UserService {
	return &UserService{users: users, now: time.Now}
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// Teachers lists active teachers
func (s *UserService) Teachers(ctx context.Context) ([]*model.User, error) {
	return s.users.ListActiveByRole(ctx, model.RoleTeacher)
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		return nil, fmt.Errorf("username and email required: %w", ErrInvalidInput)
	}
	if req.Role == "" {
		req.Role = model.RoleStudent
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, ErrInvalidInput)
	}
	if req.Password == "" {
		req.Password = DefaultPassword
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		FullName:     req.FullName,
		Department:   req.Department,
		CreatedAt:    s.now().UTC(),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("username/email: %w", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			return nil, fmt.Errorf("email must not be empty: %w", ErrInvalidInput)
		}
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("unknown role %q: %w", *req.Role, ErrInvalidInput)
		}
		user.Role = *req.Role
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("email: %w", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// Deactivate soft-deletes a user
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return s.users.SetActive(ctx, id, false)
}
