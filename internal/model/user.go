package model

import "time"

// Role is the access level attached to a user and carried in tokens
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User is an account of any role
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         Role      `json:"role" bson:"role"`
	FullName     string    `json:"full_name" bson:"fullName"`
	Department   string    `json:"department" bson:"department"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
	IsActive     bool      `json:"is_active" bson:"isActive"`
}

// CreateUserRequest is the admin user creation body
type CreateUserRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       Role   `json:"role"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

// UpdateUserRequest carries optional admin edits; nil fields are left as is
type UpdateUserRequest struct {
	FullName   *string `json:"full_name"`
	Email      *string `json:"email"`
	Role       *Role   `json:"role"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
}
