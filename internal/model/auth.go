package model

import "github.com/golang-jwt/jwt/v5"

// Claims are the JWT claims issued at login. The subject is the user ID.
type Claims struct {
	Role     Role   `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the student self-registration body
type RegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

// AuthResponse is returned after login or registration
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
