package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserRole identifies which collection an account lives in.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleFaculty UserRole = "faculty"
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one of the known three.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// JWTClaims is the access-token payload.
type JWTClaims struct {
	UserID string   `json:"userId"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and basic identity.
type LoginResponse struct {
	Token     string   `json:"token"`
	UserID    string   `json:"userId"`
	Role      UserRole `json:"role"`
	ExpiresIn int64    `json:"expiresIn"`
}

// ForgotPasswordRequest initiates the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow using the mailed record id.
type ResetPasswordRequest struct {
	ResetID     string `json:"resetId" validate:"required"`
	NewPassword string `json:"password" validate:"required,min=8"`
}

// ChangePasswordRequest updates the password of the logged-in user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}
