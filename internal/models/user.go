package models

import (
	"database/sql"
	"time"
)

// Application roles stored in the user_roles table. The role is embedded in
// the JWT so middleware can gate farmer- and admin-only routes.
const (
	RoleUser   = "user"
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)

// User is an account on the platform: a consumer, a farmer, or an admin.
type User struct {
	ID             string         `json:"id" db:"id"`
	FullName       string         `json:"full_name,omitempty" db:"full_name"`
	Email          string         `json:"email" db:"email"`
	PasswordHash   string         `json:"-" db:"password_hash"`
	Phone          sql.NullString `json:"phone,omitempty" db:"phone"`
	Address        sql.NullString `json:"address,omitempty" db:"address"`
	AvatarURL      sql.NullString `json:"avatar_url,omitempty" db:"avatar_url"`
	Role           string         `json:"role" db:"role"`
	AuthProvider   string         `json:"auth_provider" db:"auth_provider"`
	AuthProviderID string         `json:"-" db:"auth_provider_id"`
	IsActive       bool           `json:"is_active" db:"is_active"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// SignupRequest registers a new consumer or farmer account. Farmer signups
// also create a pending FarmerProfile that an admin must approve before the
// farmer becomes visible to consumers.
type SignupRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=user farmer"`

	// Farmer-only fields, required when Role is "farmer".
	FarmName string `json:"farm_name,omitempty" validate:"required_if=Role farmer,omitempty,min=2,max=100"`
	Location string `json:"location,omitempty" validate:"required_if=Role farmer,omitempty,min=2,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// RequestPasswordResetRequest defines the body for the request password reset endpoint.
type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the body for completing the password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UserUpdateData defines fields that can be updated for a user profile.
type UserUpdateData struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=5,max=30"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}
