package models

import (
	"database/sql"
	"time"
)

// VerificationStatus enumerates the states of the admin review workflow for
// a farmer profile. Both approved and rejected are terminal; there is no
// re-review path.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// FarmerProfile holds a farmer's public farm details and the verification
// fields that gate their visibility to consumers. Only approved farmers
// appear in consumer-facing discovery.
type FarmerProfile struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	FarmName           string             `json:"farm_name"`
	Location           string             `json:"location"`
	FarmDescription    sql.NullString     `json:"farm_description,omitempty"`
	Specializations    []string           `json:"specializations"`
	ExperienceYears    sql.NullInt32      `json:"experience_years,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	VerificationNotes  sql.NullString     `json:"verification_notes,omitempty"`
	VerifiedAt         sql.NullTime       `json:"verified_at,omitempty"`
	VerifiedBy         sql.NullString     `json:"verified_by,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// UpdateFarmerProfileRequest defines the descriptive fields a farmer may
// edit on their own profile. Verification fields are admin-write-only.
type UpdateFarmerProfileRequest struct {
	FarmName        *string  `json:"farm_name,omitempty" validate:"omitempty,min=2,max=100"`
	Location        *string  `json:"location,omitempty" validate:"omitempty,min=2,max=200"`
	FarmDescription *string  `json:"farm_description,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty" validate:"omitempty,gte=0,lte=80"`
}

// ReviewFarmerRequest is the admin's verification decision for a pending
// farmer profile.
type ReviewFarmerRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Notes    string `json:"notes,omitempty"`
}
