package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

// AccessCode is a single-use token redeemable for one activation
type AccessCode struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Used      bool       `json:"used"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// UserRef identifies the user holding an activation
type UserRef struct {
	ID string `json:"id"`
}

// Activation is a time-boxed viewing grant, expanded with the video and code it references
type Activation struct {
	ID          uuid.UUID   `json:"id"`
	User        UserRef     `json:"user"`
	Video       *Video      `json:"video,omitempty"`
	Code        *AccessCode `json:"code,omitempty"`
	ActivatedAt time.Time   `json:"activatedAt"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

// ActivateRequest is the body of an activation request
type ActivateRequest struct {
	Code string `json:"code" validate:"required,max=128"`
}

// ValidateRequest is the body of an admin code lookup
type ValidateRequest struct {
	Code string `json:"code" validate:"required,max=128"`
}

// ValidateResponse describes who redeemed a code and for which video
type ValidateResponse struct {
	Video *Video      `json:"video"`
	User  UserRef     `json:"user"`
	Code  *AccessCode `json:"code"`
}

// DeactivateResponse confirms a revoked activation
type DeactivateResponse struct {
	Message string `json:"message"`
}
