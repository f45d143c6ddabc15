package dto

import (
	"github.com/brokerdesk/brokerdesk/internal/validator"
)

// SignUpRequest is bound loosely; the service trims and lowercases Email
// before the format is checked.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required,min=8" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=255"`
	// TenantID joins an existing agency; empty means the default tenant
	TenantID string `json:"tenant_id" validate:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
}

func (r *SignUpRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *LoginRequest) Validate() error {
	return validator.ValidateRequest(r)
}
