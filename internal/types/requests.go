// Package types provides type definitions for structured data used throughout the career-planner system.
package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UpdateProgressRequest represents the request to mark a roadmap task completed.
type UpdateProgressRequest struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	Period    string    `json:"period" validate:"required,oneof=30 60 90"`
	TaskIndex int       `json:"task_index" validate:"gte=0"`
}

// Validate validates the UpdateProgressRequest using the validator.
func (r *UpdateProgressRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
