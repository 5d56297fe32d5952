// Package types provides type definitions for structured data used throughout the career-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// SkillProfile represents the skills extracted from a resume by the skill-assessment step
type SkillProfile struct {
	Skills          []string `json:"skills" validate:"required,min=1,dive,required"`
	ExperienceLevel string   `json:"experience_level" validate:"required"`
	Summary         string   `json:"summary" validate:"required"`
}

// Validate validates the SkillProfile using the validator.
func (p *SkillProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
