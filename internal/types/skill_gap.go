// Package types provides type definitions for structured data used throughout the career-planner system.
package types

import "github.com/go-playground/validator/v10"

// SkillGapProfile represents the market-required skills a user is missing,
// produced by the skill-gap step
// An empty MissingSkills list is valid: it means the user already covers the
// market's requirements. Key presence is enforced by the step schema.
type SkillGapProfile struct {
	MissingSkills []string `json:"missing_skills"`
	Priority      string   `json:"priority" validate:"required"`
}

// Validate validates the SkillGapProfile using the validator.
func (p *SkillGapProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
