// Package types provides type definitions for structured data used throughout the career-planner system.
package types

import "github.com/go-playground/validator/v10"

// MarketProfile represents the skills the job market demands for a target role,
// produced by the market-demand step
type MarketProfile struct {
	RequiredSkills []string `json:"required_skills" validate:"required,min=1,dive,required"`
	Trend          string   `json:"trend" validate:"required"`
	Summary        string   `json:"summary" validate:"required"`
}

// Validate validates the MarketProfile using the validator.
func (p *MarketProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
