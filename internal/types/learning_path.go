// Package types provides type definitions for structured data used throughout the career-planner system.
package types

import "github.com/go-playground/validator/v10"

// RoadmapPeriods lists the canonical roadmap horizons, in order.
var RoadmapPeriods = []string{"30", "60", "90"}

// RoadmapTask represents a single skill-building task in the learning roadmap
type RoadmapTask struct {
	Skill       string `json:"skill" validate:"required"`
	Goal        string `json:"goal" validate:"required"`
	Resources   string `json:"resources"`
	MiniProject string `json:"mini_project"`
	Completed   bool   `json:"completed"`
}

// LearningPathProfile represents the learning roadmap produced by the learning-path step.
// Tasks are grouped by a 30/60/90-day horizon.
type LearningPathProfile struct {
	Roadmap              map[string][]RoadmapTask `json:"roadmap" validate:"required,min=1"`
	CareerReadinessScore int                      `json:"career_readiness_score" validate:"gte=0,lte=100"`
}

// Validate validates the LearningPathProfile using the validator.
func (p *LearningPathProfile) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}
	for _, period := range RoadmapPeriods {
		for i := range p.Roadmap[period] {
			if err := validate.Struct(&p.Roadmap[period][i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// TaskCount returns the total number of tasks across all roadmap periods.
func (p *LearningPathProfile) TaskCount() int {
	count := 0
	for _, tasks := range p.Roadmap {
		count += len(tasks)
	}
	return count
}
