package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/careerpath/planner/internal/types"
)

// UserProfile is the persisted subset of one pipeline run for a user.
type UserProfile struct {
	ID             uuid.UUID                      `json:"id"`
	ResumeText     string                         `json:"resume_text"`
	TargetRole     string                         `json:"target_role"`
	Skills         []string                       `json:"skills"`
	MissingSkills  []string                       `json:"missing_skills"`
	Roadmap        map[string][]types.RoadmapTask `json:"roadmap"`
	ReadinessScore int                            `json:"readiness_score"`
	CreatedAt      time.Time                      `json:"created_at"`
}

// Progress is one roadmap task's completion state for a user.
type Progress struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Period    string    `json:"period"`
	TaskIndex int       `json:"task_index"`
	Skill     string    `json:"skill"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
}
