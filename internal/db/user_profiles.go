package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/careerpath/planner/internal/types"
)

// CreateUserProfile inserts a new user profile and returns its ID.
func (db *DB) CreateUserProfile(ctx context.Context, profile *UserProfile) (uuid.UUID, error) {
	id := uuid.New()

	skills, err := json.Marshal(profile.Skills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	missing, err := json.Marshal(profile.MissingSkills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal missing skills: %w", err)
	}
	roadmap, err := json.Marshal(profile.Roadmap)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal roadmap: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO user_profiles (id, resume_text, target_role, skills, missing_skills, roadmap, readiness_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, profile.ResumeText, profile.TargetRole, skills, missing, roadmap, profile.ReadinessScore,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user profile: %w", err)
	}
	return id, nil
}

// GetUserProfile retrieves a user profile by ID. Returns (nil, nil) when no
// profile exists.
func (db *DB) GetUserProfile(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	var profile UserProfile
	var skills, missing, roadmap []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, resume_text, target_role, skills, missing_skills, roadmap, readiness_score, created_at
		 FROM user_profiles WHERE id = $1`,
		id,
	).Scan(&profile.ID, &profile.ResumeText, &profile.TargetRole, &skills, &missing, &roadmap,
		&profile.ReadinessScore, &profile.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	if err := json.Unmarshal(skills, &profile.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	if err := json.Unmarshal(missing, &profile.MissingSkills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal missing skills: %w", err)
	}
	if err := json.Unmarshal(roadmap, &profile.Roadmap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roadmap: %w", err)
	}
	return &profile, nil
}

// CreateProgressTasks inserts one progress row per roadmap task, all
// initially not completed.
func (db *DB) CreateProgressTasks(ctx context.Context, userID uuid.UUID, roadmap map[string][]types.RoadmapTask) error {
	for _, period := range types.RoadmapPeriods {
		for i, task := range roadmap[period] {
			_, err := db.pool.Exec(ctx,
				`INSERT INTO progress (user_id, period, task_index, skill, task, completed)
				 VALUES ($1, $2, $3, $4, $5, FALSE)`,
				userID, period, i, task.Skill, task.Goal,
			)
			if err != nil {
				return fmt.Errorf("failed to create progress task %s/%d: %w", period, i, err)
			}
		}
	}
	return nil
}

// MarkTaskCompleted marks one roadmap task completed. Returns an error when
// no matching task exists.
func (db *DB) MarkTaskCompleted(ctx context.Context, userID uuid.UUID, period string, taskIndex int) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE progress SET completed = TRUE
		 WHERE user_id = $1 AND period = $2 AND task_index = $3`,
		userID, period, taskIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to mark task completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s/%d not found for user %s", period, taskIndex, userID)
	}
	return nil
}

// CountProgress returns the completed and total task counts for a user.
func (db *DB) CountProgress(ctx context.Context, userID uuid.UUID) (completed, total int, err error) {
	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE completed), COUNT(*)
		 FROM progress WHERE user_id = $1`,
		userID,
	).Scan(&completed, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count progress: %w", err)
	}
	return completed, total, nil
}

// ListProgress returns all progress rows for a user, ordered by period and index.
func (db *DB) ListProgress(ctx context.Context, userID uuid.UUID) ([]Progress, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, period, task_index, skill, task, completed
		 FROM progress WHERE user_id = $1
		 ORDER BY period, task_index`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	var result []Progress
	for rows.Next() {
		var p Progress
		if err := rows.Scan(&p.ID, &p.UserID, &p.Period, &p.TaskIndex, &p.Skill, &p.Task, &p.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress rows: %w", err)
	}
	return result, nil
}
