// Package db provides PostgreSQL persistence for user profiles and roadmap progress.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS user_profiles (
			id UUID PRIMARY KEY,
			resume_text TEXT NOT NULL,
			target_role TEXT NOT NULL,
			skills JSONB NOT NULL,
			missing_skills JSONB NOT NULL,
			roadmap JSONB NOT NULL,
			readiness_score INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS progress (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL,
			period TEXT NOT NULL,
			task_index INT NOT NULL,
			skill TEXT NOT NULL,
			task TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (user_id, period, task_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_progress_user_id ON progress (user_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
