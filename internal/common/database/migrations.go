// internal/common/database/migrations.go
// Idempotent schema setup, run on startup

package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		age INTEGER CHECK (age >= 0),
		gender VARCHAR(20),
		location VARCHAR(255),
		interests TEXT[] NOT NULL DEFAULT '{}',
		pref_min_age INTEGER,
		pref_max_age INTEGER,
		pref_gender VARCHAR(20),
		pref_interests TEXT[] NOT NULL DEFAULT '{}',
		pref_location VARCHAR(255),
		pref_max_distance INTEGER,
		matches_remaining INTEGER NOT NULL DEFAULT 0,
		last_match_request TIMESTAMP,
		email VARCHAR(255),
		phone VARCHAR(20),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		matched_user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		compatibility_score INTEGER,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		viewed BOOLEAN NOT NULL DEFAULT FALSE,
		contacted BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_matches_user ON matches(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type VARCHAR(20) NOT NULL,
		related_user_id TEXT,
		content TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		read BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC)`,
}

// RunMigrations creates the tables the matchmaker needs if they are missing
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Printf("[database] %d migrations applied", len(migrations))
	return nil
}
