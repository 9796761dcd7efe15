package database

import (
	"context"
	"database/sql"
	"fmt"
)

// question_id on answers is a weak reference: questions are replaced wholesale,
// so it carries no foreign key.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(20) NOT NULL UNIQUE,
		email VARCHAR(120) NOT NULL UNIQUE,
		hashed_password VARCHAR(60) NOT NULL,
		notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGSERIAL PRIMARY KEY,
		position INTEGER NOT NULL,
		question_text VARCHAR(500) NOT NULL,
		options JSONB NOT NULL,
		correct_answer VARCHAR(200) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_attempts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		score INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		time_taken DOUBLE PRECISION NOT NULL,
		level VARCHAR(20) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_attempt_answers (
		id BIGSERIAL PRIMARY KEY,
		attempt_id BIGINT NOT NULL REFERENCES quiz_attempts(id),
		position INTEGER NOT NULL,
		question_id BIGINT,
		question_text VARCHAR(500) NOT NULL,
		user_answer VARCHAR(200),
		correct_answer VARCHAR(200) NOT NULL,
		is_correct BOOLEAN NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user_created ON quiz_attempts(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_quiz_attempt_answers_attempt ON quiz_attempt_answers(attempt_id, position)`,
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database.Migrate: %w", err)
		}
	}
	return nil
}
