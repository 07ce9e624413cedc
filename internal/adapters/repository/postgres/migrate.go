package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the durable collections. Sessions live in Redis, not here.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			points INT NOT NULL DEFAULT 0,
			questions_asked INT NOT NULL DEFAULT 0,
			answers_given INT NOT NULL DEFAULT 0,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			id BIGSERIAL PRIMARY KEY,
			author_id BIGINT NOT NULL,
			question_text TEXT NOT NULL,
			topic TEXT NOT NULL DEFAULT '',
			approved BOOLEAN NOT NULL DEFAULT FALSE,
			channel_msg_id BIGINT NOT NULL DEFAULT 0,
			answer_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_author ON questions(author_id);`,
		`CREATE TABLE IF NOT EXISTS answers (
			id BIGSERIAL PRIMARY KEY,
			question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			author_id BIGINT NOT NULL,
			answer_text TEXT NOT NULL,
			votes INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id);`,
		`CREATE TABLE IF NOT EXISTS votes (
			user_id BIGINT NOT NULL,
			answer_id BIGINT NOT NULL REFERENCES answers(id) ON DELETE CASCADE,
			value SMALLINT NOT NULL,
			PRIMARY KEY (user_id, answer_id)
		);`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			user_id BIGINT NOT NULL,
			question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, question_id)
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			kind TEXT NOT NULL,
			payload JSONB NOT NULL DEFAULT '{}',
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id) WHERE NOT is_read;`,
	}

	for _, q := range queries {
		if _, err := pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
