package repository

import (
	"context"
	"fmt"

	"github.com/windfall/lingo_practice/internal/client"
)

// EnsureSchema creates the tables if they do not exist. Sentences and
// practice sessions cascade with their script.
func EnsureSchema(ctx context.Context, db *client.PostgresClient) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database not configured")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS scripts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS sentences (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			script_id UUID NOT NULL REFERENCES scripts(id) ON DELETE CASCADE,
			original_text TEXT NOT NULL,
			order_index INT NOT NULL,
			difficulty TEXT NOT NULL DEFAULT 'medium',
			model_translation TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS practice_sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			sentence_id UUID NOT NULL REFERENCES sentences(id) ON DELETE CASCADE,
			user_translation TEXT NOT NULL,
			translation_score DOUBLE PRECISION NOT NULL,
			pronunciation_text TEXT,
			pronunciation_score DOUBLE PRECISION,
			practice_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sentences_script ON sentences(script_id, order_index)`,
		`CREATE INDEX IF NOT EXISTS idx_practice_sentence ON practice_sessions(sentence_id)`,
		`CREATE INDEX IF NOT EXISTS idx_practice_date ON practice_sessions(practice_date DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
