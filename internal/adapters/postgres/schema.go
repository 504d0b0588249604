package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the application tables if they do not exist yet.
// embeddingDims sizes the pgvector column of the knowledge base.
func Migrate(ctx context.Context, pool *pgxpool.Pool, embeddingDims int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,

		`CREATE TABLE IF NOT EXISTS insight_sessions (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			title      TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insight_sessions_user ON insight_sessions (user_id, updated_at DESC)`,

		`CREATE TABLE IF NOT EXISTS insight_messages (
			id                 TEXT PRIMARY KEY,
			session_id         TEXT NOT NULL REFERENCES insight_sessions (id) ON DELETE CASCADE,
			sequence           INT NOT NULL,
			role               TEXT NOT NULL,
			content            TEXT NOT NULL,
			capability_calls   JSONB,
			capability_results JSONB,
			created_at         TIMESTAMPTZ NOT NULL,
			UNIQUE (session_id, sequence)
		)`,

		`CREATE TABLE IF NOT EXISTS insight_user_memory (
			user_id      TEXT PRIMARY KEY,
			summary      TEXT NOT NULL DEFAULT '',
			preferences  JSONB NOT NULL DEFAULT '{}',
			findings     JSONB NOT NULL DEFAULT '{}',
			last_updated TIMESTAMPTZ NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS insight_past_analyses (
			session_id TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			summary    TEXT NOT NULL,
			topics     JSONB,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insight_past_analyses_user ON insight_past_analyses (user_id, created_at DESC)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS insight_knowledge (
			id        TEXT PRIMARY KEY,
			source    TEXT NOT NULL,
			content   TEXT NOT NULL,
			embedding VECTOR(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, embeddingDims),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
