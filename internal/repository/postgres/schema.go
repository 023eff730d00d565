package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// rootParentSentinel stands in for a NULL parent_id inside the sibling uniqueness
// index, so two roots with the same name collide too.
const rootParentSentinel = "00000000-0000-0000-0000-000000000000"

// EnsureSchema creates the workspace tables and indexes if they do not exist.
// Safe to call on every start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, tables.Users),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT NOT NULL,
			parent_id UUID REFERENCES %s(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			icon TEXT NOT NULL,
			color TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, tables.Folders, tables.Folders),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s_sibling_name_key
			ON %s (user_id, COALESCE(parent_id, '%s'::uuid), lower(name))`,
			tables.Folders, tables.Folders, rootParentSentinel),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_idx ON %s (user_id, created_at DESC)`,
			tables.Folders, tables.Folders),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			folder_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			title VARCHAR(255) NOT NULL,
			content JSONB NOT NULL DEFAULT '{}'::jsonb,
			item_type TEXT,
			tags TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, tables.Items, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_folder_idx ON %s (folder_id, created_at)`,
			tables.Items, tables.Items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_idx ON %s (user_id, created_at DESC)`,
			tables.Items, tables.Items),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, tables.Conversations),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_idx ON %s (user_id, updated_at DESC)`,
			tables.Conversations, tables.Conversations),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			conversation_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			role TEXT NOT NULL CHECK (role IN ('system', 'user', 'assistant')),
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
		)`, tables.Messages, tables.Conversations),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_conversation_idx ON %s (conversation_id, created_at)`,
			tables.Messages, tables.Messages),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	logger.Info("database schema ready", "tables", tables.All())
	return nil
}

// DropAll drops every workspace table for the prefix. Used by the CLI to reset dev data.
func DropAll(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) ([]string, error) {
	all := tables.All()
	dropped := make([]string, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", all[i])); err != nil {
			return dropped, fmt.Errorf("drop %s: %w", all[i], err)
		}
		dropped = append(dropped, all[i])
	}
	return dropped, nil
}
