package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventdesk/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users         string
	Folders       string
	Items         string
	Conversations string
	Messages      string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:         fmt.Sprintf("%susers", prefix),
		Folders:       fmt.Sprintf("%sfolders", prefix),
		Items:         fmt.Sprintf("%sfolder_items", prefix),
		Conversations: fmt.Sprintf("%sconversations", prefix),
		Messages:      fmt.Sprintf("%smessages", prefix),
	}
}

// All returns the tables in dependency order (children last).
func (t *TableNames) All() []string {
	return []string{t.Users, t.Folders, t.Items, t.Conversations, t.Messages}
}

// CreateConnectionPool creates a pgx pool and verifies it with a ping.
//
// Port 6543 is the Supabase transaction pooler, which does not support prepared
// statements. For it the pool switches to QueryExecModeCacheDescribe, which keeps
// the extended protocol (needed to encode map[string]any as JSONB) without
// preparing statements. An explicit default_query_exec_mode in the URL wins.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 20
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction carried by ctx, or the pool when there is none.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
