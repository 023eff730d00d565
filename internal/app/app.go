// Package app assembles repositories and core services from configuration. Both
// the HTTP server and workspacectl build on it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"eventdesk/internal/config"
	"eventdesk/internal/domain/repositories"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/render"
	"eventdesk/internal/repository/memory"
	"eventdesk/internal/repository/postgres"
	"eventdesk/internal/service/report"
	"eventdesk/internal/service/workspace"
)

// Repositories is the persistence layer chosen by configuration
type Repositories struct {
	Folders       repositories.FolderRepository
	Items         repositories.ItemRepository
	Conversations repositories.ConversationRepository
	Users         repositories.UserRepository
	Tx            repositories.TransactionManager

	// Pool is nil when running on the in-memory store
	Pool   *pgxpool.Pool
	Tables *postgres.TableNames
}

// OpenRepositories connects to Postgres and ensures the schema. Without
// DATABASE_URL it falls back to the in-memory store.
func OpenRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Repositories, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store (data is lost on restart)")
		mem := memory.NewStore()
		return &Repositories{
			Folders:       mem.Folders(),
			Items:         mem.Items(),
			Conversations: mem.Conversations(),
			Users:         mem.Users(),
			Tx:            mem.TxManager(),
		}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	logger.Info("database connected",
		"max_conns", 20,
		"min_conns", 2,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables, logger); err != nil {
		pool.Close()
		return nil, err
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &Repositories{
		Folders:       postgres.NewFolderRepository(repoConfig),
		Items:         postgres.NewItemRepository(repoConfig),
		Conversations: postgres.NewConversationRepository(repoConfig),
		Users:         postgres.NewUserRepository(repoConfig),
		Tx:            postgres.NewTransactionManager(pool, logger),
		Pool:          pool,
		Tables:        tables,
	}, nil
}

// Close releases the database pool, if any
func (r *Repositories) Close() {
	if r.Pool != nil {
		r.Pool.Close()
	}
}

// Core holds the workspace and report services
type Core struct {
	Resolver  *workspace.PathResolver
	Workspace *workspace.Store
	Reports   *report.Service
}

// NewCore wires the item store and the report pipeline. notifier may be nil.
func NewCore(repos *Repositories, cfg *config.Config, notifier services.ChangeNotifier, logger *slog.Logger) (*Core, error) {
	resolver := workspace.NewPathResolver(repos.Folders, repos.Tx, logger)
	store := workspace.NewStore(repos.Folders, repos.Items, resolver, repos.Tx, notifier, logger)

	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		logger.Warn("time zone data unavailable, report dates in UTC", "error", err)
		loc = nil
	}
	docs, err := render.NewDocuments(loc)
	if err != nil {
		return nil, err
	}

	aggregator := report.NewAggregator(repos.Folders, repos.Items, resolver, logger)
	return &Core{
		Resolver:  resolver,
		Workspace: store,
		Reports:   report.NewService(aggregator, docs, cfg.Report, logger),
	}, nil
}
