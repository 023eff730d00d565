package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
)

// PostgresUserRepository implements repositories.UserRepository
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Upsert creates the user or refreshes the non-empty profile fields
func (r *PostgresUserRepository) Upsert(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(NULLIF(EXCLUDED.email, ''), %s.email),
			name = COALESCE(NULLIF(EXCLUDED.name, ''), %s.name)
		RETURNING email, name, created_at
	`, r.tables.Users, r.tables.Users, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, user.ID, user.Email, user.Name).
		Scan(&user.Email, &user.Name, &user.CreatedAt)
	if err != nil {
		return domain.WrapPersistence("Falha ao registrar usuário", err)
	}
	return nil
}

// GetByID retrieves a user
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT id, email, name, created_at FROM %s WHERE id = $1`, r.tables.Users)

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("user", id)
		}
		return nil, domain.WrapPersistence("Falha ao buscar usuário", err)
	}
	return &user, nil
}
