package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
)

const folderColumns = "id, user_id, parent_id, name, description, icon, color, created_at, updated_at"

// PostgresFolderRepository implements repositories.FolderRepository
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.ParentID,
		&f.Name,
		&f.Description,
		&f.Icon,
		&f.Color,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}

// Create inserts a folder. A sibling with the same name yields a ConflictError
// carrying the existing folder's ID.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ParentID != nil && !validID(*folder.ParentID) {
		return domain.NewNotFound("folder", *folder.ParentID)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, parent_id, name, description, icon, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.UserID,
		folder.ParentID,
		folder.Name,
		folder.Description,
		folder.Icon,
		folder.Color,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			existing, findErr := r.FindChildByName(ctx, folder.UserID, folder.ParentID, folder.Name)
			resourceID := ""
			if findErr == nil && existing != nil {
				resourceID = existing.ID
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder '%s' already exists in this location", folder.Name),
				ResourceType: "folder",
				ResourceID:   resourceID,
			}
		}
		if IsPgForeignKeyError(err) {
			return domain.NewNotFound("folder", derefOr(folder.ParentID, ""))
		}
		return domain.WrapPersistence("Falha ao criar pasta", err)
	}

	return nil
}

// GetByID retrieves a folder owned by userID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	if !validID(id) {
		return nil, domain.NewNotFound("folder", id)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND user_id = $2`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("folder", id)
		}
		return nil, domain.WrapPersistence("Falha ao buscar pasta", err)
	}
	return folder, nil
}

// FindChildByName matches names case-insensitively, the same way the unique index does
func (r *PostgresFolderRepository) FindChildByName(ctx context.Context, userID string, parentID *string, name string) (*models.Folder, error) {
	var query string
	args := []interface{}{userID, name}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE user_id = $1 AND parent_id IS NULL AND lower(name) = lower($2)
			LIMIT 1
		`, folderColumns, r.tables.Folders)
	} else {
		if !validID(*parentID) {
			return nil, nil
		}
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE user_id = $1 AND parent_id = $3 AND lower(name) = lower($2)
			LIMIT 1
		`, folderColumns, r.tables.Folders)
		args = append(args, *parentID)
	}

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, domain.WrapPersistence("Falha ao buscar pasta", err)
	}
	return folder, nil
}

// CreateIfNotExists inserts with ON CONFLICT DO NOTHING against the sibling index and
// re-reads the winner when a concurrent writer got there first.
func (r *PostgresFolderRepository) CreateIfNotExists(ctx context.Context, folder *models.Folder) (*models.Folder, bool, error) {
	existing, err := r.FindChildByName(ctx, folder.UserID, folder.ParentID, folder.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, parent_id, name, description, icon, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		folder.UserID,
		folder.ParentID,
		folder.Name,
		folder.Description,
		folder.Icon,
		folder.Color,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err == nil {
		return folder, true, nil
	}
	if !IsPgNoRowsError(err) {
		if IsPgForeignKeyError(err) {
			return nil, false, domain.NewNotFound("folder", derefOr(folder.ParentID, ""))
		}
		return nil, false, domain.WrapPersistence("Falha ao criar pasta", err)
	}

	r.logger.Debug("folder created concurrently, reusing", "name", folder.Name, "user_id", folder.UserID)
	existing, err = r.FindChildByName(ctx, folder.UserID, folder.ParentID, folder.Name)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, domain.WrapPersistence("Falha ao criar pasta", fmt.Errorf("folder %q vanished after conflict", folder.Name))
	}
	return existing, false, nil
}

// ListChildren lists direct children, oldest first
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Folder, error) {
	var query string
	args := []interface{}{userID}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE user_id = $1 AND parent_id IS NULL
			ORDER BY created_at ASC
		`, folderColumns, r.tables.Folders)
	} else {
		if !validID(*parentID) {
			return []models.Folder{}, nil
		}
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE user_id = $1 AND parent_id = $2
			ORDER BY created_at ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, *parentID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao listar pastas", err)
	}
	return collectFolders(rows)
}

// ListByUser returns all folders of the user, newest first
func (r *PostgresFolderRepository) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao listar pastas", err)
	}
	return collectFolders(rows)
}

// CountItems returns item counts keyed by folder ID; folders without items are absent
func (r *PostgresFolderRepository) CountItems(ctx context.Context, userID string) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT folder_id, COUNT(*) FROM %s
		WHERE user_id = $1
		GROUP BY folder_id
	`, r.tables.Items)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao contar itens", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var folderID string
		var count int
		if err := rows.Scan(&folderID, &count); err != nil {
			return nil, fmt.Errorf("scan item count: %w", err)
		}
		counts[folderID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item counts: %w", err)
	}
	return counts, nil
}

// Delete removes the folder; descendants and items go with it through ON DELETE CASCADE
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return domain.NewNotFound("folder", id)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return domain.WrapPersistence("Falha ao deletar pasta", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("folder", id)
	}
	return nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
