package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
)

// PostgresItemRepository implements repositories.ItemRepository
type PostgresItemRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(config *RepositoryConfig) repositories.ItemRepository {
	return &PostgresItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// selectItemsWithFolder projects items joined with their folder reference
func (r *PostgresItemRepository) selectItemsWithFolder() string {
	return fmt.Sprintf(`
		SELECT i.id, i.folder_id, i.user_id, i.title, i.content, i.item_type, i.tags,
		       i.created_at, i.updated_at, f.id, f.name, f.icon, f.color
		FROM %s i
		JOIN %s f ON f.id = i.folder_id
	`, r.tables.Items, r.tables.Folders)
}

func scanItemWithFolder(row pgx.Row) (*models.FolderItem, error) {
	var item models.FolderItem
	var ref models.FolderRef
	err := row.Scan(
		&item.ID,
		&item.FolderID,
		&item.UserID,
		&item.Title,
		&item.Content,
		&item.ItemType,
		&item.Tags,
		&item.CreatedAt,
		&item.UpdatedAt,
		&ref.ID,
		&ref.Name,
		&ref.Icon,
		&ref.Color,
	)
	if err != nil {
		return nil, err
	}
	normalizeItem(&item)
	item.Folder = &ref
	return &item, nil
}

func normalizeItem(item *models.FolderItem) {
	if item.Content == nil {
		item.Content = models.Content{}
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
}

// Create inserts an item. A folder that does not exist (or was deleted meanwhile)
// surfaces as NotFound.
func (r *PostgresItemRepository) Create(ctx context.Context, item *models.FolderItem) error {
	if !validID(item.FolderID) {
		return domain.NewNotFound("folder", item.FolderID)
	}
	normalizeItem(item)

	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, user_id, title, content, item_type, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Items)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		item.FolderID,
		item.UserID,
		item.Title,
		item.Content,
		item.ItemType,
		item.Tags,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return domain.NewNotFound("folder", item.FolderID)
		}
		return domain.WrapPersistence("Falha ao adicionar item", err)
	}
	return nil
}

// GetByID retrieves an item with its folder reference
func (r *PostgresItemRepository) GetByID(ctx context.Context, id, userID string) (*models.FolderItem, error) {
	if !validID(id) {
		return nil, domain.NewNotFound("item", id)
	}

	query := r.selectItemsWithFolder() + ` WHERE i.id = $1 AND i.user_id = $2`

	executor := GetExecutor(ctx, r.pool)
	item, err := scanItemWithFolder(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("item", id)
		}
		return nil, domain.WrapPersistence("Falha ao buscar item", err)
	}
	return item, nil
}

// List returns the user's items matching filter, newest first
func (r *PostgresItemRepository) List(ctx context.Context, userID string, filter models.ItemFilter) ([]models.FolderItem, error) {
	conditions := []string{"i.user_id = $1"}
	args := []interface{}{userID}

	if filter.FolderID != nil {
		if !validID(*filter.FolderID) {
			return []models.FolderItem{}, nil
		}
		args = append(args, *filter.FolderID)
		conditions = append(conditions, fmt.Sprintf("i.folder_id = $%d", len(args)))
	}
	if filter.ItemType != nil {
		args = append(args, *filter.ItemType)
		conditions = append(conditions, fmt.Sprintf("i.item_type = $%d", len(args)))
	}
	if len(filter.Tags) > 0 {
		args = append(args, filter.Tags)
		conditions = append(conditions, fmt.Sprintf("i.tags && $%d::text[]", len(args)))
	}

	query := r.selectItemsWithFolder() +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY i.created_at DESC"

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao buscar items", err)
	}
	return collectItems(rows)
}

// ListByFolder returns one folder's items, oldest first
func (r *PostgresItemRepository) ListByFolder(ctx context.Context, folderID, userID string) ([]models.FolderItem, error) {
	if !validID(folderID) {
		return []models.FolderItem{}, nil
	}

	query := r.selectItemsWithFolder() + `
		WHERE i.folder_id = $1 AND i.user_id = $2
		ORDER BY i.created_at ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID, userID)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao buscar items", err)
	}
	return collectItems(rows)
}

// Delete removes an item owned by the user
func (r *PostgresItemRepository) Delete(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return domain.NewNotFound("item", id)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Items)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return domain.WrapPersistence("Falha ao deletar item", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("item", id)
	}
	return nil
}

func collectItems(rows pgx.Rows) ([]models.FolderItem, error) {
	defer rows.Close()

	items := []models.FolderItem{}
	for rows.Next() {
		item, err := scanItemWithFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}
