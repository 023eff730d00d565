package repositories

import (
	"context"

	"eventdesk/internal/domain/models"
)

// ItemRepository defines data access operations for folder items, scoped by userID
type ItemRepository interface {
	// Create inserts an item and fills ID and timestamps
	Create(ctx context.Context, item *models.FolderItem) error

	// GetByID retrieves an item owned by the user, with its folder reference
	GetByID(ctx context.Context, id, userID string) (*models.FolderItem, error)

	// List returns the user's items matching filter, newest first, with folder references
	List(ctx context.Context, userID string, filter models.ItemFilter) ([]models.FolderItem, error)

	// ListByFolder returns the items of one folder, oldest first
	ListByFolder(ctx context.Context, folderID, userID string) ([]models.FolderItem, error)

	// Delete removes an item
	Delete(ctx context.Context, id, userID string) error
}
