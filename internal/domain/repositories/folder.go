package repositories

import (
	"context"

	"eventdesk/internal/domain/models"
)

// FolderRepository defines data access operations for workspace folders.
// Every method is scoped by userID; folders owned by someone else behave as missing.
type FolderRepository interface {
	// Create inserts a folder and fills ID and timestamps
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder owned by the user
	GetByID(ctx context.Context, id, userID string) (*models.Folder, error)

	// FindChildByName looks up a direct child of parentID (nil = root) by
	// case-insensitive name. Returns nil, nil when absent.
	FindChildByName(ctx context.Context, userID string, parentID *string, name string) (*models.Folder, error)

	// CreateIfNotExists returns the existing child named name under parentID or creates it
	CreateIfNotExists(ctx context.Context, folder *models.Folder) (*models.Folder, bool, error)

	// ListChildren lists immediate child folders (parentID nil = roots), oldest first
	ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Folder, error)

	// ListByUser returns every folder of the user, newest first
	ListByUser(ctx context.Context, userID string) ([]models.Folder, error)

	// CountItems returns item counts keyed by folder ID
	CountItems(ctx context.Context, userID string) (map[string]int, error)

	// Delete removes a folder together with its descendants and their items
	Delete(ctx context.Context, id, userID string) error
}
