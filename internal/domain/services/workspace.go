package services

import (
	"context"
	"strings"

	"eventdesk/internal/domain/models"
)

// PathResolver maps slash-separated folder paths onto the user's folder tree
type PathResolver interface {
	// ResolvePath walks segments from the root, creating missing folders with the
	// given hints, and returns the deepest folder.
	ResolvePath(ctx context.Context, userID string, segments []string, iconHint, colorHint string) (*models.Folder, error)

	// LookupPath walks segments without creating anything. A missing segment
	// yields domain.ErrNotFound.
	LookupPath(ctx context.Context, userID string, segments []string) (*models.Folder, error)
}

// WorkspaceService owns folder and item lifecycle for one user at a time
type WorkspaceService interface {
	CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error)
	CreateFolderPath(ctx context.Context, userID string, req *CreateFolderPathRequest) (*models.Folder, error)
	AddItem(ctx context.Context, userID string, target FolderTarget, req *AddItemRequest) (*AddItemResult, error)
	ListFolders(ctx context.Context, userID string) ([]models.FolderSummary, error)
	SearchItems(ctx context.Context, userID string, req *SearchRequest) ([]models.FolderItem, error)
	DeleteFolder(ctx context.Context, userID, folderID string) (*models.Folder, error)
	DeleteItem(ctx context.Context, userID, itemID string) (*models.FolderItem, error)

	GetFolder(ctx context.Context, userID, folderID string) (*models.FolderWithItems, error)
	GetItem(ctx context.Context, userID, itemID string) (*models.FolderItem, error)
	ListItems(ctx context.Context, userID string, req *ListItemsRequest) ([]models.FolderItem, error)
	Tree(ctx context.Context, userID string) ([]*models.FolderTreeNode, error)
}

// CreateFolderRequest creates one folder under ParentID (nil = root)
type CreateFolderRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Color       string  `json:"color,omitempty"`
	ParentID    *string `json:"parentId,omitempty"`
}

// CreateFolderPathRequest resolves (and creates) a whole path
type CreateFolderPathRequest struct {
	Path  []string `json:"path"`
	Icon  string   `json:"icon,omitempty"`
	Color string   `json:"color,omitempty"`
}

// AddItemRequest carries the item payload; the destination is a FolderTarget
type AddItemRequest struct {
	Title    string   `json:"title"`
	Content  any      `json:"content"`
	ItemType *string  `json:"itemType,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// AddItemResult reports where the item landed
type AddItemResult struct {
	Folder *models.Folder     `json:"folder"`
	Item   *models.FolderItem `json:"item"`
	Path   []string           `json:"path,omitempty"` // set when the target was a path
}

// SearchRequest filters the user's items. Folder is resolved without creating folders.
type SearchRequest struct {
	Query  string        `json:"query,omitempty"`
	Folder *FolderTarget `json:"-"`
	Tags   []string      `json:"tags,omitempty"`
}

// ListItemsRequest backs the REST item listing
type ListItemsRequest struct {
	FolderID *string
	ItemType *string
	Query    string
}

// TargetKind discriminates FolderTarget
type TargetKind int

const (
	TargetByID TargetKind = iota + 1
	TargetByPath
	TargetByLegacyName
)

// FolderTarget names a destination folder in exactly one of three ways.
// The zero value is invalid.
type FolderTarget struct {
	kind     TargetKind
	id       string
	segments []string
	name     string
}

// FolderByID targets an existing folder the user owns
func FolderByID(id string) FolderTarget {
	return FolderTarget{kind: TargetByID, id: id}
}

// FolderByPath targets the folder at the end of segments, created on demand
func FolderByPath(segments ...string) FolderTarget {
	return FolderTarget{kind: TargetByPath, segments: append([]string(nil), segments...)}
}

// FolderByLegacyName targets a root-level folder by name, created on demand
func FolderByLegacyName(name string) FolderTarget {
	return FolderTarget{kind: TargetByLegacyName, name: name}
}

func (t FolderTarget) Kind() TargetKind   { return t.kind }
func (t FolderTarget) ID() string         { return t.id }
func (t FolderTarget) Segments() []string { return t.segments }
func (t FolderTarget) Name() string       { return t.name }

// String renders the target for logs and messages
func (t FolderTarget) String() string {
	switch t.kind {
	case TargetByID:
		return t.id
	case TargetByPath:
		return strings.Join(t.segments, "/")
	case TargetByLegacyName:
		return t.name
	default:
		return ""
	}
}

// Workspace change actions, as published to subscribers
const (
	ChangeFolderCreated = "folder_created"
	ChangeFolderDeleted = "folder_deleted"
	ChangeItemAdded     = "item_added"
	ChangeItemDeleted   = "item_deleted"
)

// WorkspaceChange describes one committed mutation
type WorkspaceChange struct {
	Action   string
	UserID   string
	FolderID string
	ItemID   string
}

// ChangeNotifier is told about every committed workspace mutation. Implementations
// must not fail the caller; errors are theirs to log.
type ChangeNotifier interface {
	WorkspaceChanged(ctx context.Context, change WorkspaceChange)
}
