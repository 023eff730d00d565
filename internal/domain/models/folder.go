package models

import (
	"time"
)

// Default folder styling applied when nothing more specific is known.
const (
	DefaultFolderIcon  = "📁"
	DefaultFolderColor = "#3B82F6"
)

// Folder is a node of a user's workspace tree. ParentID nil means root level.
type Folder struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	ParentID    *string   `json:"parentId" db:"parent_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// IsRoot reports whether the folder sits at the top of the tree.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// Ref returns the compact reference embedded in items and summaries.
func (f *Folder) Ref() FolderRef {
	return FolderRef{ID: f.ID, Name: f.Name, Icon: f.Icon, Color: f.Color}
}

// FolderRef is the minimal folder projection attached to items and subfolder lists
type FolderRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// FolderSummary is a folder annotated with its item count and immediate children
type FolderSummary struct {
	Folder
	ItemCount  int         `json:"itemCount"`
	SubFolders []FolderRef `json:"subFolders"`
}

// FolderWithItems is a folder loaded together with its items
type FolderWithItems struct {
	Folder
	Items     []FolderItem `json:"items"`
	ItemCount int          `json:"itemCount"`
}

// FolderTreeNode is a folder in the nested workspace tree
type FolderTreeNode struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Icon      string            `json:"icon"`
	Color     string            `json:"color"`
	ParentID  *string           `json:"parentId"`
	ItemCount int               `json:"itemCount"`
	CreatedAt time.Time         `json:"createdAt"`
	Folders   []*FolderTreeNode `json:"folders"`
}
