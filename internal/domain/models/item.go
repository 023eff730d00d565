package models

import (
	"time"
)

// FolderItem is a structured record stored inside exactly one folder.
// ItemType is a styling hint only (compra, evento, tarefa, nota, fornecedor, pagamento, contrato).
type FolderItem struct {
	ID        string     `json:"id" db:"id"`
	FolderID  string     `json:"folderId" db:"folder_id"`
	UserID    string     `json:"userId" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Content   Content    `json:"content" db:"content"`
	ItemType  *string    `json:"itemType,omitempty" db:"item_type"`
	Tags      []string   `json:"tags" db:"tags"`
	Folder    *FolderRef `json:"folder,omitempty"` // populated by list/search queries
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// HasAnyTag reports whether the item carries at least one of the given tags.
func (i *FolderItem) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range i.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ItemFilter narrows item listings at the repository level
type ItemFilter struct {
	FolderID *string
	ItemType *string
	Tags     []string // any-match
}
