package memory

import (
	"context"
	"sort"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
)

type itemRepo struct{ s *Store }

// withFolder copies item and attaches its folder reference. Caller holds a lock.
func (r *itemRepo) withFolder(it models.FolderItem) models.FolderItem {
	if f, ok := r.s.folders[it.FolderID]; ok {
		ref := f.Ref()
		it.Folder = &ref
	}
	it.Tags = append([]string{}, it.Tags...)
	return it
}

func (r *itemRepo) Create(ctx context.Context, item *models.FolderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.folders[item.FolderID]
	if !ok || f.UserID != item.UserID {
		return domain.NewNotFound("folder", item.FolderID)
	}
	if item.Content == nil {
		item.Content = models.Content{}
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	item.ID = newID()
	item.CreatedAt = r.s.now()
	item.UpdatedAt = item.CreatedAt
	stored := *item
	stored.Folder = nil
	r.s.items[item.ID] = stored
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, id, userID string) (*models.FolderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.items[id]
	if !ok || it.UserID != userID {
		return nil, domain.NewNotFound("item", id)
	}
	out := r.withFolder(it)
	return &out, nil
}

func (r *itemRepo) List(ctx context.Context, userID string, filter models.ItemFilter) ([]models.FolderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.FolderItem{}
	for _, it := range r.s.items {
		if it.UserID != userID {
			continue
		}
		if filter.FolderID != nil && it.FolderID != *filter.FolderID {
			continue
		}
		if filter.ItemType != nil && (it.ItemType == nil || *it.ItemType != *filter.ItemType) {
			continue
		}
		if len(filter.Tags) > 0 && !it.HasAnyTag(filter.Tags) {
			continue
		}
		out = append(out, r.withFolder(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *itemRepo) ListByFolder(ctx context.Context, folderID, userID string) ([]models.FolderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.FolderItem{}
	for _, it := range r.s.items {
		if it.FolderID == folderID && it.UserID == userID {
			out = append(out, r.withFolder(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *itemRepo) Delete(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok || it.UserID != userID {
		return domain.NewNotFound("item", id)
	}
	delete(r.s.items, id)
	return nil
}
