package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
)

type folderRepo struct{ s *Store }

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// findChild matches names case-insensitively. Caller holds a lock.
func (r *folderRepo) findChild(userID string, parentID *string, name string) *models.Folder {
	for _, f := range r.s.folders {
		if f.UserID == userID && sameParent(f.ParentID, parentID) && strings.EqualFold(f.Name, name) {
			f := f
			return &f
		}
	}
	return nil
}

// insert validates the parent and stores folder. Caller holds the write lock.
func (r *folderRepo) insert(folder *models.Folder) error {
	if folder.ParentID != nil {
		parent, ok := r.s.folders[*folder.ParentID]
		if !ok || parent.UserID != folder.UserID {
			return domain.NewNotFound("folder", *folder.ParentID)
		}
	}
	folder.ID = newID()
	folder.CreatedAt = r.s.now()
	folder.UpdatedAt = folder.CreatedAt
	r.s.folders[folder.ID] = *folder
	return nil
}

func (r *folderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing := r.findChild(folder.UserID, folder.ParentID, folder.Name); existing != nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("folder '%s' already exists in this location", folder.Name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}
	return r.insert(folder)
}

func (r *folderRepo) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.folders[id]
	if !ok || f.UserID != userID {
		return nil, domain.NewNotFound("folder", id)
	}
	return &f, nil
}

func (r *folderRepo) FindChildByName(ctx context.Context, userID string, parentID *string, name string) (*models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.findChild(userID, parentID, name), nil
}

func (r *folderRepo) CreateIfNotExists(ctx context.Context, folder *models.Folder) (*models.Folder, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing := r.findChild(folder.UserID, folder.ParentID, folder.Name); existing != nil {
		return existing, false, nil
	}
	if err := r.insert(folder); err != nil {
		return nil, false, err
	}
	created := *folder
	return &created, true, nil
}

func (r *folderRepo) ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Folder{}
	for _, f := range r.s.folders {
		if f.UserID == userID && sameParent(f.ParentID, parentID) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *folderRepo) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Folder{}
	for _, f := range r.s.folders {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *folderRepo) CountItems(ctx context.Context, userID string) (map[string]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]int)
	for _, it := range r.s.items {
		if it.UserID == userID {
			counts[it.FolderID]++
		}
	}
	return counts, nil
}

func (r *folderRepo) Delete(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.folders[id]
	if !ok || f.UserID != userID {
		return domain.NewNotFound("folder", id)
	}

	doomed := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for fid, child := range r.s.folders {
			if child.ParentID != nil && doomed[*child.ParentID] && !doomed[fid] {
				doomed[fid] = true
				changed = true
			}
		}
	}

	for iid, it := range r.s.items {
		if doomed[it.FolderID] {
			delete(r.s.items, iid)
		}
	}
	for fid := range doomed {
		delete(r.s.folders, fid)
	}
	return nil
}
