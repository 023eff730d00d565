package memory

import (
	"context"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
)

type userRepo struct{ s *Store }

func (r *userRepo) Upsert(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		user.CreatedAt = r.s.now()
		r.s.users[user.ID] = *user
		return nil
	}
	if user.Email != "" {
		existing.Email = user.Email
	}
	if user.Name != "" {
		existing.Name = user.Name
	}
	r.s.users[user.ID] = existing
	*user = existing
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	return &u, nil
}
