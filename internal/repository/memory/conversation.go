package memory

import (
	"context"
	"sort"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
)

type conversationRepo struct{ s *Store }

func (r *conversationRepo) Create(ctx context.Context, conv *models.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conv.ID = newID()
	conv.CreatedAt = r.s.now()
	conv.UpdatedAt = conv.CreatedAt
	conv.Messages = []models.Message{}
	stored := *conv
	stored.Messages = nil
	r.s.conversations[conv.ID] = stored
	return nil
}

func (r *conversationRepo) GetByID(ctx context.Context, id, userID string) (*models.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	conv, ok := r.s.conversations[id]
	if !ok || conv.UserID != userID {
		return nil, domain.NewNotFound("conversation", id)
	}
	conv.Messages = append([]models.Message{}, r.s.messages[id]...)
	return &conv, nil
}

func (r *conversationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Conversation{}
	for _, conv := range r.s.conversations {
		if conv.UserID != userID {
			continue
		}
		conv.Messages = []models.Message{}
		if msgs := r.s.messages[conv.ID]; len(msgs) > 0 {
			conv.Messages = append(conv.Messages, msgs[len(msgs)-1])
		}
		out = append(out, conv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *conversationRepo) RecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	msgs := r.s.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]models.Message{}, msgs...), nil
}

func (r *conversationRepo) AddMessage(ctx context.Context, msg *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conv, ok := r.s.conversations[msg.ConversationID]
	if !ok {
		return domain.NewNotFound("conversation", msg.ConversationID)
	}
	msg.ID = newID()
	msg.CreatedAt = r.s.now()
	r.s.messages[msg.ConversationID] = append(r.s.messages[msg.ConversationID], *msg)
	conv.UpdatedAt = msg.CreatedAt
	r.s.conversations[conv.ID] = conv
	return nil
}

func (r *conversationRepo) Delete(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conv, ok := r.s.conversations[id]
	if !ok || conv.UserID != userID {
		return domain.NewNotFound("conversation", id)
	}
	delete(r.s.conversations, id)
	delete(r.s.messages, id)
	return nil
}
