package repositories

import (
	"context"

	"eventdesk/internal/domain/models"
)

// ConversationRepository persists chat threads and their messages
type ConversationRepository interface {
	// Create inserts a conversation and fills ID and timestamps
	Create(ctx context.Context, conv *models.Conversation) error

	// GetByID retrieves a conversation owned by the user with all messages in order
	GetByID(ctx context.Context, id, userID string) (*models.Conversation, error)

	// ListByUser returns conversations by most recent activity, each with at most
	// its latest message
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Conversation, error)

	// RecentMessages returns the last limit messages in chronological order
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)

	// AddMessage appends a message and bumps the conversation's updated_at
	AddMessage(ctx context.Context, msg *models.Message) error

	// Delete removes a conversation and its messages
	Delete(ctx context.Context, id, userID string) error
}

// UserRepository persists identity anchors
type UserRepository interface {
	// Upsert creates the user or refreshes email/name
	Upsert(ctx context.Context, user *models.User) error

	// GetByID retrieves a user
	GetByID(ctx context.Context, id string) (*models.User, error)
}
