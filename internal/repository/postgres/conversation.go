package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
)

// PostgresConversationRepository implements repositories.ConversationRepository
type PostgresConversationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(config *RepositoryConfig) repositories.ConversationRepository {
	return &PostgresConversationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a conversation
func (r *PostgresConversationRepository) Create(ctx context.Context, conv *models.Conversation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, conv.UserID, conv.Title).
		Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return domain.WrapPersistence("Falha ao criar conversa", err)
	}
	if conv.Messages == nil {
		conv.Messages = []models.Message{}
	}
	return nil
}

// GetByID retrieves a conversation with all its messages
func (r *PostgresConversationRepository) GetByID(ctx context.Context, id, userID string) (*models.Conversation, error) {
	if !validID(id) {
		return nil, domain.NewNotFound("conversation", id)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, title, created_at, updated_at
		FROM %s WHERE id = $1 AND user_id = $2
	`, r.tables.Conversations)

	var conv models.Conversation
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).
		Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("conversation", id)
		}
		return nil, domain.WrapPersistence("Falha ao buscar conversa", err)
	}

	msgQuery := fmt.Sprintf(`
		SELECT id, conversation_id, role, content, created_at
		FROM %s WHERE conversation_id = $1
		ORDER BY created_at ASC
	`, r.tables.Messages)

	rows, err := executor.Query(ctx, msgQuery, id)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao buscar mensagens", err)
	}
	conv.Messages, err = collectMessages(rows)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListByUser returns conversations by latest activity, each carrying only its last message
func (r *PostgresConversationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.user_id, c.title, c.created_at, c.updated_at,
		       m.id, m.role, m.content, m.created_at
		FROM %s c
		LEFT JOIN LATERAL (
			SELECT id, role, content, created_at
			FROM %s
			WHERE conversation_id = c.id
			ORDER BY created_at DESC
			LIMIT 1
		) m ON true
		WHERE c.user_id = $1
		ORDER BY c.updated_at DESC
		LIMIT $2
	`, r.tables.Conversations, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao listar conversas", err)
	}
	defer rows.Close()

	convs := []models.Conversation{}
	for rows.Next() {
		var conv models.Conversation
		var msgID, role, content *string
		var msgAt *time.Time
		if err := rows.Scan(
			&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt,
			&msgID, &role, &content, &msgAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conv.Messages = []models.Message{}
		if msgID != nil {
			msg := models.Message{ID: *msgID, ConversationID: conv.ID, Role: *role, Content: *content}
			if msgAt != nil {
				msg.CreatedAt = *msgAt
			}
			conv.Messages = append(conv.Messages, msg)
		}
		convs = append(convs, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return convs, nil
}

// RecentMessages returns the newest limit messages, oldest first
func (r *PostgresConversationRepository) RecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	if !validID(conversationID) {
		return []models.Message{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, conversation_id, role, content, created_at FROM (
			SELECT id, conversation_id, role, content, created_at
			FROM %s WHERE conversation_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao buscar histórico", err)
	}
	return collectMessages(rows)
}

// AddMessage appends a message and touches the conversation
func (r *PostgresConversationRepository) AddMessage(ctx context.Context, msg *models.Message) error {
	if !validID(msg.ConversationID) {
		return domain.NewNotFound("conversation", msg.ConversationID)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (conversation_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, msg.ConversationID, msg.Role, msg.Content).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return domain.NewNotFound("conversation", msg.ConversationID)
		}
		return domain.WrapPersistence("Falha ao salvar mensagem", err)
	}

	touch := fmt.Sprintf(`UPDATE %s SET updated_at = $2 WHERE id = $1`, r.tables.Conversations)
	if _, err := executor.Exec(ctx, touch, msg.ConversationID, msg.CreatedAt); err != nil {
		return domain.WrapPersistence("Falha ao atualizar conversa", err)
	}
	return nil
}

// Delete removes a conversation; messages cascade
func (r *PostgresConversationRepository) Delete(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return domain.NewNotFound("conversation", id)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return domain.WrapPersistence("Falha ao deletar conversa", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound("conversation", id)
	}
	return nil
}

func collectMessages(rows pgx.Rows) ([]models.Message, error) {
	defer rows.Close()

	msgs := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}
