package handler

import (
	"context"
	"log/slog"
	"net/http"

	"eventdesk/internal/config"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/httputil"
	"eventdesk/internal/service/chat"
)

// ChatService is the chat surface the handler needs
type ChatService interface {
	Chat(ctx context.Context, userID string, req *chat.Request) (*chat.Response, error)
	ListConversations(ctx context.Context, userID string, limit int) ([]models.Conversation, error)
	GetConversation(ctx context.Context, userID, id string) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, userID, id string) error
}

// Invalidator drops a user's cached responses
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID string)
}

// ChatHandler handles assistant chat and conversation HTTP requests
type ChatHandler struct {
	chat        ChatService
	invalidator Invalidator
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler. invalidator may be nil.
func NewChatHandler(chat ChatService, invalidator Invalidator, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chat:        chat,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Chat sends one user message to the assistant
// POST /api/ai/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req chat.Request
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.chat.Chat(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	h.invalidate(r.Context(), userID)

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// ListConversations lists the user's conversations, newest activity first
// GET /api/ai/conversations?limit=
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	limit := httputil.QueryInt(r, "limit", config.DefaultConversationListLimit)

	convs, err := h.chat.ListConversations(r.Context(), httputil.GetUserID(r), limit)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

// GetConversation returns a conversation with all messages
// GET /api/ai/conversations/{id}
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	conv, err := h.chat.GetConversation(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"conversation": conv})
}

// DeleteConversation deletes a conversation
// DELETE /api/ai/conversations/{id}
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	if err := h.chat.DeleteConversation(r.Context(), userID, id); err != nil {
		handleError(w, h.logger, err)
		return
	}
	h.invalidate(r.Context(), userID)

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "Conversa deletada com sucesso"})
}

func (h *ChatHandler) invalidate(ctx context.Context, userID string) {
	if h.invalidator != nil {
		h.invalidator.InvalidateUser(ctx, userID)
	}
}
