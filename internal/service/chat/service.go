// Package chat runs one assistant turn: it keeps the conversation transcript, asks
// the model for a reply and executes the function the model picked.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"eventdesk/internal/config"
	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/service/dispatch"
)

const (
	msgUndefinedFunction = "Erro: função chamada mas não definida."
	maxTitleRunes        = 60
)

// FunctionDispatcher executes a model function call
type FunctionDispatcher interface {
	Dispatch(ctx context.Context, userID, functionName, argsJSON string) (*dispatch.Result, error)
}

// Catalog supplies the system prompt and the functions offered to the model
type Catalog interface {
	SystemPrompt() string
	Functions() []services.FunctionSchema
}

// Request is one user chat message. An empty ConversationID starts a new conversation.
type Request struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// Validate checks the message is present and bounded
func (r *Request) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Message,
			validation.Required.Error("Mensagem é obrigatória"),
			validation.RuneLength(1, config.MaxMessageLength).Error(
				fmt.Sprintf("Mensagem deve ter no máximo %d caracteres", config.MaxMessageLength)),
		),
	)
}

// Response is the assistant turn returned to the client
type Response struct {
	ConversationID string                     `json:"conversationId"`
	Message        string                     `json:"message"`
	File           *models.GeneratedFile      `json:"file,omitempty"`
	Workspace      *dispatch.WorkspacePayload `json:"workspace,omitempty"`
	Report         *dispatch.ReportPayload    `json:"report,omitempty"`
	Usage          *services.Usage            `json:"usage,omitempty"`
}

// Service orchestrates conversations, the LLM gateway and the dispatcher
type Service struct {
	conversations repositories.ConversationRepository
	gateway       services.LLMGateway
	dispatcher    FunctionDispatcher
	catalog       Catalog
	historyLimit  int
	logger        *slog.Logger
}

// NewService creates the chat service. historyLimit bounds how many earlier messages
// are replayed to the model.
func NewService(
	conversations repositories.ConversationRepository,
	gateway services.LLMGateway,
	dispatcher FunctionDispatcher,
	catalog Catalog,
	historyLimit int,
	logger *slog.Logger,
) *Service {
	return &Service{
		conversations: conversations,
		gateway:       gateway,
		dispatcher:    dispatcher,
		catalog:       catalog,
		historyLimit:  historyLimit,
		logger:        logger,
	}
}

// Chat persists the user message, asks the model and persists the reply
func (s *Service) Chat(ctx context.Context, userID string, req *Request) (*Response, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	conv, history, err := s.openConversation(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.addMessage(ctx, conv.ID, models.RoleUser, req.Message); err != nil {
		return nil, err
	}

	prompt := s.buildPrompt(history, req.Message)
	completion, err := s.gateway.Send(ctx, prompt, s.catalog.Functions())
	if err != nil {
		return nil, err
	}

	resp := &Response{
		ConversationID: conv.ID,
		Message:        completion.Content,
		Usage:          completion.Usage,
	}

	if completion.FinishReason == services.FinishFunctionCall {
		if err := s.runFunction(ctx, userID, completion.FunctionCall, resp); err != nil {
			return nil, err
		}
	}

	stored := resp.Message
	if resp.File != nil {
		stored += "\n\n📎 Arquivo: " + resp.File.Name
	}
	if err := s.addMessage(ctx, conv.ID, models.RoleAssistant, stored); err != nil {
		return nil, err
	}

	s.logger.Info("chat message processed",
		"user_id", userID,
		"conversation_id", conv.ID,
		"finish_reason", completion.FinishReason,
	)
	return resp, nil
}

func (s *Service) openConversation(ctx context.Context, userID string, req *Request) (*models.Conversation, []models.Message, error) {
	if req.ConversationID == "" {
		conv := &models.Conversation{UserID: userID, Title: conversationTitle(req.Message)}
		if err := s.conversations.Create(ctx, conv); err != nil {
			return nil, nil, domain.WrapPersistence("Falha ao criar conversa", err)
		}
		s.logger.Info("conversation created", "id", conv.ID, "user_id", userID)
		return conv, nil, nil
	}

	conv, err := s.conversations.GetByID(ctx, req.ConversationID, userID)
	if err != nil {
		return nil, nil, domain.WrapPersistence("Falha ao buscar conversa", err)
	}
	history, err := s.conversations.RecentMessages(ctx, conv.ID, s.historyLimit)
	if err != nil {
		return nil, nil, domain.WrapPersistence("Falha ao buscar conversa", err)
	}
	return conv, history, nil
}

func (s *Service) buildPrompt(history []models.Message, message string) []services.ChatMessage {
	prompt := make([]services.ChatMessage, 0, len(history)+2)
	prompt = append(prompt, services.ChatMessage{Role: models.RoleSystem, Content: s.catalog.SystemPrompt()})
	for _, m := range history {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			continue
		}
		prompt = append(prompt, services.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return append(prompt, services.ChatMessage{Role: models.RoleUser, Content: message})
}

func (s *Service) runFunction(ctx context.Context, userID string, call *services.FunctionCall, resp *Response) error {
	if call == nil || call.Name == "" {
		s.logger.Warn("function call without name", "user_id", userID)
		resp.Message = msgUndefinedFunction
		return nil
	}

	result, err := s.dispatcher.Dispatch(ctx, userID, call.Name, call.ArgumentsJSON)
	if err != nil {
		return err
	}
	resp.Message = result.Content
	resp.File = result.File
	resp.Workspace = result.Workspace
	resp.Report = result.Report
	return nil
}

func (s *Service) addMessage(ctx context.Context, conversationID, role, content string) error {
	msg := &models.Message{ConversationID: conversationID, Role: role, Content: content}
	if err := s.conversations.AddMessage(ctx, msg); err != nil {
		return domain.WrapPersistence("Falha ao salvar mensagem", err)
	}
	return nil
}

// ListConversations returns the user's conversations, most recent first, each with
// its latest message
func (s *Service) ListConversations(ctx context.Context, userID string, limit int) ([]models.Conversation, error) {
	switch {
	case limit <= 0:
		limit = config.DefaultConversationListLimit
	case limit > config.MaxConversationListLimit:
		limit = config.MaxConversationListLimit
	}
	convs, err := s.conversations.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao listar conversas", err)
	}
	return convs, nil
}

// GetConversation returns one conversation with its full transcript
func (s *Service) GetConversation(ctx context.Context, userID, id string) (*models.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, id, userID)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao buscar conversa", err)
	}
	return conv, nil
}

// DeleteConversation removes a conversation and its messages
func (s *Service) DeleteConversation(ctx context.Context, userID, id string) error {
	if err := s.conversations.Delete(ctx, id, userID); err != nil {
		return domain.WrapPersistence("Falha ao deletar conversa", err)
	}
	s.logger.Info("conversation deleted", "id", id, "user_id", userID)
	return nil
}

// conversationTitle is the first line of the opening message, cut at maxTitleRunes
func conversationTitle(message string) string {
	title, _, _ := strings.Cut(message, "\n")
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	r := []rune(title)
	return strings.TrimSpace(string(r[:maxTitleRunes])) + "…"
}
