package llm

import (
	"context"
	"errors"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/services"
)

// ErrNotConfigured is returned by Disabled for every request
var ErrNotConfigured = errors.New("OPENAI_API_KEY not set")

// Disabled answers every request with a non-retryable upstream error. The server
// runs with it when no API key is configured so the workspace API stays usable.
type Disabled struct{}

var _ services.LLMGateway = Disabled{}

func (Disabled) Send(context.Context, []services.ChatMessage, []services.FunctionSchema) (*services.Completion, error) {
	return nil, &domain.UpstreamError{Service: serviceName, Err: ErrNotConfigured}
}
