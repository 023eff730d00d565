package services

import "context"

// Completion finish reasons
const (
	FinishStop         = "stop"
	FinishFunctionCall = "function_call"
)

// FunctionSchema describes one callable function offered to the model
type FunctionSchema struct {
	Name        string         `yaml:"-" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Parameters  map[string]any `yaml:"parameters" json:"parameters"`
}

// ChatMessage is one entry of the prompt sent to the model
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FunctionCall is the model's request to run a function. Name may be empty when
// the provider reported a call without naming it.
type FunctionCall struct {
	Name          string `json:"name"`
	ArgumentsJSON string `json:"arguments"`
}

// Usage is the token accounting reported by the provider
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Completion is one model turn
type Completion struct {
	FinishReason string        `json:"finishReason"`
	Content      string        `json:"content"`
	FunctionCall *FunctionCall `json:"functionCall,omitempty"`
	Usage        *Usage        `json:"usage,omitempty"`
}

// LLMGateway sends a prompt with the available functions and returns the model's turn.
// Failures are *domain.UpstreamError with Service "llm".
type LLMGateway interface {
	Send(ctx context.Context, messages []ChatMessage, functions []FunctionSchema) (*Completion, error)
}
