// Package llm talks to an OpenAI-compatible chat completion endpoint on behalf of
// the chat service.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/services"
)

const serviceName = "llm"

// Config holds provider credentials and sampling parameters
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Gateway implements services.LLMGateway with langchaingo's OpenAI client
type Gateway struct {
	model  llms.Model
	cfg    Config
	logger *slog.Logger
}

var _ services.LLMGateway = (*Gateway)(nil)

// NewGateway builds the OpenAI client. An empty API key is an error.
func NewGateway(cfg Config, logger *slog.Logger) (*Gateway, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, openai.WithHTTPClient(cfg.HTTPClient))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	return &Gateway{model: client, cfg: cfg, logger: logger}, nil
}

// Send runs one completion bounded by the configured timeout
func (g *Gateway) Send(ctx context.Context, messages []services.ChatMessage, functions []services.FunctionSchema) (*services.Completion, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(messageType(m.Role), m.Content))
	}

	opts := []llms.CallOption{
		llms.WithTemperature(g.cfg.Temperature),
	}
	if g.cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(g.cfg.MaxTokens))
	}
	if len(functions) > 0 {
		opts = append(opts, llms.WithTools(tools(functions)))
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, content, opts...)
	if err != nil {
		upstream := classify(ctx, err)
		g.logger.Error("llm request failed",
			"model", g.cfg.Model,
			"status", upstream.Status,
			"retryable", upstream.Retryable,
			"error", err,
		)
		return nil, upstream
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.UpstreamError{Service: serviceName, Err: errors.New("empty response")}
	}

	completion := toCompletion(resp.Choices[0])
	g.logger.Debug("llm completion",
		"model", g.cfg.Model,
		"finish_reason", completion.FinishReason,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return completion, nil
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func tools(functions []services.FunctionSchema) []llms.Tool {
	out := make([]llms.Tool, 0, len(functions))
	for _, fn := range functions {
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        fn.Name,
				Description: fn.Description,
				Parameters:  fn.Parameters,
			},
		})
	}
	return out
}

// toCompletion normalizes tool calls and legacy function calls into one FunctionCall.
func toCompletion(choice *llms.ContentChoice) *services.Completion {
	c := &services.Completion{
		FinishReason: services.FinishStop,
		Content:      choice.Content,
		Usage:        usage(choice.GenerationInfo),
	}

	switch {
	case len(choice.ToolCalls) > 0 && choice.ToolCalls[0].FunctionCall != nil:
		fc := choice.ToolCalls[0].FunctionCall
		c.FinishReason = services.FinishFunctionCall
		c.FunctionCall = &services.FunctionCall{Name: fc.Name, ArgumentsJSON: fc.Arguments}
	case choice.FuncCall != nil:
		c.FinishReason = services.FinishFunctionCall
		c.FunctionCall = &services.FunctionCall{Name: choice.FuncCall.Name, ArgumentsJSON: choice.FuncCall.Arguments}
	case choice.StopReason == "function_call" || choice.StopReason == "tool_calls":
		c.FinishReason = services.FinishFunctionCall
	}
	return c
}

func usage(info map[string]any) *services.Usage {
	if info == nil {
		return nil
	}
	u := &services.Usage{
		PromptTokens:     intInfo(info["PromptTokens"]),
		CompletionTokens: intInfo(info["CompletionTokens"]),
		TotalTokens:      intInfo(info["TotalTokens"]),
	}
	if *u == (services.Usage{}) {
		return nil
	}
	return u
}

func intInfo(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

var statusPattern = regexp.MustCompile(`status code: (\d{3})`)

// classify maps a client failure onto UpstreamError. Timeouts, network errors,
// 429 and 5xx are retryable; other statuses are not.
func classify(ctx context.Context, err error) *domain.UpstreamError {
	out := &domain.UpstreamError{Service: serviceName, Err: err}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		out.Retryable = true
		return out
	}
	if errors.Is(err, context.Canceled) {
		return out
	}

	if m := statusPattern.FindStringSubmatch(err.Error()); m != nil {
		status, _ := strconv.Atoi(m[1])
		out.Status = status
		out.Retryable = status == http.StatusTooManyRequests || status >= 500
		return out
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		out.Retryable = true
	}
	return out
}
