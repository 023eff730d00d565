package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/services"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Gateway {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g, err := NewGateway(Config{
		APIKey:      "sk-test",
		BaseURL:     server.URL,
		Model:       "gpt-4.1",
		Temperature: 0.6,
		MaxTokens:   2000,
		Timeout:     timeout,
		HTTPClient:  server.Client(),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return g
}

func TestNewGateway_RequiresKey(t *testing.T) {
	_, err := NewGateway(Config{Model: "gpt-4.1"}, slog.Default())
	require.Error(t, err)
}

func TestSend_Text(t *testing.T) {
	var payload map[string]any
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &payload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4.1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Olá! Como posso ajudar?"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 6, "total_tokens": 18}
		}`))
	}, time.Second)

	got, err := g.Send(context.Background(), []services.ChatMessage{
		{Role: "system", Content: "Você é um assistente."},
		{Role: "user", Content: "Oi"},
	}, []services.FunctionSchema{{
		Name:        "list_folders",
		Description: "Lista as pastas",
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
	}})
	require.NoError(t, err)

	assert.Equal(t, services.FinishStop, got.FinishReason)
	assert.Equal(t, "Olá! Como posso ajudar?", got.Content)
	assert.Nil(t, got.FunctionCall)
	require.NotNil(t, got.Usage)
	assert.Equal(t, 18, got.Usage.TotalTokens)

	assert.Equal(t, "gpt-4.1", payload["model"])
	messages, ok := payload["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.NotEmpty(t, payload["tools"])
}

func TestSend_FunctionCall(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-2",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4.1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "", "tool_calls": [
				{"id": "call_1", "type": "function", "function": {"name": "create_folder", "arguments": "{\"name\":\"Compras\"}"}}
			]}, "finish_reason": "tool_calls"}],
			"usage": {"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28}
		}`))
	}, time.Second)

	got, err := g.Send(context.Background(), []services.ChatMessage{{Role: "user", Content: "Crie a pasta Compras"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, services.FinishFunctionCall, got.FinishReason)
	require.NotNil(t, got.FunctionCall)
	assert.Equal(t, "create_folder", got.FunctionCall.Name)
	assert.JSONEq(t, `{"name":"Compras"}`, got.FunctionCall.ArgumentsJSON)
}

func TestSend_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, true},
		{"bad gateway", http.StatusBadGateway, true},
		{"unauthorized", http.StatusUnauthorized, false},
		{"bad request", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"message": "failure", "type": "error"}}`))
			}, time.Second)

			_, err := g.Send(context.Background(), []services.ChatMessage{{Role: "user", Content: "Oi"}}, nil)
			require.Error(t, err)

			var upstream *domain.UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, "llm", upstream.Service)
			assert.Equal(t, tt.status, upstream.Status)
			assert.Equal(t, tt.retryable, upstream.Retryable)
			assert.ErrorIs(t, err, domain.ErrUpstream)
		})
	}
}

func TestSend_Timeout(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)

	_, err := g.Send(context.Background(), []services.ChatMessage{{Role: "user", Content: "Oi"}}, nil)
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		retryable bool
	}{
		{"status in message", errors.New("API returned unexpected status code: 503: overloaded"), 503, true},
		{"client status", errors.New("API returned unexpected status code: 404: no model"), 404, false},
		{"deadline", context.DeadlineExceeded, 0, true},
		{"canceled", context.Canceled, 0, false},
		{"unknown", errors.New("boom"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(context.Background(), tt.err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.retryable, got.Retryable)
		})
	}
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Send(context.Background(), []services.ChatMessage{{Role: "user", Content: "Oi"}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.False(t, domain.IsRetryable(err))
}
