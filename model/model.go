package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/devknowscode/autogen/core"
)

// ErrNoMessages is returned when a request carries no conversation history.
var ErrNoMessages = errors.New("no messages provided")

// Role names the author of a conversation message.
type Role string

// Conversation roles understood by every provider.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn sent to a model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request captures the normalized model input produced by agents.
type Request struct {
	Instructions string    `json:"instructions"` // System prompt
	Messages     []Message `json:"messages"`
	Stream       bool      `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// RequestUsage converts u into the usage record attached to stream messages.
// A nil receiver yields nil.
func (u *TokenUsage) RequestUsage() *core.RequestUsage {
	if u == nil {
		return nil
	}
	return &core.RequestUsage{PromptTokens: u.PromptTokens, CompletionTokens: u.CompletionTokens}
}

// Response is a (partial or final) chunk emitted by a model.
//
// Partial responses carry a text or thought delta. The final response
// carries the full text, the finish reason and, when the provider reports it,
// usage.
type Response struct {
	ID           string      `json:"id"`
	Partial      bool        `json:"partial"`
	Text         string      `json:"text"`
	Thought      string      `json:"thought,omitempty"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", "end_turn", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required by agents to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Usage is estimated as one token per whitespace separated word.
type MockModel struct {
	info Info

	mu        sync.RWMutex
	responses map[string]string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Generate implements Model; emits optional streaming word chunks then the
// final response with usage.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)
		if len(req.Messages) == 0 {
			errCh <- ErrNoMessages
			return
		}
		input := req.Messages[len(req.Messages)-1].Content

		m.mu.RLock()
		full, ok := m.responses[input]
		m.mu.RUnlock()
		if !ok {
			full = fmt.Sprintf("Mock response to: %s", input)
		}

		if req.Stream {
			for i, word := range strings.SplitAfter(full, " ") {
				if word == "" {
					continue
				}
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{ID: fmt.Sprintf("mock-%d", i), Partial: true, Text: word}:
				}
			}
		}

		prompt := len(strings.Fields(req.Instructions))
		for _, msg := range req.Messages {
			prompt += len(strings.Fields(msg.Content))
		}
		completion := len(strings.Fields(full))

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- Response{
			Text:         full,
			FinishReason: "stop",
			Usage: &TokenUsage{
				PromptTokens:     prompt,
				CompletionTokens: completion,
				TotalTokens:      prompt + completion,
			},
		}:
		}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
