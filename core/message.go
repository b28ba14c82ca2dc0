package core

import (
	"fmt"
	"strings"
	"time"
)

// Message is any chat message or agent event that a console renders as a
// block. Types outside this package join the set by embedding BaseMessage and
// implementing Kind and ToText.
type Message interface {
	Item
	// Source is the producer identity (agent name, "user", ...).
	Source() string
	// Usage returns token usage for the message or nil when unknown.
	Usage() *RequestUsage
	// Kind is a short label used in display (e.g. "TextMessage").
	Kind() string
	// ToText renders the message as plain text. inlineImages enables
	// terminal inline image sequences for image content.
	ToText(inlineImages bool) string
}

// BaseMessage carries the fields shared by every message kind.
type BaseMessage struct {
	ID          string            `json:"id"`
	SourceName  string            `json:"source"`
	ModelsUsage *RequestUsage     `json:"models_usage,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewBaseMessage creates a BaseMessage with a fresh id and UTC timestamp.
func NewBaseMessage(source string) BaseMessage {
	return BaseMessage{ID: NewID(), SourceName: source, CreatedAt: time.Now().UTC()}
}

func (*BaseMessage) isItem() {}

// Source implements Message.
func (m *BaseMessage) Source() string { return m.SourceName }

// Usage implements Message.
func (m *BaseMessage) Usage() *RequestUsage { return m.ModelsUsage }

// TextMessage is a plain text chat message.
type TextMessage struct {
	BaseMessage
	Content string
}

// NewTextMessage creates a text message authored by source.
func NewTextMessage(source, content string) *TextMessage {
	return &TextMessage{BaseMessage: NewBaseMessage(source), Content: content}
}

// Kind implements Message.
func (*TextMessage) Kind() string { return "TextMessage" }

// ToText implements Message.
func (m *TextMessage) ToText(bool) string { return m.Content }

// MultiModalMessage mixes text and image parts.
type MultiModalMessage struct {
	BaseMessage
	Content []Part
}

// NewMultiModalMessage creates a multi-modal message authored by source.
func NewMultiModalMessage(source string, parts ...Part) *MultiModalMessage {
	return &MultiModalMessage{BaseMessage: NewBaseMessage(source), Content: parts}
}

// Kind implements Message.
func (*MultiModalMessage) Kind() string { return "MultiModalMessage" }

// ToText joins the parts line by line; images are painted inline only when
// inlineImages is set.
func (m *MultiModalMessage) ToText(inlineImages bool) string {
	lines := make([]string, 0, len(m.Content))
	for _, p := range m.Content {
		switch pt := p.(type) {
		case TextPart:
			lines = append(lines, pt.Text)
		case ImagePart:
			lines = append(lines, pt.Text(inlineImages))
		}
	}
	return strings.Join(lines, "\n")
}

// IsMultiModal reports whether m carries image content and may therefore be
// rendered with inline images.
func IsMultiModal(m Message) bool {
	_, ok := m.(*MultiModalMessage)
	return ok
}

// FunctionCall describes a tool/function invocation request.
type FunctionCall struct {
	ID        string `json:"id,omitempty"`        // Optional stable id
	Name      string `json:"name"`                // Tool / function name
	Arguments string `json:"arguments,omitempty"` // Serialized argument payload (e.g. JSON)
}

// FunctionExecutionResult describes the outcome of a function call.
type FunctionExecutionResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// ToolCallRequestEvent is emitted when a model asks for tool execution.
type ToolCallRequestEvent struct {
	BaseMessage
	Calls []FunctionCall
}

// Kind implements Message.
func (*ToolCallRequestEvent) Kind() string { return "ToolCallRequestEvent" }

// ToText implements Message.
func (e *ToolCallRequestEvent) ToText(bool) string {
	lines := make([]string, 0, len(e.Calls))
	for _, c := range e.Calls {
		lines = append(lines, fmt.Sprintf("%s(%s) [%s]", c.Name, c.Arguments, c.ID))
	}
	return strings.Join(lines, "\n")
}

// ToolCallExecutionEvent reports the results of executed tool calls.
type ToolCallExecutionEvent struct {
	BaseMessage
	Results []FunctionExecutionResult
}

// Kind implements Message.
func (*ToolCallExecutionEvent) Kind() string { return "ToolCallExecutionEvent" }

// ToText implements Message.
func (e *ToolCallExecutionEvent) ToText(bool) string {
	lines := make([]string, 0, len(e.Results))
	for _, r := range e.Results {
		status := "ok"
		if r.IsError {
			status = "error"
		}
		lines = append(lines, fmt.Sprintf("%s [%s] %s: %s", r.Name, r.CallID, status, r.Content))
	}
	return strings.Join(lines, "\n")
}

// ThoughtEvent carries model reasoning surfaced alongside a response.
type ThoughtEvent struct {
	BaseMessage
	Content string
}

// Kind implements Message.
func (*ThoughtEvent) Kind() string { return "ThoughtEvent" }

// ToText implements Message.
func (e *ThoughtEvent) ToText(bool) string { return e.Content }

// StopMessage asks the surrounding team to stop.
type StopMessage struct {
	BaseMessage
	Content string
}

// Kind implements Message.
func (*StopMessage) Kind() string { return "StopMessage" }

// ToText implements Message.
func (m *StopMessage) ToText(bool) string { return m.Content }
