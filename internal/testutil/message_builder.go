package testutil

import (
	"strings"

	"github.com/devknowscode/autogen/core"
)

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder().Source("assistant").Text("hello").Usage(10, 5).Build()
//
// Chain only the parts you need; a text message from "assistant" is the default.
type MessageBuilder struct {
	source  string
	id      string
	texts   []string
	images  []core.ImagePart
	usage   *core.RequestUsage
	calls   []core.FunctionCall
	thought *string
}

// NewMessageBuilder creates a builder with default source "assistant".
func NewMessageBuilder() *MessageBuilder { return &MessageBuilder{source: "assistant"} }

// Source sets the producer name (chainable).
func (b *MessageBuilder) Source(s string) *MessageBuilder { b.source = s; return b }

// ID overrides the generated message ID (chainable).
func (b *MessageBuilder) ID(id string) *MessageBuilder { b.id = id; return b }

// Text appends a text segment (chainable).
func (b *MessageBuilder) Text(t string) *MessageBuilder { b.texts = append(b.texts, t); return b }

// Image appends an inlined image; the result becomes a MultiModalMessage (chainable).
func (b *MessageBuilder) Image(name string, data []byte) *MessageBuilder {
	b.images = append(b.images, core.ImagePart{Name: name, Data: data, MimeType: "image/png"})
	return b
}

// Usage attaches token usage (chainable).
func (b *MessageBuilder) Usage(prompt, completion int) *MessageBuilder {
	b.usage = &core.RequestUsage{PromptTokens: prompt, CompletionTokens: completion}
	return b
}

// ToolCall appends a tool call; the result becomes a ToolCallRequestEvent (chainable).
func (b *MessageBuilder) ToolCall(id, name, args string) *MessageBuilder {
	b.calls = append(b.calls, core.FunctionCall{ID: id, Name: name, Arguments: args})
	return b
}

// Thought turns the result into a ThoughtEvent (chainable).
func (b *MessageBuilder) Thought(t string) *MessageBuilder { b.thought = &t; return b }

// Build constructs the message. Precedence: thought, tool calls, images, text.
func (b *MessageBuilder) Build() core.Message {
	base := core.NewBaseMessage(b.source)
	if b.id != "" {
		base.ID = b.id
	}
	base.ModelsUsage = b.usage

	switch {
	case b.thought != nil:
		return &core.ThoughtEvent{BaseMessage: base, Content: *b.thought}
	case len(b.calls) > 0:
		return &core.ToolCallRequestEvent{BaseMessage: base, Calls: append([]core.FunctionCall{}, b.calls...)}
	case len(b.images) > 0:
		parts := make([]core.Part, 0, len(b.texts)+len(b.images))
		for _, t := range b.texts {
			parts = append(parts, core.TextPart{Text: t})
		}
		for _, img := range b.images {
			parts = append(parts, img)
		}
		return &core.MultiModalMessage{BaseMessage: base, Content: parts}
	default:
		return &core.TextMessage{BaseMessage: base, Content: strings.Join(b.texts, "\n")}
	}
}

// Chunks creates one streaming chunk per fragment, all from source.
func Chunks(source string, fragments ...string) []core.Item {
	items := make([]core.Item, 0, len(fragments))
	for _, f := range fragments {
		items = append(items, core.NewStreamingChunk(source, f))
	}
	return items
}

// Items concatenates item groups into one slice, convenient for core.StreamOf.
func Items(groups ...[]core.Item) []core.Item {
	var out []core.Item
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// One wraps a single item as a group for Items.
func One(it core.Item) []core.Item { return []core.Item{it} }
