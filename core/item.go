package core

import (
	"context"

	"github.com/google/uuid"
)

// Item is anything that flows through an agent task stream. Concrete item
// types implement the unexported isItem marker enabling a closed set:
// *TaskResult, *Response, *UserInputRequested, *StreamingChunk and any type
// embedding BaseMessage (the Message arm).
type Item interface{ isItem() }

// Result is a terminal item: the value a stream consumer resolves to.
type Result interface {
	Item
	isResult()
}

// TaskResult summarizes a finished task run.
type TaskResult struct {
	Messages   []Message // Messages produced during the task, in order
	StopReason string    // Why the task stopped
}

func (*TaskResult) isItem()   {}
func (*TaskResult) isResult() {}

// Response is the final answer of a single agent turn.
type Response struct {
	ChatMessage   Message   // The final chat message
	InnerMessages []Message // Optional inner messages; nil when absent
}

func (*Response) isItem()   {}
func (*Response) isResult() {}

// UserInputRequested signals that a waiter is blocked expecting user input
// under RequestID. It is a control item and is never rendered as chat content.
type UserInputRequested struct {
	BaseMessage
	RequestID string
}

// Kind implements Message.
func (*UserInputRequested) Kind() string { return "UserInputRequested" }

// ToText implements Message.
func (e *UserInputRequested) ToText(bool) string { return e.RequestID }

// StreamingChunk is one text fragment of a message that is still being
// generated. Adjacent chunks form one logical streamed message.
type StreamingChunk struct {
	BaseMessage
	Content string
}

// Kind implements Message.
func (*StreamingChunk) Kind() string { return "StreamingChunk" }

// ToText implements Message.
func (c *StreamingChunk) ToText(bool) string { return c.Content }

// NewStreamingChunk creates a chunk authored by source.
func NewStreamingChunk(source, content string) *StreamingChunk {
	return &StreamingChunk{BaseMessage: NewBaseMessage(source), Content: content}
}

// NewUserInputRequested creates an input request with a fresh request id.
func NewUserInputRequested(source string) *UserInputRequested {
	return &UserInputRequested{BaseMessage: NewBaseMessage(source), RequestID: NewID()}
}

// NewID generates a new unique identifier for messages and input requests.
func NewID() string { return uuid.NewString() }

// Stream is an ordered, asynchronously produced sequence of items.
//
// Semantics:
//   - Items delivers items in production order and is closed by the producer
//     when the sequence ends.
//   - Errs carries at most one terminal production error. Producers send it
//     before closing Items. A nil Errs means the producer never fails.
type Stream struct {
	Items <-chan Item
	Errs  <-chan error
}

// Pipe creates a stream together with its producer ends. The error channel is
// buffered (size 1) so a producer can report failure without a reader.
func Pipe(buffer int) (Stream, chan<- Item, chan<- error) {
	items := make(chan Item, buffer)
	errs := make(chan error, 1)
	return Stream{Items: items, Errs: errs}, items, errs
}

// StreamOf returns an already completed stream containing items.
func StreamOf(items ...Item) Stream {
	ch := make(chan Item, len(items))
	for _, it := range items {
		ch <- it
	}
	close(ch)
	return Stream{Items: ch}
}

// Collect drains s and returns every item. It stops early on context
// cancellation or a production error.
func Collect(ctx context.Context, s Stream) ([]Item, error) {
	var items []Item
	for {
		select {
		case <-ctx.Done():
			return items, ctx.Err()
		case it, ok := <-s.Items:
			if !ok {
				return items, s.Err()
			}
			items = append(items, it)
		}
	}
}

// Err returns the terminal production error after Items has been closed.
// It never blocks when the producer honours the Stream contract.
func (s Stream) Err() error {
	if s.Errs == nil {
		return nil
	}
	select {
	case err := <-s.Errs:
		return err
	default:
		return nil
	}
}
