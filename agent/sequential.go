package agent

import (
	"context"
	"fmt"

	"github.com/devknowscode/autogen/core"
)

// SequentialAgent coordinates the execution of multiple child agents in sequence.
//
// The first child receives the task. Every following child receives the text
// of the previous child's final message. Items of the children are forwarded
// in order except their terminal items; the combined run ends with a single
// TaskResult holding every child message and StopReason "completed".
type SequentialAgent struct {
	BaseAgent
	children []Agent // Child agents to execute in sequence
}

// NewSequentialAgent creates a new sequential execution coordinator.
func NewSequentialAgent(name string, children ...Agent) *SequentialAgent {
	return &SequentialAgent{
		BaseAgent: NewBaseAgent(name),
		children:  children,
	}
}

// RunStream implements Agent. The first child failure stops the sequence and
// is reported as the stream error.
func (s *SequentialAgent) RunStream(ctx context.Context, task string) core.Stream {
	e, stream := newEmitter(ctx)
	go func() {
		defer e.close()
		if err := s.run(e, task); err != nil {
			e.fail(err)
		}
	}()
	return stream
}

func (s *SequentialAgent) run(e *emitter, task string) error {
	var messages []core.Message
	input := task

	for _, child := range s.children {
		childStream := child.RunStream(e.ctx, input)

		var last core.Message
		for it := range childStream.Items {
			switch v := it.(type) {
			case *core.TaskResult:
				if n := len(v.Messages); n > 0 {
					last = v.Messages[n-1]
				}
				continue
			case *core.Response:
				if v.ChatMessage != nil {
					last = v.ChatMessage
				}
				continue
			case *core.UserInputRequested, *core.StreamingChunk:
			case core.Message:
				messages = append(messages, v)
			}
			if !e.emit(it) {
				return nil
			}
		}
		if err := childStream.Err(); err != nil {
			return fmt.Errorf("sequential execution failed at agent %s: %w", child.Name(), err)
		}
		if last != nil {
			input = last.ToText(false)
		}
	}

	e.emit(&core.TaskResult{Messages: messages, StopReason: "completed"})
	return nil
}
