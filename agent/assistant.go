package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devknowscode/autogen/core"
	"github.com/devknowscode/autogen/logging"
	"github.com/devknowscode/autogen/model"
)

// AssistantOptions configures an AssistantAgent.
//
// Use functional options with NewAssistantAgent to override defaults.
type AssistantOptions struct {
	Instruction        Instruction
	EnableStreaming    bool
	MaxHistoryMessages int
	Logger             logging.Logger
}

// AssistantAgent answers tasks with a language model.
//
// A run yields the task as a user TextMessage, one StreamingChunk per text
// delta when streaming is enabled, a ThoughtEvent when the model surfaced
// reasoning, the final TextMessage carrying token usage and a TaskResult
// whose StopReason is the model finish reason.
//
// The conversation history is kept across runs and trimmed to
// MaxHistoryMessages. Runs on the same agent are serialized.
type AssistantAgent struct {
	BaseAgent
	llm  model.Model
	opts AssistantOptions

	mu      sync.Mutex // serializes runs and guards history
	history []model.Message
}

// NewAssistantAgent creates a model-backed agent. Streaming is enabled and
// the history is limited to 20 messages unless overridden.
func NewAssistantAgent(name string, llm model.Model, optFns ...func(o *AssistantOptions)) *AssistantAgent {
	opts := AssistantOptions{
		Instruction:        NewInstructionFromText("You are a helpful assistant."),
		EnableStreaming:    true,
		MaxHistoryMessages: 20,
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &AssistantAgent{
		BaseAgent: NewBaseAgent(name),
		llm:       llm,
		opts:      opts,
	}
}

// RunStream implements Agent.
func (a *AssistantAgent) RunStream(ctx context.Context, task string) core.Stream {
	e, stream := newEmitter(ctx)
	go func() {
		defer e.close()
		if err := a.run(e, task); err != nil {
			e.fail(err)
		}
	}()
	return stream
}

// Run executes the task without rendering and returns its result.
func (a *AssistantAgent) Run(ctx context.Context, task string) (*core.TaskResult, error) {
	items, err := core.Collect(ctx, a.RunStream(ctx, task))
	if err != nil {
		return nil, err
	}
	for i := len(items) - 1; i >= 0; i-- {
		if res, ok := items[i].(*core.TaskResult); ok {
			return res, nil
		}
	}
	return nil, fmt.Errorf("agent %s finished without result", a.Name())
}

func (a *AssistantAgent) run(e *emitter, task string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	instruction, err := a.opts.Instruction.Resolve(e.ctx)
	if err != nil {
		return fmt.Errorf("resolve instruction: %w", err)
	}

	var produced []core.Message
	if task != "" {
		userMsg := core.NewTextMessage("user", task)
		produced = append(produced, userMsg)
		a.history = append(a.history, model.Message{Role: model.RoleUser, Content: task})
		if !e.emit(userMsg) {
			return nil
		}
	}

	req := model.Request{
		Instructions: instruction,
		Messages:     a.trimmedHistory(),
		Stream:       a.opts.EnableStreaming,
	}

	start := time.Now()
	info := a.llm.Info()
	a.opts.Logger.Debug("model call started",
		"agent", a.Name(),
		"model", info.Name,
		"provider", info.Provider,
		"messages", len(req.Messages),
	)

	respCh, errCh := a.llm.Generate(e.ctx, req)

	var final *model.Response
	for resp := range respCh {
		if resp.Partial {
			if resp.Text == "" {
				continue
			}
			if !e.emit(core.NewStreamingChunk(a.Name(), resp.Text)) {
				return nil
			}
			continue
		}
		r := resp
		final = &r
	}
	err = <-errCh
	if err == nil && final == nil {
		err = errors.New("model returned no final response")
	}
	a.logCall(info.Name, final, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("agent %s: %w", a.Name(), err)
	}

	if final.Thought != "" {
		thought := &core.ThoughtEvent{BaseMessage: core.NewBaseMessage(a.Name()), Content: final.Thought}
		produced = append(produced, thought)
		if !e.emit(thought) {
			return nil
		}
	}

	reply := core.NewTextMessage(a.Name(), final.Text)
	reply.ModelsUsage = final.Usage.RequestUsage()
	produced = append(produced, reply)
	a.history = append(a.history, model.Message{Role: model.RoleAssistant, Content: final.Text})
	if !e.emit(reply) {
		return nil
	}

	e.emit(&core.TaskResult{Messages: produced, StopReason: final.FinishReason})
	return nil
}

func (a *AssistantAgent) logCall(modelName string, final *model.Response, dur time.Duration, err error) {
	tokens := 0
	if final != nil && final.Usage != nil {
		tokens = final.Usage.TotalTokens
	}
	if l, ok := a.opts.Logger.(logging.LLMCallLogger); ok {
		l.LogLLMCall(modelName, tokens, dur, err == nil, err)
		return
	}
	if err != nil {
		a.opts.Logger.Error("model call failed", "agent", a.Name(), "error", err, "duration", dur)
		return
	}
	a.opts.Logger.Debug("model call finished",
		"agent", a.Name(),
		"finish_reason", final.FinishReason,
		"tokens", tokens,
		"duration", dur,
	)
}

// trimmedHistory returns a copy of the newest MaxHistoryMessages entries.
func (a *AssistantAgent) trimmedHistory() []model.Message {
	h := a.history
	if n := a.opts.MaxHistoryMessages; n > 0 && len(h) > n {
		h = h[len(h)-n:]
	}
	return append([]model.Message(nil), h...)
}
