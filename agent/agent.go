package agent

import (
	"context"
	"fmt"

	"github.com/devknowscode/autogen/core"
)

// Agent produces an item stream for a task.
type Agent interface {
	Name() string
	Description() string
	// RunStream starts the task and returns its stream. The stream ends with
	// exactly one terminal item unless the run fails or ctx is cancelled.
	RunStream(ctx context.Context, task string) core.Stream
}

// BaseAgent bundles identity helpers. Embed it in concrete agent
// implementations and supply a RunStream method to satisfy Agent.
type BaseAgent struct {
	name        string // Human-readable name, used as message source
	description string // Detailed description of agent's purpose
}

// NewBaseAgent constructs a BaseAgent with generated description (customizable via SetDescription).
func NewBaseAgent(name string) BaseAgent {
	return BaseAgent{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// emitter pushes items into a stream while honouring cancellation.
type emitter struct {
	ctx   context.Context
	items chan<- core.Item
	errs  chan<- error
}

func newEmitter(ctx context.Context) (*emitter, core.Stream) {
	stream, items, errs := core.Pipe(16)
	return &emitter{ctx: ctx, items: items, errs: errs}, stream
}

// emit sends it and reports false when the consumer went away.
func (e *emitter) emit(it core.Item) bool {
	select {
	case <-e.ctx.Done():
		return false
	case e.items <- it:
		return true
	}
}

// fail reports err as the terminal production error.
func (e *emitter) fail(err error) {
	select {
	case e.errs <- err:
	default:
	}
}

// close ends the stream; a cancelled context is reported as the error.
func (e *emitter) close() {
	if err := e.ctx.Err(); err != nil {
		select {
		case e.errs <- err:
		default:
		}
	}
	close(e.items)
}
