package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/devknowscode/autogen/core"
)

// InputFunc obtains one line of human input for prompt.
type InputFunc func(ctx context.Context, prompt string) (string, error)

// Waiter blocks until the input request with the given id was observed by
// the consumer of the stream. *input.Bridge implements it.
type Waiter interface {
	Wait(ctx context.Context, requestID string) error
}

// UserProxyOptions configures a UserProxyAgent.
type UserProxyOptions struct {
	// Input reads the human reply. Required; see StdinInput.
	Input InputFunc
	// Prompt is shown instead of the task when set.
	Prompt string
	// Bridge gates Input until the console has processed the request and
	// closed any open streaming run. Optional.
	Bridge Waiter
}

// UserProxyAgent stands in for a human. A run yields a UserInputRequested
// item, waits on the bridge, reads the reply and finishes with the reply as
// TextMessage followed by a Response.
type UserProxyAgent struct {
	BaseAgent
	opts UserProxyOptions
}

// NewUserProxyAgent creates a proxy for human input.
func NewUserProxyAgent(name string, optFns ...func(o *UserProxyOptions)) *UserProxyAgent {
	var opts UserProxyOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &UserProxyAgent{BaseAgent: NewBaseAgent(name), opts: opts}
}

// RunStream implements Agent. task is used as the prompt unless
// UserProxyOptions.Prompt is set.
func (u *UserProxyAgent) RunStream(ctx context.Context, task string) core.Stream {
	e, stream := newEmitter(ctx)
	go func() {
		defer e.close()
		if err := u.run(e, task); err != nil {
			e.fail(err)
		}
	}()
	return stream
}

func (u *UserProxyAgent) run(e *emitter, prompt string) error {
	if u.opts.Prompt != "" {
		prompt = u.opts.Prompt
	}
	if u.opts.Input == nil {
		return fmt.Errorf("agent %s: no input function configured", u.Name())
	}

	req := core.NewUserInputRequested(u.Name())
	if !e.emit(req) {
		return nil
	}

	if u.opts.Bridge != nil {
		if err := u.opts.Bridge.Wait(e.ctx, req.RequestID); err != nil {
			return fmt.Errorf("agent %s: wait for input slot: %w", u.Name(), err)
		}
	}

	text, err := u.opts.Input(e.ctx, prompt)
	if err != nil {
		return fmt.Errorf("agent %s: read input: %w", u.Name(), err)
	}

	reply := core.NewTextMessage(u.Name(), text)
	if !e.emit(reply) {
		return nil
	}
	e.emit(&core.Response{ChatMessage: reply})
	return nil
}

// StdinInput returns an InputFunc that writes prompt to w and reads one line
// from r. The trailing newline is stripped. Reads are not interruptible; a
// cancelled ctx is only observed before the prompt is written.
func StdinInput(r io.Reader, w io.Writer) InputFunc {
	br := bufio.NewReader(r)
	return func(ctx context.Context, prompt string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if prompt != "" {
			if _, err := fmt.Fprintf(w, "%s: ", prompt); err != nil {
				return "", err
			}
		}
		line, err := br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
