package console

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devknowscode/autogen/core"
)

// ErrEmptyResult is returned when a stream ends without a terminal item.
var ErrEmptyResult = errors.New("no TaskResult or Response was processed")

// Console renders streams according to its Options. A Console holds no
// per-stream state; concurrent Run calls are independent.
type Console struct {
	opts    Options
	printer *printer
}

// New creates a Console with optional overrides.
func New(optFns ...func(o *Options)) *Console {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Console{opts: opts, printer: newPrinter(opts.Writer)}
	if opts.Markdown {
		if err := c.printer.enableMarkdown(); err != nil {
			opts.Logger.Warn("markdown rendering disabled", "error", err)
		}
	}
	return c
}

// Run renders a stream with a one-off Console.
func Run(ctx context.Context, stream core.Stream, optFns ...func(o *Options)) (core.Result, error) {
	return New(optFns...).Run(ctx, stream)
}

// Run consumes stream until it ends and returns the last terminal item.
//
// Production errors reported on stream.Errs and write errors are returned
// unchanged; an open streaming run is then left unterminated. When ctx is
// done Run stops immediately and returns ctx.Err().
func (c *Console) Run(ctx context.Context, stream core.Stream) (core.Result, error) {
	r := &run{
		opts:   c.opts,
		p:      c.printer,
		start:  c.opts.Now(),
		inline: !c.opts.SuppressInlineImages && c.opts.InlineImageTerminal(c.opts.Writer),
	}

	result, err := r.consume(ctx, stream)
	r.report(result, err)
	return result, err
}

// run is the state of one Run call.
type run struct {
	opts   Options
	p      *printer
	start  time.Time
	inline bool

	usage core.RequestUsage
	last  core.Result

	chunks        []string
	headerPrinted bool
}

func (r *run) consume(ctx context.Context, stream core.Stream) (core.Result, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case item, ok := <-stream.Items:
			if !ok {
				return r.finish(stream)
			}
			if err := r.handle(item); err != nil {
				return nil, err
			}
		}
	}
}

func (r *run) finish(stream core.Stream) (core.Result, error) {
	if err := stream.Err(); err != nil {
		return nil, err
	}
	if err := r.closeRun(); err != nil {
		return nil, err
	}
	if r.last == nil {
		return nil, ErrEmptyResult
	}
	return r.last, nil
}

func (r *run) handle(item core.Item) error {
	if _, isChunk := item.(*core.StreamingChunk); !isChunk {
		if err := r.closeRun(); err != nil {
			return err
		}
	}

	switch it := item.(type) {
	case *core.TaskResult:
		r.observe("TaskResult")
		return r.taskResult(it)
	case *core.Response:
		r.observe("Response")
		return r.response(it)
	case *core.UserInputRequested:
		r.observe(it.Kind())
		if r.opts.InputBridge != nil {
			r.opts.InputBridge.Notify(it.RequestID)
		}
		return nil
	case *core.StreamingChunk:
		r.observe(it.Kind())
		return r.chunk(it)
	case core.Message:
		r.observe(it.Kind())
		return r.message(it)
	default:
		kind := fmt.Sprintf("%T", item)
		r.observe(kind)
		return r.p.panel(fmt.Sprintf("🤖 %s", kind), fmt.Sprintf("%+v", item), colorMessage)
	}
}

// closeRun terminates an open streaming run.
func (r *run) closeRun() error {
	if len(r.chunks) == 0 {
		return nil
	}
	if err := r.p.newline(); err != nil {
		return err
	}
	r.chunks = r.chunks[:0]
	r.headerPrinted = false
	return nil
}

func (r *run) taskResult(res *core.TaskResult) error {
	elapsed := r.opts.Now().Sub(r.start)
	if r.opts.EmitStatistics {
		summary := fmt.Sprintf(
			"Number of messages: %d\nFinish reason: %s\nTotal prompt tokens: %d\nTotal completion tokens: %d\nDuration: %.2f seconds",
			len(res.Messages), res.StopReason, r.usage.PromptTokens, r.usage.CompletionTokens, elapsed.Seconds(),
		)
		if err := r.p.panel("📊 Task Summary", summary, colorSummary); err != nil {
			return err
		}
	}
	r.last = res
	return nil
}

func (r *run) response(res *core.Response) error {
	elapsed := r.opts.Now().Sub(r.start)
	if msg := res.ChatMessage; msg != nil {
		body := r.messageBody(msg)
		if err := r.p.panel(fmt.Sprintf("💬 %s", msg.Source()), body, colorResponse); err != nil {
			return err
		}
	}
	if r.opts.EmitStatistics {
		summary := fmt.Sprintf(
			"Number of inner messages: %d\nTotal prompt tokens: %d\nTotal completion tokens: %d\nDuration: %.2f seconds",
			len(res.InnerMessages), r.usage.PromptTokens, r.usage.CompletionTokens, elapsed.Seconds(),
		)
		if err := r.p.panel("📊 Response Summary", summary, colorSummary); err != nil {
			return err
		}
	}
	r.last = res
	return nil
}

func (r *run) chunk(c *core.StreamingChunk) error {
	if !r.headerPrinted {
		if err := r.p.header(fmt.Sprintf("🔄 Streaming from %s (%s)", c.Source(), c.Kind())); err != nil {
			return err
		}
		r.headerPrinted = true
	}
	if err := r.p.text(c.ToText(false)); err != nil {
		return err
	}
	r.chunks = append(r.chunks, c.Content)
	r.accumulate(c.Usage())
	return nil
}

func (r *run) message(msg core.Message) error {
	body := r.messageBody(msg)
	return r.p.panel(fmt.Sprintf("🤖 %s (%s)", msg.Kind(), msg.Source()), body, colorMessage)
}

// messageBody renders msg, appends the usage annotation when statistics are
// enabled and adds the usage to the running totals.
func (r *run) messageBody(msg core.Message) string {
	body := r.p.body(msg.ToText(r.inline && core.IsMultiModal(msg)))
	if u := msg.Usage(); u != nil {
		if r.opts.EmitStatistics {
			body += "\n" + r.p.dim(fmt.Sprintf("[Prompt tokens: %d, Completion tokens: %d]", u.PromptTokens, u.CompletionTokens))
		}
		r.accumulate(u)
	}
	return body
}

func (r *run) accumulate(u *core.RequestUsage) {
	if u == nil {
		return
	}
	r.usage.Add(*u)
	r.opts.Metrics.observeUsage(u.PromptTokens, u.CompletionTokens)
}

func (r *run) observe(kind string) {
	r.opts.Metrics.observeItem(kind)
	r.opts.Logger.Debug("console item", "kind", kind)
}

func (r *run) report(result core.Result, err error) {
	elapsed := r.opts.Now().Sub(r.start)
	outcome := "ok"
	switch {
	case errors.Is(err, ErrEmptyResult):
		outcome = "empty"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "canceled"
	case err != nil:
		outcome = "error"
	}
	r.opts.Metrics.observeRun(outcome, elapsed)
	r.opts.Logger.Debug("console run finished",
		"outcome", outcome,
		"result", fmt.Sprintf("%T", result),
		"prompt_tokens", r.usage.PromptTokens,
		"completion_tokens", r.usage.CompletionTokens,
		"duration", elapsed,
	)
}
