package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/devknowscode/autogen/agent"
	"github.com/devknowscode/autogen/core"
	"github.com/devknowscode/autogen/logging"
)

// ErrTooManyRuns is returned by Start when MaxConcurrentInvocations runs are active.
var ErrTooManyRuns = errors.New("too many concurrent runs")

// Renderer consumes a stream and resolves it to its last terminal item.
// console.Console satisfies it.
type Renderer interface {
	Run(ctx context.Context, stream core.Stream) (core.Result, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, stream core.Stream) (core.Result, error)

// Run calls f(ctx, stream).
func (f RendererFunc) Run(ctx context.Context, stream core.Stream) (core.Result, error) {
	return f(ctx, stream)
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// MaxConcurrentInvocations limits concurrent runs. Zero means unlimited.
	MaxConcurrentInvocations int
	// Wrappers are applied to every agent stream, in order, before rendering.
	// Their context is canceled when the run ends.
	Wrappers []func(context.Context, core.Stream) core.Stream
	// Logger receives run lifecycle messages.
	Logger logging.Logger
}

// Outcome is delivered once per run when its renderer returns.
type Outcome struct {
	RunID  string
	Result core.Result
	Err    error
}

// Runner coordinates an agent and a renderer. Public methods are safe for
// concurrent use.
type Runner struct {
	agent    agent.Agent
	renderer Renderer

	maxConcurrent int
	wrappers      []func(context.Context, core.Stream) core.Stream
	logger        logging.Logger

	activeRuns map[string]context.CancelFunc
	mu         sync.RWMutex
}

// New constructs a Runner with optional overrides.
func New(a agent.Agent, renderer Renderer, optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxConcurrentInvocations: 10,
		Logger:                   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		agent:         a,
		renderer:      renderer,
		maxConcurrent: opts.MaxConcurrentInvocations,
		wrappers:      opts.Wrappers,
		logger:        opts.Logger,
		activeRuns:    make(map[string]context.CancelFunc),
	}
}

// Start begins an asynchronous run of task. The returned channel receives
// exactly one Outcome and is then closed.
func (r *Runner) Start(ctx context.Context, task string) (string, <-chan Outcome, error) {
	runID := core.NewID()
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.maxConcurrent > 0 && len(r.activeRuns) >= r.maxConcurrent {
		r.mu.Unlock()
		cancel()
		return "", nil, fmt.Errorf("%w: limit is %d", ErrTooManyRuns, r.maxConcurrent)
	}
	r.activeRuns[runID] = cancel
	r.mu.Unlock()

	r.logger.Debug("run started", "run_id", runID, "agent", r.agent.Name())
	logger := r.runLogger(runID)

	outcome := make(chan Outcome, 1)

	go func() {
		defer func() {
			cancel()
			r.mu.Lock()
			delete(r.activeRuns, runID)
			r.mu.Unlock()
			close(outcome)
		}()

		stream := r.agent.RunStream(ctx, task)
		for _, wrap := range r.wrappers {
			stream = wrap(ctx, stream)
		}

		res, err := r.renderer.Run(ctx, stream)
		if err != nil {
			logger.Warn("run failed", "error", err)
		} else {
			logger.Debug("run finished")
		}

		outcome <- Outcome{RunID: runID, Result: res, Err: err}
	}()

	return runID, outcome, nil
}

// runLogger scopes structured loggers to one run. Other loggers are used as
// they are.
func (r *Runner) runLogger(runID string) logging.Logger {
	if sl, ok := r.logger.(*logging.StructuredLogger); ok {
		return sl.WithRun(runID).WithContext("agent", r.agent.Name())
	}
	return r.logger
}

// Run starts a run and blocks until it finishes.
func (r *Runner) Run(ctx context.Context, task string) (core.Result, error) {
	_, outcome, err := r.Start(ctx, task)
	if err != nil {
		return nil, err
	}

	o := <-outcome

	return o.Result, o.Err
}

// Cancel cancels a running run by ID.
func (r *Runner) Cancel(runID string) error {
	r.mu.RLock()
	cancel, exists := r.activeRuns[runID]
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	cancel()

	return nil
}

// Active returns the IDs of runs that have not finished, sorted.
func (r *Runner) Active() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.activeRuns))
	for id := range r.activeRuns {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
