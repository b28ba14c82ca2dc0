package runner

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devknowscode/autogen/agent"
	"github.com/devknowscode/autogen/console"
	"github.com/devknowscode/autogen/core"
	"github.com/devknowscode/autogen/logging"
	"github.com/devknowscode/autogen/model"
	"github.com/devknowscode/autogen/transcript"
)

// blockingAgent emits nothing until its context is done.
type blockingAgent struct {
	agent.BaseAgent
	started chan struct{}
}

func (b *blockingAgent) RunStream(ctx context.Context, _ string) core.Stream {
	stream, items, errs := core.Pipe(0)
	go func() {
		defer close(items)
		close(b.started)
		<-ctx.Done()
		errs <- ctx.Err()
	}()
	return stream
}

func newBlockingAgent() *blockingAgent {
	return &blockingAgent{BaseAgent: agent.NewBaseAgent("blocker"), started: make(chan struct{})}
}

func drain(ctx context.Context, s core.Stream) (core.Result, error) {
	items, err := core.Collect(ctx, s)
	if err != nil {
		return nil, err
	}
	var last core.Result
	for _, it := range items {
		if r, ok := it.(core.Result); ok {
			last = r
		}
	}
	return last, nil
}

func TestRunner_RunRendersThroughConsole(t *testing.T) {
	llm := model.NewMockModel("mock", "mock")
	llm.AddResponse("hi", "hello there")

	var buf bytes.Buffer
	c := console.New(func(o *console.Options) {
		o.Writer = &buf
	})

	r := New(agent.NewAssistantAgent("assistant", llm), c)

	res, err := r.Run(context.Background(), "hi")
	require.NoError(t, err)

	tr, ok := res.(*core.TaskResult)
	require.True(t, ok)
	assert.Equal(t, "hello there", tr.Messages[len(tr.Messages)-1].ToText(false))
	assert.Contains(t, buf.String(), "hello there")
	assert.Empty(t, r.Active())
}

func TestRunner_WrappersSeeEveryItem(t *testing.T) {
	llm := model.NewMockModel("mock", "mock")
	llm.AddResponse("hi", "hello")
	rec := transcript.NewRecorder()

	r := New(agent.NewAssistantAgent("assistant", llm), RendererFunc(drain), func(o *Options) {
		o.Wrappers = append(o.Wrappers, rec.Wrap)
	})

	_, err := r.Run(context.Background(), "hi")
	require.NoError(t, err)

	items := rec.Items()
	require.NotEmpty(t, items)
	assert.IsType(t, &core.TaskResult{}, items[len(items)-1])
}

func TestRunner_Cancel(t *testing.T) {
	a := newBlockingAgent()
	r := New(a, RendererFunc(drain))

	id, outcome, err := r.Start(context.Background(), "wait")
	require.NoError(t, err)
	<-a.started

	assert.Equal(t, []string{id}, r.Active())
	require.NoError(t, r.Cancel(id))

	select {
	case o := <-outcome:
		assert.Equal(t, id, o.RunID)
		assert.ErrorIs(t, o.Err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}

	_, open := <-outcome
	assert.False(t, open)
	assert.Error(t, r.Cancel(id))
}

func TestRunner_CancelUnknown(t *testing.T) {
	r := New(newBlockingAgent(), RendererFunc(drain))
	assert.EqualError(t, r.Cancel("nope"), "run nope not found")
}

func TestRunner_LimitsConcurrentRuns(t *testing.T) {
	a := newBlockingAgent()
	r := New(a, RendererFunc(drain), func(o *Options) {
		o.MaxConcurrentInvocations = 1
	})

	ctx, cancel := context.WithCancel(context.Background())
	_, outcome, err := r.Start(ctx, "first")
	require.NoError(t, err)
	<-a.started

	_, _, err = r.Start(context.Background(), "second")
	assert.ErrorIs(t, err, ErrTooManyRuns)

	cancel()
	<-outcome
}

func TestRunner_FailedRenderReleasesWrappers(t *testing.T) {
	rec := transcript.NewRecorder()
	werr := errors.New("disk full")
	failing := RendererFunc(func(ctx context.Context, s core.Stream) (core.Result, error) {
		<-s.Items
		return nil, werr
	})

	llm := model.NewMockModel("mock", "mock")
	r := New(agent.NewAssistantAgent("assistant", llm), failing, func(o *Options) {
		o.Wrappers = append(o.Wrappers, rec.Wrap)
	})

	before := runtime.NumGoroutine()
	for i := 0; i < 20; i++ {
		_, err := r.Run(context.Background(), "hi")
		require.ErrorIs(t, err, werr)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunner_ScopesStructuredLoggerToRun(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Format: "text", Output: &buf})

	llm := model.NewMockModel("mock", "mock")
	r := New(agent.NewAssistantAgent("assistant", llm), RendererFunc(drain), func(o *Options) {
		o.Logger = logger
	})

	id, outcome, err := r.Start(context.Background(), "hi")
	require.NoError(t, err)
	require.NoError(t, (<-outcome).Err)

	out := buf.String()
	assert.Contains(t, out, `msg="run finished" run_id=`+id+" agent=assistant")
}
