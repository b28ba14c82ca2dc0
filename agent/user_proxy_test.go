package agent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devknowscode/autogen/core"
	"github.com/devknowscode/autogen/input"
)

func TestUserProxyAgent_WaitsForBridge(t *testing.T) {
	bridge := input.NewBridge()
	reads := make(chan string, 1)
	u := NewUserProxyAgent("user", func(o *UserProxyOptions) {
		o.Bridge = bridge
		o.Input = func(_ context.Context, prompt string) (string, error) {
			reads <- prompt
			return "approve", nil
		}
	})

	stream := u.RunStream(context.Background(), "Continue?")

	first := <-stream.Items
	req, ok := first.(*core.UserInputRequested)
	require.True(t, ok)
	assert.Equal(t, "user", req.Source())

	select {
	case <-reads:
		t.Fatal("input read before the request was acknowledged")
	case <-time.After(20 * time.Millisecond):
	}

	bridge.Notify(req.RequestID)

	rest, err := core.Collect(context.Background(), stream)
	require.NoError(t, err)
	assert.Equal(t, "Continue?", <-reads)
	require.Len(t, rest, 2)

	reply := rest[0].(*core.TextMessage)
	assert.Equal(t, "approve", reply.Content)
	resp := rest[1].(*core.Response)
	assert.Same(t, reply, resp.ChatMessage)
	assert.Nil(t, resp.InnerMessages)
}

func TestUserProxyAgent_WithoutBridge(t *testing.T) {
	u := NewUserProxyAgent("user", func(o *UserProxyOptions) {
		o.Input = StdinInput(strings.NewReader("yes\n"), &bytes.Buffer{})
	})

	items, err := core.Collect(context.Background(), u.RunStream(context.Background(), ""))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "yes", items[1].(*core.TextMessage).Content)
}

func TestUserProxyAgent_NoInput(t *testing.T) {
	u := NewUserProxyAgent("user")

	_, err := core.Collect(context.Background(), u.RunStream(context.Background(), ""))
	assert.ErrorContains(t, err, "no input function")
}

func TestUserProxyAgent_InputError(t *testing.T) {
	boom := errors.New("boom")
	u := NewUserProxyAgent("user", func(o *UserProxyOptions) {
		o.Input = func(context.Context, string) (string, error) { return "", boom }
	})

	_, err := core.Collect(context.Background(), u.RunStream(context.Background(), ""))
	assert.ErrorIs(t, err, boom)
}

func TestUserProxyAgent_CancelWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	u := NewUserProxyAgent("user", func(o *UserProxyOptions) {
		o.Bridge = input.NewBridge()
		o.Input = func(context.Context, string) (string, error) { return "never", nil }
	})

	stream := u.RunStream(ctx, "")
	<-stream.Items
	cancel()

	for range stream.Items {
	}
	assert.ErrorIs(t, stream.Err(), context.Canceled)
}

func TestStdinInput(t *testing.T) {
	var out bytes.Buffer
	in := StdinInput(strings.NewReader("first\r\nsecond"), &out)

	got, err := in(context.Background(), "Name")
	require.NoError(t, err)
	assert.Equal(t, "first", got)
	assert.Equal(t, "Name: ", out.String())

	got, err = in(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	_, err = in(context.Background(), "")
	assert.Error(t, err)
}

func TestUserProxyAgent_FixedPrompt(t *testing.T) {
	var prompts []string
	u := NewUserProxyAgent("user", func(o *UserProxyOptions) {
		o.Prompt = "Feedback"
		o.Input = func(_ context.Context, prompt string) (string, error) {
			prompts = append(prompts, prompt)
			return "ok", nil
		}
	})

	_, err := core.Collect(context.Background(), u.RunStream(context.Background(), "a long assistant reply"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Feedback"}, prompts)
}
