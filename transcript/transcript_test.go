package transcript

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devknowscode/autogen/core"
)

func TestLoad(t *testing.T) {
	tr, err := Load("testdata/weather.yaml")
	require.NoError(t, err)
	require.Len(t, tr.Entries, 8)

	call, ok := tr.Entries[1].Item.(*core.ToolCallRequestEvent)
	require.True(t, ok)
	assert.Equal(t, []core.FunctionCall{{ID: "call_1", Name: "get_weather", Arguments: `{"city":"Paris"}`}}, call.Calls)
	require.NotNil(t, call.Usage())
	assert.Equal(t, 20, call.Usage().PromptTokens)

	exec, ok := tr.Entries[2].Item.(*core.ToolCallExecutionEvent)
	require.True(t, ok)
	assert.Equal(t, "sunny, 24C", exec.Results[0].Content)

	assert.Equal(t, time.Millisecond, tr.Entries[4].Delay)

	req, ok := tr.Entries[6].Item.(*core.UserInputRequested)
	require.True(t, ok)
	assert.Equal(t, "req-1", req.RequestID)

	res, ok := tr.Entries[7].Item.(*core.TaskResult)
	require.True(t, ok)
	assert.Equal(t, "completed", res.StopReason)
	require.Len(t, res.Messages, 4, "chunks and input requests are not history")
	assert.Equal(t, "It is sunny.", res.Messages[3].ToText(false))
}

func TestDecode_ResponseAndMultiModal(t *testing.T) {
	src := `
items:
  - type: MultiModalMessage
    source: user
    parts:
      - text: look at this
      - image:
          name: cat.png
          mime_type: image/png
          data: aGVsbG8=
  - type: Response
    chat_message:
      type: TextMessage
      source: assistant
      content: a cat
    inner_messages:
      - type: ThoughtEvent
        source: assistant
        content: it has whiskers
`
	tr, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, tr.Entries, 2)

	mm, ok := tr.Entries[0].Item.(*core.MultiModalMessage)
	require.True(t, ok)
	require.Len(t, mm.Content, 2)
	assert.Equal(t, core.TextPart{Text: "look at this"}, mm.Content[0])
	assert.Equal(t, []byte("hello"), mm.Content[1].(core.ImagePart).Data)

	resp, ok := tr.Entries[1].Item.(*core.Response)
	require.True(t, ok)
	assert.Equal(t, "a cat", resp.ChatMessage.ToText(false))
	require.Len(t, resp.InnerMessages, 1)
	assert.Equal(t, "ThoughtEvent", resp.InnerMessages[0].Kind())
}

func TestDecode_ResponseWithoutInnerMessages(t *testing.T) {
	tr, err := Decode(strings.NewReader(`
items:
  - type: Response
    chat_message: {type: TextMessage, source: a, content: x}
`))
	require.NoError(t, err)
	assert.Nil(t, tr.Entries[0].Item.(*core.Response).InnerMessages)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown type", "items:\n  - type: Bogus\n", ErrUnknownType},
		{"unknown field", "items:\n  - type: TextMessage\n    colour: red\n", nil},
		{"response without chat", "items:\n  - type: Response\n", nil},
		{"bad image data", "items:\n  - type: MultiModalMessage\n    parts:\n      - image: {data: '!!!'}\n", nil},
		{"empty part", "items:\n  - type: MultiModalMessage\n    parts:\n      - {}\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			require.Error(t, err)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, 0, de.Index)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	tr, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tr.Entries)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}

func TestStream_Replays(t *testing.T) {
	tr, err := Load("testdata/weather.yaml")
	require.NoError(t, err)

	items, err := core.Collect(context.Background(), Stream(context.Background(), tr))
	require.NoError(t, err)
	assert.Equal(t, tr.Items(), items)
}

func TestStream_Cancel(t *testing.T) {
	tr := &Transcript{Entries: []Entry{{Item: core.NewTextMessage("a", "x"), Delay: time.Hour}}}
	ctx, cancel := context.WithCancel(context.Background())

	stream := Stream(ctx, tr)
	cancel()

	for range stream.Items {
	}
	assert.ErrorIs(t, stream.Err(), context.Canceled)
}

func TestEncode_RoundTrip(t *testing.T) {
	tr, err := Load("testdata/weather.yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tr.Items()))
	assert.Contains(t, buf.String(), "type: ToolCallRequestEvent")
	assert.Contains(t, buf.String(), "prompt_tokens: 20")

	again, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, again.Entries, len(tr.Entries))
	for i := range tr.Entries {
		assert.IsType(t, tr.Entries[i].Item, again.Entries[i].Item)
	}
	assert.Len(t, again.Entries[7].Item.(*core.TaskResult).Messages, 4)
}

func TestRecorder(t *testing.T) {
	boom := errors.New("boom")
	src, items, errs := core.Pipe(2)
	items <- core.NewTextMessage("a", "one")
	items <- &core.TaskResult{}
	errs <- boom
	close(items)

	rec := NewRecorder()
	got, err := core.Collect(context.Background(), rec.Wrap(context.Background(), src))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, got, 2)
	assert.Equal(t, got, rec.Items())

	path := t.TempDir() + "/out.yaml"
	require.NoError(t, rec.WriteFile(path))
	tr, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, tr.Entries, 2)
}

func TestRecorder_ReleasedWhenConsumerStops(t *testing.T) {
	rec := NewRecorder()
	before := runtime.NumGoroutine()

	for i := 0; i < 50; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		wrapped := rec.Wrap(ctx, core.StreamOf(
			core.NewTextMessage("a", "one"),
			core.NewTextMessage("a", "two"),
			core.NewTextMessage("a", "three"),
			&core.TaskResult{},
		))
		<-wrapped.Items
		cancel()
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRecorder_CancelReportsContextError(t *testing.T) {
	src, _, _ := core.Pipe(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := core.Collect(context.Background(), NewRecorder().Wrap(ctx, src))
	assert.ErrorIs(t, err, context.Canceled)
}
