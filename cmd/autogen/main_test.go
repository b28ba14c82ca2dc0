package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devknowscode/autogen/config"
	"github.com/devknowscode/autogen/model"
	"github.com/devknowscode/autogen/transcript"
	"github.com/devknowscode/autogen/ui"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestReplay(t *testing.T) {
	out, _, err := execute(t, "", "replay", "testdata/hello.yaml", "--stats")
	require.NoError(t, err)

	assert.Contains(t, out, "🤖 TextMessage (user)")
	assert.Contains(t, out, "🔄 Streaming from assistant (StreamingChunk)\nHello, world!\n")
	assert.Contains(t, out, "[Prompt tokens: 9, Completion tokens: 3]")
	assert.Contains(t, out, "Number of messages: 2")
	assert.Contains(t, out, "Finish reason: completed")
}

func TestReplay_MissingFile(t *testing.T) {
	_, _, err := execute(t, "", "replay", "testdata/nope.yaml")
	assert.Error(t, err)
}

func TestReplay_PatchUI(t *testing.T) {
	orig := ui.Console
	t.Cleanup(func() { ui.Console = orig })

	out, _, err := execute(t, "", "replay", "testdata/hello.yaml", "--patch-ui")
	require.NoError(t, err)
	assert.Contains(t, out, "🤖 TextMessage (assistant)")
	assert.NotContains(t, out, "----------")
}

func TestRun_MockProviderWithRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	out, _, err := execute(t, "", "run", "ping", "--provider", "mock", "--stats", "--record", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Mock response to: ping")
	assert.Contains(t, out, "📊 Task Summary")

	tr, err := transcript.Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, tr.Entries)
}

func TestRun_HumanInput(t *testing.T) {
	out, _, err := execute(t, "looks good\n", "run", "ping", "--human")
	require.NoError(t, err)
	assert.Contains(t, out, "Your feedback: ")
	assert.Contains(t, out, "looks good")
	assert.Less(t, strings.Index(out, "Mock response to: ping"), strings.Index(out, "Your feedback: "))
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autogen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent:\n  name: helper\n  streaming: false\n"), 0o600))

	out, _, err := execute(t, "", "run", "hi", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "🤖 TextMessage (helper)")
	assert.NotContains(t, out, "🔄")
}

func TestRun_InvalidProvider(t *testing.T) {
	_, _, err := execute(t, "", "run", "hi", "--provider", "cohere")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNewModel(t *testing.T) {
	m, err := newModel(config.ModelConfig{Provider: config.ProviderMock, Name: "m1"})
	require.NoError(t, err)
	assert.Equal(t, model.Info{Name: "m1", Provider: "mock"}, m.Info())

	_, err = newModel(config.ModelConfig{Provider: "x"})
	assert.Error(t, err)
}
