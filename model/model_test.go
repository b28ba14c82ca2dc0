package model

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, respCh <-chan Response, errCh <-chan error) ([]Response, error) {
	t.Helper()
	var out []Response
	for r := range respCh {
		out = append(out, r)
	}
	return out, <-errCh
}

func TestMockModel_Streaming(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.AddResponse("hi", "hello there friend")

	respCh, errCh := m.Generate(context.Background(), Request{
		Instructions: "be nice",
		Messages:     []Message{{Role: RoleUser, Content: "hi"}},
		Stream:       true,
	})
	resps, err := drain(t, respCh, errCh)
	require.NoError(t, err)
	require.Len(t, resps, 4)

	var joined strings.Builder
	for _, r := range resps[:3] {
		assert.True(t, r.Partial)
		joined.WriteString(r.Text)
	}
	assert.Equal(t, "hello there friend", joined.String())

	final := resps[3]
	assert.False(t, final.Partial)
	assert.Equal(t, "hello there friend", final.Text)
	assert.Equal(t, "stop", final.FinishReason)
	require.NotNil(t, final.Usage)
	assert.Equal(t, 3, final.Usage.PromptTokens)
	assert.Equal(t, 3, final.Usage.CompletionTokens)
	assert.Equal(t, 6, final.Usage.TotalTokens)
}

func TestMockModel_NonStreamingDefaultResponse(t *testing.T) {
	m := NewMockModel("mock", "mock")

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "ping"}},
	})
	resps, err := drain(t, respCh, errCh)
	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.Equal(t, "Mock response to: ping", resps[0].Text)
}

func TestMockModel_NoMessages(t *testing.T) {
	m := NewMockModel("mock", "mock")

	respCh, errCh := m.Generate(context.Background(), Request{})
	resps, err := drain(t, respCh, errCh)
	assert.Empty(t, resps)
	assert.ErrorIs(t, err, ErrNoMessages)
}

func TestMockModel_Info(t *testing.T) {
	assert.Equal(t, Info{Name: "m", Provider: "p"}, NewMockModel("m", "p").Info())
}

func TestTokenUsage_RequestUsage(t *testing.T) {
	var nilUsage *TokenUsage
	assert.Nil(t, nilUsage.RequestUsage())

	u := &TokenUsage{PromptTokens: 2, CompletionTokens: 3, TotalTokens: 5}
	got := u.RequestUsage()
	require.NotNil(t, got)
	assert.Equal(t, 2, got.PromptTokens)
	assert.Equal(t, 3, got.CompletionTokens)
}
