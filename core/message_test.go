package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiModalMessage_ToText(t *testing.T) {
	img := ImagePart{Data: []byte("png"), Name: "cat.png"}
	msg := NewMultiModalMessage("user", TextPart{Text: "look"}, img)

	assert.Equal(t, "look\n<image>", msg.ToText(false))

	inline := msg.ToText(true)
	assert.True(t, strings.HasPrefix(inline, "look\n\x1b]1337;File=name=Y2F0LnBuZw==;size=3;inline=1:"))
	assert.True(t, strings.HasSuffix(inline, "cG5n\a"))
	assert.True(t, IsMultiModal(msg))
	assert.False(t, IsMultiModal(NewTextMessage("a", "b")))
}

func TestImagePart_TextWithoutData(t *testing.T) {
	assert.Equal(t, "<image>", ImagePart{URI: "https://example.com/a.png"}.Text(true))
}

func TestToolCallEvents_ToText(t *testing.T) {
	req := &ToolCallRequestEvent{
		BaseMessage: NewBaseMessage("assistant"),
		Calls:       []FunctionCall{{ID: "c1", Name: "weather", Arguments: `{"city":"Paris"}`}},
	}
	assert.Equal(t, `weather({"city":"Paris"}) [c1]`, req.ToText(false))

	res := &ToolCallExecutionEvent{
		BaseMessage: NewBaseMessage("assistant"),
		Results: []FunctionExecutionResult{
			{CallID: "c1", Name: "weather", Content: "sunny"},
			{CallID: "c2", Name: "time", Content: "timeout", IsError: true},
		},
	}
	assert.Equal(t, "weather [c1] ok: sunny\ntime [c2] error: timeout", res.ToText(false))
}

func TestBaseMessage_Accessors(t *testing.T) {
	msg := NewTextMessage("assistant", "hi")
	assert.Equal(t, "assistant", msg.Source())
	assert.Nil(t, msg.Usage())
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.CreatedAt.IsZero())

	msg.ModelsUsage = &RequestUsage{PromptTokens: 1, CompletionTokens: 2}
	assert.Equal(t, 3, msg.Usage().Total())
}

func TestRequestUsage_AddIgnoresNegative(t *testing.T) {
	var u RequestUsage
	u.Add(RequestUsage{PromptTokens: 5, CompletionTokens: 3})
	u.Add(RequestUsage{PromptTokens: -2, CompletionTokens: 4})

	assert.Equal(t, RequestUsage{PromptTokens: 5, CompletionTokens: 7}, u)
	assert.Equal(t, 12, u.Total())
}
