package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	text string
	err  error
}

func (s stubProvider) Instruction(context.Context) (string, error) { return s.text, s.err }

type ctxKey struct{}

func TestInstruction_Sources(t *testing.T) {
	tests := []struct {
		name   string
		inst   Instruction
		static bool
		want   string
	}{
		{"text", NewInstructionFromText("be brief"), true, "be brief"},
		{"func", NewInstructionFromFunc(func(context.Context) (string, error) { return "from func", nil }), false, "from func"},
		{"provider", NewInstructionFromProvider(stubProvider{text: "from provider"}), false, "from provider"},
		{"zero value", Instruction{}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.static, tt.inst.IsStatic())
			got, err := tt.inst.Resolve(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstruction_ProviderSeesContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "de-DE")
	inst := NewInstructionFromFunc(func(ctx context.Context) (string, error) {
		return "Answer in " + ctx.Value(ctxKey{}).(string), nil
	})

	got, err := inst.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Answer in de-DE", got)
}

func TestInstruction_ErrorPropagation(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewInstructionFromProvider(stubProvider{err: boom}).Resolve(context.Background())
	assert.ErrorIs(t, err, boom)
}
