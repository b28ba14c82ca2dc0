package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectInlineImages(t *testing.T) {
	t.Run("not iterm", func(t *testing.T) {
		t.Setenv("TERM_PROGRAM", "Apple_Terminal")
		assert.False(t, DetectInlineImages(&bytes.Buffer{}))
	})

	t.Run("iterm but not a terminal", func(t *testing.T) {
		t.Setenv("TERM_PROGRAM", "iTerm.app")
		assert.False(t, DetectInlineImages(&bytes.Buffer{}))
	})
}
