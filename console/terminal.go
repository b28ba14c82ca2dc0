package console

import (
	"io"
	"os"

	"golang.org/x/term"
)

// DetectInlineImages reports whether w is an iTerm2 terminal, the only
// terminal whose inline image protocol is emitted by core.ImagePart.
func DetectInlineImages(w io.Writer) bool {
	return runningInITerm() && isTerminal(w)
}

func runningInITerm() bool {
	return os.Getenv("TERM_PROGRAM") == "iTerm.app"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
