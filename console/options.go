package console

import (
	"io"
	"os"
	"time"

	"github.com/devknowscode/autogen/logging"
)

// InputNotifier receives the request id of every core.UserInputRequested
// item. *input.Bridge implements it.
type InputNotifier interface {
	Notify(requestID string)
}

// Options configures a Console.
type Options struct {
	// SuppressInlineImages disables inline image rendering even when the
	// terminal supports it.
	SuppressInlineImages bool
	// EmitStatistics enables per-message usage annotations and summary panels
	// for terminal items.
	EmitStatistics bool
	// InputBridge is notified about input requests. Optional.
	InputBridge InputNotifier
	// Writer receives rendered output. Defaults to os.Stdout.
	Writer io.Writer
	// Markdown renders panel text as markdown.
	Markdown bool
	// Logger receives debug information about processed items.
	// Defaults to a NoOpLogger.
	Logger logging.Logger
	// Metrics records item, token and run counters. Optional.
	Metrics *Metrics
	// Now is the clock used for durations. Defaults to time.Now.
	Now func() time.Time
	// InlineImageTerminal reports whether the writer can paint images
	// inline. Defaults to DetectInlineImages.
	InlineImageTerminal func(w io.Writer) bool
}

func defaultOptions() Options {
	return Options{
		Writer:              os.Stdout,
		Logger:              logging.NoOpLogger{},
		Now:                 time.Now,
		InlineImageTerminal: DetectInlineImages,
	}
}
