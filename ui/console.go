package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/devknowscode/autogen/core"
	"github.com/devknowscode/autogen/patch"
)

// ModulePath is the name under which this package's symbols are registered
// with patch.Default.
const ModulePath = "github.com/devknowscode/autogen/ui"

// ErrNoResult is returned when a stream ends without a terminal item.
var ErrNoResult = errors.New("no TaskResult or Response was processed")

// ConsoleFunc renders a stream and returns its terminal item.
type ConsoleFunc func(ctx context.Context, stream core.Stream) (core.Result, error)

// Console renders streams to standard output. It may be replaced through
// patch.Patch(ModulePath, "Console", fn).
var Console ConsoleFunc = PlainConsole(os.Stdout)

func init() {
	patch.MustRegister(ModulePath, map[string]any{
		"Console": &Console,
	})
}

// PlainConsole returns a ConsoleFunc that writes undecorated text blocks to w.
// Input requests are skipped and streaming chunks are written inline.
func PlainConsole(w io.Writer) ConsoleFunc {
	return func(ctx context.Context, stream core.Stream) (core.Result, error) {
		var (
			last      core.Result
			streaming bool
		)
		for {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case it, ok := <-stream.Items:
				if !ok {
					if err := stream.Err(); err != nil {
						return nil, err
					}
					if streaming {
						if _, err := io.WriteString(w, "\n"); err != nil {
							return nil, err
						}
					}
					if last == nil {
						return nil, ErrNoResult
					}
					return last, nil
				}

				if _, isChunk := it.(*core.StreamingChunk); !isChunk && streaming {
					if _, err := io.WriteString(w, "\n"); err != nil {
						return nil, err
					}
					streaming = false
				}

				var err error
				switch v := it.(type) {
				case *core.TaskResult:
					last = v
				case *core.Response:
					last = v
					if v.ChatMessage != nil {
						err = block(w, v.ChatMessage)
					}
				case *core.UserInputRequested:
				case *core.StreamingChunk:
					streaming = true
					_, err = io.WriteString(w, v.Content)
				case core.Message:
					err = block(w, v)
				default:
					_, err = fmt.Fprintf(w, "---------- %T ----------\n%+v\n", v, v)
				}
				if err != nil {
					return nil, err
				}
			}
		}
	}
}

func block(w io.Writer, m core.Message) error {
	_, err := fmt.Fprintf(w, "---------- %s (%s) ----------\n%s\n", m.Kind(), m.Source(), m.ToText(false))
	return err
}
