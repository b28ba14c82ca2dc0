package transcript

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/devknowscode/autogen/core"
)

// Recorder captures the items of a stream while forwarding them unchanged.
type Recorder struct {
	mu    sync.Mutex
	items []core.Item
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Wrap returns a stream that yields the items of s and records each one
// before forwarding it. The production error of s is forwarded as well.
// Forwarding stops when ctx is done, so a consumer that gives up early must
// cancel ctx to release the stream.
func (r *Recorder) Wrap(ctx context.Context, s core.Stream) core.Stream {
	out, items, errs := core.Pipe(0)
	go func() {
		defer close(items)
		for {
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case it, ok := <-s.Items:
				if !ok {
					if err := s.Err(); err != nil {
						errs <- err
					}
					return
				}
				r.mu.Lock()
				r.items = append(r.items, it)
				r.mu.Unlock()
				select {
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				case items <- it:
				}
			}
		}
	}()
	return out
}

// Items returns a copy of the recorded items.
func (r *Recorder) Items() []core.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Item(nil), r.items...)
}

// WriteFile encodes the recorded items to path.
func (r *Recorder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	if err := Encode(f, r.Items()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
