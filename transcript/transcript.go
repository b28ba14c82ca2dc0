package transcript

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/devknowscode/autogen/core"
)

// Entry is one decoded item together with its replay delay.
type Entry struct {
	Item  core.Item
	Delay time.Duration
}

// Transcript is an ordered list of recorded items.
type Transcript struct {
	Entries []Entry
}

// Items returns the items without delays.
func (t *Transcript) Items() []core.Item {
	items := make([]core.Item, 0, len(t.Entries))
	for _, e := range t.Entries {
		items = append(items, e.Item)
	}
	return items
}

type file struct {
	Items []map[string]any `yaml:"items"`
}

// Load reads and decodes the transcript at path.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode parses a YAML transcript. Unknown fields are rejected so typos do
// not silently drop content.
func Decode(r io.Reader) (*Transcript, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}

	t := &Transcript{Entries: make([]Entry, 0, len(f.Items))}
	var history []core.Message
	for i, raw := range f.Items {
		var rec record
		if err := decodeRecord(raw, &rec); err != nil {
			return nil, &DecodeError{Index: i, Type: fmt.Sprint(raw["type"]), Err: err}
		}

		item, err := rec.item(history)
		if err != nil {
			return nil, &DecodeError{Index: i, Type: rec.Type, Err: err}
		}

		switch v := item.(type) {
		case *core.StreamingChunk, *core.UserInputRequested:
		case core.Message:
			history = append(history, v)
		}
		t.Entries = append(t.Entries, Entry{Item: item, Delay: rec.Delay})
	}
	return t, nil
}

func decodeRecord(raw map[string]any, rec *record) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      rec,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// StreamOptions configures replay.
type StreamOptions struct {
	// Delay is used for entries without their own delay.
	Delay time.Duration
}

// Stream replays t. Each entry is emitted after its delay; cancelling ctx
// ends the stream with ctx.Err().
func Stream(ctx context.Context, t *Transcript, optFns ...func(o *StreamOptions)) core.Stream {
	var opts StreamOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	stream, items, errs := core.Pipe(0)
	go func() {
		defer close(items)
		for _, e := range t.Entries {
			delay := e.Delay
			if delay <= 0 {
				delay = opts.Delay
			}
			if delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					errs <- ctx.Err()
					return
				case <-timer.C:
				}
			}
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case items <- e.Item:
			}
		}
	}()
	return stream
}

// Encode writes items as a YAML transcript.
func Encode(w io.Writer, items []core.Item) error {
	out := struct {
		Items []record `yaml:"items"`
	}{Items: make([]record, 0, len(items))}

	for i, it := range items {
		rec, err := fromItem(it)
		if err != nil {
			return fmt.Errorf("transcript item %d: %w", i, err)
		}
		out.Items = append(out.Items, rec)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return enc.Close()
}
