package transcript

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/devknowscode/autogen/core"
)

// ErrUnknownType is returned for items whose type is not supported.
var ErrUnknownType = errors.New("unknown item type")

// DecodeError reports the item that could not be decoded.
type DecodeError struct {
	Index int
	Type  string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("transcript item %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// record is the serialized form of one item. The same shape is used for
// nested messages of TaskResult and Response.
type record struct {
	Type      string             `mapstructure:"type" yaml:"type"`
	ID        string             `mapstructure:"id" yaml:"id,omitempty"`
	Source    string             `mapstructure:"source" yaml:"source,omitempty"`
	Content   string             `mapstructure:"content" yaml:"content,omitempty"`
	Usage     *core.RequestUsage `mapstructure:"usage" yaml:"usage,omitempty"`
	Metadata  map[string]string  `mapstructure:"metadata" yaml:"metadata,omitempty"`
	RequestID string             `mapstructure:"request_id" yaml:"request_id,omitempty"`
	Delay     time.Duration      `mapstructure:"delay" yaml:"delay,omitempty"`

	Parts   []partRecord   `mapstructure:"parts" yaml:"parts,omitempty"`
	Calls   []callRecord   `mapstructure:"calls" yaml:"calls,omitempty"`
	Results []resultRecord `mapstructure:"results" yaml:"results,omitempty"`

	StopReason    string    `mapstructure:"stop_reason" yaml:"stop_reason,omitempty"`
	Messages      []record  `mapstructure:"messages" yaml:"messages,omitempty"`
	ChatMessage   *record   `mapstructure:"chat_message" yaml:"chat_message,omitempty"`
	InnerMessages *[]record `mapstructure:"inner_messages" yaml:"inner_messages,omitempty"`
}

type partRecord struct {
	Text  *string      `mapstructure:"text" yaml:"text,omitempty"`
	Image *imageRecord `mapstructure:"image" yaml:"image,omitempty"`
}

type imageRecord struct {
	Name     string `mapstructure:"name" yaml:"name,omitempty"`
	MimeType string `mapstructure:"mime_type" yaml:"mime_type,omitempty"`
	Data     string `mapstructure:"data" yaml:"data,omitempty"` // base64
	URI      string `mapstructure:"uri" yaml:"uri,omitempty"`
}

type callRecord struct {
	ID        string `mapstructure:"id" yaml:"id,omitempty"`
	Name      string `mapstructure:"name" yaml:"name"`
	Arguments string `mapstructure:"arguments" yaml:"arguments,omitempty"`
}

type resultRecord struct {
	CallID  string `mapstructure:"call_id" yaml:"call_id"`
	Name    string `mapstructure:"name" yaml:"name"`
	Content string `mapstructure:"content" yaml:"content,omitempty"`
	IsError bool   `mapstructure:"is_error" yaml:"is_error,omitempty"`
}

// base builds the shared message fields.
func (r record) base() core.BaseMessage {
	b := core.NewBaseMessage(r.Source)
	if r.ID != "" {
		b.ID = r.ID
	}
	b.ModelsUsage = r.Usage
	b.Metadata = r.Metadata
	return b
}

// item converts r into a stream item. history holds the top-level
// messages decoded so far and backs TaskResult records without messages.
func (r record) item(history []core.Message) (core.Item, error) {
	switch r.Type {
	case "TaskResult":
		res := &core.TaskResult{StopReason: r.StopReason}
		if r.Messages == nil {
			res.Messages = append([]core.Message(nil), history...)
			return res, nil
		}
		msgs, err := messages(r.Messages)
		if err != nil {
			return nil, err
		}
		res.Messages = msgs
		return res, nil
	case "Response":
		if r.ChatMessage == nil {
			return nil, errors.New("response without chat_message")
		}
		chat, err := r.ChatMessage.message()
		if err != nil {
			return nil, fmt.Errorf("chat_message: %w", err)
		}
		resp := &core.Response{ChatMessage: chat}
		if r.InnerMessages != nil {
			inner, err := messages(*r.InnerMessages)
			if err != nil {
				return nil, fmt.Errorf("inner_messages: %w", err)
			}
			if inner == nil {
				inner = []core.Message{}
			}
			resp.InnerMessages = inner
		}
		return resp, nil
	default:
		return r.message()
	}
}

func (r record) message() (core.Message, error) {
	switch r.Type {
	case "TextMessage":
		return &core.TextMessage{BaseMessage: r.base(), Content: r.Content}, nil
	case "StreamingChunk":
		return &core.StreamingChunk{BaseMessage: r.base(), Content: r.Content}, nil
	case "UserInputRequested":
		id := r.RequestID
		if id == "" {
			id = core.NewID()
		}
		return &core.UserInputRequested{BaseMessage: r.base(), RequestID: id}, nil
	case "ThoughtEvent":
		return &core.ThoughtEvent{BaseMessage: r.base(), Content: r.Content}, nil
	case "StopMessage":
		return &core.StopMessage{BaseMessage: r.base(), Content: r.Content}, nil
	case "MultiModalMessage":
		parts, err := decodeParts(r.Parts)
		if err != nil {
			return nil, err
		}
		return &core.MultiModalMessage{BaseMessage: r.base(), Content: parts}, nil
	case "ToolCallRequestEvent":
		calls := make([]core.FunctionCall, 0, len(r.Calls))
		for _, c := range r.Calls {
			calls = append(calls, core.FunctionCall{ID: c.ID, Name: c.Name, Arguments: c.Arguments})
		}
		return &core.ToolCallRequestEvent{BaseMessage: r.base(), Calls: calls}, nil
	case "ToolCallExecutionEvent":
		results := make([]core.FunctionExecutionResult, 0, len(r.Results))
		for _, res := range r.Results {
			results = append(results, core.FunctionExecutionResult{
				CallID: res.CallID, Name: res.Name, Content: res.Content, IsError: res.IsError,
			})
		}
		return &core.ToolCallExecutionEvent{BaseMessage: r.base(), Results: results}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, r.Type)
	}
}

func messages(records []record) ([]core.Message, error) {
	var out []core.Message
	for i, r := range records {
		m, err := r.message()
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeParts(records []partRecord) ([]core.Part, error) {
	parts := make([]core.Part, 0, len(records))
	for i, p := range records {
		switch {
		case p.Text != nil:
			parts = append(parts, core.TextPart{Text: *p.Text})
		case p.Image != nil:
			img := core.ImagePart{Name: p.Image.Name, MimeType: p.Image.MimeType, URI: p.Image.URI}
			if p.Image.Data != "" {
				data, err := base64.StdEncoding.DecodeString(p.Image.Data)
				if err != nil {
					return nil, fmt.Errorf("part %d: decode image data: %w", i, err)
				}
				img.Data = data
			}
			parts = append(parts, img)
		default:
			return nil, fmt.Errorf("part %d: neither text nor image", i)
		}
	}
	return parts, nil
}

// fromItem is the inverse of item for the types this package knows.
func fromItem(it core.Item) (record, error) {
	switch v := it.(type) {
	case *core.TaskResult:
		msgs, err := fromMessages(v.Messages)
		if err != nil {
			return record{}, err
		}
		return record{Type: "TaskResult", StopReason: v.StopReason, Messages: msgs}, nil
	case *core.Response:
		r := record{Type: "Response"}
		if v.ChatMessage != nil {
			chat, err := fromMessage(v.ChatMessage)
			if err != nil {
				return record{}, err
			}
			r.ChatMessage = &chat
		}
		if v.InnerMessages != nil {
			inner, err := fromMessages(v.InnerMessages)
			if err != nil {
				return record{}, err
			}
			if inner == nil {
				inner = []record{}
			}
			r.InnerMessages = &inner
		}
		return r, nil
	case core.Message:
		return fromMessage(v)
	default:
		return record{}, fmt.Errorf("%w %T", ErrUnknownType, it)
	}
}

func fromMessages(msgs []core.Message) ([]record, error) {
	var out []record
	for _, m := range msgs {
		r, err := fromMessage(m)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func fromMessage(m core.Message) (record, error) {
	r := record{Type: m.Kind(), Source: m.Source(), Usage: m.Usage()}
	switch v := m.(type) {
	case *core.TextMessage:
		r.ID, r.Metadata, r.Content = v.ID, v.Metadata, v.Content
	case *core.StreamingChunk:
		r.ID, r.Metadata, r.Content = v.ID, v.Metadata, v.Content
	case *core.UserInputRequested:
		r.ID, r.Metadata, r.RequestID = v.ID, v.Metadata, v.RequestID
	case *core.ThoughtEvent:
		r.ID, r.Metadata, r.Content = v.ID, v.Metadata, v.Content
	case *core.StopMessage:
		r.ID, r.Metadata, r.Content = v.ID, v.Metadata, v.Content
	case *core.MultiModalMessage:
		r.ID, r.Metadata = v.ID, v.Metadata
		for _, p := range v.Content {
			switch pt := p.(type) {
			case core.TextPart:
				text := pt.Text
				r.Parts = append(r.Parts, partRecord{Text: &text})
			case core.ImagePart:
				r.Parts = append(r.Parts, partRecord{Image: &imageRecord{
					Name:     pt.Name,
					MimeType: pt.MimeType,
					Data:     base64.StdEncoding.EncodeToString(pt.Data),
					URI:      pt.URI,
				}})
			}
		}
	case *core.ToolCallRequestEvent:
		r.ID, r.Metadata = v.ID, v.Metadata
		for _, c := range v.Calls {
			r.Calls = append(r.Calls, callRecord{ID: c.ID, Name: c.Name, Arguments: c.Arguments})
		}
	case *core.ToolCallExecutionEvent:
		r.ID, r.Metadata = v.ID, v.Metadata
		for _, res := range v.Results {
			r.Results = append(r.Results, resultRecord{
				CallID: res.CallID, Name: res.Name, Content: res.Content, IsError: res.IsError,
			})
		}
	default:
		return record{}, fmt.Errorf("%w %T", ErrUnknownType, m)
	}
	return r, nil
}
