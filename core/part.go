package core

import (
	"encoding/base64"
	"fmt"
)

// Part represents a segment of multi-modal content. Concrete part types
// implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string // Plain UTF-8 text
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// ImagePart is an image segment. Either Data is inlined or URI points to the
// image; inline terminal rendering requires Data.
type ImagePart struct {
	Data     []byte // Raw image bytes (if inlined)
	MimeType string // Optional MIME type
	Name     string // Original filename hint
	URI      string // External retrieval URI (if not inlined)
}

// isPart implements the Part interface for ImagePart.
func (ImagePart) isPart() {}

// imagePlaceholder is printed for images that cannot be painted inline.
const imagePlaceholder = "<image>"

// Text renders the image for a terminal. With inline set and bytes available it
// emits the iTerm2 inline image escape sequence, otherwise a placeholder.
func (p ImagePart) Text(inline bool) string {
	if !inline || len(p.Data) == 0 {
		return imagePlaceholder
	}
	name := base64.StdEncoding.EncodeToString([]byte(p.Name))
	return fmt.Sprintf("\x1b]1337;File=name=%s;size=%d;inline=1:%s\a",
		name, len(p.Data), base64.StdEncoding.EncodeToString(p.Data))
}
