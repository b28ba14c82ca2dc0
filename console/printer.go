package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Panel colors (ANSI 16 palette).
var (
	colorResponse = lipgloss.Color("4") // blue
	colorMessage  = lipgloss.Color("6") // cyan
	colorSummary  = lipgloss.Color("2") // green
)

// printer writes rendered blocks to the output. Every method performs exactly
// one write so output stays sequenced with the items that produced it.
type printer struct {
	w      io.Writer
	out    *termenv.Output
	styles *lipgloss.Renderer

	mu       sync.Mutex // guards markdown
	markdown *glamour.TermRenderer
}

func newPrinter(w io.Writer) *printer {
	out := termenv.NewOutput(w)
	styles := lipgloss.NewRenderer(w)
	styles.SetOutput(out)
	return &printer{w: w, out: out, styles: styles}
}

// enableMarkdown switches panel bodies to glamour rendering.
func (p *printer) enableMarkdown() error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	p.markdown = r
	return nil
}

// text writes s verbatim.
func (p *printer) text(s string) error {
	_, err := io.WriteString(p.w, s)
	return err
}

// newline terminates an inline streamed run.
func (p *printer) newline() error {
	return p.text("\n")
}

// header writes a one-line italic cyan header.
func (p *printer) header(s string) error {
	styled := p.out.String(s).Italic().Foreground(p.out.Color("6"))
	return p.text(styled.String() + "\n")
}

// body prepares panel text, rendering markdown when enabled. Markdown
// failures fall back to the raw text.
func (p *printer) body(s string) string {
	if p.markdown == nil {
		return s
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	rendered, err := p.markdown.Render(s)
	if err != nil {
		return s
	}
	return strings.Trim(rendered, "\n")
}

// dim styles an annotation line.
func (p *printer) dim(s string) string {
	return p.styles.NewStyle().Faint(true).Render(s)
}

// panel writes body inside a rounded box whose top border carries title.
func (p *printer) panel(title, body string, color lipgloss.Color) error {
	border := lipgloss.RoundedBorder()
	edge := p.styles.NewStyle().Foreground(color)
	styledTitle := p.styles.NewStyle().Bold(true).Foreground(color).Render(title)
	titleWidth := lipgloss.Width(styledTitle)

	box := p.styles.NewStyle().
		Border(border, false, true, true, true).
		BorderForeground(color).
		Padding(0, 1)

	inner := lipgloss.Width(body) + 2
	if minWidth := titleWidth + 4; inner < minWidth {
		inner = minWidth
		box = box.Width(inner)
	}

	top := edge.Render(border.TopLeft+border.Top+" ") +
		styledTitle +
		edge.Render(" "+strings.Repeat(border.Top, inner-titleWidth-3)+border.TopRight)

	return p.text(top + "\n" + box.Render(body) + "\n")
}
