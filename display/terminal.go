package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// Terminal shows text on a single terminal line, rewriting it in place.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	text   string
	tint   colorful.Color
	tinted bool
}

// NewTerminal creates a Terminal writing to w.
func NewTerminal(w io.Writer) *Terminal {
	t := new(Terminal)
	t.w = w
	return t
}

// Text returns the text last written.
func (t *Terminal) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// SetText rewrites the line with s.
func (t *Terminal) SetText(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text = s
	fmt.Fprint(t.w, "\r\x1b[2K", t.render())
}

// SetTint colours subsequent text.
func (t *Terminal) SetTint(c colorful.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tint = c
	t.tinted = true
}

// Frame returns the current state of the line.
func (t *Terminal) Frame() Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Frame{Text: t.text, Colour: t.tint, Tinted: t.tinted}
}

// Close ends the line.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintln(t.w)
	return err
}

func (t *Terminal) render() string {
	if !t.tinted {
		return t.text
	}
	r, g, b := t.tint.Clamped().RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, t.text)
}
