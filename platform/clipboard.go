package platform

import (
	"sync"

	"github.com/19h/ul2/ul"
)

// Clipboard is a clipboard private to the process. Views copy into it and
// paste from it; the host can read and seed it through the same methods.
type Clipboard struct {
	mu   sync.Mutex
	text string
}

var _ ul.Clipboard = (*Clipboard)(nil)

// NewClipboard returns an empty clipboard.
func NewClipboard() *Clipboard { return &Clipboard{} }

// Clear empties the clipboard.
func (c *Clipboard) Clear() {
	c.mu.Lock()
	c.text = ""
	c.mu.Unlock()
}

// ReadPlainText returns the stored text.
func (c *Clipboard) ReadPlainText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// WritePlainText replaces the stored text.
func (c *Clipboard) WritePlainText(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}
