// Package ime holds editable text and reconciles it with input method edits.
// Offsets inside a Buffer are UTF-8 byte offsets; conversion helpers cover the
// UTF-16 and codepoint offsets other parties use.
package ime

import (
	"github.com/bnema/desktopkit/internal/event"
)

// Preedit is the composition text shown at the cursor but not yet in the buffer
type Preedit struct {
	Text string
	// CursorBegin and CursorEnd are byte offsets into Text, -1 when hidden
	CursorBegin int
	CursorEnd   int
}

// CursorHidden reports whether the input method hid the cursor
func (p Preedit) CursorHidden() bool {
	return p.CursorBegin == -1 && p.CursorEnd == -1
}

// Buffer is a single editable text with a cursor, an optional selection and
// an optional preedit overlay
type Buffer struct {
	text    string
	cursor  int
	anchor  int
	preedit *Preedit
}

// NewBuffer creates a buffer with the cursor at the end of text
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text, cursor: len(text), anchor: len(text)}
}

// Text returns the committed text
func (b *Buffer) Text() string { return b.text }

// Cursor returns the cursor byte offset
func (b *Buffer) Cursor() int { return b.cursor }

// Preedit returns the current composition, if any
func (b *Buffer) Preedit() (Preedit, bool) {
	if b.preedit == nil {
		return Preedit{}, false
	}
	return *b.preedit, true
}

// SetCursor moves the cursor and clears the selection. The offset is clamped
// and snapped to a rune boundary.
func (b *Buffer) SetCursor(off int) {
	b.cursor = snapBack(b.text, off)
	b.anchor = b.cursor
}

// Select sets the selection from anchor to cursor
func (b *Buffer) Select(anchor, cursor int) {
	b.anchor = snapBack(b.text, anchor)
	b.cursor = snapBack(b.text, cursor)
}

// SelectAll selects the whole text
func (b *Buffer) SelectAll() {
	b.Select(0, len(b.text))
}

// Selection returns the ordered selection bounds; start == end when empty
func (b *Buffer) Selection() (start, end int) {
	return min(b.anchor, b.cursor), max(b.anchor, b.cursor)
}

// SelectionStart is where the selection began, which may be after the cursor
func (b *Buffer) SelectionStart() int { return b.anchor }

// SelectedText returns the selected text
func (b *Buffer) SelectedText() string {
	start, end := b.Selection()
	return b.text[start:end]
}

func (b *Buffer) replace(start, end int, s string) {
	b.text = b.text[:start] + s + b.text[end:]
	b.cursor = start + len(s)
	b.anchor = b.cursor
}

// DeleteSelection removes the selected text and reports whether there was any
func (b *Buffer) DeleteSelection() bool {
	start, end := b.Selection()
	if start == end {
		return false
	}
	b.replace(start, end, "")
	return true
}

// Insert replaces the selection with s, leaving the cursor after it
func (b *Buffer) Insert(s string) {
	start, end := b.Selection()
	b.replace(start, end, s)
}

// MoveLeft moves one grapheme cluster left. With extend the selection grows;
// without it a selection collapses to its start.
func (b *Buffer) MoveLeft(extend bool) {
	start, end := b.Selection()
	if !extend && start != end {
		b.SetCursor(start)
		return
	}
	b.cursor = prevGrapheme(b.text, b.cursor)
	if !extend {
		b.anchor = b.cursor
	}
}

// MoveRight moves one grapheme cluster right
func (b *Buffer) MoveRight(extend bool) {
	start, end := b.Selection()
	if !extend && start != end {
		b.SetCursor(end)
		return
	}
	b.cursor = nextGrapheme(b.text, b.cursor)
	if !extend {
		b.anchor = b.cursor
	}
}

// Home moves to the start of the text
func (b *Buffer) Home(extend bool) {
	b.cursor = 0
	if !extend {
		b.anchor = 0
	}
}

// End moves to the end of the text
func (b *Buffer) End(extend bool) {
	b.cursor = len(b.text)
	if !extend {
		b.anchor = b.cursor
	}
}

// Backspace deletes the selection or the grapheme cluster before the cursor
func (b *Buffer) Backspace() bool {
	if b.DeleteSelection() {
		return true
	}
	if b.cursor == 0 {
		return false
	}
	b.replace(prevGrapheme(b.text, b.cursor), b.cursor, "")
	return true
}

// DeleteForward deletes the selection or the grapheme cluster after the cursor
func (b *Buffer) DeleteForward() bool {
	if b.DeleteSelection() {
		return true
	}
	if b.cursor == len(b.text) {
		return false
	}
	b.replace(b.cursor, nextGrapheme(b.text, b.cursor), "")
	return true
}

// Apply reconciles one input method event, in this order: delete surrounding
// text, insert the commit string, show the preedit. It reports whether the
// committed text changed.
func (b *Buffer) Apply(e event.TextInput) bool {
	changed := false

	if d := e.DeleteSurrounding; d != nil && (d.BeforeBytes > 0 || d.AfterBytes > 0) {
		start := snapBack(b.text, b.cursor-int(d.BeforeBytes))
		end := snapForward(b.text, b.cursor+int(d.AfterBytes))
		if start < end {
			b.replace(start, end, "")
			changed = true
		}
	}

	if c := e.Commit; c != nil && c.Text != nil {
		b.Insert(*c.Text)
		changed = true
	}

	b.preedit = nil
	if p := e.Preedit; p != nil {
		if b.DeleteSelection() {
			changed = true
		}
		if p.Text != nil {
			b.preedit = &Preedit{
				Text:        *p.Text,
				CursorBegin: int(p.CursorBeginBytes),
				CursorEnd:   int(p.CursorEndBytes),
			}
		}
	}
	return changed
}
