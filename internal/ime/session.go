package ime

import (
	"errors"
	"fmt"
	"math"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/logger"
)

// ErrNoFocusedField is returned when text input is enabled without a focused
// editable field
var ErrNoFocusedField = errors.New("no focused text field")

// Toolkit is the part of the native toolkit the input method session drives
type Toolkit interface {
	TextInputEnable(id event.WindowID, ctx event.TextInputContext) error
	TextInputUpdate(id event.WindowID, ctx event.TextInputContext) error
	TextInputDisable(id event.WindowID) error
}

// Field is an editable text field
type Field struct {
	Buffer  *Buffer
	Purpose event.ContentPurpose
	Hints   event.ContentHint
	// CursorRectangle is where the input method should place its popup
	CursorRectangle geometry.LogicalRect
}

// Context builds the state pushed to the input method
func (f *Field) Context(causedByInputMethod bool) event.TextInputContext {
	text := f.Buffer.Text()
	return event.TextInputContext{
		SurroundingText:               text,
		CursorCodepointOffset:         codepoint16(text, f.Buffer.Cursor()),
		SelectionStartCodepointOffset: codepoint16(text, f.Buffer.SelectionStart()),
		Hints:                         f.Hints,
		ContentPurpose:                f.Purpose,
		CursorRectangle:               f.CursorRectangle,
		ChangeCausedByInputMethod:     causedByInputMethod,
	}
}

func codepoint16(s string, off int) uint16 {
	return uint16(min(CodepointOffset(s, off), math.MaxUint16))
}

// Session connects the focused field of one window to the input method.
// Text input is enabled while the input method is available and a field has
// focus.
type Session struct {
	tk        Toolkit
	window    event.WindowID
	field     *Field
	available bool
	enabled   bool
}

// NewSession creates a session for a window
func NewSession(tk Toolkit, window event.WindowID) *Session {
	return &Session{tk: tk, window: window}
}

// Enabled reports whether the toolkit has text input enabled
func (s *Session) Enabled() bool { return s.enabled }

// Field returns the focused field, or nil
func (s *Session) Field() *Field { return s.field }

// Focus makes f the field receiving input method edits
func (s *Session) Focus(f *Field) error {
	s.field = f
	if !s.available {
		return nil
	}
	if s.enabled {
		return s.tk.TextInputUpdate(s.window, f.Context(false))
	}
	return s.Enable()
}

// Blur removes focus from the current field and disables text input
func (s *Session) Blur() error {
	s.field = nil
	if !s.enabled {
		return nil
	}
	s.enabled = false
	return s.tk.TextInputDisable(s.window)
}

// Enable turns text input on for the focused field
func (s *Session) Enable() error {
	if s.field == nil {
		return ErrNoFocusedField
	}
	if err := s.tk.TextInputEnable(s.window, s.field.Context(false)); err != nil {
		return fmt.Errorf("failed to enable text input: %w", err)
	}
	s.enabled = true
	return nil
}

// OnAvailability follows the input method coming and going
func (s *Session) OnAvailability(e event.TextInputAvailability) error {
	s.available = e.Available
	if e.Available {
		if s.field == nil {
			logger.Debug("Input method available without a focused field", "window", s.window)
			return nil
		}
		return s.Enable()
	}
	if s.enabled {
		s.enabled = false
		return s.tk.TextInputDisable(s.window)
	}
	return nil
}

// OnTextInput applies an input method edit to the focused field and tells the
// input method about the new text
func (s *Session) OnTextInput(e event.TextInput) error {
	if s.field == nil {
		return ErrNoFocusedField
	}
	if !s.field.Buffer.Apply(e) || !s.enabled {
		return nil
	}
	return s.tk.TextInputUpdate(s.window, s.field.Context(true))
}

// Edited tells the input method about a change the application made, such as
// typing or pasting
func (s *Session) Edited() error {
	if s.field == nil {
		return ErrNoFocusedField
	}
	if !s.enabled {
		return nil
	}
	return s.tk.TextInputUpdate(s.window, s.field.Context(false))
}
