// Package window tracks the windows an application created. Window state only
// changes when the compositor says so; requests such as maximize are sent to
// the toolkit and take effect with the next configure event.
package window

import (
	"errors"
	"fmt"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
)

var (
	// ErrDuplicateWindow is returned when a live window already uses the id
	ErrDuplicateWindow = errors.New("window id already in use")
	// ErrWindowClosed is returned for operations on windows that were closed
	// or never created
	ErrWindowClosed = errors.New("window is closed")
)

// Phase is the lifecycle position of a window
type Phase uint8

const (
	// PhaseCreating lasts until the first configure event
	PhaseCreating Phase = iota
	PhaseConfigured
	// PhaseClosing means close was requested and WindowClosed is pending
	PhaseClosing
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseCreating:
		return "creating"
	case PhaseConfigured:
		return "configured"
	case PhaseClosing:
		return "closing"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Mode is the size mode the compositor put the window in
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeMaximized
	ModeFullscreen
)

func (m Mode) String() string {
	switch m {
	case ModeMaximized:
		return "maximized"
	case ModeFullscreen:
		return "fullscreen"
	default:
		return "normal"
	}
}

// State is what the application knows about a window
type State struct {
	ID     event.WindowID
	Params event.WindowParams
	Title  string
	Phase  Phase
	Active bool
	Mode   Mode
	// Maximized stays set while a maximized window is fullscreen
	Maximized    bool
	Size         geometry.LogicalSize
	Decoration   event.DecorationMode
	Capabilities event.WindowCapabilities
	Scale        float64
	Screen       event.ScreenID
	Focused      bool
	Pointer      event.PointerShape
	pointerSet   bool
}

func newState(params event.WindowParams) State {
	return State{
		ID:         params.WindowID,
		Params:     params,
		Title:      params.Title,
		Phase:      PhaseCreating,
		Size:       params.Size,
		Decoration: event.DecorationServer,
		Scale:      1,
	}
}

// Live reports whether events may still arrive for the window
func (s State) Live() bool {
	return s.Phase != PhaseClosed
}

// Apply moves the state forward with a window event. It reports whether the
// geometry or decorations changed, which invalidates the chrome layout.
func (s *State) Apply(e event.WindowEvent) bool {
	switch e := e.(type) {
	case event.WindowConfigure:
		if s.Phase == PhaseCreating {
			s.Phase = PhaseConfigured
		}
		s.Active = e.Active
		s.Maximized = e.Maximized
		switch {
		case e.Fullscreen:
			s.Mode = ModeFullscreen
		case e.Maximized:
			s.Mode = ModeMaximized
		default:
			s.Mode = ModeNormal
		}
		s.Size = e.Size
		s.Decoration = e.DecorationMode
		s.Capabilities = e.Capabilities
		return true
	case event.WindowFocusChange:
		s.Focused = e.Focused
	case event.WindowScaleChanged:
		s.Scale = e.NewScale
	case event.WindowScreenChange:
		s.Screen = e.NewScreenID
	case event.WindowDraw:
		if e.Scale > 0 {
			s.Scale = e.Scale
		}
	case event.WindowClosed:
		s.Phase = PhaseClosed
	}
	return false
}
