package window

import (
	"errors"
	"fmt"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
)

// ErrActionUnsupported is returned for actions the compositor does not allow
// in the window's current state
var ErrActionUnsupported = errors.New("window action not supported")

// Toolkit is the part of the native toolkit window actions use
type Toolkit interface {
	SetTitle(id event.WindowID, title string) error
	SetFullscreen(id event.WindowID) error
	UnsetFullscreen(id event.WindowID) error
	Maximize(id event.WindowID) error
	Unmaximize(id event.WindowID) error
	Minimize(id event.WindowID) error
	StartMove(id event.WindowID) error
	StartResize(id event.WindowID, edge event.ResizeEdge) error
	ShowMenu(id event.WindowID, at geometry.LogicalPoint) error
	SetPointerShape(id event.WindowID, shape event.PointerShape) error
}

// Actions issues window requests gated on the latest configure event. None of
// them change the registry's state directly.
type Actions struct {
	reg *Registry
	tk  Toolkit
}

// NewActions binds a registry to a toolkit
func NewActions(reg *Registry, tk Toolkit) *Actions {
	return &Actions{reg: reg, tk: tk}
}

func (a *Actions) state(id event.WindowID) (State, error) {
	w, ok := a.reg.Get(id)
	if !ok {
		return State{}, fmt.Errorf("%w: %d", ErrWindowClosed, id)
	}
	return w.State, nil
}

func unsupported(action string, id event.WindowID) error {
	return fmt.Errorf("%w: %s on window %d", ErrActionUnsupported, action, id)
}

// SetTitle updates the title
func (a *Actions) SetTitle(id event.WindowID, title string) error {
	if err := a.reg.setTitle(id, title); err != nil {
		return err
	}
	return a.tk.SetTitle(id, title)
}

// Minimize asks the compositor to minimize the window
func (a *Actions) Minimize(id event.WindowID) error {
	s, err := a.state(id)
	if err != nil {
		return err
	}
	if !s.Capabilities.Minimize {
		return unsupported("minimize", id)
	}
	return a.tk.Minimize(id)
}

// ToggleMaximize maximizes or restores the window
func (a *Actions) ToggleMaximize(id event.WindowID) error {
	s, err := a.state(id)
	if err != nil {
		return err
	}
	if !s.Capabilities.Maximize {
		return unsupported("maximize", id)
	}
	if s.Maximized {
		return a.tk.Unmaximize(id)
	}
	return a.tk.Maximize(id)
}

// ToggleFullscreen enters or leaves fullscreen
func (a *Actions) ToggleFullscreen(id event.WindowID) error {
	s, err := a.state(id)
	if err != nil {
		return err
	}
	if !s.Capabilities.Fullscreen {
		return unsupported("fullscreen", id)
	}
	if s.Mode == ModeFullscreen {
		return a.tk.UnsetFullscreen(id)
	}
	return a.tk.SetFullscreen(id)
}

// ShowMenu opens the compositor's window menu at a point in the window
func (a *Actions) ShowMenu(id event.WindowID, at geometry.LogicalPoint) error {
	s, err := a.state(id)
	if err != nil {
		return err
	}
	if !s.Capabilities.WindowMenu {
		return unsupported("window menu", id)
	}
	return a.tk.ShowMenu(id, at)
}

// StartMove starts an interactive move
func (a *Actions) StartMove(id event.WindowID) error {
	s, err := a.state(id)
	if err != nil {
		return err
	}
	if s.Mode == ModeFullscreen {
		return unsupported("move", id)
	}
	return a.tk.StartMove(id)
}

// StartResize starts an interactive resize from an edge
func (a *Actions) StartResize(id event.WindowID, edge event.ResizeEdge) error {
	s, err := a.state(id)
	if err != nil {
		return err
	}
	if s.Mode != ModeNormal {
		return unsupported("resize", id)
	}
	return a.tk.StartResize(id, edge)
}

// SetPointerShape forwards the shape only when it differs from the last one
func (a *Actions) SetPointerShape(id event.WindowID, shape event.PointerShape) error {
	changed, err := a.reg.swapPointer(id, shape)
	if err != nil || !changed {
		return err
	}
	if err := a.tk.SetPointerShape(id, shape); err != nil {
		a.reg.resetPointer(id)
		return err
	}
	return nil
}

// RunTitlebarAction performs a desktop-configured titlebar click action
func (a *Actions) RunTitlebarAction(id event.WindowID, action event.TitlebarAction, at geometry.LogicalPoint) error {
	switch action {
	case event.TitlebarMinimize:
		return a.Minimize(id)
	case event.TitlebarToggleMaximize:
		return a.ToggleMaximize(id)
	case event.TitlebarMenu:
		return a.ShowMenu(id, at)
	default:
		return nil
	}
}
