package app

import (
	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/ime"
	"github.com/bnema/desktopkit/internal/native"
	"github.com/bnema/desktopkit/internal/window"
)

// toolkit is the toolkit as window actions and input method sessions see it.
// Every call goes through Application.call.
type toolkit struct {
	a *Application
}

var (
	_ window.Toolkit = toolkit{}
	_ ime.Toolkit    = toolkit{}
)

func (t toolkit) SetTitle(id event.WindowID, title string) error {
	return t.a.call(func(b native.Backend) error { return b.SetTitle(id, title) })
}

func (t toolkit) SetFullscreen(id event.WindowID) error {
	return t.a.call(func(b native.Backend) error { return b.SetFullscreen(id) })
}

func (t toolkit) UnsetFullscreen(id event.WindowID) error {
	return t.a.call(func(b native.Backend) error { return b.UnsetFullscreen(id) })
}

func (t toolkit) Maximize(id event.WindowID) error {
	return t.a.call(func(b native.Backend) error { return b.Maximize(id) })
}

func (t toolkit) Unmaximize(id event.WindowID) error {
	return t.a.call(func(b native.Backend) error { return b.Unmaximize(id) })
}

func (t toolkit) Minimize(id event.WindowID) error {
	return t.a.call(func(b native.Backend) error { return b.Minimize(id) })
}

func (t toolkit) StartMove(id event.WindowID) error {
	return t.a.call(func(b native.Backend) error { return b.StartMove(id) })
}

func (t toolkit) StartResize(id event.WindowID, edge event.ResizeEdge) error {
	return t.a.call(func(b native.Backend) error { return b.StartResize(id, edge) })
}

func (t toolkit) ShowMenu(id event.WindowID, at geometry.LogicalPoint) error {
	return t.a.call(func(b native.Backend) error { return b.ShowMenu(id, at) })
}

func (t toolkit) SetPointerShape(id event.WindowID, shape event.PointerShape) error {
	return t.a.call(func(b native.Backend) error { return b.SetPointerShape(id, shape) })
}

func (t toolkit) TextInputEnable(id event.WindowID, ctx event.TextInputContext) error {
	return t.a.call(func(b native.Backend) error { return b.TextInputEnable(id, ctx) })
}

func (t toolkit) TextInputUpdate(id event.WindowID, ctx event.TextInputContext) error {
	return t.a.call(func(b native.Backend) error { return b.TextInputUpdate(id, ctx) })
}

func (t toolkit) TextInputDisable(id event.WindowID) error {
	return t.a.call(func(b native.Backend) error { return b.TextInputDisable(id) })
}
