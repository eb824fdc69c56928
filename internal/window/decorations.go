package window

import (
	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/input"
	"github.com/bnema/desktopkit/internal/settings"
)

// Decorations turns pointer events over client side chrome into window
// actions: moving from the title, resizing from the borders, titlebar buttons
// and the desktop's titlebar click actions.
type Decorations struct {
	reg      *Registry
	actions  *Actions
	settings func() settings.Snapshot
	onClose  func(event.WindowID)
	pressed  map[event.WindowID]Region
}

// NewDecorations creates the chrome handler. onClose runs when the close button
// is clicked; the application decides whether the window really closes.
func NewDecorations(reg *Registry, actions *Actions, snapshot func() settings.Snapshot, onClose func(event.WindowID)) *Decorations {
	return &Decorations{
		reg:      reg,
		actions:  actions,
		settings: snapshot,
		onClose:  onClose,
		pressed:  make(map[event.WindowID]Region),
	}
}

// Handle interprets e, which the input tracker already turned into r. It
// returns Stop when the chrome consumed the event.
func (d *Decorations) Handle(e event.Event, r input.Result) (event.HandlerResult, error) {
	we, ok := e.(event.WindowEvent)
	if !ok {
		return event.Continue, nil
	}
	id := we.Window()
	w, ok := d.reg.Get(id)
	if !ok {
		return event.Continue, nil
	}

	switch e := e.(type) {
	case event.MouseMoved:
		shape := event.PointerDefault
		if region, hit := w.Chrome.HitTest(e.LocationInWindow); hit && region.Kind == RegionResize {
			shape = region.Edge.PointerShape()
		}
		return event.Continue, d.actions.SetPointerShape(id, shape)

	case event.MouseDragged:
		start, pressed := d.pressed[id]
		if e.Button != event.ButtonLeft || !pressed || !r.DragStarted {
			return event.Continue, nil
		}
		delete(d.pressed, id)
		if start.Kind == RegionTitle {
			return event.Stop, d.actions.StartMove(id)
		}
		return event.Stop, nil

	case event.MouseDown:
		region, hit := w.Chrome.HitTest(e.LocationInWindow)
		if !hit {
			return event.Continue, nil
		}
		if e.Button != event.ButtonLeft {
			return event.Stop, nil
		}
		if region.Kind == RegionResize {
			return event.Stop, d.actions.StartResize(id, region.Edge)
		}
		d.pressed[id] = region
		return event.Stop, nil

	case event.MouseUp:
		region, hit := w.Chrome.HitTest(e.LocationInWindow)
		start, pressed := d.pressed[id]
		if e.Button == event.ButtonLeft {
			delete(d.pressed, id)
			if !pressed || !hit || start != region {
				return event.Continue, nil
			}
		}
		if !hit || region.Kind == RegionResize {
			return event.Continue, nil
		}
		return d.release(id, region, e, r.Clicks)

	case event.MouseExited:
		delete(d.pressed, id)
		d.reg.resetPointer(id)
	case event.WindowClosed:
		delete(d.pressed, id)
	}
	return event.Continue, nil
}

func (d *Decorations) release(id event.WindowID, region Region, e event.MouseUp, clicks int) (event.HandlerResult, error) {
	snap := d.settings()
	if region.Kind == RegionTitle || region.Button == settings.ButtonSpacer {
		if e.Button == event.ButtonLeft {
			if clicks >= 2 && clicks%2 == 0 {
				return event.Stop, d.actions.RunTitlebarAction(id, snap.ActionDoubleClickTitlebar, e.LocationInWindow)
			}
			return event.Continue, nil
		}
		return event.Stop, d.actions.RunTitlebarAction(id, snap.TitlebarAction(e.Button), e.LocationInWindow)
	}

	switch region.Button {
	case settings.ButtonAppMenu, settings.ButtonIcon:
		return event.Stop, d.actions.ShowMenu(id, e.LocationInWindow)
	case settings.ButtonMinimize:
		return event.Stop, d.actions.Minimize(id)
	case settings.ButtonMaximize:
		return event.Stop, d.actions.ToggleMaximize(id)
	case settings.ButtonClose:
		if d.onClose != nil {
			d.onClose(id)
		}
		return event.Stop, nil
	}
	return event.Continue, nil
}
