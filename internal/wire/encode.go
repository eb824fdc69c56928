package wire

import (
	"fmt"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
)

// Encode builds the record for e
func Encode(e event.Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil event", ErrMalformed)
	}
	k := e.Kind()
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, k)
	}

	var payload encoder
	if err := encodePayload(&payload, e); err != nil {
		return nil, err
	}

	var rec encoder
	rec.uint(fieldTag, uint64(k))
	rec.bytes(fieldPayload, payload.b)
	return rec.b, nil
}

func encodePayload(p *encoder, e event.Event) error {
	switch e := e.(type) {
	case event.ApplicationStarted, event.ApplicationWantsToTerminate,
		event.ApplicationWillTerminate, event.ShouldRedrawDragIcon:
	case event.DisplayConfigurationChange:
		for _, s := range e.Screens.Screens {
			p.message(1, func(m *encoder) { encodeScreen(m, s) })
		}
	case event.XdgDesktopSettingChange:
		if e.Setting == nil {
			return fmt.Errorf("%w: setting change without a setting", ErrMalformed)
		}
		var err error
		p.message(1, func(m *encoder) { err = encodeSetting(m, e.Setting) })
		return err
	case event.WindowConfigure:
		p.sint(1, int64(e.WindowID))
		p.message(2, func(m *encoder) { encodeSize(m, e.Size) })
		p.bool(3, e.Active)
		p.bool(4, e.Maximized)
		p.bool(5, e.Fullscreen)
		p.uint(6, uint64(e.DecorationMode))
		p.message(7, func(m *encoder) {
			m.bool(1, e.Capabilities.WindowMenu)
			m.bool(2, e.Capabilities.Maximize)
			m.bool(3, e.Capabilities.Fullscreen)
			m.bool(4, e.Capabilities.Minimize)
		})
	case event.WindowCloseRequest:
		p.sint(1, int64(e.WindowID))
	case event.WindowClosed:
		p.sint(1, int64(e.WindowID))
	case event.WindowKeyboardLeave:
		p.sint(1, int64(e.WindowID))
	case event.ShouldRedraw:
		p.sint(1, int64(e.WindowID))
	case event.MouseExited:
		p.sint(1, int64(e.WindowID))
	case event.DragAndDropLeave:
		p.sint(1, int64(e.WindowID))
	case event.WindowScreenChange:
		p.sint(1, int64(e.WindowID))
		p.uint(2, uint64(e.NewScreenID))
	case event.WindowScaleChanged:
		p.sint(1, int64(e.WindowID))
		p.double(2, e.NewScale)
	case event.WindowFocusChange:
		p.sint(1, int64(e.WindowID))
		p.bool(2, e.Focused)
	case event.WindowKeyboardEnter:
		p.sint(1, int64(e.WindowID))
		for _, c := range e.KeyCodes {
			p.uint(2, uint64(c))
		}
		for _, s := range e.KeySyms {
			p.uint(3, uint64(s))
		}
	case event.WindowDraw:
		p.sint(1, int64(e.WindowID))
		encodeDraw(p, e.DrawData, e.Size, e.Scale)
	case event.DragIconDraw:
		encodeDraw(p, e.DrawData, e.Size, e.Scale)
	case event.KeyDown:
		p.sint(1, int64(e.WindowID))
		p.uint(2, uint64(e.KeyCode))
		if e.Characters != nil {
			p.string(3, *e.Characters)
		}
		p.uint(4, uint64(e.Key))
		p.uint(5, uint64(e.Modifiers))
		p.bool(6, e.IsRepeat)
	case event.KeyUp:
		p.sint(1, int64(e.WindowID))
		p.uint(2, uint64(e.KeyCode))
		p.uint(4, uint64(e.Key))
		p.uint(5, uint64(e.Modifiers))
	case event.ModifiersChanged:
		p.sint(1, int64(e.WindowID))
		p.uint(5, uint64(e.Modifiers))
	case event.MouseMoved:
		p.sint(1, int64(e.WindowID))
		p.message(3, func(m *encoder) { encodePoint(m, e.LocationInWindow) })
		p.uint(4, uint64(e.Timestamp))
	case event.MouseEntered:
		p.sint(1, int64(e.WindowID))
		p.message(3, func(m *encoder) { encodePoint(m, e.LocationInWindow) })
	case event.MouseDown:
		encodeButton(p, e.WindowID, e.Button, e.LocationInWindow, e.Timestamp)
	case event.MouseUp:
		encodeButton(p, e.WindowID, e.Button, e.LocationInWindow, e.Timestamp)
	case event.MouseDragged:
		encodeButton(p, e.WindowID, e.Button, e.LocationInWindow, e.Timestamp)
	case event.ScrollWheel:
		p.sint(1, int64(e.WindowID))
		p.message(3, func(m *encoder) { encodePoint(m, e.LocationInWindow) })
		p.uint(4, uint64(e.Timestamp))
		p.message(5, func(m *encoder) { encodeScroll(m, e.Horizontal) })
		p.message(6, func(m *encoder) { encodeScroll(m, e.Vertical) })
	case event.TextInput:
		p.sint(1, int64(e.WindowID))
		if e.Preedit != nil {
			p.message(2, func(m *encoder) {
				if e.Preedit.Text != nil {
					m.string(1, *e.Preedit.Text)
				}
				m.sint(2, int64(e.Preedit.CursorBeginBytes))
				m.sint(3, int64(e.Preedit.CursorEndBytes))
			})
		}
		if e.Commit != nil {
			p.message(3, func(m *encoder) {
				if e.Commit.Text != nil {
					m.string(1, *e.Commit.Text)
				}
			})
		}
		if e.DeleteSurrounding != nil {
			p.message(4, func(m *encoder) {
				m.uint(1, uint64(e.DeleteSurrounding.BeforeBytes))
				m.uint(2, uint64(e.DeleteSurrounding.AfterBytes))
			})
		}
	case event.TextInputAvailability:
		p.sint(1, int64(e.WindowID))
		p.bool(2, e.Available)
	case event.DataTransferAvailable:
		p.uint(1, uint64(e.Source))
		for _, mt := range e.MimeTypes {
			p.string(2, mt)
		}
	case event.DataTransfer:
		p.sint(1, int64(e.Serial))
		if e.Content != nil {
			p.message(2, func(m *encoder) { encodeContent(m, *e.Content) })
		}
	case event.DataTransferCancelled:
		p.uint(1, uint64(e.Source))
	case event.DropPerformed:
		p.sint(1, int64(e.WindowID))
		if e.Content != nil {
			p.message(2, func(m *encoder) { encodeContent(m, *e.Content) })
		}
		if e.Action != nil {
			p.uint(3, uint64(*e.Action))
		}
	case event.DragAndDropFinished:
		p.sint(1, int64(e.WindowID))
		if e.Action != nil {
			p.uint(3, uint64(*e.Action))
		}
	case event.NotificationShown:
		p.uint(1, uint64(e.RequestID))
		if e.NotificationID != nil {
			p.uint(2, uint64(*e.NotificationID))
		}
	case event.NotificationClosed:
		p.uint(1, uint64(e.NotificationID))
		if e.Action != nil {
			p.string(2, *e.Action)
		}
		if e.ActivationToken != nil {
			p.string(3, *e.ActivationToken)
		}
	case event.FileChooserResponse:
		p.uint(1, uint64(e.RequestID))
		for _, f := range e.Files {
			p.string(2, f)
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownTag, e)
	}
	return nil
}

func encodePoint(m *encoder, p geometry.LogicalPoint) {
	m.double(1, p.X)
	m.double(2, p.Y)
}

func encodeSize(m *encoder, s geometry.LogicalSize) {
	m.double(1, s.Width)
	m.double(2, s.Height)
}

func encodeDraw(p *encoder, d event.DrawData, size geometry.PhysicalSize, scale float64) {
	p.uint(2, uint64(d.Framebuffer))
	p.message(3, func(m *encoder) {
		m.sint(1, int64(size.Width))
		m.sint(2, int64(size.Height))
	})
	p.double(4, scale)
}

func encodeButton(p *encoder, id event.WindowID, b event.MouseButton, loc geometry.LogicalPoint, ts event.Timestamp) {
	p.sint(1, int64(id))
	p.uint(2, uint64(b))
	p.message(3, func(m *encoder) { encodePoint(m, loc) })
	p.uint(4, uint64(ts))
}

func encodeScroll(m *encoder, s event.ScrollData) {
	m.double(1, s.Delta)
	m.sint(2, int64(s.WheelValue120))
	m.bool(3, s.IsInverted)
	m.bool(4, s.IsStop)
}

func encodeContent(m *encoder, c event.DataTransferContent) {
	m.string(1, c.MimeType)
	m.bytes(2, c.Data)
}

func encodeScreen(m *encoder, s event.Screen) {
	m.uint(1, uint64(s.ID))
	if s.Name != nil {
		m.string(2, *s.Name)
	}
	m.message(3, func(c *encoder) { encodePoint(c, s.Origin) })
	m.message(4, func(c *encoder) { encodeSize(c, s.Size) })
	m.double(5, s.Scale)
	m.uint(6, uint64(s.Millihertz))
}
