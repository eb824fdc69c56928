package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
)

// Decode converts a record into an event. It never returns a partial event:
// either the whole record is understood or an ErrUnknownTag / ErrMalformed error
// is returned.
func Decode(record []byte) (event.Event, error) {
	rec, err := parse(record)
	if err != nil {
		return nil, err
	}
	if !rec.has(fieldTag) {
		return nil, fmt.Errorf("%w: record has no tag", ErrMalformed)
	}
	kind := event.Kind(rec.uint32(fieldTag))
	if *rec.err != nil {
		return nil, *rec.err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, uint32(kind))
	}

	p, _ := rec.child(fieldPayload)
	if *rec.err != nil {
		return nil, *rec.err
	}

	e, err := decodePayload(kind, p)
	if err != nil {
		return nil, err
	}
	if *p.err != nil {
		return nil, fmt.Errorf("%s: %w", kind, *p.err)
	}
	return e, nil
}

func decodePayload(kind event.Kind, p message) (event.Event, error) {
	window := func() event.WindowID { return event.WindowID(p.sint(1)) }

	switch kind {
	case event.KindApplicationStarted:
		return event.ApplicationStarted{}, nil
	case event.KindApplicationWantsToTerminate:
		return event.ApplicationWantsToTerminate{}, nil
	case event.KindApplicationWillTerminate:
		return event.ApplicationWillTerminate{}, nil
	case event.KindShouldRedrawDragIcon:
		return event.ShouldRedrawDragIcon{}, nil
	case event.KindDisplayConfigurationChange:
		var screens []event.Screen
		for _, m := range p.children(1) {
			screens = append(screens, decodeScreen(m))
		}
		return event.DisplayConfigurationChange{Screens: event.AllScreens{Screens: screens}}, nil
	case event.KindXdgDesktopSettingChange:
		m, ok := p.child(1)
		if !ok {
			return nil, fmt.Errorf("%w: setting change without a setting", ErrMalformed)
		}
		s, err := decodeSetting(m)
		if err != nil {
			return nil, err
		}
		return event.XdgDesktopSettingChange{Setting: s}, nil
	case event.KindWindowConfigure:
		mode := event.DecorationMode(p.uint(6))
		if mode > event.DecorationServer {
			p.fail("decoration mode %d", mode)
		}
		caps, _ := p.child(7)
		return event.WindowConfigure{
			WindowID:       window(),
			Size:           decodeSize(p, 2),
			Active:         p.bool(3),
			Maximized:      p.bool(4),
			Fullscreen:     p.bool(5),
			DecorationMode: mode,
			Capabilities: event.WindowCapabilities{
				WindowMenu: caps.bool(1),
				Maximize:   caps.bool(2),
				Fullscreen: caps.bool(3),
				Minimize:   caps.bool(4),
			},
		}, nil
	case event.KindWindowCloseRequest:
		return event.WindowCloseRequest{WindowID: window()}, nil
	case event.KindWindowClosed:
		return event.WindowClosed{WindowID: window()}, nil
	case event.KindWindowKeyboardLeave:
		return event.WindowKeyboardLeave{WindowID: window()}, nil
	case event.KindShouldRedraw:
		return event.ShouldRedraw{WindowID: window()}, nil
	case event.KindMouseExited:
		return event.MouseExited{WindowID: window()}, nil
	case event.KindDragAndDropLeave:
		return event.DragAndDropLeave{WindowID: window()}, nil
	case event.KindWindowScreenChange:
		return event.WindowScreenChange{WindowID: window(), NewScreenID: event.ScreenID(p.uint(2))}, nil
	case event.KindWindowScaleChanged:
		return event.WindowScaleChanged{WindowID: window(), NewScale: p.double(2)}, nil
	case event.KindWindowFocusChange:
		return event.WindowFocusChange{WindowID: window(), Focused: p.bool(2)}, nil
	case event.KindWindowKeyboardEnter:
		e := event.WindowKeyboardEnter{WindowID: window()}
		for _, c := range p.uints(2) {
			e.KeyCodes = append(e.KeyCodes, event.KeyCode(c))
		}
		for _, s := range p.uints(3) {
			e.KeySyms = append(e.KeySyms, event.KeySym(s))
		}
		return e, nil
	case event.KindWindowDraw:
		d, size, scale := decodeDraw(p)
		return event.WindowDraw{WindowID: window(), DrawData: d, Size: size, Scale: scale}, nil
	case event.KindDragIconDraw:
		d, size, scale := decodeDraw(p)
		return event.DragIconDraw{DrawData: d, Size: size, Scale: scale}, nil
	case event.KindKeyDown:
		return event.KeyDown{
			WindowID:   window(),
			KeyCode:    event.KeyCode(p.uint32(2)),
			Characters: p.optString(3),
			Key:        event.KeySym(p.uint32(4)),
			Modifiers:  decodeModifiers(p),
			IsRepeat:   p.bool(6),
		}, nil
	case event.KindKeyUp:
		if p.has(3) {
			p.fail("key release carries characters")
		}
		return event.KeyUp{
			WindowID:  window(),
			KeyCode:   event.KeyCode(p.uint32(2)),
			Key:       event.KeySym(p.uint32(4)),
			Modifiers: decodeModifiers(p),
		}, nil
	case event.KindModifiersChanged:
		return event.ModifiersChanged{WindowID: window(), Modifiers: decodeModifiers(p)}, nil
	case event.KindMouseMoved:
		return event.MouseMoved{
			WindowID:         window(),
			LocationInWindow: decodePoint(p, 3),
			Timestamp:        event.Timestamp(p.uint32(4)),
		}, nil
	case event.KindMouseEntered:
		return event.MouseEntered{WindowID: window(), LocationInWindow: decodePoint(p, 3)}, nil
	case event.KindMouseDown:
		return event.MouseDown(decodeButton(p)), nil
	case event.KindMouseUp:
		return event.MouseUp(decodeButton(p)), nil
	case event.KindMouseDragged:
		return event.MouseDragged(decodeButton(p)), nil
	case event.KindScrollWheel:
		return event.ScrollWheel{
			WindowID:         window(),
			LocationInWindow: decodePoint(p, 3),
			Timestamp:        event.Timestamp(p.uint32(4)),
			Horizontal:       decodeScroll(p, 5),
			Vertical:         decodeScroll(p, 6),
		}, nil
	case event.KindTextInput:
		return decodeTextInput(p, window()), nil
	case event.KindTextInputAvailability:
		return event.TextInputAvailability{WindowID: window(), Available: p.bool(2)}, nil
	case event.KindDataTransferAvailable:
		return event.DataTransferAvailable{Source: decodeSource(p), MimeTypes: p.strings(2)}, nil
	case event.KindDataTransfer:
		return event.DataTransfer{Serial: p.int32(1), Content: decodeContent(p, 2)}, nil
	case event.KindDataTransferCancelled:
		return event.DataTransferCancelled{Source: decodeSource(p)}, nil
	case event.KindDropPerformed:
		return event.DropPerformed{
			WindowID: window(),
			Content:  decodeContent(p, 2),
			Action:   decodeAction(p, 3),
		}, nil
	case event.KindDragAndDropFinished:
		return event.DragAndDropFinished{WindowID: window(), Action: decodeAction(p, 3)}, nil
	case event.KindNotificationShown:
		e := event.NotificationShown{RequestID: event.RequestID(p.uint32(1))}
		if p.has(2) {
			id := p.uint32(2)
			e.NotificationID = &id
		}
		return e, nil
	case event.KindNotificationClosed:
		return event.NotificationClosed{
			NotificationID:  p.uint32(1),
			Action:          p.optString(2),
			ActivationToken: p.optString(3),
		}, nil
	case event.KindFileChooserResponse:
		return event.FileChooserResponse{RequestID: event.RequestID(p.uint32(1)), Files: p.strings(2)}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTag, kind)
}

// buttonEvent has the field layout shared by MouseDown, MouseUp and MouseDragged
type buttonEvent struct {
	WindowID         event.WindowID
	Button           event.MouseButton
	LocationInWindow geometry.LogicalPoint
	Timestamp        event.Timestamp
}

func decodeButton(p message) buttonEvent {
	return buttonEvent{
		WindowID:         event.WindowID(p.sint(1)),
		Button:           event.MouseButton(p.uint32(2)),
		LocationInWindow: decodePoint(p, 3),
		Timestamp:        event.Timestamp(p.uint32(4)),
	}
}

func decodeModifiers(p message) event.Modifiers {
	v := p.uint(5)
	if v > 0xff {
		p.fail("modifiers %#x", v)
	}
	return event.Modifiers(v)
}

func decodePoint(p message, num protowire.Number) geometry.LogicalPoint {
	m, _ := p.child(num)
	return geometry.LogicalPoint{X: m.double(1), Y: m.double(2)}
}

func decodeSize(p message, num protowire.Number) geometry.LogicalSize {
	m, _ := p.child(num)
	s := geometry.LogicalSize{Width: m.double(1), Height: m.double(2)}
	if err := s.Validate(); err != nil {
		p.fail("%v", err)
	}
	return s
}

func decodeDraw(p message) (event.DrawData, geometry.PhysicalSize, float64) {
	m, _ := p.child(3)
	size := geometry.PhysicalSize{Width: m.int32(1), Height: m.int32(2)}
	return event.DrawData{Framebuffer: p.uint32(2)}, size, p.double(4)
}

func decodeScroll(p message, num protowire.Number) event.ScrollData {
	m, _ := p.child(num)
	return event.ScrollData{
		Delta:         m.double(1),
		WheelValue120: m.int32(2),
		IsInverted:    m.bool(3),
		IsStop:        m.bool(4),
	}
}

func decodeTextInput(p message, id event.WindowID) event.TextInput {
	e := event.TextInput{WindowID: id}
	if m, ok := p.child(2); ok {
		e.Preedit = &event.PreeditString{
			Text:             m.optString(1),
			CursorBeginBytes: m.int32(2),
			CursorEndBytes:   m.int32(3),
		}
	}
	if m, ok := p.child(3); ok {
		e.Commit = &event.CommitString{Text: m.optString(1)}
	}
	if m, ok := p.child(4); ok {
		e.DeleteSurrounding = &event.DeleteSurroundingText{
			BeforeBytes: m.uint32(1),
			AfterBytes:  m.uint32(2),
		}
	}
	return e
}

func decodeSource(p message) event.DataSource {
	v := p.uint(1)
	if v > uint64(event.SourceDragAndDrop) {
		p.fail("data source %d", v)
	}
	return event.DataSource(v)
}

func decodeContent(p message, num protowire.Number) *event.DataTransferContent {
	m, ok := p.child(num)
	if !ok {
		return nil
	}
	return &event.DataTransferContent{MimeType: m.string(1), Data: m.bytes(2)}
}

func decodeAction(p message, num protowire.Number) *event.DragAction {
	if !p.has(num) {
		return nil
	}
	a := event.DragAction(p.uint(num))
	if a != event.ActionCopy && a != event.ActionMove {
		p.fail("drag action %d", a)
	}
	return &a
}

func decodeScreen(m message) event.Screen {
	return event.Screen{
		ID:         event.ScreenID(m.uint(1)),
		Name:       m.optString(2),
		Origin:     decodePoint(m, 3),
		Size:       decodeSize(m, 4),
		Scale:      m.double(5),
		Millihertz: m.uint32(6),
	}
}
