package settings

import (
	"fmt"
	"time"

	"github.com/bnema/desktopkit/internal/event"
)

// Snapshot is the current value of every desktop setting. Settings arrive one
// at a time; fields keep their defaults until the desktop announces them.
type Snapshot struct {
	TitlebarLayout            TitlebarLayout
	ActionDoubleClickTitlebar event.TitlebarAction
	ActionMiddleClickTitlebar event.TitlebarAction
	ActionRightClickTitlebar  event.TitlebarAction
	DoubleClickInterval       time.Duration
	ColorScheme               event.ColorSchemeValue
	AccentColor               event.Color
	FontAntialiasing          event.FontAntialiasingValue
	FontHinting               event.FontHintingValue
	FontRgbaOrder             event.FontRgbaOrderValue
	// CursorSize and CursorTheme are nil when the desktop has no preference
	CursorSize         *int32
	CursorTheme        *string
	CursorBlink        bool
	CursorBlinkTime    time.Duration
	CursorBlinkTimeout time.Duration
	OverlayScrolling   bool
	AudibleBell        bool
	MiddleClickPaste   bool
}

// Default returns the values GTK uses when nothing is configured
func Default() Snapshot {
	return Snapshot{
		TitlebarLayout:            DefaultTitlebarLayout,
		ActionDoubleClickTitlebar: event.TitlebarToggleMaximize,
		ActionMiddleClickTitlebar: event.TitlebarNone,
		ActionRightClickTitlebar:  event.TitlebarMenu,
		DoubleClickInterval:       500 * time.Millisecond,
		ColorScheme:               event.ColorSchemeNoPreference,
		AccentColor:               event.Color{Red: 0, Green: 0, Blue: 1, Alpha: 1},
		FontAntialiasing:          event.AntialiasingGrayscale,
		FontHinting:               event.HintingMedium,
		FontRgbaOrder:             event.RgbaOrderRgb,
		CursorBlink:               true,
		CursorBlinkTime:           1200 * time.Millisecond,
		CursorBlinkTimeout:        10 * time.Second,
		AudibleBell:               true,
		MiddleClickPaste:          true,
	}
}

// Apply updates the snapshot with one setting. An unparsable titlebar layout
// leaves the previous layout in place and returns the error.
func (s *Snapshot) Apply(setting event.Setting) error {
	switch v := setting.(type) {
	case event.TitlebarLayout:
		layout, err := ParseTitlebarLayout(v.Value)
		if err != nil {
			return err
		}
		s.TitlebarLayout = layout
	case event.ActionDoubleClickTitlebar:
		s.ActionDoubleClickTitlebar = v.Value
	case event.ActionMiddleClickTitlebar:
		s.ActionMiddleClickTitlebar = v.Value
	case event.ActionRightClickTitlebar:
		s.ActionRightClickTitlebar = v.Value
	case event.DoubleClickInterval:
		s.DoubleClickInterval = v.Value
	case event.ColorScheme:
		s.ColorScheme = v.Value
	case event.AccentColor:
		s.AccentColor = v.Value
	case event.FontAntialiasing:
		s.FontAntialiasing = v.Value
	case event.FontHinting:
		s.FontHinting = v.Value
	case event.FontRgbaOrder:
		s.FontRgbaOrder = v.Value
	case event.CursorSize:
		size := v.Value
		s.CursorSize = &size
	case event.CursorTheme:
		theme := v.Value
		s.CursorTheme = &theme
	case event.CursorBlink:
		s.CursorBlink = v.Value
	case event.CursorBlinkTime:
		s.CursorBlinkTime = v.Value
	case event.CursorBlinkTimeout:
		s.CursorBlinkTimeout = v.Value
	case event.OverlayScrolling:
		s.OverlayScrolling = v.Value
	case event.AudibleBell:
		s.AudibleBell = v.Value
	case event.MiddleClickPaste:
		s.MiddleClickPaste = v.Value
	default:
		return fmt.Errorf("unsupported setting %T", setting)
	}
	return nil
}

// TitlebarAction returns the configured action for a titlebar click with the
// given button. Left clicks have no configurable single-click action.
func (s Snapshot) TitlebarAction(button event.MouseButton) event.TitlebarAction {
	switch button {
	case event.ButtonMiddle:
		return s.ActionMiddleClickTitlebar
	case event.ButtonRight:
		return s.ActionRightClickTitlebar
	default:
		return event.TitlebarNone
	}
}
