package wire

import (
	"fmt"
	"time"

	"github.com/bnema/desktopkit/internal/event"
)

// Setting payload fields. Only the field matching the kind's value type is set.
const (
	settingKind     = 1
	settingString   = 2
	settingInt      = 3
	settingBool     = 4
	settingDuration = 5
	settingColor    = 6
)

func encodeSetting(m *encoder, s event.Setting) error {
	m.uint(settingKind, uint64(s.SettingKind()))
	switch s := s.(type) {
	case event.TitlebarLayout:
		m.string(settingString, s.Value)
	case event.ActionDoubleClickTitlebar:
		m.sint(settingInt, int64(s.Value))
	case event.ActionMiddleClickTitlebar:
		m.sint(settingInt, int64(s.Value))
	case event.ActionRightClickTitlebar:
		m.sint(settingInt, int64(s.Value))
	case event.DoubleClickInterval:
		m.sint(settingDuration, s.Value.Milliseconds())
	case event.ColorScheme:
		m.sint(settingInt, int64(s.Value))
	case event.AccentColor:
		m.message(settingColor, func(c *encoder) {
			c.double(1, s.Value.Red)
			c.double(2, s.Value.Green)
			c.double(3, s.Value.Blue)
			c.double(4, s.Value.Alpha)
		})
	case event.FontAntialiasing:
		m.sint(settingInt, int64(s.Value))
	case event.FontHinting:
		m.sint(settingInt, int64(s.Value))
	case event.FontRgbaOrder:
		m.sint(settingInt, int64(s.Value))
	case event.CursorSize:
		m.sint(settingInt, int64(s.Value))
	case event.CursorTheme:
		m.string(settingString, s.Value)
	case event.CursorBlink:
		m.bool(settingBool, s.Value)
	case event.CursorBlinkTime:
		m.sint(settingDuration, s.Value.Milliseconds())
	case event.CursorBlinkTimeout:
		m.sint(settingDuration, s.Value.Milliseconds())
	case event.OverlayScrolling:
		m.bool(settingBool, s.Value)
	case event.AudibleBell:
		m.bool(settingBool, s.Value)
	case event.MiddleClickPaste:
		m.bool(settingBool, s.Value)
	default:
		return fmt.Errorf("%w: setting %T", ErrUnknownTag, s)
	}
	return nil
}

func decodeSetting(m message) (event.Setting, error) {
	kind := event.SettingKind(m.uint(settingKind))
	ms := func() time.Duration { return time.Duration(m.sint(settingDuration)) * time.Millisecond }
	enum := func(max int64) int64 {
		v := m.sint(settingInt)
		if v < 0 || v > max {
			m.fail("%s value %d out of range", kind, v)
		}
		return v
	}

	var s event.Setting
	switch kind {
	case event.SettingTitlebarLayout:
		s = event.TitlebarLayout{Value: m.string(settingString)}
	case event.SettingActionDoubleClickTitlebar:
		s = event.ActionDoubleClickTitlebar{Value: event.TitlebarAction(enum(int64(event.TitlebarMenu)))}
	case event.SettingActionMiddleClickTitlebar:
		s = event.ActionMiddleClickTitlebar{Value: event.TitlebarAction(enum(int64(event.TitlebarMenu)))}
	case event.SettingActionRightClickTitlebar:
		s = event.ActionRightClickTitlebar{Value: event.TitlebarAction(enum(int64(event.TitlebarMenu)))}
	case event.SettingDoubleClickInterval:
		s = event.DoubleClickInterval{Value: ms()}
	case event.SettingColorScheme:
		s = event.ColorScheme{Value: event.ColorSchemeValue(enum(int64(event.ColorSchemePreferLight)))}
	case event.SettingAccentColor:
		c, _ := m.child(settingColor)
		s = event.AccentColor{Value: event.Color{
			Red:   c.double(1),
			Green: c.double(2),
			Blue:  c.double(3),
			Alpha: c.double(4),
		}}
	case event.SettingFontAntialiasing:
		s = event.FontAntialiasing{Value: event.FontAntialiasingValue(enum(int64(event.AntialiasingRgba)))}
	case event.SettingFontHinting:
		s = event.FontHinting{Value: event.FontHintingValue(enum(int64(event.HintingFull)))}
	case event.SettingFontRgbaOrder:
		s = event.FontRgbaOrder{Value: event.FontRgbaOrderValue(enum(int64(event.RgbaOrderVbgr)))}
	case event.SettingCursorSize:
		s = event.CursorSize{Value: m.int32(settingInt)}
	case event.SettingCursorTheme:
		s = event.CursorTheme{Value: m.string(settingString)}
	case event.SettingCursorBlink:
		s = event.CursorBlink{Value: m.bool(settingBool)}
	case event.SettingCursorBlinkTime:
		s = event.CursorBlinkTime{Value: ms()}
	case event.SettingCursorBlinkTimeout:
		s = event.CursorBlinkTimeout{Value: ms()}
	case event.SettingOverlayScrolling:
		s = event.OverlayScrolling{Value: m.bool(settingBool)}
	case event.SettingAudibleBell:
		s = event.AudibleBell{Value: m.bool(settingBool)}
	case event.SettingMiddleClickPaste:
		s = event.MiddleClickPaste{Value: m.bool(settingBool)}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, kind)
	}
	return s, *m.err
}
