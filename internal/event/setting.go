package event

import (
	"fmt"
	"time"
)

// Setting is one desktop-environment preference. Settings arrive one at a time
// and update an application-owned snapshot.
type Setting interface {
	SettingKind() SettingKind
	isSetting()
}

// SettingKind discriminates Setting values
type SettingKind uint8

const (
	SettingTitlebarLayout SettingKind = iota + 1
	SettingActionDoubleClickTitlebar
	SettingActionMiddleClickTitlebar
	SettingActionRightClickTitlebar
	SettingDoubleClickInterval
	SettingColorScheme
	SettingAccentColor
	SettingFontAntialiasing
	SettingFontHinting
	SettingFontRgbaOrder
	SettingCursorSize
	SettingCursorTheme
	SettingCursorBlink
	SettingCursorBlinkTime
	SettingCursorBlinkTimeout
	SettingOverlayScrolling
	SettingAudibleBell
	SettingMiddleClickPaste
)

var settingKindNames = map[SettingKind]string{
	SettingTitlebarLayout:            "titlebar-layout",
	SettingActionDoubleClickTitlebar: "action-double-click-titlebar",
	SettingActionMiddleClickTitlebar: "action-middle-click-titlebar",
	SettingActionRightClickTitlebar:  "action-right-click-titlebar",
	SettingDoubleClickInterval:       "double-click-interval",
	SettingColorScheme:               "color-scheme",
	SettingAccentColor:               "accent-color",
	SettingFontAntialiasing:          "font-antialiasing",
	SettingFontHinting:               "font-hinting",
	SettingFontRgbaOrder:             "font-rgba-order",
	SettingCursorSize:                "cursor-size",
	SettingCursorTheme:               "cursor-theme",
	SettingCursorBlink:               "cursor-blink",
	SettingCursorBlinkTime:           "cursor-blink-time",
	SettingCursorBlinkTimeout:        "cursor-blink-timeout",
	SettingOverlayScrolling:          "overlay-scrolling",
	SettingAudibleBell:               "audible-bell",
	SettingMiddleClickPaste:          "middle-click-paste",
}

func (k SettingKind) String() string {
	if n, ok := settingKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("setting(%d)", uint8(k))
}

// TitlebarAction is what a click on the title bar does
type TitlebarAction uint8

const (
	TitlebarNone TitlebarAction = iota
	TitlebarMinimize
	TitlebarToggleMaximize
	TitlebarMenu
)

func (a TitlebarAction) String() string {
	switch a {
	case TitlebarMinimize:
		return "minimize"
	case TitlebarToggleMaximize:
		return "toggle-maximize"
	case TitlebarMenu:
		return "menu"
	default:
		return "none"
	}
}

// ColorSchemeValue is the preferred appearance
type ColorSchemeValue uint8

const (
	ColorSchemeNoPreference ColorSchemeValue = iota
	ColorSchemePreferDark
	ColorSchemePreferLight
)

// FontAntialiasingValue is the font antialiasing preference
type FontAntialiasingValue uint8

const (
	AntialiasingNone FontAntialiasingValue = iota
	AntialiasingGrayscale
	AntialiasingRgba
)

// FontHintingValue is the font hinting preference
type FontHintingValue uint8

const (
	HintingNone FontHintingValue = iota
	HintingSlight
	HintingMedium
	HintingFull
)

// FontRgbaOrderValue is the subpixel order
type FontRgbaOrderValue uint8

const (
	RgbaOrderRgb FontRgbaOrderValue = iota
	RgbaOrderBgr
	RgbaOrderVrgb
	RgbaOrderVbgr
)

// Color has components in the 0..1 range
type Color struct {
	Red, Green, Blue, Alpha float64
}

type (
	// TitlebarLayout is a GTK style "left:right" button list, e.g. "icon:minimize,maximize,close"
	TitlebarLayout struct{ Value string }
	// ActionDoubleClickTitlebar is the double click action on the title bar
	ActionDoubleClickTitlebar struct{ Value TitlebarAction }
	// ActionMiddleClickTitlebar is the middle click action on the title bar
	ActionMiddleClickTitlebar struct{ Value TitlebarAction }
	// ActionRightClickTitlebar is the right click action on the title bar
	ActionRightClickTitlebar struct{ Value TitlebarAction }
	DoubleClickInterval      struct{ Value time.Duration }
	ColorScheme              struct{ Value ColorSchemeValue }
	AccentColor              struct{ Value Color }
	FontAntialiasing         struct{ Value FontAntialiasingValue }
	FontHinting              struct{ Value FontHintingValue }
	FontRgbaOrder            struct{ Value FontRgbaOrderValue }
	CursorSize               struct{ Value int32 }
	CursorTheme              struct{ Value string }
	CursorBlink              struct{ Value bool }
	// CursorBlinkTime is the length of one blink cycle
	CursorBlinkTime struct{ Value time.Duration }
	// CursorBlinkTimeout is the time after which the cursor stops blinking
	CursorBlinkTimeout struct{ Value time.Duration }
	OverlayScrolling   struct{ Value bool }
	AudibleBell        struct{ Value bool }
	MiddleClickPaste   struct{ Value bool }
)

func (TitlebarLayout) SettingKind() SettingKind            { return SettingTitlebarLayout }
func (ActionDoubleClickTitlebar) SettingKind() SettingKind { return SettingActionDoubleClickTitlebar }
func (ActionMiddleClickTitlebar) SettingKind() SettingKind { return SettingActionMiddleClickTitlebar }
func (ActionRightClickTitlebar) SettingKind() SettingKind  { return SettingActionRightClickTitlebar }
func (DoubleClickInterval) SettingKind() SettingKind       { return SettingDoubleClickInterval }
func (ColorScheme) SettingKind() SettingKind               { return SettingColorScheme }
func (AccentColor) SettingKind() SettingKind               { return SettingAccentColor }
func (FontAntialiasing) SettingKind() SettingKind          { return SettingFontAntialiasing }
func (FontHinting) SettingKind() SettingKind               { return SettingFontHinting }
func (FontRgbaOrder) SettingKind() SettingKind             { return SettingFontRgbaOrder }
func (CursorSize) SettingKind() SettingKind                { return SettingCursorSize }
func (CursorTheme) SettingKind() SettingKind               { return SettingCursorTheme }
func (CursorBlink) SettingKind() SettingKind               { return SettingCursorBlink }
func (CursorBlinkTime) SettingKind() SettingKind           { return SettingCursorBlinkTime }
func (CursorBlinkTimeout) SettingKind() SettingKind        { return SettingCursorBlinkTimeout }
func (OverlayScrolling) SettingKind() SettingKind          { return SettingOverlayScrolling }
func (AudibleBell) SettingKind() SettingKind               { return SettingAudibleBell }
func (MiddleClickPaste) SettingKind() SettingKind          { return SettingMiddleClickPaste }

func (TitlebarLayout) isSetting()            {}
func (ActionDoubleClickTitlebar) isSetting() {}
func (ActionMiddleClickTitlebar) isSetting() {}
func (ActionRightClickTitlebar) isSetting()  {}
func (DoubleClickInterval) isSetting()       {}
func (ColorScheme) isSetting()               {}
func (AccentColor) isSetting()               {}
func (FontAntialiasing) isSetting()          {}
func (FontHinting) isSetting()               {}
func (FontRgbaOrder) isSetting()             {}
func (CursorSize) isSetting()                {}
func (CursorTheme) isSetting()               {}
func (CursorBlink) isSetting()               {}
func (CursorBlinkTime) isSetting()           {}
func (CursorBlinkTimeout) isSetting()        {}
func (OverlayScrolling) isSetting()          {}
func (AudibleBell) isSetting()               {}
func (MiddleClickPaste) isSetting()          {}
