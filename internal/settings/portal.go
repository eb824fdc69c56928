package settings

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/logger"
)

// ErrNoSettings is returned when the portal answered none of the keys
var ErrNoSettings = errors.New("no desktop settings available")

// ErrUnknownKey is returned by Parse for keys it does not know
var ErrUnknownKey = errors.New("unknown setting key")

// Runner executes a command and returns its standard output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Portal reads settings from xdg-desktop-portal through gdbus
type Portal struct {
	run Runner
}

// NewPortal checks that gdbus is available
func NewPortal() (*Portal, error) {
	if _, err := exec.LookPath("gdbus"); err != nil {
		return nil, fmt.Errorf("gdbus not found")
	}
	return &Portal{run: execRunner}, nil
}

// NewPortalWithRunner is used by tests to fake gdbus
func NewPortalWithRunner(run Runner) *Portal {
	return &Portal{run: run}
}

type portalKey struct {
	namespace string
	key       string
	convert   func(v string) (event.Setting, error)
}

const (
	nsWM         = "org.gnome.desktop.wm.preferences"
	nsInterface  = "org.gnome.desktop.interface"
	nsMouse      = "org.gnome.desktop.peripherals.mouse"
	nsAppearance = "org.freedesktop.appearance"
)

var portalKeys = []portalKey{
	{nsWM, "button-layout", func(v string) (event.Setting, error) {
		s, err := variantString(v)
		return event.TitlebarLayout{Value: s}, err
	}},
	{nsWM, "action-double-click-titlebar", func(v string) (event.Setting, error) {
		a, err := variantTitlebarAction(v)
		return event.ActionDoubleClickTitlebar{Value: a}, err
	}},
	{nsWM, "action-middle-click-titlebar", func(v string) (event.Setting, error) {
		a, err := variantTitlebarAction(v)
		return event.ActionMiddleClickTitlebar{Value: a}, err
	}},
	{nsWM, "action-right-click-titlebar", func(v string) (event.Setting, error) {
		a, err := variantTitlebarAction(v)
		return event.ActionRightClickTitlebar{Value: a}, err
	}},
	{nsWM, "audible-bell", func(v string) (event.Setting, error) {
		b, err := variantBool(v)
		return event.AudibleBell{Value: b}, err
	}},
	{nsMouse, "double-click", func(v string) (event.Setting, error) {
		ms, err := variantInt(v)
		return event.DoubleClickInterval{Value: time.Duration(ms) * time.Millisecond}, err
	}},
	{nsAppearance, "color-scheme", func(v string) (event.Setting, error) {
		n, err := variantInt(v)
		if err == nil && (n < 0 || n > int64(event.ColorSchemePreferLight)) {
			err = fmt.Errorf("color scheme %d out of range", n)
		}
		return event.ColorScheme{Value: event.ColorSchemeValue(n)}, err
	}},
	{nsAppearance, "accent-color", func(v string) (event.Setting, error) {
		c, err := variantColor(v)
		return event.AccentColor{Value: c}, err
	}},
	{nsInterface, "font-antialiasing", func(v string) (event.Setting, error) {
		n, err := variantEnum(v, "none", "grayscale", "rgba")
		return event.FontAntialiasing{Value: event.FontAntialiasingValue(n)}, err
	}},
	{nsInterface, "font-hinting", func(v string) (event.Setting, error) {
		n, err := variantEnum(v, "none", "slight", "medium", "full")
		return event.FontHinting{Value: event.FontHintingValue(n)}, err
	}},
	{nsInterface, "font-rgba-order", func(v string) (event.Setting, error) {
		n, err := variantEnum(v, "rgb", "bgr", "vrgb", "vbgr")
		return event.FontRgbaOrder{Value: event.FontRgbaOrderValue(n)}, err
	}},
	{nsInterface, "cursor-size", func(v string) (event.Setting, error) {
		n, err := variantInt(v)
		return event.CursorSize{Value: int32(n)}, err
	}},
	{nsInterface, "cursor-theme", func(v string) (event.Setting, error) {
		s, err := variantString(v)
		return event.CursorTheme{Value: s}, err
	}},
	{nsInterface, "cursor-blink", func(v string) (event.Setting, error) {
		b, err := variantBool(v)
		return event.CursorBlink{Value: b}, err
	}},
	{nsInterface, "cursor-blink-time", func(v string) (event.Setting, error) {
		ms, err := variantInt(v)
		return event.CursorBlinkTime{Value: time.Duration(ms) * time.Millisecond}, err
	}},
	{nsInterface, "cursor-blink-timeout", func(v string) (event.Setting, error) {
		sec, err := variantInt(v)
		return event.CursorBlinkTimeout{Value: time.Duration(sec) * time.Second}, err
	}},
	{nsInterface, "overlay-scrolling", func(v string) (event.Setting, error) {
		b, err := variantBool(v)
		return event.OverlayScrolling{Value: b}, err
	}},
	{nsInterface, "gtk-enable-primary-paste", func(v string) (event.Setting, error) {
		b, err := variantBool(v)
		return event.MiddleClickPaste{Value: b}, err
	}},
}

// Read queries every known key. Keys the desktop does not provide are skipped.
func (p *Portal) Read(ctx context.Context) ([]event.Setting, error) {
	var out []event.Setting
	var lastErr error
	for _, k := range portalKeys {
		raw, err := p.run(ctx, "gdbus", "call", "--session",
			"--dest", "org.freedesktop.portal.Desktop",
			"--object-path", "/org/freedesktop/portal/desktop",
			"--method", "org.freedesktop.portal.Settings.Read",
			k.namespace, k.key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Debugf("Portal setting %s.%s unavailable: %v", k.namespace, k.key, err)
			lastErr = err
			continue
		}
		s, err := k.convert(unwrapVariant(string(raw)))
		if err != nil {
			logger.Warnf("Ignoring portal setting %s.%s: %v", k.namespace, k.key, err)
			lastErr = err
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoSettings, lastErr)
		}
		return nil, ErrNoSettings
	}
	return out, nil
}

// Parse converts a setting given by its portal key, such as "button-layout"
// or "double-click". String values may be given with or without quotes.
func Parse(key, value string) (event.Setting, error) {
	for _, k := range portalKeys {
		if k.key != key {
			continue
		}
		s, err := k.convert(value)
		if err != nil {
			if quoted, qerr := k.convert("'" + value + "'"); qerr == nil {
				return quoted, nil
			}
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Keys lists the setting keys Parse and Read understand
func Keys() []string {
	keys := make([]string, len(portalKeys))
	for i, k := range portalKeys {
		keys[i] = k.key
	}
	return keys
}

// unwrapVariant strips the reply tuple and variant brackets gdbus prints,
// turning "(<<uint32 1>>,)" into "uint32 1"
func unwrapVariant(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ",)")
	for strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func variantString(v string) (string, error) {
	if len(v) < 2 {
		return "", fmt.Errorf("not a string: %q", v)
	}
	q := v[0]
	if (q != '\'' && q != '"') || v[len(v)-1] != q {
		return "", fmt.Errorf("not a string: %q", v)
	}
	return v[1 : len(v)-1], nil
}

func variantInt(v string) (int64, error) {
	for _, prefix := range []string{"uint32 ", "int32 ", "uint64 ", "int64 ", "uint16 ", "int16 ", "byte "} {
		v = strings.TrimPrefix(v, prefix)
	}
	return strconv.ParseInt(strings.TrimSpace(v), 0, 64)
}

func variantBool(v string) (bool, error) {
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", v)
	}
}

func variantEnum(v string, names ...string) (int, error) {
	s, err := variantString(v)
	if err != nil {
		return 0, err
	}
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q", s)
}

func variantTitlebarAction(v string) (event.TitlebarAction, error) {
	s, err := variantString(v)
	if err != nil {
		return event.TitlebarNone, err
	}
	switch s {
	case "toggle-maximize", "toggle-maximize-horizontally", "toggle-maximize-vertically":
		return event.TitlebarToggleMaximize, nil
	case "minimize":
		return event.TitlebarMinimize, nil
	case "menu":
		return event.TitlebarMenu, nil
	default:
		return event.TitlebarNone, nil
	}
}

// variantColor parses an "(ddd)" tuple such as "(0.2, 0.4, 0.6)"
func variantColor(v string) (event.Color, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(v, "("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return event.Color{}, fmt.Errorf("not a color: %q", v)
	}
	var rgb [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return event.Color{}, fmt.Errorf("not a color: %q", v)
		}
		if f < 0 || f > 1 {
			return event.Color{}, fmt.Errorf("color component %g out of range", f)
		}
		rgb[i] = f
	}
	return event.Color{Red: rgb[0], Green: rgb[1], Blue: rgb[2], Alpha: 1}, nil
}
