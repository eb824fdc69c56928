package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/desktopkit/internal/event"
)

// Category groups event kinds for display
type Category uint8

const (
	CategoryApplication Category = iota
	CategoryWindow
	CategoryInput
	CategoryTextInput
	CategoryTransfer
	CategoryRequest
)

var categoryNames = [...]string{"app", "window", "input", "text", "transfer", "request"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "?"
}

// Color returns the palette color of the category
func (c Category) Color() lipgloss.Color {
	switch c {
	case CategoryWindow:
		return ColorWindow
	case CategoryInput:
		return ColorInput
	case CategoryTextInput:
		return ColorTextInput
	case CategoryTransfer:
		return ColorTransfer
	case CategoryRequest:
		return ColorRequest
	default:
		return ColorApplication
	}
}

// CategoryOf classifies an event kind
func CategoryOf(k event.Kind) Category {
	switch {
	case k <= event.KindXdgDesktopSettingChange:
		return CategoryApplication
	case k <= event.KindWindowDraw:
		return CategoryWindow
	case k <= event.KindScrollWheel:
		return CategoryInput
	case k <= event.KindTextInputAvailability:
		return CategoryTextInput
	case k <= event.KindDragIconDraw:
		return CategoryTransfer
	default:
		return CategoryRequest
	}
}

// Field is one displayed property of an event
type Field struct {
	Key, Value string
}

// Fields returns the interesting fields of e in display order
func Fields(e event.Event) []Field {
	var fs []Field
	add := func(k string, v any) { fs = append(fs, Field{k, fmt.Sprint(v)}) }
	quote := func(k string, s *string) {
		if s != nil {
			add(k, strconv.Quote(*s))
		}
	}
	if we, ok := e.(event.WindowEvent); ok {
		add("window", we.Window())
	}

	switch e := e.(type) {
	case event.DisplayConfigurationChange:
		add("screens", len(e.Screens.Screens))
	case event.XdgDesktopSettingChange:
		add("setting", e.Setting.SettingKind())
		add("value", SettingValue(e.Setting))
	case event.WindowConfigure:
		add("size", e.Size)
		add("decoration", e.DecorationMode)
		if e.Active {
			add("active", true)
		}
		if e.Maximized {
			add("maximized", true)
		}
		if e.Fullscreen {
			add("fullscreen", true)
		}
	case event.WindowScreenChange:
		add("screen", e.NewScreenID)
	case event.WindowScaleChanged:
		add("scale", e.NewScale)
	case event.WindowFocusChange:
		add("focused", e.Focused)
	case event.WindowDraw:
		add("size", e.Size)
		add("scale", e.Scale)
	case event.KeyDown:
		add("key", fmt.Sprintf("%#x", uint32(e.Key)))
		quote("text", e.Characters)
		if e.Modifiers != 0 {
			add("mods", e.Modifiers)
		}
		if e.IsRepeat {
			add("repeat", true)
		}
	case event.KeyUp:
		add("key", fmt.Sprintf("%#x", uint32(e.Key)))
	case event.ModifiersChanged:
		add("mods", e.Modifiers)
	case event.MouseMoved:
		add("at", e.LocationInWindow)
	case event.MouseEntered:
		add("at", e.LocationInWindow)
	case event.MouseDown:
		add("button", e.Button)
		add("at", e.LocationInWindow)
	case event.MouseUp:
		add("button", e.Button)
		add("at", e.LocationInWindow)
	case event.MouseDragged:
		add("button", e.Button)
		add("at", e.LocationInWindow)
	case event.ScrollWheel:
		add("dx", e.Horizontal.Delta)
		add("dy", e.Vertical.Delta)
	case event.TextInput:
		if e.DeleteSurrounding != nil {
			add("delete", fmt.Sprintf("%d/%d", e.DeleteSurrounding.BeforeBytes, e.DeleteSurrounding.AfterBytes))
		}
		if e.Commit != nil {
			quote("commit", e.Commit.Text)
		}
		if e.Preedit != nil {
			quote("preedit", e.Preedit.Text)
		}
	case event.TextInputAvailability:
		add("available", e.Available)
	case event.DataTransferAvailable:
		add("source", e.Source)
		add("mime", strings.Join(e.MimeTypes, ","))
	case event.DataTransfer:
		add("serial", e.Serial)
		add("content", contentOf(e.Content))
	case event.DataTransferCancelled:
		add("source", e.Source)
	case event.DropPerformed:
		add("content", contentOf(e.Content))
		if e.Action != nil {
			add("action", *e.Action)
		}
	case event.DragAndDropFinished:
		if e.Action != nil {
			add("action", *e.Action)
		} else {
			add("action", "none")
		}
	case event.NotificationShown:
		add("request", e.RequestID)
		if e.NotificationID != nil {
			add("id", *e.NotificationID)
		} else {
			add("id", "denied")
		}
	case event.NotificationClosed:
		add("id", e.NotificationID)
		quote("action", e.Action)
	case event.FileChooserResponse:
		add("request", e.RequestID)
		add("files", len(e.Files))
	}
	return fs
}

func contentOf(c *event.DataTransferContent) string {
	if c == nil {
		return "none"
	}
	return strconv.Quote(string(c.Data)) + " (" + c.MimeType + ")"
}

// SettingValue renders the value of a setting without its struct wrapper
func SettingValue(s event.Setting) string {
	v := fmt.Sprintf("%+v", s)
	v = strings.TrimPrefix(v, "{Value:")
	return strings.TrimSuffix(v, "}")
}

// FormatEvent renders e on one line: category, kind and its fields
func FormatEvent(e event.Event) string {
	c := CategoryOf(e.Kind())
	tag := lipgloss.NewStyle().Foreground(c.Color()).Width(9).Render(c.String())
	kind := lipgloss.NewStyle().Foreground(c.Color()).Bold(true).Render(e.Kind().String())

	parts := []string{tag, kind}
	for _, f := range Fields(e) {
		parts = append(parts, FormatField(f.Key, f.Value))
	}
	return strings.Join(parts, " ")
}

// FormatPlain renders e without styling, for logs and files
func FormatPlain(e event.Event) string {
	var b strings.Builder
	b.WriteString(e.Kind().String())
	for _, f := range Fields(e) {
		b.WriteString(" ")
		b.WriteString(f.Key)
		b.WriteString("=")
		b.WriteString(f.Value)
	}
	return b.String()
}
