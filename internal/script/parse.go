package script

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bnema/desktopkit/internal/event"
)

var namedKeys = map[string]event.KeySym{
	"backspace": event.KeyBackSpace,
	"tab":       event.KeyTab,
	"return":    event.KeyReturn,
	"enter":     event.KeyReturn,
	"escape":    event.KeyEscape,
	"delete":    event.KeyDelete,
	"home":      event.KeyHome,
	"end":       event.KeyEnd,
	"left":      event.KeyLeft,
	"right":     event.KeyRight,
	"up":        event.KeyArrowUp,
	"down":      event.KeyArrowDown,
	"page_up":   event.KeyPageUp,
	"page_down": event.KeyPageDown,
	"insert":    event.KeyInsert,
	"menu":      event.KeyMenu,
	"f11":       event.KeyF11,
	"shift":     event.KeyShiftL,
	"ctrl":      event.KeyControlL,
	"alt":       event.KeyAltL,
	"super":     event.KeySuperL,
	"space":     event.KeySpace,
}

// parseKey resolves a key name or a single character. Characters is nil for
// keys that produce no text.
func parseKey(name string) (event.KeySym, *string, error) {
	if sym, ok := namedKeys[strings.ToLower(name)]; ok {
		switch sym {
		case event.KeySpace:
			return sym, event.StringPtr(" "), nil
		case event.KeyReturn:
			return sym, event.StringPtr("\r"), nil
		case event.KeyTab:
			return sym, event.StringPtr("\t"), nil
		}
		return sym, nil, nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return keysymOf(r), event.StringPtr(name), nil
	}
	return 0, nil, fmt.Errorf("unknown key %q", name)
}

// keysymOf maps a character to its keysym. Latin-1 characters map to
// themselves, everything else to the Unicode keysym range.
func keysymOf(r rune) event.KeySym {
	if r < 0x100 {
		return event.KeySym(r)
	}
	return event.KeySym(0x01000000 | r)
}

func parseButton(name string) (event.MouseButton, error) {
	switch strings.ToLower(name) {
	case "", "left":
		return event.ButtonLeft, nil
	case "right":
		return event.ButtonRight, nil
	case "middle":
		return event.ButtonMiddle, nil
	default:
		return 0, fmt.Errorf("unknown button %q", name)
	}
}

var purposes = []string{"normal", "alpha", "digits", "number", "phone", "url", "email", "name", "password", "pin", "terminal"}

func parsePurpose(name string) (event.ContentPurpose, error) {
	if name == "" {
		return event.PurposeNormal, nil
	}
	i := slices.Index(purposes, strings.ToLower(name))
	if i < 0 {
		return 0, fmt.Errorf("unknown content purpose %q", name)
	}
	return event.ContentPurpose(i), nil
}

func parseSource(name string) (event.DataSource, error) {
	if name == "" {
		return event.SourceClipboard, nil
	}
	for _, s := range event.DataSources {
		if s.String() == name {
			return s, nil
		}
	}
	if name == "primary" {
		return event.SourcePrimarySelection, nil
	}
	return 0, fmt.Errorf("unknown data source %q", name)
}

// parseActions defaults to copy
func parseActions(names []string) (event.DragActions, error) {
	if len(names) == 0 {
		return event.ActionsOf(event.ActionCopy), nil
	}
	var actions event.DragActions
	for _, n := range names {
		switch strings.ToLower(n) {
		case "copy":
			actions |= event.ActionsOf(event.ActionCopy)
		case "move":
			actions |= event.ActionsOf(event.ActionMove)
		default:
			return 0, fmt.Errorf("unknown drag action %q", n)
		}
	}
	return actions, nil
}

func parseEdge(name string) (event.ResizeEdge, error) {
	for e := event.EdgeTop; e <= event.EdgeBottomRight; e++ {
		if e.String() == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown resize edge %q", name)
}

func parseDecoration(name string) (event.DecorationMode, error) {
	switch name {
	case "client":
		return event.DecorationClient, nil
	case "server":
		return event.DecorationServer, nil
	default:
		return 0, fmt.Errorf("unknown decoration mode %q", name)
	}
}

func validateAction(a ActionStep) error {
	switch a.Name {
	case "minimize", "maximize", "fullscreen", "menu", "move", "title":
		return nil
	case "resize":
		_, err := parseEdge(a.Edge)
		return err
	default:
		return fmt.Errorf("unknown window action %q", a.Name)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func mimeOr(mimeType string) string {
	if mimeType == "" {
		return event.MimeTextPlain
	}
	return mimeType
}
