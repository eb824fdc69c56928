package event

import "strings"

// KeyCode identifies a physical key in the platform's numeric space
type KeyCode uint32

// KeySym is a layout-resolved key symbol in the X11 keysym space
type KeySym uint32

// Named keysyms used by editing and window handling code
const (
	KeyBackSpace  KeySym = 0xff08
	KeyTab        KeySym = 0xff09
	KeyReturn     KeySym = 0xff0d
	KeyEscape     KeySym = 0xff1b
	KeyDelete     KeySym = 0xffff
	KeyHome       KeySym = 0xff50
	KeyLeft       KeySym = 0xff51
	KeyArrowUp    KeySym = 0xff52
	KeyRight      KeySym = 0xff53
	KeyArrowDown  KeySym = 0xff54
	KeyPageUp     KeySym = 0xff55
	KeyPageDown   KeySym = 0xff56
	KeyEnd        KeySym = 0xff57
	KeyInsert     KeySym = 0xff63
	KeyMenu       KeySym = 0xff67
	KeyModeSwitch KeySym = 0xff7e
	KeyNumLock    KeySym = 0xff7f
	KeyKPEnter    KeySym = 0xff8d
	KeyF1         KeySym = 0xffbe
	KeyF11        KeySym = 0xffc8
	KeyF12        KeySym = 0xffc9
	KeyShiftL     KeySym = 0xffe1
	KeyShiftR     KeySym = 0xffe2
	KeyControlL   KeySym = 0xffe3
	KeyControlR   KeySym = 0xffe4
	KeyCapsLock   KeySym = 0xffe5
	KeyShiftLock  KeySym = 0xffe6
	KeyMetaL      KeySym = 0xffe7
	KeyMetaR      KeySym = 0xffe8
	KeyAltL       KeySym = 0xffe9
	KeyAltR       KeySym = 0xffea
	KeySuperL     KeySym = 0xffeb
	KeySuperR     KeySym = 0xffec
	KeyHyperL     KeySym = 0xffed
	KeyHyperR     KeySym = 0xffee
	KeyISOLock    KeySym = 0xfe01
	KeyISOLevel3  KeySym = 0xfe03
	KeyISOLevel5L KeySym = 0xfe13

	KeySpace KeySym = 0x20
	KeyA     KeySym = 0x61
	KeyC     KeySym = 0x63
	KeyV     KeySym = 0x76
	KeyX     KeySym = 0x78
	KeyZ     KeySym = 0x7a
)

// IsModifierKey reports whether the keysym only changes modifier state.
// Such keys never produce text even when the platform reports characters.
func (k KeySym) IsModifierKey() bool {
	return (k >= KeyShiftL && k <= KeyHyperR) ||
		(k >= KeyISOLock && k <= KeyISOLevel5L) ||
		k == KeyModeSwitch ||
		k == KeyNumLock
}

// Modifiers is the set of active keyboard modifiers
type Modifiers uint8

const (
	ModCapsLock Modifiers = 1 << iota
	ModShift
	ModControl
	ModAlt
	ModLogo
	ModNumLock
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModCapsLock, "capslock"},
	{ModShift, "shift"},
	{ModControl, "ctrl"},
	{ModAlt, "alt"},
	{ModLogo, "logo"},
	{ModNumLock, "numlock"},
}

// Has reports whether all modifiers in m2 are set
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// With returns m with m2 added
func (m Modifiers) With(m2 Modifiers) Modifiers {
	return m | m2
}

// Without returns m with m2 removed
func (m Modifiers) Without(m2 Modifiers) Modifiers {
	return m &^ m2
}

// Shortcut strips lock modifiers, leaving the set that matters for shortcuts
func (m Modifiers) Shortcut() Modifiers {
	return m.Without(ModCapsLock | ModNumLock)
}

func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, n := range modifierNames {
		if m.Has(n.mod) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseModifiers parses a "ctrl+shift" style list. Unknown names are ignored.
func ParseModifiers(s string) Modifiers {
	var m Modifiers
	for _, part := range strings.Split(strings.ToLower(s), "+") {
		part = strings.TrimSpace(part)
		for _, n := range modifierNames {
			if n.name == part {
				m |= n.mod
			}
		}
		switch part {
		case "control":
			m |= ModControl
		case "super", "meta":
			m |= ModLogo
		}
	}
	return m
}
