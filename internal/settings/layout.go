// Package settings keeps the desktop preferences an application reacts to:
// titlebar layout, click actions, double click timing, cursor and font hints.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/desktopkit/internal/event"
)

// ErrInvalidLayout is returned for titlebar layouts that cannot be parsed
var ErrInvalidLayout = errors.New("invalid titlebar layout")

// Button is one element of a titlebar layout
type Button uint8

const (
	ButtonAppMenu Button = iota
	ButtonIcon
	ButtonSpacer
	ButtonTitle
	ButtonMinimize
	ButtonMaximize
	ButtonClose
)

var buttonNames = [...]string{"appmenu", "icon", "spacer", "title", "minimize", "maximize", "close"}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return fmt.Sprintf("button(%d)", uint8(b))
}

// ParseButton accepts the GTK button names. "menu" is an alias of "appmenu".
func ParseButton(name string) (Button, error) {
	switch strings.TrimSpace(name) {
	case "appmenu", "menu":
		return ButtonAppMenu, nil
	case "icon":
		return ButtonIcon, nil
	case "spacer":
		return ButtonSpacer, nil
	case "minimize":
		return ButtonMinimize, nil
	case "maximize":
		return ButtonMaximize, nil
	case "close":
		return ButtonClose, nil
	default:
		return 0, fmt.Errorf("%w: unknown button %q", ErrInvalidLayout, name)
	}
}

// TitlebarLayout lists the buttons on each side of the title
type TitlebarLayout struct {
	Left  []Button
	Right []Button
}

// DefaultTitlebarLayout is used until the desktop announces its own
var DefaultTitlebarLayout = TitlebarLayout{
	Left:  []Button{ButtonIcon},
	Right: []Button{ButtonMinimize, ButtonMaximize, ButtonClose},
}

// ParseTitlebarLayout parses a "left:right" list such as
// "icon:minimize,maximize,close". Either side may be empty.
func ParseTitlebarLayout(s string) (TitlebarLayout, error) {
	left, right, ok := strings.Cut(s, ":")
	if !ok {
		return TitlebarLayout{}, fmt.Errorf("%w: missing ':' in %q", ErrInvalidLayout, s)
	}
	l, err := parseSide(left)
	if err != nil {
		return TitlebarLayout{}, err
	}
	r, err := parseSide(right)
	if err != nil {
		return TitlebarLayout{}, err
	}
	return TitlebarLayout{Left: l, Right: r}, nil
}

func parseSide(s string) ([]Button, error) {
	if s == "" {
		return nil, nil
	}
	var out []Button
	for _, name := range strings.Split(s, ",") {
		b, err := ParseButton(name)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Filter drops the buttons whose action the compositor does not allow
func (l TitlebarLayout) Filter(caps event.WindowCapabilities) TitlebarLayout {
	keep := func(buttons []Button) []Button {
		var out []Button
		for _, b := range buttons {
			switch {
			case b == ButtonMinimize && !caps.Minimize:
			case b == ButtonMaximize && !caps.Maximize:
			default:
				out = append(out, b)
			}
		}
		return out
	}
	return TitlebarLayout{Left: keep(l.Left), Right: keep(l.Right)}
}

func (l TitlebarLayout) String() string {
	join := func(buttons []Button) string {
		names := make([]string, len(buttons))
		for i, b := range buttons {
			names[i] = b.String()
		}
		return strings.Join(names, ",")
	}
	return join(l.Left) + ":" + join(l.Right)
}
