package ui

import (
	"fmt"
	"strings"
)

// Control is a key binding and what it does
type Control struct {
	Key  string
	Desc string
}

// ControlsHelp displays keyboard controls
type ControlsHelp struct {
	Controls []Control
	Width    int
}

// View renders the controls in a box, keys aligned
func (c *ControlsHelp) View() string {
	var b strings.Builder

	b.WriteString(SubheaderStyle.Render("Controls:"))
	b.WriteString("\n\n")

	maxKeyLen := 0
	for _, ctrl := range c.Controls {
		maxKeyLen = max(maxKeyLen, len(ctrl.Key))
	}
	for _, ctrl := range c.Controls {
		key := ControlKeyStyle.Width(maxKeyLen).Render(ctrl.Key)
		b.WriteString(fmt.Sprintf("  %s  %s\n", key, ControlDescStyle.Render(ctrl.Desc)))
	}

	return BoxStyle.Width(c.Width).Render(b.String())
}

// Short renders the controls on one line for status bars
func (c *ControlsHelp) Short() string {
	parts := make([]string, len(c.Controls))
	for i, ctrl := range c.Controls {
		parts[i] = "[" + ctrl.Key + "] " + ctrl.Desc
	}
	return strings.Join(parts, " │ ")
}
