package window

import (
	"fmt"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/settings"
)

const (
	DefaultTitlebarHeight geometry.LogicalPixels = 55
	DefaultBorderSize     geometry.LogicalPixels = 5
)

// ChromeConfig sizes client side decorations
type ChromeConfig struct {
	TitlebarHeight geometry.LogicalPixels
	BorderSize     geometry.LogicalPixels
	// ButtonSize defaults to the titlebar height
	ButtonSize geometry.LogicalPixels
}

// DefaultChromeConfig returns the built-in decoration sizes
func DefaultChromeConfig() ChromeConfig {
	return ChromeConfig{TitlebarHeight: DefaultTitlebarHeight, BorderSize: DefaultBorderSize}
}

func (c ChromeConfig) buttonSize() geometry.LogicalPixels {
	if c.ButtonSize > 0 {
		return c.ButtonSize
	}
	return c.TitlebarHeight
}

// RegionKind says what a chrome region does
type RegionKind uint8

const (
	RegionResize RegionKind = iota
	RegionButton
	RegionTitle
)

func (k RegionKind) String() string {
	switch k {
	case RegionResize:
		return "resize"
	case RegionButton:
		return "button"
	case RegionTitle:
		return "title"
	default:
		return fmt.Sprintf("region(%d)", uint8(k))
	}
}

// Region is one interactive area of the window chrome
type Region struct {
	Kind RegionKind
	Rect geometry.LogicalRect
	// Edge is set for resize regions
	Edge event.ResizeEdge
	// Button is set for button regions
	Button settings.Button
}

// Chrome is the decoration layout for one configure
type Chrome struct {
	Regions []Region
	// Content is the area left for the application
	Content geometry.LogicalRect
	// Titlebar is empty when the compositor draws decorations
	Titlebar geometry.LogicalRect
}

// Layout computes the chrome for a window. Windows with server side
// decorations, and fullscreen windows, get no regions at all.
func Layout(cfg ChromeConfig, s State, layout settings.TitlebarLayout) Chrome {
	w, h := s.Size.Width, s.Size.Height
	if s.Decoration != event.DecorationClient || s.Mode == ModeFullscreen {
		return Chrome{Content: geometry.Rect(0, 0, w, h)}
	}

	var regions []Region
	// borders first so corners win over the titlebar
	b := cfg.BorderSize
	if b > 0 && s.Mode != ModeMaximized {
		regions = append(regions,
			Region{Kind: RegionResize, Edge: event.EdgeTopLeft, Rect: geometry.Rect(0, 0, b, b)},
			Region{Kind: RegionResize, Edge: event.EdgeTopRight, Rect: geometry.Rect(w-b, 0, b, b)},
			Region{Kind: RegionResize, Edge: event.EdgeBottomLeft, Rect: geometry.Rect(0, h-b, b, b)},
			Region{Kind: RegionResize, Edge: event.EdgeBottomRight, Rect: geometry.Rect(w-b, h-b, b, b)},
			Region{Kind: RegionResize, Edge: event.EdgeLeft, Rect: geometry.Rect(0, 0, b, h)},
			Region{Kind: RegionResize, Edge: event.EdgeRight, Rect: geometry.Rect(w-b, 0, b, h)},
			Region{Kind: RegionResize, Edge: event.EdgeTop, Rect: geometry.Rect(0, 0, w, b)},
			Region{Kind: RegionResize, Edge: event.EdgeBottom, Rect: geometry.Rect(0, h-b, w, b)},
		)
	}

	th := cfg.TitlebarHeight
	bs := cfg.buttonSize()
	layout = layout.Filter(s.Capabilities)
	for i, btn := range layout.Left {
		regions = append(regions, Region{
			Kind:   RegionButton,
			Button: btn,
			Rect:   geometry.Rect(float64(i)*bs, 0, bs, th),
		})
	}
	for i, btn := range layout.Right {
		regions = append(regions, Region{
			Kind:   RegionButton,
			Button: btn,
			Rect:   geometry.Rect(w-float64(len(layout.Right)-i)*bs, 0, bs, th),
		})
	}
	left := float64(len(layout.Left)) * bs
	right := float64(len(layout.Right)) * bs
	regions = append(regions, Region{
		Kind: RegionTitle,
		Rect: geometry.Rect(left, 0, max(0, w-left-right), th),
	})

	return Chrome{
		Regions:  regions,
		Titlebar: geometry.Rect(0, 0, w, th),
		Content:  geometry.Rect(0, th, w, max(0, h-th)),
	}
}

// HitTest returns the first region strictly containing p
func (c Chrome) HitTest(p geometry.LogicalPoint) (Region, bool) {
	for _, r := range c.Regions {
		if r.Rect.Contains(p) {
			return r, true
		}
	}
	return Region{}, false
}
