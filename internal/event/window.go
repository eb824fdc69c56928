package event

import (
	"fmt"

	"github.com/bnema/desktopkit/internal/geometry"
)

// WindowCapabilities are the window-chrome affordances the compositor currently
// allows. The latest configure event is authoritative.
type WindowCapabilities struct {
	WindowMenu bool
	Maximize   bool
	Fullscreen bool
	Minimize   bool
}

// AllCapabilities is what a compositor without restrictions reports
var AllCapabilities = WindowCapabilities{WindowMenu: true, Maximize: true, Fullscreen: true, Minimize: true}

// DecorationMode says who paints the window chrome
type DecorationMode uint8

const (
	// DecorationClient means the application draws its own title bar and borders
	DecorationClient DecorationMode = iota
	// DecorationServer means the compositor draws decorations
	DecorationServer
)

func (d DecorationMode) String() string {
	switch d {
	case DecorationClient:
		return "client"
	case DecorationServer:
		return "server"
	default:
		return fmt.Sprintf("decoration(%d)", uint8(d))
	}
}

// DrawData identifies the surface the application renders into
type DrawData struct {
	Framebuffer uint32
}

// ResizeEdge is the edge or corner dragged during an interactive resize
type ResizeEdge uint8

const (
	EdgeTop ResizeEdge = iota
	EdgeBottom
	EdgeLeft
	EdgeTopLeft
	EdgeBottomLeft
	EdgeRight
	EdgeTopRight
	EdgeBottomRight
)

var edgeNames = [...]string{"top", "bottom", "left", "top-left", "bottom-left", "right", "top-right", "bottom-right"}

func (e ResizeEdge) String() string {
	if int(e) < len(edgeNames) {
		return edgeNames[e]
	}
	return fmt.Sprintf("edge(%d)", uint8(e))
}

// PointerShape returns the cursor shown while hovering the edge
func (e ResizeEdge) PointerShape() PointerShape {
	switch e {
	case EdgeTop:
		return PointerNResize
	case EdgeBottom:
		return PointerSResize
	case EdgeLeft:
		return PointerWResize
	case EdgeTopLeft:
		return PointerNWResize
	case EdgeBottomLeft:
		return PointerSWResize
	case EdgeRight:
		return PointerEResize
	case EdgeTopRight:
		return PointerNEResize
	default:
		return PointerSEResize
	}
}

// PointerShape is a named cursor
type PointerShape uint8

const (
	PointerDefault PointerShape = iota
	PointerHidden
	PointerText
	PointerPointer
	PointerGrab
	PointerGrabbing
	PointerNResize
	PointerSResize
	PointerWResize
	PointerEResize
	PointerNWResize
	PointerNEResize
	PointerSWResize
	PointerSEResize
)

// RenderingMode selects the surface backend for a window
type RenderingMode uint8

const (
	RenderingAuto RenderingMode = iota
	RenderingSoftware
	RenderingEGL
)

// ParseRenderingMode accepts "auto", "software" and "egl"
func ParseRenderingMode(s string) (RenderingMode, error) {
	switch s {
	case "", "auto":
		return RenderingAuto, nil
	case "software":
		return RenderingSoftware, nil
	case "egl":
		return RenderingEGL, nil
	default:
		return RenderingAuto, fmt.Errorf("unknown rendering mode %q", s)
	}
}

// WindowParams describes a window to create
type WindowParams struct {
	WindowID                   WindowID
	AppID                      string
	Title                      string
	Size                       geometry.LogicalSize
	MinSize                    geometry.LogicalSize
	PreferClientSideDecoration bool
	RenderingMode              RenderingMode
}
