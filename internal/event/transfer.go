package event

import (
	"fmt"
	"strings"

	"github.com/bnema/desktopkit/internal/geometry"
)

// DataSource selects one of the transfer channels
type DataSource uint8

const (
	SourceClipboard DataSource = iota
	SourcePrimarySelection
	SourceDragAndDrop
)

// DataSources lists every source
var DataSources = []DataSource{SourceClipboard, SourcePrimarySelection, SourceDragAndDrop}

func (d DataSource) String() string {
	switch d {
	case SourceClipboard:
		return "clipboard"
	case SourcePrimarySelection:
		return "primary-selection"
	case SourceDragAndDrop:
		return "drag-and-drop"
	default:
		return fmt.Sprintf("source(%d)", uint8(d))
	}
}

// Common mime types
const (
	MimeTextPlain = "text/plain;charset=utf-8"
	MimeText      = "text/plain"
	MimeURIList   = "text/uri-list"
	MimePNG       = "image/png"
)

// DataTransferContent is transferred data in one mime type
type DataTransferContent struct {
	MimeType string
	Data     []byte
}

func (c DataTransferContent) String() string {
	return fmt.Sprintf("%s (%d bytes)", c.MimeType, len(c.Data))
}

// DragAction is the effect of a drop
type DragAction uint8

const (
	ActionCopy DragAction = 1 << iota
	ActionMove
)

func (a DragAction) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionMove:
		return "move"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// ActionPtr is a helper for optional action fields
func ActionPtr(a DragAction) *DragAction {
	return &a
}

// DragActions is a set of actions
type DragActions uint8

// ActionsOf builds a set
func ActionsOf(actions ...DragAction) DragActions {
	var s DragActions
	for _, a := range actions {
		s |= DragActions(a)
	}
	return s
}

// Has reports membership
func (s DragActions) Has(a DragAction) bool {
	return s&DragActions(a) != 0
}

// List returns the members in copy, move order
func (s DragActions) List() []DragAction {
	var out []DragAction
	for _, a := range []DragAction{ActionCopy, ActionMove} {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s DragActions) String() string {
	var parts []string
	for _, a := range s.List() {
		parts = append(parts, a.String())
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// SupportedActionsForMime is a drop target's answer for one mime type
type SupportedActionsForMime struct {
	MimeType  string
	Supported DragActions
	Preferred *DragAction
}

// DragAndDropQueryData asks a window what it would accept at a location
type DragAndDropQueryData struct {
	WindowID         WindowID
	LocationInWindow geometry.LogicalPoint
}

// DragAndDropQueryResponse lists acceptable mime types in preference order
type DragAndDropQueryResponse struct {
	SupportedActionsPerMime []SupportedActionsForMime
}

// DragIconParams describes the icon shown under the cursor while dragging
type DragIconParams struct {
	Size          geometry.LogicalSize
	RenderingMode RenderingMode
}
