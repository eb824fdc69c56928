package transfer

import (
	"slices"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
)

// DropPolicy decides what a window accepts while a drag hovers it. Query is a
// pure function of the policy so the toolkit may ask as often as it likes.
type DropPolicy struct {
	// MimeTypes are accepted in preference order
	MimeTypes []string
	Actions   event.DragActions
	Preferred *event.DragAction
	// Regions restricts drops to an area per window. Windows without an entry
	// accept drops anywhere.
	Regions map[event.WindowID]geometry.LogicalRect
}

// Query answers a drag-and-drop target query
func (p DropPolicy) Query(q event.DragAndDropQueryData) event.DragAndDropQueryResponse {
	if r, ok := p.Regions[q.WindowID]; ok && !r.Contains(q.LocationInWindow) {
		return event.DragAndDropQueryResponse{}
	}
	if p.Actions == 0 {
		return event.DragAndDropQueryResponse{}
	}

	resp := event.DragAndDropQueryResponse{
		SupportedActionsPerMime: make([]event.SupportedActionsForMime, 0, len(p.MimeTypes)),
	}
	for _, mt := range p.MimeTypes {
		entry := event.SupportedActionsForMime{MimeType: mt, Supported: p.Actions}
		if p.Preferred != nil {
			pref := *p.Preferred
			entry.Preferred = &pref
		}
		resp.SupportedActionsPerMime = append(resp.SupportedActionsPerMime, entry)
	}
	return resp
}

// Negotiation is the outcome of matching a drop target with a drag source
type Negotiation struct {
	MimeType string
	Action   event.DragAction
}

// Negotiate picks the mime type and action for a drop. The first response
// entry whose mime type the source offers and that shares an action with the
// source wins. Its preferred action is used when the source allows it,
// otherwise the first allowed action the target supports.
func Negotiate(resp event.DragAndDropQueryResponse, offered []string, allowed event.DragActions) (Negotiation, bool) {
	for _, entry := range resp.SupportedActionsPerMime {
		if !slices.Contains(offered, entry.MimeType) {
			continue
		}
		common := entry.Supported & allowed
		if common == 0 {
			continue
		}
		if entry.Preferred != nil && common.Has(*entry.Preferred) {
			return Negotiation{MimeType: entry.MimeType, Action: *entry.Preferred}, true
		}
		return Negotiation{MimeType: entry.MimeType, Action: common.List()[0]}, true
	}
	return Negotiation{}, false
}

// MatchPaste returns the first requested mime type present in offered, the
// order a reader lists its preferences in.
func MatchPaste(requested, offered []string) (string, bool) {
	for _, mt := range requested {
		if slices.Contains(offered, mt) {
			return mt, true
		}
	}
	return "", false
}
