package native

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/transfer"
)

var (
	// ErrNoDataProvider is queued when the application offered data but
	// registered no GetDataTransferData callback
	ErrNoDataProvider = errors.New("no data transfer provider registered")
	// ErrDragInProgress is returned when a drag starts while another runs
	ErrDragInProgress = errors.New("drag and drop already in progress")
)

// selection is the current owner of a data source. Data is only kept for
// selections owned by another client.
type selection struct {
	own       bool
	mimeTypes []string
	data      map[string][]byte
}

type dragSession struct {
	own         bool
	source      event.WindowID
	mimeTypes   []string
	actions     event.DragActions
	data        map[string][]byte
	target      event.WindowID
	hovering    bool
	negotiation *transfer.Negotiation
}

// ClipboardPut implements Backend
func (h *Headless) ClipboardPut(mimeTypes []string) error {
	return h.put(event.SourceClipboard, mimeTypes)
}

// PrimarySelectionPut implements Backend
func (h *Headless) PrimarySelectionPut(mimeTypes []string) error {
	return h.put(event.SourcePrimarySelection, mimeTypes)
}

// ClipboardPaste implements Backend
func (h *Headless) ClipboardPaste(serial int32, mimeTypes []string) error {
	return h.paste(event.SourceClipboard, serial, mimeTypes)
}

// PrimarySelectionPaste implements Backend
func (h *Headless) PrimarySelectionPaste(serial int32, mimeTypes []string) error {
	return h.paste(event.SourcePrimarySelection, serial, mimeTypes)
}

func (h *Headless) put(source event.DataSource, mimeTypes []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkLocked(); err != nil {
		return err
	}
	h.selections[source] = &selection{own: true, mimeTypes: slices.Clone(mimeTypes)}
	h.emitLocked(event.DataTransferAvailable{Source: source, MimeTypes: slices.Clone(mimeTypes)})
	return nil
}

// paste answers asynchronously with exactly one DataTransfer carrying serial.
// The first requested mime type that is currently offered wins.
func (h *Headless) paste(source event.DataSource, serial int32, mimeTypes []string) error {
	h.mu.Lock()
	if err := h.checkLocked(); err != nil {
		h.mu.Unlock()
		return err
	}
	ignore := h.opts.IgnorePastes
	h.mu.Unlock()
	if ignore {
		return nil
	}

	requested := slices.Clone(mimeTypes)
	h.do(func() {
		h.mu.Lock()
		sel := h.selections[source]
		cb := h.callbacks.GetDataTransferData
		h.mu.Unlock()

		answer := event.DataTransfer{Serial: serial}
		if sel != nil {
			if mt, ok := transfer.MatchPaste(requested, sel.mimeTypes); ok {
				data, ok := h.selectionData(source, sel, mt, cb)
				if ok {
					answer.Content = &event.DataTransferContent{MimeType: mt, Data: data}
				}
			}
		}
		h.emit(answer)
	})
	return nil
}

func (h *Headless) selectionData(source event.DataSource, sel *selection, mimeType string, cb func(event.DataSource, string) []byte) ([]byte, bool) {
	if !sel.own {
		data, ok := sel.data[mimeType]
		return slices.Clone(data), ok
	}
	if cb == nil {
		h.errs.Push(fmt.Errorf("%w: %s %s", ErrNoDataProvider, source, mimeType))
		return nil, false
	}
	data := cb(source, mimeType)
	return data, data != nil
}

// SetSelection simulates another client taking over source. If this
// application owned it, it is told its offer was cancelled.
func (h *Headless) SetSelection(source event.DataSource, contents ...event.DataTransferContent) {
	h.do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if prev := h.selections[source]; prev != nil && prev.own {
			h.emitLocked(event.DataTransferCancelled{Source: source})
		}
		sel := &selection{data: make(map[string][]byte)}
		for _, c := range contents {
			if _, dup := sel.data[c.MimeType]; dup {
				continue
			}
			sel.mimeTypes = append(sel.mimeTypes, c.MimeType)
			sel.data[c.MimeType] = slices.Clone(c.Data)
		}
		h.selections[source] = sel
		h.emitLocked(event.DataTransferAvailable{Source: source, MimeTypes: slices.Clone(sel.mimeTypes)})
	})
}

// ClearSelection simulates the selection owner going away
func (h *Headless) ClearSelection(source event.DataSource) {
	h.do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if prev := h.selections[source]; prev != nil && prev.own {
			h.emitLocked(event.DataTransferCancelled{Source: source})
		}
		delete(h.selections, source)
		h.emitLocked(event.DataTransferAvailable{Source: source})
	})
}

// StartDragAndDrop implements Backend
func (h *Headless) StartDragAndDrop(params DragAndDropParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.windowLocked(params.WindowID); err != nil {
		return err
	}
	if h.drag != nil {
		return ErrDragInProgress
	}
	h.drag = &dragSession{
		own:       true,
		source:    params.WindowID,
		mimeTypes: slices.Clone(params.MimeTypes),
		actions:   params.Actions,
	}

	scale := h.primaryScreenLocked().Scale
	if scale <= 0 {
		scale = 1
	}
	h.emitLocked(event.ShouldRedrawDragIcon{})
	h.emitLocked(event.DragIconDraw{
		Size:  params.DragIconSize.ToPhysical(scale),
		Scale: scale,
	})
	return nil
}

// BeginExternalDrag simulates another client starting a drag
func (h *Headless) BeginExternalDrag(actions event.DragActions, contents ...event.DataTransferContent) {
	h.do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		d := &dragSession{actions: actions, data: make(map[string][]byte)}
		for _, c := range contents {
			if _, dup := d.data[c.MimeType]; dup {
				continue
			}
			d.mimeTypes = append(d.mimeTypes, c.MimeType)
			d.data[c.MimeType] = slices.Clone(c.Data)
		}
		h.drag = d
	})
}

// DragOver moves the current drag over a window. The window is asked what it
// accepts at the location and the result is negotiated against the source.
func (h *Headless) DragOver(target event.WindowID, at geometry.LogicalPoint) {
	h.do(func() {
		h.mu.Lock()
		d := h.drag
		_, known := h.windows[target]
		query := h.callbacks.QueryDragAndDropTarget
		if d == nil || !known {
			h.mu.Unlock()
			return
		}
		if d.hovering && d.target != target {
			h.emitLocked(event.DragAndDropLeave{WindowID: d.target})
		}
		d.target = target
		d.hovering = true
		offered, allowed := slices.Clone(d.mimeTypes), d.actions
		h.mu.Unlock()

		var resp event.DragAndDropQueryResponse
		if query != nil {
			resp = query(event.DragAndDropQueryData{WindowID: target, LocationInWindow: at})
		}
		n, ok := transfer.Negotiate(resp, offered, allowed)

		h.mu.Lock()
		if h.drag == d {
			d.negotiation = nil
			if ok {
				d.negotiation = &n
			}
		}
		h.mu.Unlock()
	})
}

// DropTarget implements Backend
func (h *Headless) DropTarget() (event.WindowID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d := h.drag; d != nil && d.hovering {
		return d.target, true
	}
	return 0, false
}

// LeaveDrag moves the drag off its current target
func (h *Headless) LeaveDrag() {
	h.do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if d := h.drag; d != nil && d.hovering {
			h.emitLocked(event.DragAndDropLeave{WindowID: d.target})
			d.hovering = false
			d.negotiation = nil
		}
	})
}

// Drop releases the drag. An accepted drop delivers its payload to the target;
// otherwise the target sees the drag leave. A drag started by this application
// always ends with DragAndDropFinished.
func (h *Headless) Drop() {
	h.do(func() {
		h.mu.Lock()
		d := h.drag
		h.drag = nil
		cb := h.callbacks.GetDataTransferData
		h.mu.Unlock()
		if d == nil {
			return
		}

		var action *event.DragAction
		if d.hovering && d.negotiation != nil {
			n := *d.negotiation
			var data []byte
			if d.own {
				if cb != nil {
					data = cb(event.SourceDragAndDrop, n.MimeType)
				} else {
					h.errs.Push(fmt.Errorf("%w: drag %s", ErrNoDataProvider, n.MimeType))
				}
			} else {
				data = slices.Clone(d.data[n.MimeType])
			}
			action = event.ActionPtr(n.Action)
			h.emit(event.DropPerformed{
				WindowID: d.target,
				Content:  &event.DataTransferContent{MimeType: n.MimeType, Data: data},
				Action:   event.ActionPtr(n.Action),
			})
		} else if d.hovering {
			h.emit(event.DragAndDropLeave{WindowID: d.target})
		}

		if d.own {
			h.mu.Lock()
			_, alive := h.windows[d.source]
			h.mu.Unlock()
			if alive {
				h.emit(event.DragAndDropFinished{WindowID: d.source, Action: action})
			}
		}
	})
}

// CancelDrag aborts the drag, as when the user presses Escape
func (h *Headless) CancelDrag() {
	h.do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		d := h.drag
		h.drag = nil
		if d == nil {
			return
		}
		if d.hovering {
			h.emitLocked(event.DragAndDropLeave{WindowID: d.target})
		}
		if _, alive := h.windows[d.source]; d.own && alive {
			h.emitLocked(event.DragAndDropFinished{WindowID: d.source})
		}
	})
}
