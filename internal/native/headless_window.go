package native

import (
	"fmt"
	"slices"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/logger"
)

var defaultWindowSize = geometry.LogicalSize{Width: 800, Height: 600}

func (h *Headless) configureLocked(id event.WindowID, w *headlessWindow) {
	h.emitLocked(event.WindowConfigure{
		WindowID:       id,
		Size:           w.size,
		Active:         w.active,
		Maximized:      w.maximized,
		Fullscreen:     w.fullscreen,
		DecorationMode: w.decoration,
		Capabilities:   w.caps,
	})
}

func (h *Headless) drawLocked(id event.WindowID, w *headlessWindow) {
	scale := h.scaleOfLocked(w.screen)
	h.emitLocked(event.WindowDraw{
		WindowID: id,
		DrawData: event.DrawData{Framebuffer: uint32(id)},
		Size:     w.size.ToPhysical(scale),
		Scale:    scale,
	})
}

func (h *Headless) scaleOfLocked(id event.ScreenID) float64 {
	for _, s := range h.screens {
		if s.ID == id && s.Scale > 0 {
			return s.Scale
		}
	}
	return 1
}

// CreateWindow implements Backend. The new window is configured, placed on the
// primary screen and asked to draw.
func (h *Headless) CreateWindow(params event.WindowParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkLocked(); err != nil {
		return err
	}
	if _, ok := h.windows[params.WindowID]; ok {
		return fmt.Errorf("window %d already exists", params.WindowID)
	}
	if err := params.Size.Validate(); err != nil {
		return fmt.Errorf("invalid window size: %w", err)
	}

	size := params.Size
	if size.Width == 0 || size.Height == 0 {
		size = defaultWindowSize
	}
	caps := event.AllCapabilities
	if h.opts.Capabilities != nil {
		caps = *h.opts.Capabilities
	}
	decoration := event.DecorationServer
	if params.PreferClientSideDecoration || h.opts.ClientDecorations {
		decoration = event.DecorationClient
	}

	for otherID, other := range h.windows {
		if other.active {
			other.active = false
			h.emitLocked(event.WindowFocusChange{WindowID: otherID, Focused: false})
		}
	}
	w := &headlessWindow{
		params:     params,
		title:      params.Title,
		size:       size,
		minSize:    params.MinSize,
		active:     true,
		decoration: decoration,
		caps:       caps,
		screen:     h.primaryScreenLocked().ID,
	}
	h.windows[params.WindowID] = w

	logger.Debug("Headless window created", "window", params.WindowID, "decoration", decoration)
	h.configureLocked(params.WindowID, w)
	h.emitLocked(event.WindowScreenChange{WindowID: params.WindowID, NewScreenID: w.screen})
	h.emitLocked(event.WindowFocusChange{WindowID: params.WindowID, Focused: true})
	h.drawLocked(params.WindowID, w)
	return nil
}

// CloseWindow implements Backend
func (h *Headless) CloseWindow(id event.WindowID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.windowLocked(id); err != nil {
		return err
	}
	delete(h.windows, id)
	if h.drag != nil && h.drag.target == id {
		h.drag.target = 0
		h.drag.hovering = false
	}
	h.emitLocked(event.WindowClosed{WindowID: id})
	return nil
}

// SetTitle implements Backend
func (h *Headless) SetTitle(id event.WindowID, title string) error {
	return h.update(id, false, func(w *headlessWindow) { w.title = title })
}

// SetMinSize implements Backend
func (h *Headless) SetMinSize(id event.WindowID, size geometry.LogicalSize) error {
	if err := size.Validate(); err != nil {
		return err
	}
	return h.update(id, false, func(w *headlessWindow) { w.minSize = size })
}

// SetMaxSize implements Backend
func (h *Headless) SetMaxSize(id event.WindowID, size geometry.LogicalSize) error {
	if err := size.Validate(); err != nil {
		return err
	}
	return h.update(id, false, func(w *headlessWindow) { w.maxSize = size })
}

// WindowSize implements Backend
func (h *Headless) WindowSize(id event.WindowID) (geometry.LogicalSize, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, err := h.windowLocked(id)
	if err != nil {
		return geometry.LogicalSize{}, err
	}
	return w.size, nil
}

// SetFullscreen implements Backend
func (h *Headless) SetFullscreen(id event.WindowID) error {
	return h.update(id, true, func(w *headlessWindow) {
		if w.fullscreen {
			return
		}
		if !w.maximized {
			w.restoreSize = w.size
		}
		w.fullscreen = true
		w.size = h.screenSizeLocked(w.screen)
	})
}

// UnsetFullscreen implements Backend
func (h *Headless) UnsetFullscreen(id event.WindowID) error {
	return h.update(id, true, func(w *headlessWindow) {
		if !w.fullscreen {
			return
		}
		w.fullscreen = false
		if w.maximized {
			w.size = h.screenSizeLocked(w.screen)
		} else {
			w.size = w.restoreSize
		}
	})
}

// Maximize implements Backend
func (h *Headless) Maximize(id event.WindowID) error {
	return h.update(id, true, func(w *headlessWindow) {
		if w.maximized {
			return
		}
		if !w.fullscreen {
			w.restoreSize = w.size
			w.size = h.screenSizeLocked(w.screen)
		}
		w.maximized = true
	})
}

// Unmaximize implements Backend
func (h *Headless) Unmaximize(id event.WindowID) error {
	return h.update(id, true, func(w *headlessWindow) {
		if !w.maximized {
			return
		}
		w.maximized = false
		if !w.fullscreen {
			w.size = w.restoreSize
		}
	})
}

// Minimize implements Backend
func (h *Headless) Minimize(id event.WindowID) error {
	return h.update(id, true, func(w *headlessWindow) {
		w.minimized = true
		w.active = false
	})
}

// StartMove implements Backend
func (h *Headless) StartMove(id event.WindowID) error {
	return h.update(id, false, func(w *headlessWindow) { w.moves++ })
}

// StartResize implements Backend
func (h *Headless) StartResize(id event.WindowID, edge event.ResizeEdge) error {
	return h.update(id, false, func(w *headlessWindow) { w.resizes = append(w.resizes, edge) })
}

// ShowMenu implements Backend
func (h *Headless) ShowMenu(id event.WindowID, at geometry.LogicalPoint) error {
	return h.update(id, false, func(w *headlessWindow) { w.menus = append(w.menus, at) })
}

// SetPointerShape implements Backend
func (h *Headless) SetPointerShape(id event.WindowID, shape event.PointerShape) error {
	return h.update(id, false, func(w *headlessWindow) {
		w.pointer = shape
		w.pointerSets++
	})
}

// update applies f to a window and, when reconfigure is set, announces the
// new state with a configure and a redraw
func (h *Headless) update(id event.WindowID, reconfigure bool, f func(*headlessWindow)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, err := h.windowLocked(id)
	if err != nil {
		return err
	}
	f(w)
	if reconfigure {
		h.configureLocked(id, w)
		h.drawLocked(id, w)
	}
	return nil
}

func (h *Headless) screenSizeLocked(id event.ScreenID) geometry.LogicalSize {
	for _, s := range h.screens {
		if s.ID == id {
			return s.Size
		}
	}
	return h.primaryScreenLocked().Size
}

// Window returns the toolkit side state of a window
func (h *Headless) Window(id event.WindowID) (WindowSnapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.windows[id]
	if !ok {
		return WindowSnapshot{}, false
	}
	snap := WindowSnapshot{
		Title:       w.title,
		Size:        w.size,
		MinSize:     w.minSize,
		MaxSize:     w.maxSize,
		Active:      w.active,
		Maximized:   w.maximized,
		Fullscreen:  w.fullscreen,
		Minimized:   w.minimized,
		Decoration:  w.decoration,
		Pointer:     w.pointer,
		PointerSets: w.pointerSets,
		Moves:       w.moves,
		Resizes:     slices.Clone(w.resizes),
		Menus:       slices.Clone(w.menus),
	}
	if w.textInput != nil {
		ctx := *w.textInput
		snap.TextInput = &ctx
	}
	return snap, true
}

// Reconfigure simulates a compositor-driven change, such as switching between
// client and server side decorations or changing capabilities
func (h *Headless) Reconfigure(id event.WindowID, decoration event.DecorationMode, caps event.WindowCapabilities) {
	h.do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		w, ok := h.windows[id]
		if !ok {
			return
		}
		w.decoration = decoration
		w.caps = caps
		h.configureLocked(id, w)
	})
}

// Resize simulates an interactive resize finishing at size
func (h *Headless) Resize(id event.WindowID, size geometry.LogicalSize) {
	h.do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		w, ok := h.windows[id]
		if !ok {
			return
		}
		w.size = size
		h.configureLocked(id, w)
		h.drawLocked(id, w)
	})
}

// RequestClose simulates the user clicking the compositor's close button
func (h *Headless) RequestClose(id event.WindowID) {
	h.Inject(event.WindowCloseRequest{WindowID: id})
}
