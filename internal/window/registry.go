package window

import (
	"fmt"
	"slices"
	"sync"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/settings"
)

// Window is a snapshot of a registered window
type Window struct {
	State
	Chrome Chrome
}

// Registry owns the state of every live window
type Registry struct {
	mu      sync.Mutex
	windows map[event.WindowID]*Window
	chrome  ChromeConfig
	layout  settings.TitlebarLayout
}

// NewRegistry creates an empty registry
func NewRegistry(cfg ChromeConfig) *Registry {
	return &Registry{
		windows: make(map[event.WindowID]*Window),
		chrome:  cfg,
		layout:  settings.DefaultTitlebarLayout,
	}
}

// Create registers a window before it is created in the toolkit
func (r *Registry) Create(params event.WindowParams) error {
	if err := params.Size.Validate(); err != nil {
		return fmt.Errorf("invalid window size: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.windows[params.WindowID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateWindow, params.WindowID)
	}
	r.windows[params.WindowID] = &Window{State: newState(params)}
	return nil
}

// Forget drops a window whose creation failed in the toolkit
func (r *Registry) Forget(id event.WindowID) {
	r.mu.Lock()
	delete(r.windows, id)
	r.mu.Unlock()
}

// BeginClose marks the window as closing. Events keep arriving until
// WindowClosed.
func (r *Registry) BeginClose(id event.WindowID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, err := r.liveLocked(id)
	if err != nil {
		return err
	}
	if w.Phase == PhaseClosing {
		return fmt.Errorf("%w: %d is already closing", ErrWindowClosed, id)
	}
	w.Phase = PhaseClosing
	return nil
}

// Check returns ErrWindowClosed unless the window is live
func (r *Registry) Check(id event.WindowID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.liveLocked(id)
	return err
}

func (r *Registry) liveLocked(id event.WindowID) (*Window, error) {
	w, ok := r.windows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrWindowClosed, id)
	}
	return w, nil
}

// Apply feeds a window event to its window. WindowClosed removes the window
// once applied.
func (r *Registry) Apply(e event.WindowEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := r.liveLocked(e.Window())
	if err != nil {
		return err
	}
	if w.Apply(e) {
		w.Chrome = Layout(r.chrome, w.State, r.layout)
		logger.Debug("Window configured", "window", w.ID, "size", w.Size, "mode", w.Mode, "decoration", w.Decoration)
	}
	if w.Phase == PhaseClosed {
		delete(r.windows, w.ID)
	}
	return nil
}

// SetTitlebarLayout re-lays out every window with the desktop's new layout
func (r *Registry) SetTitlebarLayout(layout settings.TitlebarLayout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layout = layout
	for _, w := range r.windows {
		if w.Phase != PhaseCreating {
			w.Chrome = Layout(r.chrome, w.State, layout)
		}
	}
}

// Get returns a snapshot of the window
func (r *Registry) Get(id event.WindowID) (Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return Window{}, false
	}
	snap := *w
	snap.Chrome.Regions = slices.Clone(w.Chrome.Regions)
	return snap, true
}

// IDs returns the live window ids in ascending order
func (r *Registry) IDs() []event.WindowID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]event.WindowID, 0, len(r.windows))
	for id := range r.windows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of live windows
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.windows)
}

func (r *Registry) setTitle(id event.WindowID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, err := r.liveLocked(id)
	if err != nil {
		return err
	}
	w.Title = title
	return nil
}

// swapPointer records shape and reports whether it differs from the last one
func (r *Registry) swapPointer(id event.WindowID, shape event.PointerShape) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, err := r.liveLocked(id)
	if err != nil {
		return false, err
	}
	if w.pointerSet && w.Pointer == shape {
		return false, nil
	}
	w.Pointer = shape
	w.pointerSet = true
	return true, nil
}

func (r *Registry) resetPointer(id event.WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.windows[id]; ok {
		w.pointerSet = false
	}
}
