package native

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/wire"
)

// HeadlessOptions configures the simulated desktop
type HeadlessOptions struct {
	// Screens defaults to a single 1920x1080 screen at scale 1
	Screens []event.Screen
	// Settings are announced right after ApplicationStarted
	Settings []event.Setting
	// ClientDecorations forces client side decorations for every window.
	// Otherwise only windows that prefer them get them.
	ClientDecorations bool
	// Capabilities defaults to event.AllCapabilities
	Capabilities *event.WindowCapabilities
	// DenyNotifications answers every notification request with a nil id
	DenyNotifications bool
	// FileChooserAnswer is returned by file dialogs. Nil means cancelled.
	FileChooserAnswer []string
	// IgnorePastes leaves paste requests unanswered
	IgnorePastes bool
}

// Ack is one handler result reported back to the toolkit
type Ack struct {
	Kind     event.Kind
	Consumed bool
}

type record struct {
	kind event.Kind
	data []byte
}

type headlessWindow struct {
	params      event.WindowParams
	title       string
	size        geometry.LogicalSize
	restoreSize geometry.LogicalSize
	minSize     geometry.LogicalSize
	maxSize     geometry.LogicalSize
	active      bool
	maximized   bool
	fullscreen  bool
	minimized   bool
	decoration  event.DecorationMode
	caps        event.WindowCapabilities
	screen      event.ScreenID
	pointer     event.PointerShape
	pointerSets int
	moves       int
	resizes     []event.ResizeEdge
	menus       []geometry.LogicalPoint
	textInput   *event.TextInputContext
}

// WindowSnapshot is the toolkit's view of a window
type WindowSnapshot struct {
	Title       string
	Size        geometry.LogicalSize
	MinSize     geometry.LogicalSize
	MaxSize     geometry.LogicalSize
	Active      bool
	Maximized   bool
	Fullscreen  bool
	Minimized   bool
	Decoration  event.DecorationMode
	Pointer     event.PointerShape
	PointerSets int
	Moves       int
	Resizes     []event.ResizeEdge
	Menus       []geometry.LogicalPoint
	TextInput   *event.TextInputContext
}

// Headless is an in-memory toolkit. It owns windows, selections, drag sessions
// and requests, and emits wire records like a native toolkit would. Methods of
// the Backend interface run on the event loop goroutine; the simulation
// methods (Inject, Drop, SetSelection, ...) may be called from any goroutine
// and take effect on the loop.
type Headless struct {
	mu        sync.Mutex
	opts      HeadlessOptions
	records   []record
	actions   []func()
	notify    chan struct{}
	woken     bool
	stopped   bool
	shutdown  bool
	last      event.Kind
	acks      []Ack
	errs      ErrorQueue
	callbacks Callbacks

	screens       []event.Screen
	windows       map[event.WindowID]*headlessWindow
	selections    map[event.DataSource]*selection
	drag          *dragSession
	nextRequest   event.RequestID
	nextNotice    uint32
	notifications map[uint32]struct{}
	openedURLs    []string
	cursorTheme   string
	cursorSize    int32
}

var _ Backend = (*Headless)(nil)

// NewHeadless creates a toolkit that starts by announcing the application,
// the screens and the configured settings
func NewHeadless(opts HeadlessOptions) *Headless {
	screens := opts.Screens
	if len(screens) == 0 {
		name := "HEADLESS-1"
		screens = []event.Screen{{
			ID:         1,
			Name:       &name,
			Size:       geometry.LogicalSize{Width: 1920, Height: 1080},
			Scale:      1,
			Millihertz: 60000,
		}}
	}

	h := &Headless{
		opts:          opts,
		notify:        make(chan struct{}, 1),
		screens:       slices.Clone(screens),
		windows:       make(map[event.WindowID]*headlessWindow),
		selections:    make(map[event.DataSource]*selection),
		notifications: make(map[uint32]struct{}),
	}

	h.mu.Lock()
	h.emitLocked(event.ApplicationStarted{})
	h.emitLocked(event.DisplayConfigurationChange{Screens: h.allScreensLocked()})
	for _, s := range opts.Settings {
		h.emitLocked(event.XdgDesktopSettingChange{Setting: s})
	}
	h.mu.Unlock()
	return h
}

func (h *Headless) signal() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

func (h *Headless) emitLocked(e event.Event) {
	data, err := wire.Encode(e)
	if err != nil {
		h.errs.Push(fmt.Errorf("failed to encode %s: %w", e.Kind(), err))
		return
	}
	h.records = append(h.records, record{kind: e.Kind(), data: data})
	h.signal()
}

func (h *Headless) emit(e event.Event) {
	h.mu.Lock()
	h.emitLocked(e)
	h.mu.Unlock()
}

// do schedules f on the event loop
func (h *Headless) do(f func()) {
	h.mu.Lock()
	h.actions = append(h.actions, f)
	h.mu.Unlock()
	h.signal()
}

// NextRecord implements Backend
func (h *Headless) NextRecord(ctx context.Context) ([]byte, error) {
	for {
		h.mu.Lock()
		if h.stopped {
			h.mu.Unlock()
			return nil, ErrStopped
		}
		if len(h.records) > 0 {
			r := h.records[0]
			h.records = h.records[1:]
			h.last = r.kind
			h.mu.Unlock()
			return r.data, nil
		}
		if len(h.actions) > 0 {
			f := h.actions[0]
			h.actions = h.actions[1:]
			h.mu.Unlock()
			f()
			continue
		}
		if h.woken {
			h.woken = false
			h.mu.Unlock()
			return nil, nil
		}
		h.mu.Unlock()

		select {
		case <-h.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Ack implements Backend. A termination request that is not consumed is
// followed by ApplicationWillTerminate, after which the loop stops.
func (h *Headless) Ack(consumed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.acks = append(h.acks, Ack{Kind: h.last, Consumed: consumed})
	switch h.last {
	case event.KindApplicationWantsToTerminate:
		if !consumed {
			h.emitLocked(event.ApplicationWillTerminate{})
		}
	case event.KindApplicationWillTerminate:
		h.stopped = true
		h.signal()
	}
}

// Wake implements Backend
func (h *Headless) Wake() {
	h.mu.Lock()
	h.woken = true
	h.mu.Unlock()
	h.signal()
}

// Stop implements Backend
func (h *Headless) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	h.signal()
}

// Shutdown implements Backend
func (h *Headless) Shutdown() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.shutdown {
		return ErrShutdown
	}
	h.shutdown = true
	h.stopped = true
	h.records = nil
	h.actions = nil
	h.windows = make(map[event.WindowID]*headlessWindow)
	h.signal()
	logger.Debug("Headless toolkit shut down")
	return nil
}

// SetCallbacks implements Backend
func (h *Headless) SetCallbacks(cb Callbacks) {
	h.mu.Lock()
	h.callbacks = cb
	h.mu.Unlock()
}

// Errors implements Backend
func (h *Headless) Errors() *ErrorQueue {
	return &h.errs
}

// RequestTermination simulates the user quitting the application
func (h *Headless) RequestTermination() {
	h.do(func() { h.emit(event.ApplicationWantsToTerminate{}) })
}

// Inject delivers e as if the compositor produced it
func (h *Headless) Inject(e event.Event) {
	h.do(func() { h.emit(e) })
}

// InjectRecord delivers raw bytes, for exercising decoder failures
func (h *Headless) InjectRecord(data []byte) {
	h.do(func() {
		h.mu.Lock()
		h.records = append(h.records, record{data: slices.Clone(data)})
		h.mu.Unlock()
	})
}

// SetSetting announces a changed desktop setting
func (h *Headless) SetSetting(s event.Setting) {
	h.Inject(event.XdgDesktopSettingChange{Setting: s})
}

// Acks returns the handler results reported so far
func (h *Headless) Acks() []Ack {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.acks)
}

// Settle blocks until every record and action queued before the call has been
// handled by the event loop. Actions queued while settling are waited for too.
func (h *Headless) Settle(ctx context.Context) error {
	done := make(chan struct{})
	var settle func()
	settle = func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if len(h.records) > 0 || len(h.actions) > 0 {
			h.actions = append(h.actions, settle)
			return
		}
		close(done)
	}
	h.do(settle)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Headless) checkLocked() error {
	if h.shutdown {
		return ErrShutdown
	}
	return nil
}

func (h *Headless) windowLocked(id event.WindowID) (*headlessWindow, error) {
	if err := h.checkLocked(); err != nil {
		return nil, err
	}
	w, ok := h.windows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	return w, nil
}

func (h *Headless) allScreensLocked() event.AllScreens {
	out := make([]event.Screen, len(h.screens))
	for i, s := range h.screens {
		if s.Name != nil {
			name := *s.Name
			s.Name = &name
		}
		out[i] = s
	}
	return event.AllScreens{Screens: out}
}

func (h *Headless) primaryScreenLocked() event.Screen {
	return h.screens[0]
}
