package input

import (
	"math"
	"slices"
	"sync"
	"time"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
)

const (
	// DefaultDoubleClickInterval is used until the desktop setting arrives
	DefaultDoubleClickInterval = 500 * time.Millisecond
	// DefaultClickRadius is how far the pointer may travel between the clicks
	// of a double click, and during a press before it becomes a drag
	DefaultClickRadius geometry.LogicalPixels = 3
)

// Result is the interpretation of one event
type Result struct {
	// Text is set for key presses that produce text
	Text *string
	// Clicks is the click count of a MouseDown, and of the press a MouseUp
	// releases: 1 for a single click, 2 for a double click and so on
	Clicks int
	// DragStarted is set on the first MouseDragged that leaves the click radius
	DragStarted bool
}

type press struct {
	at     geometry.LogicalPoint
	clicks int
	drag   bool
}

type pointerState struct {
	hovered  bool
	location geometry.LogicalPoint
	pressed  map[event.MouseButton]*press
}

type lastClick struct {
	window event.WindowID
	button event.MouseButton
	time   event.Timestamp
	at     geometry.LogicalPoint
	count  int
}

// Tracker follows keyboard and pointer state across events. The toolkit only
// reports transitions; Tracker answers questions like "which buttons are held"
// or "was that a double click".
type Tracker struct {
	mu          sync.Mutex
	mods        event.Modifiers
	focus       event.WindowID
	focused     bool
	pressedKeys map[event.KeyCode]struct{}
	pointers    map[event.WindowID]*pointerState
	last        *lastClick

	doubleClick time.Duration
	radius      geometry.LogicalPixels
}

// NewTracker creates a tracker with the default click timing
func NewTracker() *Tracker {
	return &Tracker{
		pressedKeys: make(map[event.KeyCode]struct{}),
		pointers:    make(map[event.WindowID]*pointerState),
		doubleClick: DefaultDoubleClickInterval,
		radius:      DefaultClickRadius,
	}
}

// SetDoubleClickInterval follows the desktop's double click setting
func (t *Tracker) SetDoubleClickInterval(d time.Duration) {
	t.mu.Lock()
	t.doubleClick = d
	t.mu.Unlock()
}

func (t *Tracker) pointer(id event.WindowID) *pointerState {
	p, ok := t.pointers[id]
	if !ok {
		p = &pointerState{pressed: make(map[event.MouseButton]*press)}
		t.pointers[id] = p
	}
	return p
}

// Apply updates the state with e and returns what e means for the application
func (t *Tracker) Apply(e event.Event) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e := e.(type) {
	case event.WindowKeyboardEnter:
		t.focus, t.focused = e.WindowID, true
		clear(t.pressedKeys)
		for _, code := range e.KeyCodes {
			t.pressedKeys[code] = struct{}{}
		}
	case event.WindowKeyboardLeave:
		if t.focus == e.WindowID {
			t.focused = false
			clear(t.pressedKeys)
		}
	case event.ModifiersChanged:
		t.mods = e.Modifiers
	case event.KeyDown:
		t.pressedKeys[e.KeyCode] = struct{}{}
		t.mods = e.Modifiers
		return Result{Text: t.textOf(e)}
	case event.KeyUp:
		delete(t.pressedKeys, e.KeyCode)
		t.mods = e.Modifiers
	case event.MouseEntered:
		p := t.pointer(e.WindowID)
		p.hovered = true
		p.location = e.LocationInWindow
	case event.MouseExited:
		p := t.pointer(e.WindowID)
		p.hovered = false
	case event.MouseMoved:
		p := t.pointer(e.WindowID)
		p.hovered = true
		p.location = e.LocationInWindow
	case event.MouseDown:
		p := t.pointer(e.WindowID)
		p.location = e.LocationInWindow
		clicks := t.classify(e)
		p.pressed[e.Button] = &press{at: e.LocationInWindow, clicks: clicks}
		return Result{Clicks: clicks}
	case event.MouseDragged:
		p := t.pointer(e.WindowID)
		p.location = e.LocationInWindow
		pr, ok := p.pressed[e.Button]
		if !ok {
			// the press happened outside the window
			pr = &press{at: e.LocationInWindow, clicks: 1}
			p.pressed[e.Button] = pr
		}
		if !pr.drag && distance(pr.at, e.LocationInWindow) > t.radius {
			pr.drag = true
			return Result{DragStarted: true}
		}
	case event.MouseUp:
		p := t.pointer(e.WindowID)
		p.location = e.LocationInWindow
		pr, ok := p.pressed[e.Button]
		delete(p.pressed, e.Button)
		if ok && !pr.drag {
			return Result{Clicks: pr.clicks}
		}
	case event.WindowFocusChange:
		if !e.Focused {
			// releases outside an unfocused window are never reported
			if p, ok := t.pointers[e.WindowID]; ok {
				clear(p.pressed)
			}
		}
	case event.WindowClosed:
		delete(t.pointers, e.WindowID)
		if t.focus == e.WindowID {
			t.focused = false
		}
		if t.last != nil && t.last.window == e.WindowID {
			t.last = nil
		}
	}
	return Result{}
}

// textOf returns the text a key press inserts. Modifier keys, shortcuts and
// control characters never insert text.
func (t *Tracker) textOf(e event.KeyDown) *string {
	if e.Characters == nil || e.Key.IsModifierKey() {
		return nil
	}
	if e.Modifiers.Shortcut().Has(event.ModControl) || e.Modifiers.Shortcut().Has(event.ModLogo) {
		return nil
	}
	s := *e.Characters
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return nil
		}
	}
	return &s
}

func (t *Tracker) classify(e event.MouseDown) int {
	count := 1
	if l := t.last; l != nil &&
		l.window == e.WindowID &&
		l.button == e.Button &&
		e.Timestamp.Sub(l.time) <= t.doubleClick &&
		distance(l.at, e.LocationInWindow) <= t.radius {
		count = l.count + 1
	}
	t.last = &lastClick{
		window: e.WindowID,
		button: e.Button,
		time:   e.Timestamp,
		at:     e.LocationInWindow,
		count:  count,
	}
	return count
}

func distance(a, b geometry.LogicalPoint) geometry.LogicalPixels {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Modifiers returns the current modifier set
func (t *Tracker) Modifiers() event.Modifiers {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mods
}

// KeyboardFocus returns the window receiving key events
func (t *Tracker) KeyboardFocus() (event.WindowID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focus, t.focused
}

// KeyPressed reports whether a key is held down
func (t *Tracker) KeyPressed(code event.KeyCode) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pressedKeys[code]
	return ok
}

// Hovered reports whether the pointer is over the window
func (t *Tracker) Hovered(id event.WindowID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.pointers[id]
	return ok && p.hovered
}

// Location returns the last known pointer location in the window
func (t *Tracker) Location(id event.WindowID) (geometry.LogicalPoint, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.pointers[id]
	if !ok {
		return geometry.LogicalPoint{}, false
	}
	return p.location, true
}

// Pressed returns the buttons held over the window, in button order
func (t *Tracker) Pressed(id event.WindowID) []event.MouseButton {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.pointers[id]
	if !ok {
		return nil
	}
	var out []event.MouseButton
	for b := range p.pressed {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

// PressLocation returns where a held button was pressed
func (t *Tracker) PressLocation(id event.WindowID, button event.MouseButton) (geometry.LogicalPoint, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.pointers[id]
	if !ok {
		return geometry.LogicalPoint{}, false
	}
	pr, ok := p.pressed[button]
	if !ok {
		return geometry.LogicalPoint{}, false
	}
	return pr.at, true
}

// Dragging reports whether a held button has moved past the click radius
func (t *Tracker) Dragging(id event.WindowID, button event.MouseButton) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.pointers[id]
	if !ok {
		return false
	}
	pr, ok := p.pressed[button]
	return ok && pr.drag
}
