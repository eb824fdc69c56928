// Package app is the application runtime. It owns the toolkit, runs the event
// loop on one goroutine and keeps the window, input, text input and data
// transfer state in sync with the events it dispatches.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/handle"
	"github.com/bnema/desktopkit/internal/ime"
	"github.com/bnema/desktopkit/internal/input"
	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/native"
	"github.com/bnema/desktopkit/internal/settings"
	"github.com/bnema/desktopkit/internal/transfer"
	"github.com/bnema/desktopkit/internal/window"
	"github.com/bnema/desktopkit/internal/workqueue"
)

var (
	// ErrContractViolation wraps errors caused by a broken toolkit or
	// application contract, such as events for a closed window
	ErrContractViolation = errors.New("contract violation")
	// ErrAlreadyInitialized is returned by Init while an application exists
	ErrAlreadyInitialized = errors.New("application already initialized")
	// ErrNotInitialized is returned when no application exists
	ErrNotInitialized = errors.New("application not initialized")
	// ErrRunning is returned when Run is called while the loop runs
	ErrRunning = errors.New("event loop already running")
	// ErrNotOnEventLoop is returned for toolkit calls made from another
	// goroutine while the loop runs
	ErrNotOnEventLoop = errors.New("toolkit called outside the event loop")
)

// Options configure the application
type Options struct {
	// PasteTimeout bounds how long a paste waits for its answer
	PasteTimeout time.Duration
	// DropPolicy answers drag and drop queries
	DropPolicy transfer.DropPolicy
	Chrome     window.ChromeConfig
	// QueryDropTarget overrides DropPolicy when set. It must be free of side
	// effects.
	QueryDropTarget func(event.DragAndDropQueryData) event.DragAndDropQueryResponse
	// DataProvider overrides the offers made with Put when set
	DataProvider func(source event.DataSource, mimeType string) []byte
}

// DefaultOptions accept plain text drops and use the default chrome
func DefaultOptions() Options {
	return Options{
		PasteTimeout: transfer.DefaultPasteTimeout,
		DropPolicy: transfer.DropPolicy{
			MimeTypes: []string{event.MimeTextPlain, event.MimeText},
			Actions:   event.ActionsOf(event.ActionCopy, event.ActionMove),
		},
		Chrome: window.DefaultChromeConfig(),
	}
}

// Application is the process-wide runtime. Create it with Init and release it
// with Close.
type Application struct {
	opts    Options
	backend *handle.Handle[native.Backend]
	queue   *workqueue.Queue

	windows     *window.Registry
	actions     *window.Actions
	decorations *window.Decorations
	input       *input.Tracker
	transfer    *transfer.Session
	requests    *Requests

	mu       sync.Mutex
	settings settings.Snapshot
	screens  event.AllScreens
	sessions map[event.WindowID]*ime.Session

	handler   event.Handler
	lastInput input.Result
	running   atomic.Bool
}

var (
	currentMu sync.Mutex
	current   *Application
)

// Init creates the application around a toolkit. Only one application may
// exist at a time.
func Init(backend native.Backend, opts Options) (*Application, error) {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current != nil {
		return nil, ErrAlreadyInitialized
	}

	a := &Application{
		opts:     opts,
		queue:    workqueue.New(),
		windows:  window.NewRegistry(opts.Chrome),
		input:    input.NewTracker(),
		transfer: transfer.NewSession(opts.PasteTimeout, opts.DropPolicy),
		requests: NewRequests(),
		settings: settings.Default(),
		sessions: make(map[event.WindowID]*ime.Session),
	}
	a.backend = handle.New("toolkit", backend, func(b native.Backend) error {
		return b.Shutdown()
	})
	a.actions = window.NewActions(a.windows, toolkit{a})
	a.decorations = window.NewDecorations(a.windows, a.actions, a.Settings, a.closeRequested)
	a.input.SetDoubleClickInterval(a.settings.DoubleClickInterval)

	backend.SetCallbacks(native.Callbacks{
		QueryDragAndDropTarget: a.queryDropTarget,
		GetDataTransferData:    a.dataTransferData,
	})

	current = a
	logger.Debug("Application initialized")
	return a, nil
}

// Current returns the live application
func Current() (*Application, error) {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current == nil {
		return nil, ErrNotInitialized
	}
	return current, nil
}

// Close drains posted work, shuts the toolkit down and releases the
// application. A second Close fails.
func (a *Application) Close() error {
	a.queue.Close()
	err := a.backend.Close()

	currentMu.Lock()
	if current == a {
		current = nil
	}
	currentMu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to close application: %w", err)
	}
	logger.Debug("Application closed")
	return nil
}

// Windows exposes the window registry
func (a *Application) Windows() *window.Registry { return a.windows }

// Actions exposes the capability-gated window actions
func (a *Application) Actions() *window.Actions { return a.actions }

// Input exposes the keyboard and pointer tracker
func (a *Application) Input() *input.Tracker { return a.input }

// Transfer exposes the clipboard and drag and drop state
func (a *Application) Transfer() *transfer.Session { return a.transfer }

// Requests exposes the pending notification and dialog requests
func (a *Application) Requests() *Requests { return a.requests }

// LastInput is what the input tracker derived from the event being handled
func (a *Application) LastInput() input.Result { return a.lastInput }

// Settings returns the current desktop settings
func (a *Application) Settings() settings.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// Screens returns the screens from the last display configuration
func (a *Application) Screens() event.AllScreens {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screens
}

// IsEventLoopThread reports whether the caller runs on the event loop
func (a *Application) IsEventLoopThread() bool {
	return a.queue.InLoop()
}

// RunOnEventLoopAsync posts f to the event loop
func (a *Application) RunOnEventLoopAsync(f func()) error {
	return a.queue.Post(f)
}

// RunOnEventLoopSync runs f on the event loop and waits for it. Calling it
// from the loop fails with workqueue.ErrSyncFromLoop.
func (a *Application) RunOnEventLoopSync(ctx context.Context, f func()) error {
	return a.queue.Sync(ctx, f)
}
