package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/multierr"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/ime"
	"github.com/bnema/desktopkit/internal/input"
	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/native"
	"github.com/bnema/desktopkit/internal/transfer"
	"github.com/bnema/desktopkit/internal/window"
	"github.com/bnema/desktopkit/internal/wire"
)

// Run dispatches events to handler until Stop is called, the toolkit stops
// or ctx is cancelled. The calling goroutine becomes the event loop and is
// locked to its OS thread. Handler results are reported to the toolkit as
// "consumed" and never end the loop.
func (a *Application) Run(ctx context.Context, handler event.Handler) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer a.running.Store(false)

	b, err := a.backend.Get()
	if err != nil {
		return err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	a.queue.BindLoop()
	defer a.queue.UnbindLoop()

	a.handler = handler
	defer func() { a.handler = nil }()

	// posted work wakes the toolkit so the loop can drain it
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-a.queue.Ready():
				b.Wake()
			case <-done:
				return
			}
		}
	}()

	logger.Debug("Event loop started")
	for {
		a.queue.Drain()
		a.expirePastes(time.Now())
		if err := b.Errors().Drain(); err != nil {
			logger.Error("Toolkit reported an error", "err", err)
		}

		record, err := b.NextRecord(ctx)
		if errors.Is(err, native.ErrStopped) {
			logger.Debug("Event loop stopped")
			return nil
		}
		if err != nil {
			return err
		}
		if record == nil {
			continue
		}

		e, err := wire.Decode(record)
		if err != nil {
			b.Ack(false)
			return fmt.Errorf("failed to decode event: %w", err)
		}

		result, err := a.dispatch(e)
		b.Ack(result == event.Stop)
		if err != nil {
			return err
		}
	}
}

// Stop ends Run after the current event. It may be called from any goroutine.
func (a *Application) Stop() error {
	return a.backend.With(func(b native.Backend) error {
		b.Stop()
		return nil
	})
}

// checkLoop rejects callers other than the loop goroutine while Run is active
func (a *Application) checkLoop() error {
	if a.running.Load() && !a.queue.InLoop() {
		return ErrNotOnEventLoop
	}
	return nil
}

// call runs f against the toolkit and raises the errors it queued meanwhile
func (a *Application) call(f func(native.Backend) error) error {
	if err := a.checkLoop(); err != nil {
		return err
	}
	return a.backend.With(func(b native.Backend) error {
		return multierr.Append(f(b), b.Errors().Drain())
	})
}

func contractViolation(e event.Event, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrContractViolation, e.Kind(), err)
}

// dispatch updates the application state from e and then runs the handler
func (a *Application) dispatch(e event.Event) (event.HandlerResult, error) {
	if we, ok := e.(event.WindowEvent); ok {
		if err := a.windows.Check(we.Window()); err != nil {
			return event.Continue, contractViolation(e, err)
		}
	}

	if err := a.track(e); err != nil {
		return event.Continue, err
	}
	r := a.input.Apply(e)
	a.lastInput = r

	result, err := a.decorations.Handle(e, r)
	switch {
	case errors.Is(err, window.ErrWindowClosed):
		return event.Continue, contractViolation(e, err)
	case err != nil:
		logger.Warn("Window chrome action failed", "event", e.Kind(), "err", err)
	}
	if result == event.Stop {
		return event.Stop, nil
	}

	result = a.handle(e)
	if result == event.Continue {
		if err := a.defaultAction(e, r); err != nil {
			return result, err
		}
	}

	if closed, ok := e.(event.WindowClosed); ok {
		a.mu.Lock()
		delete(a.sessions, closed.WindowID)
		a.mu.Unlock()
	}
	return result, nil
}

// track applies e to the state the application keeps
func (a *Application) track(e event.Event) error {
	switch e := e.(type) {
	case event.DisplayConfigurationChange:
		a.mu.Lock()
		a.screens = e.Screens
		a.mu.Unlock()

	case event.XdgDesktopSettingChange:
		a.applySetting(e.Setting)

	case event.WindowEvent:
		if err := a.windows.Apply(e); err != nil {
			return contractViolation(e, err)
		}
		if err := a.trackText(e); err != nil {
			return contractViolation(e, err)
		}
	}

	switch e.(type) {
	case event.DataTransferAvailable, event.DataTransfer, event.DataTransferCancelled,
		event.DragAndDropFinished:
		res, err := a.transfer.Apply(e)
		if errors.Is(err, transfer.ErrStaleAnswer) {
			logger.Debug("Dropping late paste answer", "err", err)
			return nil
		}
		if err != nil {
			return contractViolation(e, err)
		}
		for _, pp := range res.Cancelled {
			logger.Debug("Paste cancelled", "source", pp.Source, "serial", pp.Serial)
		}

	case event.NotificationShown, event.FileChooserResponse, event.NotificationClosed:
		if _, err := a.requests.Resolve(e); err != nil {
			return contractViolation(e, err)
		}
	}
	return nil
}

func (a *Application) applySetting(s event.Setting) {
	a.mu.Lock()
	err := a.settings.Apply(s)
	snap := a.settings
	a.mu.Unlock()
	if err != nil {
		logger.Warn("Ignoring desktop setting", "err", err)
		return
	}

	switch s.(type) {
	case event.TitlebarLayout:
		a.windows.SetTitlebarLayout(snap.TitlebarLayout)
	case event.DoubleClickInterval:
		a.input.SetDoubleClickInterval(snap.DoubleClickInterval)
	}
}

func (a *Application) trackText(e event.WindowEvent) error {
	switch e := e.(type) {
	case event.TextInputAvailability:
		return a.session(e.WindowID).OnAvailability(e)
	case event.TextInput:
		s := a.existingSession(e.WindowID)
		if s == nil || s.Field() == nil {
			return nil
		}
		return s.OnTextInput(e)
	}
	return nil
}

// defaultAction is what an event does when the handler did not consume it
func (a *Application) defaultAction(e event.Event, r input.Result) error {
	down, ok := e.(event.KeyDown)
	if !ok {
		return nil
	}
	s := a.existingSession(down.WindowID)
	if s == nil || s.Field() == nil {
		return nil
	}

	buf := s.Field().Buffer
	extend := down.Modifiers.Has(event.ModShift)
	switch down.Key {
	case event.KeyBackSpace:
		buf.Backspace()
	case event.KeyDelete:
		buf.DeleteForward()
	case event.KeyLeft:
		buf.MoveLeft(extend)
	case event.KeyRight:
		buf.MoveRight(extend)
	case event.KeyHome:
		buf.Home(extend)
	case event.KeyEnd:
		buf.End(extend)
	default:
		if r.Text == nil {
			return nil
		}
		buf.Insert(*r.Text)
	}
	return s.Edited()
}

// handle runs the handler. A panic is logged and treated as Continue.
func (a *Application) handle(e event.Event) (result event.HandlerResult) {
	if a.handler == nil {
		return event.Continue
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Event handler panicked", "event", e.Kind(), "panic", r)
			result = event.Continue
		}
	}()
	return a.handler(e)
}

func (a *Application) closeRequested(id event.WindowID) {
	if err := a.queue.Post(func() { a.handle(event.WindowCloseRequest{WindowID: id}) }); err != nil {
		logger.Warn("Dropping close request", "window", id, "err", err)
	}
}

func (a *Application) queryDropTarget(q event.DragAndDropQueryData) (resp event.DragAndDropQueryResponse) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Drop target query panicked", "window", q.WindowID, "panic", r)
			resp = event.DragAndDropQueryResponse{}
		}
	}()
	if a.opts.QueryDropTarget != nil {
		return a.opts.QueryDropTarget(q)
	}
	return a.transfer.Query(q)
}

func (a *Application) dataTransferData(source event.DataSource, mimeType string) (data []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Data provider panicked", "source", source, "mime", mimeType, "panic", r)
			data = nil
		}
	}()
	if a.opts.DataProvider != nil {
		return a.opts.DataProvider(source, mimeType)
	}
	return a.transfer.Data(source, mimeType)
}

func (a *Application) expirePastes(now time.Time) {
	for _, pp := range a.transfer.Pastes.Expire(now) {
		logger.Warn("Paste timed out", "source", pp.Source, "serial", pp.Serial)
	}
}

func (a *Application) session(id event.WindowID) *ime.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[id]
	if !ok {
		s = ime.NewSession(toolkit{a}, id)
		a.sessions[id] = s
	}
	return s
}

func (a *Application) existingSession(id event.WindowID) *ime.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions[id]
}
