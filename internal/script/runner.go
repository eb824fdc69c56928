package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/desktopkit/internal/app"
	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/ime"
	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/native"
	"github.com/bnema/desktopkit/internal/settings"
	"github.com/bnema/desktopkit/internal/window"
)

// DefaultStepTimeout bounds how long a step may take to settle
const DefaultStepTimeout = 5 * time.Second

// ErrLoopEnded is returned when the event loop stops before the scenario ends
var ErrLoopEnded = errors.New("event loop ended before the scenario finished")

// Runner plays a scenario against a headless toolkit
type Runner struct {
	scenario *Scenario
	tk       *native.Headless
	app      *app.Application

	// StepTimeout defaults to DefaultStepTimeout
	StepTimeout time.Duration
	// Defaults fills the window parameters a scenario leaves unset
	Defaults event.WindowParams

	mu       sync.Mutex
	observer func(event.Event)
	onStep   func(int, Step)
	pastes   []event.DataTransfer
	drops    []event.DropPerformed
	notices  []uint32

	veto  atomic.Bool
	clock event.Timestamp
	code  event.KeyCode
}

// NewRunner creates the toolkit and the application for s. Only one runner can
// exist at a time since it owns the application; release it with Close.
func NewRunner(s *Scenario, opts app.Options) (*Runner, error) {
	tkOpts, err := s.Toolkit.HeadlessOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	tk := native.NewHeadless(tkOpts)
	a, err := app.Init(tk, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return &Runner{
		scenario:    s,
		tk:          tk,
		app:         a,
		StepTimeout: DefaultStepTimeout,
		Defaults: event.WindowParams{
			Size: geometry.LogicalSize{Width: 800, Height: 600},
		},
		clock: 1000,
	}, nil
}

// OnEvent registers f to observe every event the handler receives. It runs on
// the event loop goroutine.
func (r *Runner) OnEvent(f func(event.Event)) {
	r.mu.Lock()
	r.observer = f
	r.mu.Unlock()
}

// OnStep registers f to be called before each step, from the feeder goroutine
func (r *Runner) OnStep(f func(int, Step)) {
	r.mu.Lock()
	r.onStep = f
	r.mu.Unlock()
}

// App returns the application the scenario drives
func (r *Runner) App() *app.Application { return r.app }

// Toolkit returns the simulated toolkit
func (r *Runner) Toolkit() *native.Headless { return r.tk }

// Close releases the application
func (r *Runner) Close() error {
	return r.app.Close()
}

func (r *Runner) fill(p *event.WindowParams, defaultMode bool) {
	d := r.Defaults
	if p.AppID == "" {
		p.AppID = d.AppID
	}
	if p.Title == "" {
		p.Title = d.Title
	}
	if p.Size.Width == 0 || p.Size.Height == 0 {
		p.Size = d.Size
	}
	if p.MinSize == (geometry.LogicalSize{}) {
		p.MinSize = d.MinSize
	}
	if defaultMode {
		p.RenderingMode = d.RenderingMode
	}
	p.PreferClientSideDecoration = p.PreferClientSideDecoration || d.PreferClientSideDecoration
}

// Run opens the scenario's windows, runs the event loop and plays every step.
// It returns the first failing step or loop error.
func (r *Runner) Run(ctx context.Context) error {
	for _, wc := range r.scenario.Windows {
		params, err := wc.Params()
		if err != nil {
			return err
		}
		r.fill(&params, wc.Rendering == "")
		if err := r.app.CreateWindow(params); err != nil {
			return fmt.Errorf("failed to create window %d: %w", wc.ID, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, loopDone := context.WithCancel(gctx)
	defer loopDone()

	g.Go(func() error {
		err := r.app.Run(gctx, r.handle)
		if err == nil {
			loopDone()
		}
		return err
	})
	g.Go(func() error {
		err := r.feed(loopCtx)
		if stopErr := r.app.Stop(); stopErr != nil {
			logger.Debug("Stopping event loop", "err", stopErr)
		}
		return err
	})
	return g.Wait()
}

func (r *Runner) feed(ctx context.Context) error {
	if err := r.settle(ctx); err != nil {
		return r.loopError(err, 0)
	}
	for i, st := range r.scenario.Steps {
		r.mu.Lock()
		onStep := r.onStep
		r.mu.Unlock()
		if onStep != nil {
			onStep(i, st)
		}

		logger.Debug("Scenario step", "step", i+1, "action", st.Name())
		if err := r.step(ctx, st); err != nil {
			if ctx.Err() != nil {
				return r.loopError(err, i+1)
			}
			return fmt.Errorf("step %d (%s): %w", i+1, st.Name(), err)
		}

		err := r.settle(ctx)
		if st.Terminate != nil && !st.Terminate.Veto {
			// the loop is expected to end here
			return nil
		}
		if err != nil {
			return r.loopError(err, i+1)
		}
	}
	return nil
}

// loopError reports a step cut short by the loop ending. The loop's own error,
// if any, is what the errgroup returns.
func (r *Runner) loopError(err error, step int) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w (step %d)", ErrLoopEnded, step)
	}
	return err
}

func (r *Runner) settle(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.StepTimeout)
	defer cancel()
	return r.tk.Settle(ctx)
}

// onLoop runs f on the event loop and waits for it
func (r *Runner) onLoop(ctx context.Context, f func() error) error {
	ctx, cancel := context.WithTimeout(ctx, r.StepTimeout)
	defer cancel()
	var err error
	if syncErr := r.app.RunOnEventLoopSync(ctx, func() { err = f() }); syncErr != nil {
		return syncErr
	}
	return err
}

// handle is the application's event handler
func (r *Runner) handle(e event.Event) event.HandlerResult {
	r.mu.Lock()
	observer := r.observer
	switch e := e.(type) {
	case event.DataTransfer:
		r.pastes = append(r.pastes, e)
	case event.DropPerformed:
		r.drops = append(r.drops, e)
	case event.NotificationShown:
		if e.NotificationID != nil {
			r.notices = append(r.notices, *e.NotificationID)
		}
	}
	r.mu.Unlock()

	if observer != nil {
		observer(e)
	}

	switch e := e.(type) {
	case event.WindowCloseRequest:
		if err := r.app.CloseWindow(e.WindowID); err != nil {
			logger.Warn("Failed to close window", "window", e.WindowID, "err", err)
		}
		return event.Stop
	case event.ApplicationWantsToTerminate:
		if r.veto.Load() {
			return event.Stop
		}
	}
	return event.Continue
}

func (r *Runner) tick(d time.Duration) event.Timestamp {
	r.clock += event.Timestamp(d / time.Millisecond)
	return r.clock
}

func (r *Runner) step(ctx context.Context, st Step) error {
	switch {
	case st.Key != nil:
		return r.key(st.Key.Window, st.Key.Key, event.ParseModifiers(st.Key.Modifiers))
	case st.Type != nil:
		for _, ch := range st.Type.Text {
			if err := r.key(st.Type.Window, string(ch), 0); err != nil {
				return err
			}
		}
		return nil
	case st.Click != nil:
		return r.click(*st.Click)
	case st.Move != nil:
		r.tk.Inject(event.MouseMoved{
			WindowID:         event.WindowID(st.Move.Window),
			LocationInWindow: geometry.LogicalPoint{X: st.Move.X, Y: st.Move.Y},
			Timestamp:        r.tick(10 * time.Millisecond),
		})
		return nil
	case st.Drag != nil:
		return r.drag(*st.Drag)
	case st.Focus != nil:
		id := event.WindowID(st.Focus.Window)
		r.tk.Inject(event.WindowFocusChange{WindowID: id, Focused: st.Focus.Focused})
		if st.Focus.Focused {
			r.tk.Inject(event.WindowKeyboardEnter{WindowID: id})
		} else {
			r.tk.Inject(event.WindowKeyboardLeave{WindowID: id})
		}
		return nil
	case st.TextField != nil:
		return r.textField(ctx, *st.TextField)
	case st.IME != nil:
		r.tk.Inject(event.TextInputAvailability{WindowID: event.WindowID(st.IME.Window), Available: st.IME.Available})
		return nil
	case st.Commit != nil:
		r.tk.Inject(event.TextInput{
			WindowID: event.WindowID(st.Commit.Window),
			Commit:   &event.CommitString{Text: event.StringPtr(st.Commit.Text)},
		})
		return nil
	case st.Preedit != nil:
		p := st.Preedit
		r.tk.Inject(event.TextInput{
			WindowID: event.WindowID(p.Window),
			Preedit:  &event.PreeditString{Text: event.StringPtr(p.Text), CursorBeginBytes: p.CursorBegin, CursorEndBytes: p.CursorEnd},
		})
		return nil
	case st.DeleteSurrounding != nil:
		d := st.DeleteSurrounding
		r.tk.Inject(event.TextInput{
			WindowID:          event.WindowID(d.Window),
			DeleteSurrounding: &event.DeleteSurroundingText{BeforeBytes: d.Before, AfterBytes: d.After},
		})
		return nil
	case st.ClipboardPut != nil:
		source, _ := parseSource(st.ClipboardPut.Source)
		content := event.DataTransferContent{MimeType: mimeOr(st.ClipboardPut.MimeType), Data: []byte(st.ClipboardPut.Text)}
		return r.onLoop(ctx, func() error {
			if source == event.SourcePrimarySelection {
				return r.app.PrimarySelectionPut(content)
			}
			return r.app.ClipboardPut(content)
		})
	case st.Paste != nil:
		source, _ := parseSource(st.Paste.Source)
		mimeTypes := st.Paste.MimeTypes
		if len(mimeTypes) == 0 {
			mimeTypes = []string{event.MimeTextPlain, event.MimeText}
		}
		return r.onLoop(ctx, func() error {
			return r.app.Paste(source, st.Paste.Serial, mimeTypes...)
		})
	case st.ExternalSelection != nil:
		sel := st.ExternalSelection
		source, _ := parseSource(sel.Source)
		if sel.Clear {
			r.tk.ClearSelection(source)
			return nil
		}
		r.tk.SetSelection(source, event.DataTransferContent{MimeType: mimeOr(sel.MimeType), Data: []byte(sel.Text)})
		return nil
	case st.StartDrag != nil:
		sd := st.StartDrag
		actions, _ := parseActions(sd.Actions)
		content := event.DataTransferContent{MimeType: mimeOr(sd.MimeType), Data: []byte(sd.Text)}
		return r.onLoop(ctx, func() error {
			return r.app.StartDrag(event.WindowID(sd.Window), actions, geometry.LogicalSize{Width: 32, Height: 32}, content)
		})
	case st.ExternalDrag != nil:
		actions, _ := parseActions(st.ExternalDrag.Actions)
		r.tk.BeginExternalDrag(actions, event.DataTransferContent{
			MimeType: mimeOr(st.ExternalDrag.MimeType),
			Data:     []byte(st.ExternalDrag.Text),
		})
		return nil
	case st.DragOver != nil:
		r.tk.DragOver(event.WindowID(st.DragOver.Window), geometry.LogicalPoint{X: st.DragOver.X, Y: st.DragOver.Y})
		return nil
	case st.Drop != nil:
		r.tk.Drop()
		return nil
	case st.CancelDrag != nil:
		r.tk.CancelDrag()
		return nil
	case st.Setting != nil:
		s, err := settings.Parse(st.Setting.Key, st.Setting.Value)
		if err != nil {
			return err
		}
		r.tk.SetSetting(s)
		return nil
	case st.Action != nil:
		return r.onLoop(ctx, func() error { return r.action(*st.Action) })
	case st.Resize != nil:
		r.tk.Resize(event.WindowID(st.Resize.Window), geometry.LogicalSize{Width: st.Resize.Width, Height: st.Resize.Height})
		return nil
	case st.Decorations != nil:
		mode, _ := parseDecoration(st.Decorations.Mode)
		id := event.WindowID(st.Decorations.Window)
		w, ok := r.app.Windows().Get(id)
		if !ok {
			return fmt.Errorf("unknown window %d", id)
		}
		r.tk.Reconfigure(id, mode, w.Capabilities)
		return nil
	case st.CloseRequest != nil:
		r.tk.RequestClose(event.WindowID(st.CloseRequest.Window))
		return nil
	case st.Notify != nil:
		return r.onLoop(ctx, func() error {
			_, err := r.app.ShowNotification(native.ShowNotificationParams{Title: st.Notify.Title, Body: st.Notify.Body})
			return err
		})
	case st.ActivateNotice != nil:
		r.mu.Lock()
		n := len(r.notices)
		var id uint32
		if n > 0 {
			id = r.notices[n-1]
		}
		r.mu.Unlock()
		if n == 0 {
			return errors.New("no notification was shown")
		}
		r.tk.ActivateNotification(id, st.ActivateNotice.Action, st.ActivateNotice.Token)
		return nil
	case st.OpenFile != nil:
		return r.onLoop(ctx, func() error {
			_, err := r.app.ShowOpenFileDialog(event.WindowID(st.OpenFile.Window), native.CommonDialogParams{Modal: true}, native.OpenDialogParams{})
			return err
		})
	case st.SaveFile != nil:
		return r.onLoop(ctx, func() error {
			_, err := r.app.ShowSaveFileDialog(event.WindowID(st.SaveFile.Window), native.CommonDialogParams{Modal: true},
				native.SaveDialogParams{NameFieldStringValue: event.StringPtr(st.SaveFile.Name)})
			return err
		})
	case st.OpenURL != nil:
		return r.onLoop(ctx, func() error { return r.app.OpenURL(*st.OpenURL) })
	case st.Terminate != nil:
		r.veto.Store(st.Terminate.Veto)
		r.tk.RequestTermination()
		return nil
	case st.ExpectText != nil:
		return r.onLoop(ctx, func() error { return r.expectText(*st.ExpectText) })
	case st.ExpectWindow != nil:
		return r.onLoop(ctx, func() error { return r.expectWindow(*st.ExpectWindow) })
	case st.ExpectPaste != nil:
		return r.onLoop(ctx, func() error { return r.expectPaste(*st.ExpectPaste) })
	case st.ExpectDrop != nil:
		return r.onLoop(ctx, func() error { return r.expectDrop(*st.ExpectDrop) })
	}
	return fmt.Errorf("%w: empty step", ErrInvalidScenario)
}

func (r *Runner) key(window int64, name string, mods event.Modifiers) error {
	sym, chars, err := parseKey(name)
	if err != nil {
		return err
	}
	r.code++
	id := event.WindowID(window)
	r.tk.Inject(event.KeyDown{WindowID: id, KeyCode: r.code, Characters: chars, Key: sym, Modifiers: mods})
	r.tk.Inject(event.KeyUp{WindowID: id, KeyCode: r.code, Key: sym, Modifiers: mods})
	return nil
}

func (r *Runner) click(p PointerStep) error {
	button, err := parseButton(p.Button)
	if err != nil {
		return err
	}
	count := max(p.Count, 1)
	id := event.WindowID(p.Window)
	at := geometry.LogicalPoint{X: p.X, Y: p.Y}

	r.tk.Inject(event.MouseMoved{WindowID: id, LocationInWindow: at, Timestamp: r.tick(100 * time.Millisecond)})
	for i := 0; i < count; i++ {
		r.tk.Inject(event.MouseDown{WindowID: id, Button: button, LocationInWindow: at, Timestamp: r.tick(50 * time.Millisecond)})
		r.tk.Inject(event.MouseUp{WindowID: id, Button: button, LocationInWindow: at, Timestamp: r.tick(50 * time.Millisecond)})
	}
	return nil
}

func (r *Runner) drag(d DragStep) error {
	button, err := parseButton(d.Button)
	if err != nil {
		return err
	}
	id := event.WindowID(d.Window)
	from := geometry.LogicalPoint{X: d.From[0], Y: d.From[1]}
	to := geometry.LogicalPoint{X: d.To[0], Y: d.To[1]}

	r.tk.Inject(event.MouseMoved{WindowID: id, LocationInWindow: from, Timestamp: r.tick(100 * time.Millisecond)})
	r.tk.Inject(event.MouseDown{WindowID: id, Button: button, LocationInWindow: from, Timestamp: r.tick(20 * time.Millisecond)})
	r.tk.Inject(event.MouseDragged{WindowID: id, Button: button, LocationInWindow: to, Timestamp: r.tick(20 * time.Millisecond)})
	r.tk.Inject(event.MouseUp{WindowID: id, Button: button, LocationInWindow: to, Timestamp: r.tick(20 * time.Millisecond)})
	return nil
}

func (r *Runner) textField(ctx context.Context, tf TextFieldStep) error {
	id := event.WindowID(tf.Window)
	if tf.Blur {
		return r.onLoop(ctx, func() error { return r.app.BlurTextField(id) })
	}
	purpose, err := parsePurpose(tf.Purpose)
	if err != nil {
		return err
	}
	field := &ime.Field{
		Buffer:          ime.NewBuffer(tf.Text),
		Purpose:         purpose,
		CursorRectangle: geometry.Rect(0, 0, 1, 16),
	}
	return r.onLoop(ctx, func() error { return r.app.FocusTextField(id, field) })
}

func (r *Runner) action(a ActionStep) error {
	id := event.WindowID(a.Window)
	actions := r.app.Actions()
	switch a.Name {
	case "minimize":
		return actions.Minimize(id)
	case "maximize":
		return actions.ToggleMaximize(id)
	case "fullscreen":
		return actions.ToggleFullscreen(id)
	case "menu":
		return actions.ShowMenu(id, geometry.LogicalPoint{})
	case "move":
		return actions.StartMove(id)
	case "resize":
		edge, err := parseEdge(a.Edge)
		if err != nil {
			return err
		}
		return actions.StartResize(id, edge)
	case "title":
		return actions.SetTitle(id, a.Title)
	}
	return fmt.Errorf("unknown window action %q", a.Name)
}

func (r *Runner) expectText(x ExpectTextStep) error {
	f := r.app.TextField(event.WindowID(x.Window))
	if f == nil {
		return fmt.Errorf("%w: window %d has no focused text field", ErrExpectation, x.Window)
	}
	if got := f.Buffer.Text(); got != x.Text {
		return fmt.Errorf("%w: text is %q, want %q", ErrExpectation, got, x.Text)
	}
	if x.Cursor != nil && f.Buffer.Cursor() != *x.Cursor {
		return fmt.Errorf("%w: cursor is %d, want %d", ErrExpectation, f.Buffer.Cursor(), *x.Cursor)
	}
	return nil
}

func (r *Runner) expectWindow(x ExpectWindowStep) error {
	w, ok := r.app.Windows().Get(event.WindowID(x.Window))
	if x.Closed != nil {
		if *x.Closed == ok {
			return fmt.Errorf("%w: window %d open is %v", ErrExpectation, x.Window, ok)
		}
		if !ok {
			return nil
		}
	}
	if !ok {
		return fmt.Errorf("%w: window %d is closed", ErrExpectation, x.Window)
	}

	var errs []error
	check := func(name string, got, want any) {
		if got != want {
			errs = append(errs, fmt.Errorf("%w: window %d %s is %v, want %v", ErrExpectation, x.Window, name, got, want))
		}
	}
	if x.Maximized != nil {
		check("maximized", w.Maximized, *x.Maximized)
	}
	if x.Fullscreen != nil {
		check("fullscreen", w.Mode == window.ModeFullscreen, *x.Fullscreen)
	}
	if x.Title != nil {
		check("title", w.Title, *x.Title)
	}
	if x.Width != nil {
		check("width", w.Size.Width, *x.Width)
	}
	if x.Height != nil {
		check("height", w.Size.Height, *x.Height)
	}
	return errors.Join(errs...)
}

func (r *Runner) expectPaste(x ExpectPasteStep) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pastes) == 0 {
		return fmt.Errorf("%w: no paste was answered", ErrExpectation)
	}
	return expectContent("paste", r.pastes[len(r.pastes)-1].Content, x)
}

func (r *Runner) expectDrop(x ExpectPasteStep) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.drops) == 0 {
		return fmt.Errorf("%w: nothing was dropped", ErrExpectation)
	}
	return expectContent("drop", r.drops[len(r.drops)-1].Content, x)
}

func expectContent(what string, c *event.DataTransferContent, x ExpectPasteStep) error {
	if x.Empty {
		if c != nil {
			return fmt.Errorf("%w: %s carried %s", ErrExpectation, what, c)
		}
		return nil
	}
	if c == nil {
		return fmt.Errorf("%w: %s carried no content", ErrExpectation, what)
	}
	if string(c.Data) != x.Text {
		return fmt.Errorf("%w: %s is %q, want %q", ErrExpectation, what, c.Data, x.Text)
	}
	return nil
}
