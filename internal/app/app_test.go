package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/handle"
	"github.com/bnema/desktopkit/internal/ime"
	"github.com/bnema/desktopkit/internal/native"
	"github.com/bnema/desktopkit/internal/settings"
	"github.com/bnema/desktopkit/internal/window"
	"github.com/bnema/desktopkit/internal/wire"
	"github.com/bnema/desktopkit/internal/workqueue"
)

const waitTimeout = 2 * time.Second

type harness struct {
	t      *testing.T
	app    *Application
	tk     *native.Headless
	events chan event.Event
	done   chan error
	exited bool
	err    error
}

func newHarness(t *testing.T, opts native.HeadlessOptions) *harness {
	t.Helper()
	tk := native.NewHeadless(opts)
	a, err := Init(tk, DefaultOptions())
	require.NoError(t, err)

	h := &harness{t: t, app: a, tk: tk, events: make(chan event.Event, 256)}
	t.Cleanup(func() {
		if h.done != nil && !h.exited {
			_ = a.Stop()
			h.exit()
		}
		_ = a.Close()
	})
	return h
}

// run starts the event loop. handler may be nil.
func (h *harness) run(handler event.Handler) {
	h.done = make(chan error, 1)
	go func() {
		h.done <- h.app.Run(context.Background(), func(e event.Event) event.HandlerResult {
			h.events <- e
			if handler != nil {
				return handler(e)
			}
			return event.Continue
		})
	}()
}

func (h *harness) exit() error {
	h.t.Helper()
	if h.exited {
		return h.err
	}
	select {
	case h.err = <-h.done:
		h.exited = true
		return h.err
	case <-time.After(waitTimeout):
		h.t.Fatal("event loop did not exit")
		return nil
	}
}

func (h *harness) waitFor(kind event.Kind) event.Event {
	h.t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case e := <-h.events:
			if e.Kind() == kind {
				return e
			}
		case <-deadline:
			h.t.Fatalf("no %s event", kind)
			return nil
		}
	}
}

// do runs f on the event loop and returns its error
func (h *harness) do(f func() error) error {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	var err error
	require.NoError(h.t, h.app.RunOnEventLoopSync(ctx, func() { err = f() }))
	return err
}

func (h *harness) createWindow(id event.WindowID, size geometry.LogicalSize) {
	h.t.Helper()
	require.NoError(h.t, h.app.CreateWindow(event.WindowParams{WindowID: id, Title: "test", Size: size}))
}

func TestInitSingleton(t *testing.T) {
	tk := native.NewHeadless(native.HeadlessOptions{})
	a, err := Init(tk, DefaultOptions())
	require.NoError(t, err)

	_, err = Init(tk, DefaultOptions())
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	cur, err := Current()
	require.NoError(t, err)
	assert.Same(t, a, cur)

	require.NoError(t, a.Close())
	_, err = Current()
	assert.ErrorIs(t, err, ErrNotInitialized)

	assert.ErrorIs(t, a.Close(), handle.ErrAlreadyClosed)
	assert.ErrorIs(t, a.Run(context.Background(), nil), handle.ErrUseAfterClose)
	assert.ErrorIs(t, a.OpenURL("https://example.org"), handle.ErrUseAfterClose)
}

func TestRunCancelled(t *testing.T) {
	tk := native.NewHeadless(native.HeadlessOptions{})
	a, err := Init(tk, DefaultOptions())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, a.Run(ctx, nil), context.Canceled)
}

func TestStartupState(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{
		Settings: []event.Setting{
			event.DoubleClickInterval{Value: 300 * time.Millisecond},
			event.TitlebarLayout{Value: "close:"},
			event.TitlebarLayout{Value: "broken"},
		},
	})
	h.run(nil)

	h.waitFor(event.KindApplicationStarted)
	h.waitFor(event.KindDisplayConfigurationChange)
	assert.Len(t, h.app.Screens().Screens, 1)

	h.waitFor(event.KindXdgDesktopSettingChange)
	h.waitFor(event.KindXdgDesktopSettingChange)
	h.waitFor(event.KindXdgDesktopSettingChange)

	snap := h.app.Settings()
	assert.Equal(t, 300*time.Millisecond, snap.DoubleClickInterval)
	// the broken layout is ignored
	assert.Equal(t, []settings.Button{settings.ButtonClose}, snap.TitlebarLayout.Left)
	assert.Empty(t, snap.TitlebarLayout.Right)

	require.NoError(t, h.app.Stop())
	assert.NoError(t, h.exit())
}

func TestWindowLifecycle(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	h.createWindow(1, geometry.LogicalSize{Width: 640, Height: 480})
	assert.ErrorIs(t, h.app.CreateWindow(event.WindowParams{WindowID: 1}), window.ErrDuplicateWindow)
	h.run(nil)

	h.waitFor(event.KindWindowConfigure)
	w, ok := h.app.Windows().Get(1)
	require.True(t, ok)
	assert.Equal(t, window.PhaseConfigured, w.Phase)
	assert.Equal(t, geometry.LogicalSize{Width: 640, Height: 480}, w.Size)

	size, err := h.app.WindowSize(1)
	assert.ErrorIs(t, err, ErrNotOnEventLoop, "toolkit calls from another goroutine are rejected")
	assert.Zero(t, size)

	require.NoError(t, h.do(func() error {
		var err error
		size, err = h.app.WindowSize(1)
		return err
	}))
	assert.Equal(t, geometry.LogicalSize{Width: 640, Height: 480}, size)

	require.NoError(t, h.do(func() error { return h.app.CloseWindow(1) }))
	err = h.do(func() error { return h.app.CloseWindow(1) })
	assert.ErrorIs(t, err, ErrContractViolation)

	closed := h.waitFor(event.KindWindowClosed)
	assert.Equal(t, event.WindowClosed{WindowID: 1}, closed)
	assert.Zero(t, h.app.Windows().Len())

	err = h.do(func() error { return h.app.SetMinSize(1, geometry.LogicalSize{Width: 10, Height: 10}) })
	assert.ErrorIs(t, err, window.ErrWindowClosed)
}

func TestClosedWindowEventIsFatal(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	h.run(nil)
	h.waitFor(event.KindApplicationStarted)

	h.tk.Inject(event.MouseMoved{WindowID: 9})
	err := h.exit()
	assert.ErrorIs(t, err, ErrContractViolation)
	assert.ErrorIs(t, err, window.ErrWindowClosed)
}

func TestUnknownTagIsFatal(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	h.run(nil)
	h.waitFor(event.KindApplicationStarted)

	h.tk.InjectRecord([]byte{0x08, 0xe7, 0x07})
	err := h.exit()
	assert.ErrorIs(t, err, wire.ErrUnknownTag)
	assert.True(t, wire.IsFatal(err))
}

func TestHandlerPanicContinues(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	h.createWindow(1, geometry.LogicalSize{Width: 300, Height: 200})
	h.run(func(e event.Event) event.HandlerResult {
		switch e.(type) {
		case event.KeyDown:
			panic("boom")
		case event.KeyUp:
			return event.Stop
		}
		return event.Continue
	})

	h.tk.Inject(event.KeyDown{WindowID: 1, KeyCode: 38, Key: 'a'})
	h.tk.Inject(event.KeyUp{WindowID: 1, KeyCode: 38, Key: 'a'})
	h.waitFor(event.KindKeyUp)

	var keyDown []native.Ack
	for _, ack := range h.tk.Acks() {
		if ack.Kind == event.KindKeyDown {
			keyDown = append(keyDown, ack)
		}
	}
	require.Len(t, keyDown, 1)
	assert.False(t, keyDown[0].Consumed)
}

func TestPasteOnEmptyClipboard(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	h.run(nil)
	h.waitFor(event.KindApplicationStarted)

	require.NoError(t, h.do(func() error {
		return h.app.Paste(event.SourceClipboard, 7, event.MimeText)
	}))
	e := h.waitFor(event.KindDataTransfer)
	assert.Equal(t, event.DataTransfer{Serial: 7}, e)

	// barrier: anything the paste produced has been dispatched by now
	require.NoError(t, h.do(func() error { return nil }))
	for {
		select {
		case e := <-h.events:
			assert.NotEqual(t, event.KindDataTransfer, e.Kind(), "a paste is answered once")
			continue
		default:
		}
		break
	}
	assert.Zero(t, h.app.Transfer().Pastes.Pending())
}

func TestClipboardRoundTrip(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	h.run(nil)
	h.waitFor(event.KindApplicationStarted)

	content := event.DataTransferContent{MimeType: event.MimeTextPlain, Data: []byte("hello")}
	require.NoError(t, h.do(func() error { return h.app.ClipboardPut(content) }))
	avail := h.waitFor(event.KindDataTransferAvailable).(event.DataTransferAvailable)
	assert.Equal(t, []string{event.MimeTextPlain}, avail.MimeTypes)

	require.NoError(t, h.do(func() error {
		return h.app.Paste(event.SourceClipboard, 1, event.MimeURIList, event.MimeTextPlain)
	}))
	got := h.waitFor(event.KindDataTransfer).(event.DataTransfer)
	require.NotNil(t, got.Content)
	assert.Equal(t, content, *got.Content)

	// another client takes the clipboard over
	h.tk.SetSelection(event.SourceClipboard, event.DataTransferContent{MimeType: event.MimeText, Data: []byte("theirs")})
	cancelled := h.waitFor(event.KindDataTransferCancelled)
	assert.Equal(t, event.DataTransferCancelled{Source: event.SourceClipboard}, cancelled)
	_, own := h.app.Transfer().Offers.Current(event.SourceClipboard)
	assert.False(t, own)

	require.NoError(t, h.do(func() error {
		return h.app.Paste(event.SourceClipboard, 2, event.MimeText)
	}))
	got = h.waitFor(event.KindDataTransfer).(event.DataTransfer)
	require.NotNil(t, got.Content)
	assert.Equal(t, "theirs", string(got.Content.Data))

	err := h.do(func() error { return h.app.Paste(event.SourceDragAndDrop, 3, event.MimeText) })
	assert.Error(t, err)
}

// requireRunning fails when the event loop has exited
func (h *harness) requireRunning() {
	h.t.Helper()
	require.NoError(h.t, h.do(func() error { return nil }))
	select {
	case err := <-h.done:
		h.exited, h.err = true, err
		h.t.Fatalf("event loop exited: %v", err)
	default:
	}
}

func TestLatePasteAnswers(t *testing.T) {
	tests := []struct {
		name    string
		abandon func(t *testing.T, h *harness) error
	}{
		{
			name: "superseded by a new offer",
			abandon: func(_ *testing.T, h *harness) error {
				return h.app.ClipboardPut(event.DataTransferContent{MimeType: event.MimeTextPlain, Data: []byte("b")})
			},
		},
		{
			name: "timed out",
			abandon: func(t *testing.T, h *harness) error {
				assert.Len(t, h.app.Transfer().Pastes.Expire(time.Now().Add(time.Hour)), 1)
				return nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, native.HeadlessOptions{})
			h.run(nil)
			h.waitFor(event.KindApplicationStarted)

			require.NoError(t, h.do(func() error {
				if err := h.app.ClipboardPut(event.DataTransferContent{MimeType: event.MimeTextPlain, Data: []byte("a")}); err != nil {
					return err
				}
				if err := h.app.Paste(event.SourceClipboard, 9, event.MimeTextPlain); err != nil {
					return err
				}
				return tt.abandon(t, h)
			}))

			// the toolkit still answers the abandoned read
			late := h.waitFor(event.KindDataTransfer).(event.DataTransfer)
			assert.Equal(t, int32(9), late.Serial)
			h.requireRunning()
			assert.Zero(t, h.app.Transfer().Pastes.Pending())

			require.NoError(t, h.app.Stop())
			assert.NoError(t, h.exit())
		})
	}
}

func TestWindowActionsUseEventLoop(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	h.createWindow(1, geometry.LogicalSize{Width: 300, Height: 200})
	h.run(nil)
	h.waitFor(event.KindWindowConfigure)

	assert.ErrorIs(t, h.app.Actions().ToggleMaximize(1), ErrNotOnEventLoop)
	assert.ErrorIs(t, h.app.Actions().SetPointerShape(1, event.PointerText), ErrNotOnEventLoop)
	assert.ErrorIs(t, h.app.FocusTextField(1, &ime.Field{Buffer: ime.NewBuffer("")}), ErrNotOnEventLoop)

	require.NoError(t, h.do(func() error { return h.app.Actions().ToggleMaximize(1) }))
	h.waitFor(event.KindWindowConfigure)
	w, ok := h.app.Windows().Get(1)
	require.True(t, ok)
	assert.True(t, w.Maximized)

	require.NoError(t, h.app.Stop())
	require.NoError(t, h.exit())
	require.NoError(t, h.app.Close())

	assert.ErrorIs(t, h.app.Actions().Minimize(1), handle.ErrUseAfterClose)
	assert.ErrorIs(t, h.app.TextFieldEdited(1), ime.ErrNoFocusedField)

	// a session created after Close still reaches the toolkit through the facade
	s := h.app.session(2)
	require.NoError(t, s.OnAvailability(event.TextInputAvailability{WindowID: 2, Available: true}))
	assert.ErrorIs(t, s.Focus(&ime.Field{Buffer: ime.NewBuffer("")}), handle.ErrUseAfterClose)
}

func TestEglProcFunc(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	_, ok, err := h.app.EglProcFunc()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDragAndDrop(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	h.createWindow(1, geometry.LogicalSize{Width: 300, Height: 200})
	h.createWindow(2, geometry.LogicalSize{Width: 300, Height: 200})
	h.run(nil)
	h.waitFor(event.KindApplicationStarted)

	content := event.DataTransferContent{MimeType: event.MimeTextPlain, Data: []byte("dragged")}
	require.NoError(t, h.do(func() error {
		return h.app.StartDrag(1, event.ActionsOf(event.ActionCopy), geometry.LogicalSize{Width: 32, Height: 32}, content)
	}))
	assert.True(t, h.app.Transfer().Dragging(1))

	h.tk.DragOver(2, geometry.LogicalPoint{X: 10, Y: 10})
	h.tk.Drop()

	drop := h.waitFor(event.KindDropPerformed).(event.DropPerformed)
	assert.Equal(t, event.WindowID(2), drop.WindowID)
	require.NotNil(t, drop.Content)
	assert.Equal(t, content, *drop.Content)

	finished := h.waitFor(event.KindDragAndDropFinished).(event.DragAndDropFinished)
	assert.Equal(t, event.WindowID(1), finished.WindowID)
	require.NotNil(t, finished.Action)
	assert.Equal(t, event.ActionCopy, *finished.Action)
	assert.False(t, h.app.Transfer().Dragging(1))

	var hovered bool
	require.NoError(t, h.do(func() error {
		var err error
		_, hovered, err = h.app.DropTarget()
		return err
	}))
	assert.False(t, hovered, "the drop ends the hover")
}

func TestDropTargetQueryPanic(t *testing.T) {
	tk := native.NewHeadless(native.HeadlessOptions{})
	opts := DefaultOptions()
	opts.QueryDropTarget = func(event.DragAndDropQueryData) event.DragAndDropQueryResponse {
		panic("query")
	}
	opts.DataProvider = func(event.DataSource, string) []byte {
		panic("provider")
	}
	a, err := Init(tk, opts)
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.queryDropTarget(event.DragAndDropQueryData{WindowID: 1}).SupportedActionsPerMime)
	assert.Nil(t, a.dataTransferData(event.SourceClipboard, event.MimeText))
}

func TestTerminationVeto(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	asked := 0
	h.run(func(e event.Event) event.HandlerResult {
		if e.Kind() == event.KindApplicationWantsToTerminate {
			asked++
			if asked == 1 {
				return event.Stop
			}
		}
		return event.Continue
	})

	h.tk.RequestTermination()
	h.waitFor(event.KindApplicationWantsToTerminate)
	h.tk.RequestTermination()
	h.waitFor(event.KindApplicationWantsToTerminate)
	h.waitFor(event.KindApplicationWillTerminate)
	assert.NoError(t, h.exit())
}

func TestEventLoopThread(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	h.run(nil)
	h.waitFor(event.KindApplicationStarted)

	assert.False(t, h.app.IsEventLoopThread())

	var inLoop bool
	var syncErr error
	require.NoError(t, h.do(func() error {
		inLoop = h.app.IsEventLoopThread()
		syncErr = h.app.RunOnEventLoopSync(context.Background(), func() {})
		return nil
	}))
	assert.True(t, inLoop)
	assert.ErrorIs(t, syncErr, workqueue.ErrSyncFromLoop)

	ran := make(chan bool, 1)
	require.NoError(t, h.app.RunOnEventLoopAsync(func() { ran <- h.app.IsEventLoopThread() }))
	select {
	case v := <-ran:
		assert.True(t, v)
	case <-time.After(waitTimeout):
		t.Fatal("posted work did not run")
	}
}

func TestTextInput(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{})
	h.createWindow(1, geometry.LogicalSize{Width: 300, Height: 200})
	h.run(nil)
	h.waitFor(event.KindWindowConfigure)

	field := &ime.Field{Buffer: ime.NewBuffer("existing "), Purpose: event.PurposeNormal}
	require.NoError(t, h.do(func() error { return h.app.FocusTextField(1, field) }))
	assert.Same(t, field, h.app.TextField(1))

	h.tk.Inject(event.TextInputAvailability{WindowID: 1, Available: true})
	h.waitFor(event.KindTextInputAvailability)
	snap, ok := h.tk.Window(1)
	require.True(t, ok)
	require.NotNil(t, snap.TextInput)
	assert.Equal(t, "existing ", snap.TextInput.SurroundingText)

	h.tk.Inject(event.TextInput{WindowID: 1, Commit: &event.CommitString{Text: event.StringPtr("X")}})
	h.waitFor(event.KindTextInput)
	require.NoError(t, h.do(func() error { return nil }))
	assert.Equal(t, "existing X", field.Buffer.Text())
	assert.Equal(t, 10, field.Buffer.Cursor())

	snap, _ = h.tk.Window(1)
	require.NotNil(t, snap.TextInput)
	assert.Equal(t, "existing X", snap.TextInput.SurroundingText)
	assert.Equal(t, uint16(10), snap.TextInput.CursorCodepointOffset)
	assert.True(t, snap.TextInput.ChangeCausedByInputMethod)

	// keys the handler does not consume edit the field
	h.tk.Inject(event.KeyDown{WindowID: 1, KeyCode: 10, Key: '!', Characters: event.StringPtr("!")})
	h.tk.Inject(event.KeyDown{WindowID: 1, KeyCode: 22, Key: event.KeyBackSpace, Characters: event.StringPtr("\b")})
	h.tk.Inject(event.KeyDown{WindowID: 1, KeyCode: 22, Key: event.KeyBackSpace, Characters: event.StringPtr("\b")})
	h.waitFor(event.KindKeyDown)
	h.waitFor(event.KindKeyDown)
	h.waitFor(event.KindKeyDown)
	require.NoError(t, h.do(func() error { return nil }))
	assert.Equal(t, "existing ", field.Buffer.Text())

	snap, _ = h.tk.Window(1)
	assert.Equal(t, "existing ", snap.TextInput.SurroundingText)
	assert.False(t, snap.TextInput.ChangeCausedByInputMethod)

	require.NoError(t, h.do(func() error { return h.app.BlurTextField(1) }))
	snap, _ = h.tk.Window(1)
	assert.Nil(t, snap.TextInput)
	assert.Nil(t, h.app.TextField(1))
}

func TestCloseButton(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{ClientDecorations: true})
	h.createWindow(1, geometry.LogicalSize{Width: 640, Height: 480})
	h.run(func(e event.Event) event.HandlerResult {
		if req, ok := e.(event.WindowCloseRequest); ok {
			if err := h.app.CloseWindow(req.WindowID); err != nil {
				t.Errorf("close: %v", err)
			}
		}
		return event.Continue
	})
	h.waitFor(event.KindWindowConfigure)
	w, _ := h.app.Windows().Get(1)
	assert.NotEmpty(t, w.Chrome.Regions)

	at := geometry.LogicalPoint{X: 620, Y: 30}
	h.tk.Inject(event.MouseDown{WindowID: 1, Button: event.ButtonLeft, LocationInWindow: at, Timestamp: 1000})
	h.tk.Inject(event.MouseUp{WindowID: 1, Button: event.ButtonLeft, LocationInWindow: at, Timestamp: 1050})

	req := h.waitFor(event.KindWindowCloseRequest)
	assert.Equal(t, event.WindowCloseRequest{WindowID: 1}, req)
	h.waitFor(event.KindWindowClosed)
	assert.Zero(t, h.app.Windows().Len())

	for _, ack := range h.tk.Acks() {
		if ack.Kind == event.KindMouseDown || ack.Kind == event.KindMouseUp {
			assert.True(t, ack.Consumed, "chrome clicks are consumed")
		}
	}
}

func TestNotificationsAndDialogs(t *testing.T) {
	h := newHarness(t, native.HeadlessOptions{FileChooserAnswer: []string{"file:///tmp/a.txt", "file:///tmp/b.txt"}})
	h.createWindow(1, geometry.LogicalSize{Width: 300, Height: 200})
	h.run(nil)
	h.waitFor(event.KindWindowConfigure)

	var req event.RequestID
	require.NoError(t, h.do(func() error {
		var err error
		req, err = h.app.ShowNotification(native.ShowNotificationParams{Title: "hi", Body: "there"})
		return err
	}))
	kind, ok := h.app.Requests().Kind(req)
	if ok {
		assert.Equal(t, RequestNotification, kind)
	}

	shown := h.waitFor(event.KindNotificationShown).(event.NotificationShown)
	assert.Equal(t, req, shown.RequestID)
	require.NotNil(t, shown.NotificationID)
	assert.True(t, h.app.Requests().Shown(*shown.NotificationID))

	require.NoError(t, h.do(func() error { return h.app.CloseNotification(*shown.NotificationID) }))
	h.waitFor(event.KindNotificationClosed)
	assert.False(t, h.app.Requests().Shown(*shown.NotificationID))

	require.NoError(t, h.do(func() error {
		var err error
		req, err = h.app.ShowOpenFileDialog(1, native.CommonDialogParams{}, native.OpenDialogParams{})
		return err
	}))
	resp := h.waitFor(event.KindFileChooserResponse).(event.FileChooserResponse)
	assert.Equal(t, req, resp.RequestID)
	assert.Equal(t, []string{"file:///tmp/a.txt"}, resp.Files)
	assert.Zero(t, h.app.Requests().Pending())

	_, err := h.app.ShowSaveFileDialog(9, native.CommonDialogParams{}, native.SaveDialogParams{})
	assert.ErrorIs(t, err, ErrContractViolation)
}

func TestRequests(t *testing.T) {
	r := NewRequests()
	require.NoError(t, r.Add(1, RequestNotification))
	require.NoError(t, r.Add(2, RequestSaveFile))
	assert.Error(t, r.Add(1, RequestOpenFile))
	assert.Error(t, r.Add(event.NoRequest, RequestOpenFile))

	_, err := r.Resolve(event.FileChooserResponse{RequestID: 1})
	assert.ErrorIs(t, err, ErrRequestMismatch)
	_, err = r.Resolve(event.NotificationShown{RequestID: 5})
	assert.ErrorIs(t, err, ErrUnknownRequest)

	kind, err := r.Resolve(event.FileChooserResponse{RequestID: 2})
	require.NoError(t, err)
	assert.Equal(t, RequestSaveFile, kind)

	kind, err = r.Resolve(event.NotificationShown{RequestID: 1})
	require.NoError(t, err)
	assert.Equal(t, RequestNotification, kind)
	assert.Zero(t, r.Pending())

	kind, err = r.Resolve(event.ApplicationStarted{})
	require.NoError(t, err)
	assert.Zero(t, kind)
}
