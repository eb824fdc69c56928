// Package native is the boundary to the platform toolkit. Backend is what the
// application layer drives; Headless is an in-memory implementation used for
// tests, scenario runs and development without a display server.
package native

import (
	"context"
	"errors"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
)

var (
	// ErrStopped is returned by NextRecord once the event loop was stopped
	ErrStopped = errors.New("event loop stopped")
	// ErrShutdown is returned by calls made after Shutdown
	ErrShutdown = errors.New("toolkit shut down")
	// ErrUnknownWindow is returned for window ids the toolkit does not know
	ErrUnknownWindow = errors.New("unknown window")
)

// Callbacks are synchronous queries the toolkit makes into the application.
// They run on the event loop goroutine.
type Callbacks struct {
	// QueryDragAndDropTarget is asked what a window accepts at a location
	// while a drag hovers it. It must be free of side effects.
	QueryDragAndDropTarget func(event.DragAndDropQueryData) event.DragAndDropQueryResponse
	// GetDataTransferData returns the bytes for data this application offered,
	// or nil if the mime type is no longer available.
	GetDataTransferData func(source event.DataSource, mimeType string) []byte
}

// DragAndDropParams starts a drag from one of the application's windows
type DragAndDropParams struct {
	WindowID      event.WindowID
	MimeTypes     []string
	Actions       event.DragActions
	DragIconSize  geometry.LogicalSize
	RenderingMode event.RenderingMode
}

// ShowNotificationParams describes a desktop notification
type ShowNotificationParams struct {
	Title string
	Body  string
	// SoundFilePath is played when the notification pops up, if set
	SoundFilePath *string
}

// CommonDialogParams are shared by open and save dialogs
type CommonDialogParams struct {
	Modal         bool
	Title         *string
	AcceptLabel   *string
	CurrentFolder *string
}

type OpenDialogParams struct {
	SelectDirectories        bool
	AllowsMultipleSelections bool
}

type SaveDialogParams struct {
	NameFieldStringValue *string
}

// EglProcFunc is the toolkit's EGL proc-address lookup, handed to a GPU
// renderer that shares the toolkit's display connection. Both values are
// native pointers and stay valid until Shutdown.
type EglProcFunc struct {
	Func uintptr
	Ctx  uintptr
}

// Backend is the opaque toolkit. All methods except Wake and Stop must be
// called on the event loop goroutine.
type Backend interface {
	// NextRecord blocks for the next wire record. It returns (nil, nil) when
	// woken by Wake, and ErrStopped after Stop.
	NextRecord(ctx context.Context) ([]byte, error)
	// Ack reports the handler result for the last record
	Ack(consumed bool)
	Wake()
	Stop()
	Shutdown() error
	SetCallbacks(Callbacks)
	Errors() *ErrorQueue

	CreateWindow(params event.WindowParams) error
	CloseWindow(id event.WindowID) error
	SetTitle(id event.WindowID, title string) error
	SetMinSize(id event.WindowID, size geometry.LogicalSize) error
	SetMaxSize(id event.WindowID, size geometry.LogicalSize) error
	WindowSize(id event.WindowID) (geometry.LogicalSize, error)
	SetFullscreen(id event.WindowID) error
	UnsetFullscreen(id event.WindowID) error
	Maximize(id event.WindowID) error
	Unmaximize(id event.WindowID) error
	Minimize(id event.WindowID) error
	StartMove(id event.WindowID) error
	StartResize(id event.WindowID, edge event.ResizeEdge) error
	ShowMenu(id event.WindowID, at geometry.LogicalPoint) error
	SetPointerShape(id event.WindowID, shape event.PointerShape) error

	ClipboardPut(mimeTypes []string) error
	ClipboardPaste(serial int32, mimeTypes []string) error
	PrimarySelectionPut(mimeTypes []string) error
	PrimarySelectionPaste(serial int32, mimeTypes []string) error
	StartDragAndDrop(params DragAndDropParams) error
	// DropTarget returns the window a drag currently hovers
	DropTarget() (event.WindowID, bool)

	TextInputEnable(id event.WindowID, ctx event.TextInputContext) error
	TextInputUpdate(id event.WindowID, ctx event.TextInputContext) error
	TextInputDisable(id event.WindowID) error

	ShowNotification(params ShowNotificationParams) (event.RequestID, error)
	CloseNotification(id uint32) error
	OpenFileDialog(id event.WindowID, common CommonDialogParams, open OpenDialogParams) (event.RequestID, error)
	SaveFileDialog(id event.WindowID, common CommonDialogParams, save SaveDialogParams) (event.RequestID, error)

	Screens() (event.AllScreens, error)
	OpenURL(url string) error
	SetCursorTheme(name string, size int32) error
	// EglProcFunc reports false when the toolkit renders without EGL
	EglProcFunc() (EglProcFunc, bool)
}
