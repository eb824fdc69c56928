// Package event defines the closed set of events a desktop toolkit reports to
// the application, together with the identifiers and records they carry.
package event

import (
	"fmt"

	"github.com/bnema/desktopkit/internal/geometry"
)

// Kind is the discriminant of an Event. The numeric values are the wire tags.
type Kind uint32

const (
	KindApplicationStarted Kind = iota + 1
	KindApplicationWantsToTerminate
	KindApplicationWillTerminate
	KindDisplayConfigurationChange
	KindXdgDesktopSettingChange
	KindWindowConfigure
	KindWindowCloseRequest
	KindWindowClosed
	KindWindowScreenChange
	KindWindowScaleChanged
	KindWindowFocusChange
	KindWindowKeyboardEnter
	KindWindowKeyboardLeave
	KindShouldRedraw
	KindShouldRedrawDragIcon
	KindWindowDraw
	KindKeyDown
	KindKeyUp
	KindModifiersChanged
	KindMouseMoved
	KindMouseEntered
	KindMouseExited
	KindMouseDown
	KindMouseUp
	KindMouseDragged
	KindScrollWheel
	KindTextInput
	KindTextInputAvailability
	KindDataTransferAvailable
	KindDataTransfer
	KindDataTransferCancelled
	KindDragAndDropLeave
	KindDropPerformed
	KindDragAndDropFinished
	KindDragIconDraw
	KindNotificationShown
	KindNotificationClosed
	KindFileChooserResponse

	kindEnd
)

var kindNames = [...]string{
	KindApplicationStarted:          "ApplicationStarted",
	KindApplicationWantsToTerminate: "ApplicationWantsToTerminate",
	KindApplicationWillTerminate:    "ApplicationWillTerminate",
	KindDisplayConfigurationChange:  "DisplayConfigurationChange",
	KindXdgDesktopSettingChange:     "XdgDesktopSettingChange",
	KindWindowConfigure:             "WindowConfigure",
	KindWindowCloseRequest:          "WindowCloseRequest",
	KindWindowClosed:                "WindowClosed",
	KindWindowScreenChange:          "WindowScreenChange",
	KindWindowScaleChanged:          "WindowScaleChanged",
	KindWindowFocusChange:           "WindowFocusChange",
	KindWindowKeyboardEnter:         "WindowKeyboardEnter",
	KindWindowKeyboardLeave:         "WindowKeyboardLeave",
	KindShouldRedraw:                "ShouldRedraw",
	KindShouldRedrawDragIcon:        "ShouldRedrawDragIcon",
	KindWindowDraw:                  "WindowDraw",
	KindKeyDown:                     "KeyDown",
	KindKeyUp:                       "KeyUp",
	KindModifiersChanged:            "ModifiersChanged",
	KindMouseMoved:                  "MouseMoved",
	KindMouseEntered:                "MouseEntered",
	KindMouseExited:                 "MouseExited",
	KindMouseDown:                   "MouseDown",
	KindMouseUp:                     "MouseUp",
	KindMouseDragged:                "MouseDragged",
	KindScrollWheel:                 "ScrollWheel",
	KindTextInput:                   "TextInput",
	KindTextInputAvailability:       "TextInputAvailability",
	KindDataTransferAvailable:       "DataTransferAvailable",
	KindDataTransfer:                "DataTransfer",
	KindDataTransferCancelled:       "DataTransferCancelled",
	KindDragAndDropLeave:            "DragAndDropLeave",
	KindDropPerformed:               "DropPerformed",
	KindDragAndDropFinished:         "DragAndDropFinished",
	KindDragIconDraw:                "DragIconDraw",
	KindNotificationShown:           "NotificationShown",
	KindNotificationClosed:          "NotificationClosed",
	KindFileChooserResponse:         "FileChooserResponse",
}

// Valid reports whether k names a known variant
func (k Kind) Valid() bool {
	return k > 0 && k < kindEnd
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint32(k))
}

// Event is one of the variants in this package. The set is closed.
type Event interface {
	Kind() Kind
	isEvent()
}

// WindowEvent is implemented by events scoped to a window
type WindowEvent interface {
	Event
	Window() WindowID
}

// HandlerResult is returned by the application's event handler. Stop tells the
// toolkit the event was consumed and its default processing should be skipped;
// it never ends the event loop.
type HandlerResult uint8

const (
	Continue HandlerResult = iota
	Stop
)

func (r HandlerResult) String() string {
	if r == Stop {
		return "stop"
	}
	return "continue"
}

// Handler consumes events on the event loop goroutine
type Handler func(Event) HandlerResult

// Application events

type ApplicationStarted struct{}

// ApplicationWantsToTerminate asks whether the application may quit. Returning
// Stop vetoes the termination.
type ApplicationWantsToTerminate struct{}

type ApplicationWillTerminate struct{}

type DisplayConfigurationChange struct {
	Screens AllScreens
}

type XdgDesktopSettingChange struct {
	Setting Setting
}

// Window events

type WindowConfigure struct {
	WindowID       WindowID
	Size           geometry.LogicalSize
	Active         bool
	Maximized      bool
	Fullscreen     bool
	DecorationMode DecorationMode
	Capabilities   WindowCapabilities
}

// WindowCloseRequest is sent when the user asks to close the window, e.g. with
// the compositor's close button. The window stays open until the application
// closes it.
type WindowCloseRequest struct {
	WindowID WindowID
}

// WindowClosed confirms compositor-side teardown. No event for WindowID follows.
type WindowClosed struct {
	WindowID WindowID
}

type WindowScreenChange struct {
	WindowID    WindowID
	NewScreenID ScreenID
}

type WindowScaleChanged struct {
	WindowID WindowID
	NewScale float64
}

type WindowFocusChange struct {
	WindowID WindowID
	Focused  bool
}

type WindowKeyboardEnter struct {
	WindowID WindowID
	KeyCodes []KeyCode
	KeySyms  []KeySym
}

type WindowKeyboardLeave struct {
	WindowID WindowID
}

type ShouldRedraw struct {
	WindowID WindowID
}

type ShouldRedrawDragIcon struct{}

type WindowDraw struct {
	WindowID WindowID
	DrawData DrawData
	Size     geometry.PhysicalSize
	Scale    float64
}

// Keyboard events

// KeyDown reports a key press. Characters is nil when the key produced no text.
type KeyDown struct {
	WindowID   WindowID
	KeyCode    KeyCode
	Characters *string
	Key        KeySym
	Modifiers  Modifiers
	IsRepeat   bool
}

// KeyUp reports a key release. Releases never carry text.
type KeyUp struct {
	WindowID  WindowID
	KeyCode   KeyCode
	Key       KeySym
	Modifiers Modifiers
}

type ModifiersChanged struct {
	WindowID  WindowID
	Modifiers Modifiers
}

// Pointer events

type MouseMoved struct {
	WindowID         WindowID
	LocationInWindow geometry.LogicalPoint
	Timestamp        Timestamp
}

type MouseEntered struct {
	WindowID         WindowID
	LocationInWindow geometry.LogicalPoint
}

type MouseExited struct {
	WindowID WindowID
}

type MouseDown struct {
	WindowID         WindowID
	Button           MouseButton
	LocationInWindow geometry.LogicalPoint
	Timestamp        Timestamp
}

type MouseUp struct {
	WindowID         WindowID
	Button           MouseButton
	LocationInWindow geometry.LogicalPoint
	Timestamp        Timestamp
}

// MouseDragged is a move while Button is held
type MouseDragged struct {
	WindowID         WindowID
	Button           MouseButton
	LocationInWindow geometry.LogicalPoint
	Timestamp        Timestamp
}

type ScrollWheel struct {
	WindowID         WindowID
	LocationInWindow geometry.LogicalPoint
	Timestamp        Timestamp
	Horizontal       ScrollData
	Vertical         ScrollData
}

// Text input events

// TextInput carries input method edits. Apply them in order: delete surrounding
// text, insert the commit string, then show the preedit string.
type TextInput struct {
	WindowID          WindowID
	Preedit           *PreeditString
	Commit            *CommitString
	DeleteSurrounding *DeleteSurroundingText
}

// TextInputAvailability reports whether an input method can be used. Enable or
// disable text input in response.
type TextInputAvailability struct {
	WindowID  WindowID
	Available bool
}

// Data transfer events

// DataTransferAvailable is sent whenever the offered mime types of a source change,
// including to an empty list.
type DataTransferAvailable struct {
	Source    DataSource
	MimeTypes []string
}

// DataTransfer answers a paste request with the same serial. Content is nil when
// none of the requested mime types was available.
type DataTransfer struct {
	Serial  int32
	Content *DataTransferContent
}

// DataTransferCancelled means data this application offered is no longer wanted
type DataTransferCancelled struct {
	Source DataSource
}

// DragAndDropLeave means a drag targeting the window left it or was cancelled
type DragAndDropLeave struct {
	WindowID WindowID
}

// DropPerformed delivers the payload of a drop onto the window
type DropPerformed struct {
	WindowID WindowID
	Content  *DataTransferContent
	Action   *DragAction
}

// DragAndDropFinished ends a drag started from the window. Action is nil when the
// drop was cancelled or landed nowhere.
type DragAndDropFinished struct {
	WindowID WindowID
	Action   *DragAction
}

type DragIconDraw struct {
	DrawData DrawData
	Size     geometry.PhysicalSize
	Scale    float64
}

// Notifications and dialogs

// NotificationShown answers a show request. NotificationID is nil if the request
// failed, e.g. because notifications are not authorized.
type NotificationShown struct {
	RequestID      RequestID
	NotificationID *uint32
}

// NotificationClosed reports a dismissed or activated notification. Action and
// ActivationToken are only set when the notification was activated.
type NotificationClosed struct {
	NotificationID  uint32
	Action          *string
	ActivationToken *string
}

// FileChooserResponse answers a file dialog. Files is empty if the user cancelled.
type FileChooserResponse struct {
	RequestID RequestID
	// Files are URL encoded paths
	Files []string
}

func (ApplicationStarted) Kind() Kind          { return KindApplicationStarted }
func (ApplicationWantsToTerminate) Kind() Kind { return KindApplicationWantsToTerminate }
func (ApplicationWillTerminate) Kind() Kind    { return KindApplicationWillTerminate }
func (DisplayConfigurationChange) Kind() Kind  { return KindDisplayConfigurationChange }
func (XdgDesktopSettingChange) Kind() Kind     { return KindXdgDesktopSettingChange }
func (WindowConfigure) Kind() Kind             { return KindWindowConfigure }
func (WindowCloseRequest) Kind() Kind          { return KindWindowCloseRequest }
func (WindowClosed) Kind() Kind                { return KindWindowClosed }
func (WindowScreenChange) Kind() Kind          { return KindWindowScreenChange }
func (WindowScaleChanged) Kind() Kind          { return KindWindowScaleChanged }
func (WindowFocusChange) Kind() Kind           { return KindWindowFocusChange }
func (WindowKeyboardEnter) Kind() Kind         { return KindWindowKeyboardEnter }
func (WindowKeyboardLeave) Kind() Kind         { return KindWindowKeyboardLeave }
func (ShouldRedraw) Kind() Kind                { return KindShouldRedraw }
func (ShouldRedrawDragIcon) Kind() Kind        { return KindShouldRedrawDragIcon }
func (WindowDraw) Kind() Kind                  { return KindWindowDraw }
func (KeyDown) Kind() Kind                     { return KindKeyDown }
func (KeyUp) Kind() Kind                       { return KindKeyUp }
func (ModifiersChanged) Kind() Kind            { return KindModifiersChanged }
func (MouseMoved) Kind() Kind                  { return KindMouseMoved }
func (MouseEntered) Kind() Kind                { return KindMouseEntered }
func (MouseExited) Kind() Kind                 { return KindMouseExited }
func (MouseDown) Kind() Kind                   { return KindMouseDown }
func (MouseUp) Kind() Kind                     { return KindMouseUp }
func (MouseDragged) Kind() Kind                { return KindMouseDragged }
func (ScrollWheel) Kind() Kind                 { return KindScrollWheel }
func (TextInput) Kind() Kind                   { return KindTextInput }
func (TextInputAvailability) Kind() Kind       { return KindTextInputAvailability }
func (DataTransferAvailable) Kind() Kind       { return KindDataTransferAvailable }
func (DataTransfer) Kind() Kind                { return KindDataTransfer }
func (DataTransferCancelled) Kind() Kind       { return KindDataTransferCancelled }
func (DragAndDropLeave) Kind() Kind            { return KindDragAndDropLeave }
func (DropPerformed) Kind() Kind               { return KindDropPerformed }
func (DragAndDropFinished) Kind() Kind         { return KindDragAndDropFinished }
func (DragIconDraw) Kind() Kind                { return KindDragIconDraw }
func (NotificationShown) Kind() Kind           { return KindNotificationShown }
func (NotificationClosed) Kind() Kind          { return KindNotificationClosed }
func (FileChooserResponse) Kind() Kind         { return KindFileChooserResponse }

func (ApplicationStarted) isEvent()          {}
func (ApplicationWantsToTerminate) isEvent() {}
func (ApplicationWillTerminate) isEvent()    {}
func (DisplayConfigurationChange) isEvent()  {}
func (XdgDesktopSettingChange) isEvent()     {}
func (WindowConfigure) isEvent()             {}
func (WindowCloseRequest) isEvent()          {}
func (WindowClosed) isEvent()                {}
func (WindowScreenChange) isEvent()          {}
func (WindowScaleChanged) isEvent()          {}
func (WindowFocusChange) isEvent()           {}
func (WindowKeyboardEnter) isEvent()         {}
func (WindowKeyboardLeave) isEvent()         {}
func (ShouldRedraw) isEvent()                {}
func (ShouldRedrawDragIcon) isEvent()        {}
func (WindowDraw) isEvent()                  {}
func (KeyDown) isEvent()                     {}
func (KeyUp) isEvent()                       {}
func (ModifiersChanged) isEvent()            {}
func (MouseMoved) isEvent()                  {}
func (MouseEntered) isEvent()                {}
func (MouseExited) isEvent()                 {}
func (MouseDown) isEvent()                   {}
func (MouseUp) isEvent()                     {}
func (MouseDragged) isEvent()                {}
func (ScrollWheel) isEvent()                 {}
func (TextInput) isEvent()                   {}
func (TextInputAvailability) isEvent()       {}
func (DataTransferAvailable) isEvent()       {}
func (DataTransfer) isEvent()                {}
func (DataTransferCancelled) isEvent()       {}
func (DragAndDropLeave) isEvent()            {}
func (DropPerformed) isEvent()               {}
func (DragAndDropFinished) isEvent()         {}
func (DragIconDraw) isEvent()                {}
func (NotificationShown) isEvent()           {}
func (NotificationClosed) isEvent()          {}
func (FileChooserResponse) isEvent()         {}

func (e WindowConfigure) Window() WindowID       { return e.WindowID }
func (e WindowCloseRequest) Window() WindowID    { return e.WindowID }
func (e WindowClosed) Window() WindowID          { return e.WindowID }
func (e WindowScreenChange) Window() WindowID    { return e.WindowID }
func (e WindowScaleChanged) Window() WindowID    { return e.WindowID }
func (e WindowFocusChange) Window() WindowID     { return e.WindowID }
func (e WindowKeyboardEnter) Window() WindowID   { return e.WindowID }
func (e WindowKeyboardLeave) Window() WindowID   { return e.WindowID }
func (e ShouldRedraw) Window() WindowID          { return e.WindowID }
func (e WindowDraw) Window() WindowID            { return e.WindowID }
func (e KeyDown) Window() WindowID               { return e.WindowID }
func (e KeyUp) Window() WindowID                 { return e.WindowID }
func (e ModifiersChanged) Window() WindowID      { return e.WindowID }
func (e MouseMoved) Window() WindowID            { return e.WindowID }
func (e MouseEntered) Window() WindowID          { return e.WindowID }
func (e MouseExited) Window() WindowID           { return e.WindowID }
func (e MouseDown) Window() WindowID             { return e.WindowID }
func (e MouseUp) Window() WindowID               { return e.WindowID }
func (e MouseDragged) Window() WindowID          { return e.WindowID }
func (e ScrollWheel) Window() WindowID           { return e.WindowID }
func (e TextInput) Window() WindowID             { return e.WindowID }
func (e TextInputAvailability) Window() WindowID { return e.WindowID }
func (e DragAndDropLeave) Window() WindowID      { return e.WindowID }
func (e DropPerformed) Window() WindowID         { return e.WindowID }
func (e DragAndDropFinished) Window() WindowID   { return e.WindowID }
