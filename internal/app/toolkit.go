package app

import (
	"fmt"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/ime"
	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/native"
)

// CreateWindow registers the window and asks the toolkit to create it. The
// caller picks the id; events for it start with a configure.
func (a *Application) CreateWindow(params event.WindowParams) error {
	if err := a.windows.Create(params); err != nil {
		return err
	}
	err := a.call(func(b native.Backend) error { return b.CreateWindow(params) })
	if err != nil {
		a.windows.Forget(params.WindowID)
		return fmt.Errorf("failed to create window %d: %w", params.WindowID, err)
	}
	logger.Debug("Window created", "window", params.WindowID, "title", params.Title)
	return nil
}

// CloseWindow asks the toolkit to close the window. Events for it may still
// arrive until WindowClosed.
func (a *Application) CloseWindow(id event.WindowID) error {
	if err := a.windows.BeginClose(id); err != nil {
		return fmt.Errorf("%w: %w", ErrContractViolation, err)
	}
	return a.call(func(b native.Backend) error { return b.CloseWindow(id) })
}

func (a *Application) windowCall(id event.WindowID, f func(native.Backend) error) error {
	if err := a.windows.Check(id); err != nil {
		return fmt.Errorf("%w: %w", ErrContractViolation, err)
	}
	return a.call(f)
}

// SetMinSize limits how small the user can make the window
func (a *Application) SetMinSize(id event.WindowID, size geometry.LogicalSize) error {
	return a.windowCall(id, func(b native.Backend) error { return b.SetMinSize(id, size) })
}

// SetMaxSize limits how large the user can make the window
func (a *Application) SetMaxSize(id event.WindowID, size geometry.LogicalSize) error {
	return a.windowCall(id, func(b native.Backend) error { return b.SetMaxSize(id, size) })
}

// WindowSize asks the toolkit for the current size
func (a *Application) WindowSize(id event.WindowID) (geometry.LogicalSize, error) {
	var size geometry.LogicalSize
	err := a.windowCall(id, func(b native.Backend) error {
		var err error
		size, err = b.WindowSize(id)
		return err
	})
	return size, err
}

// ClipboardPut offers contents on the clipboard. Only the mime types reach the
// toolkit; the bytes are handed out when another client pastes.
func (a *Application) ClipboardPut(contents ...event.DataTransferContent) error {
	return a.put(event.SourceClipboard, contents)
}

// PrimarySelectionPut offers contents as the primary selection
func (a *Application) PrimarySelectionPut(contents ...event.DataTransferContent) error {
	return a.put(event.SourcePrimarySelection, contents)
}

func (a *Application) put(source event.DataSource, contents []event.DataTransferContent) error {
	offer, dropped := a.transfer.Put(source, contents...)
	for _, pp := range dropped {
		logger.Debug("Paste superseded", "source", source, "serial", pp.Serial)
	}
	return a.call(func(b native.Backend) error {
		if source == event.SourcePrimarySelection {
			return b.PrimarySelectionPut(offer.MimeTypes())
		}
		return b.ClipboardPut(offer.MimeTypes())
	})
}

// Paste reads source in the preferred mime types. The answer arrives as
// exactly one DataTransfer carrying serial.
func (a *Application) Paste(source event.DataSource, serial int32, mimeTypes ...string) error {
	if source == event.SourceDragAndDrop {
		return fmt.Errorf("cannot paste from %s", source)
	}
	if _, err := a.transfer.Pastes.Begin(source, serial, mimeTypes); err != nil {
		return err
	}
	return a.call(func(b native.Backend) error {
		if source == event.SourcePrimarySelection {
			return b.PrimarySelectionPaste(serial, mimeTypes)
		}
		return b.ClipboardPaste(serial, mimeTypes)
	})
}

// StartDrag starts dragging contents out of a window. It ends with exactly
// one DragAndDropFinished.
func (a *Application) StartDrag(id event.WindowID, actions event.DragActions, iconSize geometry.LogicalSize, contents ...event.DataTransferContent) error {
	if err := a.windows.Check(id); err != nil {
		return fmt.Errorf("%w: %w", ErrContractViolation, err)
	}
	offer := a.transfer.BeginDrag(id, contents...)
	return a.call(func(b native.Backend) error {
		return b.StartDragAndDrop(native.DragAndDropParams{
			WindowID:     id,
			MimeTypes:    offer.MimeTypes(),
			Actions:      actions,
			DragIconSize: iconSize,
		})
	})
}

// FocusTextField makes f receive keyboard text and input method edits in
// the window
func (a *Application) FocusTextField(id event.WindowID, f *ime.Field) error {
	if err := a.windows.Check(id); err != nil {
		return fmt.Errorf("%w: %w", ErrContractViolation, err)
	}
	if err := a.checkLoop(); err != nil {
		return err
	}
	return a.session(id).Focus(f)
}

// BlurTextField removes text focus from the window
func (a *Application) BlurTextField(id event.WindowID) error {
	if err := a.checkLoop(); err != nil {
		return err
	}
	s := a.existingSession(id)
	if s == nil {
		return nil
	}
	return s.Blur()
}

// TextField returns the focused text field of the window
func (a *Application) TextField(id event.WindowID) *ime.Field {
	if s := a.existingSession(id); s != nil {
		return s.Field()
	}
	return nil
}

// TextFieldEdited tells the input method that the application changed the
// focused field
func (a *Application) TextFieldEdited(id event.WindowID) error {
	if err := a.checkLoop(); err != nil {
		return err
	}
	s := a.existingSession(id)
	if s == nil {
		return fmt.Errorf("%w: window %d", ime.ErrNoFocusedField, id)
	}
	return s.Edited()
}

// ShowNotification asks for a desktop notification. The NotificationShown
// carrying the returned id tells whether it was shown.
func (a *Application) ShowNotification(params native.ShowNotificationParams) (event.RequestID, error) {
	var id event.RequestID
	err := a.call(func(b native.Backend) error {
		var err error
		id, err = b.ShowNotification(params)
		return err
	})
	if err != nil {
		return event.NoRequest, err
	}
	return id, a.requests.Add(id, RequestNotification)
}

// CloseNotification withdraws a shown notification
func (a *Application) CloseNotification(id uint32) error {
	return a.call(func(b native.Backend) error { return b.CloseNotification(id) })
}

// ShowOpenFileDialog asks the user for files to open. The answer arrives as
// a FileChooserResponse carrying the returned id.
func (a *Application) ShowOpenFileDialog(id event.WindowID, common native.CommonDialogParams, open native.OpenDialogParams) (event.RequestID, error) {
	return a.fileDialog(id, RequestOpenFile, func(b native.Backend) (event.RequestID, error) {
		return b.OpenFileDialog(id, common, open)
	})
}

// ShowSaveFileDialog asks the user where to save
func (a *Application) ShowSaveFileDialog(id event.WindowID, common native.CommonDialogParams, save native.SaveDialogParams) (event.RequestID, error) {
	return a.fileDialog(id, RequestSaveFile, func(b native.Backend) (event.RequestID, error) {
		return b.SaveFileDialog(id, common, save)
	})
}

func (a *Application) fileDialog(id event.WindowID, kind RequestKind, show func(native.Backend) (event.RequestID, error)) (event.RequestID, error) {
	var req event.RequestID
	err := a.windowCall(id, func(b native.Backend) error {
		var err error
		req, err = show(b)
		return err
	})
	if err != nil {
		return event.NoRequest, err
	}
	return req, a.requests.Add(req, kind)
}

// ToolkitScreens asks the toolkit for the current screens
func (a *Application) ToolkitScreens() (event.AllScreens, error) {
	var screens event.AllScreens
	err := a.call(func(b native.Backend) error {
		var err error
		screens, err = b.Screens()
		return err
	})
	return screens, err
}

// OpenURL opens url with the desktop's default handler
func (a *Application) OpenURL(url string) error {
	return a.call(func(b native.Backend) error { return b.OpenURL(url) })
}

// SetCursorTheme changes the pointer theme for every window
func (a *Application) SetCursorTheme(name string, size int32) error {
	return a.call(func(b native.Backend) error { return b.SetCursorTheme(name, size) })
}

// DropTarget returns the window a drag currently hovers
func (a *Application) DropTarget() (event.WindowID, bool, error) {
	var (
		id      event.WindowID
		hovered bool
	)
	err := a.call(func(b native.Backend) error {
		id, hovered = b.DropTarget()
		return nil
	})
	return id, hovered, err
}

// EglProcFunc returns the toolkit's EGL proc-address lookup for a GPU
// renderer. ok is false when the toolkit renders without EGL.
func (a *Application) EglProcFunc() (f native.EglProcFunc, ok bool, err error) {
	err = a.call(func(b native.Backend) error {
		f, ok = b.EglProcFunc()
		return nil
	})
	return f, ok, err
}
