package native

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/bnema/desktopkit/internal/event"
)

// TextInputEnable implements Backend
func (h *Headless) TextInputEnable(id event.WindowID, ctx event.TextInputContext) error {
	return h.update(id, false, func(w *headlessWindow) { w.textInput = &ctx })
}

// TextInputUpdate implements Backend
func (h *Headless) TextInputUpdate(id event.WindowID, ctx event.TextInputContext) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, err := h.windowLocked(id)
	if err != nil {
		return err
	}
	if w.textInput == nil {
		return fmt.Errorf("text input is not enabled for window %d", id)
	}
	w.textInput = &ctx
	return nil
}

// TextInputDisable implements Backend
func (h *Headless) TextInputDisable(id event.WindowID) error {
	return h.update(id, false, func(w *headlessWindow) { w.textInput = nil })
}

func (h *Headless) nextRequestLocked() event.RequestID {
	h.nextRequest++
	if !h.nextRequest.Valid() {
		h.nextRequest++
	}
	return h.nextRequest
}

// ShowNotification implements Backend. The answer arrives as NotificationShown.
func (h *Headless) ShowNotification(params ShowNotificationParams) (event.RequestID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkLocked(); err != nil {
		return event.NoRequest, err
	}

	req := h.nextRequestLocked()
	shown := event.NotificationShown{RequestID: req}
	if !h.opts.DenyNotifications {
		h.nextNotice++
		id := h.nextNotice
		h.notifications[id] = struct{}{}
		shown.NotificationID = &id
	}
	h.emitLocked(shown)
	return req, nil
}

// CloseNotification implements Backend
func (h *Headless) CloseNotification(id uint32) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkLocked(); err != nil {
		return err
	}
	if _, ok := h.notifications[id]; !ok {
		return fmt.Errorf("unknown notification %d", id)
	}
	delete(h.notifications, id)
	h.emitLocked(event.NotificationClosed{NotificationID: id})
	return nil
}

// ActivateNotification simulates the user clicking a notification or one of
// its actions
func (h *Headless) ActivateNotification(id uint32, action, activationToken string) {
	h.do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.notifications[id]; !ok {
			return
		}
		delete(h.notifications, id)
		h.emitLocked(event.NotificationClosed{
			NotificationID:  id,
			Action:          event.StringPtr(action),
			ActivationToken: event.StringPtr(activationToken),
		})
	})
}

// OpenFileDialog implements Backend
func (h *Headless) OpenFileDialog(id event.WindowID, common CommonDialogParams, open OpenDialogParams) (event.RequestID, error) {
	return h.fileDialog(id, open.AllowsMultipleSelections)
}

// SaveFileDialog implements Backend
func (h *Headless) SaveFileDialog(id event.WindowID, common CommonDialogParams, save SaveDialogParams) (event.RequestID, error) {
	return h.fileDialog(id, false)
}

func (h *Headless) fileDialog(id event.WindowID, multiple bool) (event.RequestID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.windowLocked(id); err != nil {
		return event.NoRequest, err
	}

	req := h.nextRequestLocked()
	files := slices.Clone(h.opts.FileChooserAnswer)
	if !multiple && len(files) > 1 {
		files = files[:1]
	}
	h.emitLocked(event.FileChooserResponse{RequestID: req, Files: files})
	return req, nil
}

// Screens implements Backend. The result is a copy the caller owns.
func (h *Headless) Screens() (event.AllScreens, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkLocked(); err != nil {
		return event.AllScreens{}, err
	}
	return h.allScreensLocked(), nil
}

// SetScreens simulates a display configuration change
func (h *Headless) SetScreens(screens ...event.Screen) {
	h.do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if len(screens) == 0 {
			return
		}
		h.screens = slices.Clone(screens)
		h.emitLocked(event.DisplayConfigurationChange{Screens: h.allScreensLocked()})
	})
}

// OpenURL implements Backend
func (h *Headless) OpenURL(rawURL string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkLocked(); err != nil {
		return err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("invalid url %q: missing scheme", rawURL)
	}
	h.openedURLs = append(h.openedURLs, u.String())
	return nil
}

// OpenedURLs returns every URL opened so far
func (h *Headless) OpenedURLs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.openedURLs)
}

// SetCursorTheme implements Backend
func (h *Headless) SetCursorTheme(name string, size int32) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkLocked(); err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("invalid cursor size %d", size)
	}
	h.cursorTheme = name
	h.cursorSize = size
	return nil
}

// CursorTheme returns the theme set with SetCursorTheme
func (h *Headless) CursorTheme() (string, int32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursorTheme, h.cursorSize
}

// EglProcFunc implements Backend. The headless toolkit has no EGL display.
func (h *Headless) EglProcFunc() (EglProcFunc, bool) {
	return EglProcFunc{}, false
}
