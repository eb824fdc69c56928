package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/desktopkit/internal/event"
)

var (
	// ErrUnknownRequest is returned for a completion no request is waiting for
	ErrUnknownRequest = errors.New("unknown request")
	// ErrRequestMismatch is returned when a completion answers a different
	// kind of request
	ErrRequestMismatch = errors.New("completion does not match request")
)

// RequestKind is what an asynchronous request asked for
type RequestKind uint8

const (
	RequestNotification RequestKind = iota + 1
	RequestOpenFile
	RequestSaveFile
)

func (k RequestKind) String() string {
	switch k {
	case RequestNotification:
		return "notification"
	case RequestOpenFile:
		return "open file"
	case RequestSaveFile:
		return "save file"
	}
	return fmt.Sprintf("request(%d)", uint8(k))
}

// Requests tracks requests until their completion event arrives
type Requests struct {
	mu      sync.Mutex
	pending map[event.RequestID]RequestKind
	// notifications maps shown notifications to the request that showed them
	notifications map[uint32]event.RequestID
}

// NewRequests creates an empty tracker
func NewRequests() *Requests {
	return &Requests{
		pending:       make(map[event.RequestID]RequestKind),
		notifications: make(map[uint32]event.RequestID),
	}
}

// Add records a request the toolkit accepted
func (r *Requests) Add(id event.RequestID, kind RequestKind) error {
	if !id.Valid() {
		return fmt.Errorf("invalid request id for %s", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[id]; ok {
		return fmt.Errorf("request %d is already pending", id)
	}
	r.pending[id] = kind
	return nil
}

// Resolve completes the request answered by e. Events that answer no request
// are ignored.
func (r *Requests) Resolve(e event.Event) (RequestKind, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id event.RequestID
	switch e := e.(type) {
	case event.NotificationShown:
		id = e.RequestID
		if err := r.takeLocked(id, RequestNotification); err != nil {
			return 0, err
		}
		if e.NotificationID != nil {
			r.notifications[*e.NotificationID] = id
		}
		return RequestNotification, nil
	case event.FileChooserResponse:
		id = e.RequestID
		kind, ok := r.pending[id]
		if !ok {
			return 0, fmt.Errorf("%w: %d", ErrUnknownRequest, id)
		}
		if kind != RequestOpenFile && kind != RequestSaveFile {
			return 0, fmt.Errorf("%w: %d is a %s request", ErrRequestMismatch, id, kind)
		}
		delete(r.pending, id)
		return kind, nil
	case event.NotificationClosed:
		delete(r.notifications, e.NotificationID)
	}
	return 0, nil
}

func (r *Requests) takeLocked(id event.RequestID, kind RequestKind) error {
	got, ok := r.pending[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRequest, id)
	}
	if got != kind {
		return fmt.Errorf("%w: %d is a %s request", ErrRequestMismatch, id, got)
	}
	delete(r.pending, id)
	return nil
}

// Pending returns the number of requests awaiting completion
func (r *Requests) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Kind returns the kind of a pending request
func (r *Requests) Kind(id event.RequestID) (RequestKind, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.pending[id]
	return k, ok
}

// Shown reports whether a notification is on screen
func (r *Requests) Shown(id uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.notifications[id]
	return ok
}
