package transfer

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bnema/desktopkit/internal/event"
)

// ErrNoDrag is returned when a drag finishes that was never started
var ErrNoDrag = errors.New("no drag in progress")

// Session is the transfer state of one application. It is fed every transfer
// event and answers the toolkit's callbacks. Which window a drag hovers is
// known to the toolkit only; the query callback records nothing.
type Session struct {
	Offers *Offers
	Pastes *Pastes
	Policy DropPolicy

	mu        sync.Mutex
	available map[event.DataSource][]string
	dragging  map[event.WindowID][]string
}

// NewSession creates a session with the given paste timeout and drop policy
func NewSession(pasteTimeout time.Duration, policy DropPolicy) *Session {
	return &Session{
		Offers:    NewOffers(),
		Pastes:    NewPastes(pasteTimeout),
		Policy:    policy,
		available: make(map[event.DataSource][]string),
		dragging:  make(map[event.WindowID][]string),
	}
}

// Query answers QueryDragAndDropTarget from the drop policy alone
func (s *Session) Query(q event.DragAndDropQueryData) event.DragAndDropQueryResponse {
	return s.Policy.Query(q)
}

// Data answers GetDataTransferData
func (s *Session) Data(source event.DataSource, mimeType string) []byte {
	return s.Offers.Data(source, mimeType)
}

// Put offers contents on source. Pending pastes on that source are dropped
// because the selection they asked about is gone.
func (s *Session) Put(source event.DataSource, contents ...event.DataTransferContent) (Offer, []PendingPaste) {
	off, prev := s.Offers.Put(source, contents...)
	if prev == nil {
		return off, nil
	}
	return off, s.Pastes.Cancel(source)
}

// BeginDrag records an outgoing drag from window
func (s *Session) BeginDrag(window event.WindowID, contents ...event.DataTransferContent) Offer {
	off, _ := s.Offers.Put(event.SourceDragAndDrop, contents...)
	s.mu.Lock()
	s.dragging[window] = off.MimeTypes()
	s.mu.Unlock()
	return off
}

// Available returns the mime types last announced for source
func (s *Session) Available(source event.DataSource) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.available[source])
}

// Dragging reports whether window has an outgoing drag
func (s *Session) Dragging(window event.WindowID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dragging[window]
	return ok
}

// Result is what applying a transfer event produced
type Result struct {
	// Paste is set when a DataTransfer resolved a pending paste
	Paste *PendingPaste
	// Cancelled lists pastes dropped by the event
	Cancelled []PendingPaste
}

// Apply updates the session from a transfer event. Other events are ignored.
func (s *Session) Apply(e event.Event) (Result, error) {
	switch e := e.(type) {
	case event.DataTransferAvailable:
		s.mu.Lock()
		s.available[e.Source] = slices.Clone(e.MimeTypes)
		s.mu.Unlock()
	case event.DataTransfer:
		pp, err := s.Pastes.Resolve(e)
		if err != nil {
			return Result{}, err
		}
		return Result{Paste: &pp}, nil
	case event.DataTransferCancelled:
		s.Offers.Cancel(e.Source)
		return Result{Cancelled: s.Pastes.Cancel(e.Source)}, nil
	case event.DragAndDropFinished:
		s.mu.Lock()
		_, ok := s.dragging[e.WindowID]
		delete(s.dragging, e.WindowID)
		s.mu.Unlock()
		if !ok {
			return Result{}, fmt.Errorf("%w: window %d", ErrNoDrag, e.WindowID)
		}
		s.Offers.Cancel(event.SourceDragAndDrop)
	}
	return Result{}, nil
}
