package transfer

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/bnema/desktopkit/internal/event"
)

var (
	// ErrDuplicateSerial is returned when a serial is reused while its paste is pending
	ErrDuplicateSerial = errors.New("paste serial already pending")
	// ErrUnexpectedAnswer is returned for a DataTransfer no pending paste asked for
	ErrUnexpectedAnswer = errors.New("data transfer answers no pending paste")
	// ErrAlreadyResolved is returned for a second answer to the same serial
	ErrAlreadyResolved = errors.New("paste already resolved")
	// ErrStaleAnswer is returned for an answer to a paste that was superseded,
	// cancelled or timed out. The toolkit may still deliver it; it is dropped.
	ErrStaleAnswer = errors.New("data transfer answers an abandoned paste")
)

const (
	// DefaultPasteTimeout bounds how long a paste waits for its answer
	DefaultPasteTimeout = 5 * time.Second

	// maxSettled bounds how many finished serials are remembered
	maxSettled = 256
)

type settlement uint8

const (
	settledResolved settlement = iota
	settledAbandoned
)

// PendingPaste is a read that awaits its DataTransfer
type PendingPaste struct {
	Source    event.DataSource
	Serial    int32
	MimeTypes []string
	Deadline  time.Time
}

// Pastes correlates paste requests with DataTransfer answers by serial
type Pastes struct {
	mu      sync.Mutex
	timeout time.Duration
	now     func() time.Time
	pending map[int32]PendingPaste

	// settled remembers the most recent finished serials, oldest first in order
	settled map[int32]settlement
	order   []int32
}

// NewPastes creates a tracker. A non-positive timeout means DefaultPasteTimeout.
func NewPastes(timeout time.Duration) *Pastes {
	if timeout <= 0 {
		timeout = DefaultPasteTimeout
	}
	return &Pastes{
		timeout: timeout,
		now:     time.Now,
		pending: make(map[int32]PendingPaste),
		settled: make(map[int32]settlement),
	}
}

// Begin records a paste. The caller picks the serial.
func (p *Pastes) Begin(source event.DataSource, serial int32, mimeTypes []string) (PendingPaste, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.pending[serial]; ok {
		return PendingPaste{}, fmt.Errorf("%w: %d", ErrDuplicateSerial, serial)
	}
	p.forget(serial)

	pp := PendingPaste{
		Source:    source,
		Serial:    serial,
		MimeTypes: append([]string(nil), mimeTypes...),
		Deadline:  p.now().Add(p.timeout),
	}
	p.pending[serial] = pp
	return pp, nil
}

// Resolve matches an answer with its pending paste. Each paste resolves once.
// Answers to abandoned pastes return ErrStaleAnswer.
func (p *Pastes) Resolve(e event.DataTransfer) (PendingPaste, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pp, ok := p.pending[e.Serial]
	if !ok {
		switch st, done := p.settled[e.Serial]; {
		case done && st == settledAbandoned:
			p.settle(e.Serial, settledResolved)
			return PendingPaste{}, fmt.Errorf("%w: serial %d", ErrStaleAnswer, e.Serial)
		case done:
			return PendingPaste{}, fmt.Errorf("%w: serial %d", ErrAlreadyResolved, e.Serial)
		}
		return PendingPaste{}, fmt.Errorf("%w: serial %d", ErrUnexpectedAnswer, e.Serial)
	}
	delete(p.pending, e.Serial)
	p.settle(e.Serial, settledResolved)
	return pp, nil
}

// settle records how serial finished, evicting the oldest record when full.
// Must be called with p.mu held.
func (p *Pastes) settle(serial int32, st settlement) {
	if _, ok := p.settled[serial]; !ok {
		if len(p.order) >= maxSettled {
			delete(p.settled, p.order[0])
			p.order = p.order[1:]
		}
		p.order = append(p.order, serial)
	}
	p.settled[serial] = st
}

func (p *Pastes) forget(serial int32) {
	if _, ok := p.settled[serial]; !ok {
		return
	}
	delete(p.settled, serial)
	p.order = slices.DeleteFunc(p.order, func(s int32) bool { return s == serial })
}

// Settled returns how many finished serials are remembered
func (p *Pastes) Settled() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.settled)
}

// Cancel drops every pending paste on source and returns them ordered by serial
func (p *Pastes) Cancel(source event.DataSource) []PendingPaste {
	return p.dropWhere(func(pp PendingPaste) bool { return pp.Source == source })
}

// Expire drops pastes whose deadline passed
func (p *Pastes) Expire(now time.Time) []PendingPaste {
	return p.dropWhere(func(pp PendingPaste) bool { return !now.Before(pp.Deadline) })
}

func (p *Pastes) dropWhere(match func(PendingPaste) bool) []PendingPaste {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []PendingPaste
	for serial, pp := range p.pending {
		if match(pp) {
			out = append(out, pp)
			delete(p.pending, serial)
			p.settle(serial, settledAbandoned)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })
	return out
}

// Pending returns the number of unanswered pastes
func (p *Pastes) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Lookup returns the pending paste for serial
func (p *Pastes) Lookup(serial int32) (PendingPaste, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pp, ok := p.pending[serial]
	return pp, ok
}
