// Package workqueue runs closures on the event loop goroutine. Work posted from
// any goroutine is executed in FIFO order, high priority work first, the next
// time the loop drains the queue.
package workqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bnema/desktopkit/internal/logger"
)

var (
	// ErrClosed is returned when posting to a closed queue
	ErrClosed = errors.New("work queue is closed")
	// ErrSyncFromLoop is returned by Sync when called on the loop goroutine,
	// where waiting for the loop would deadlock
	ErrSyncFromLoop = errors.New("synchronous work posted from the event loop")
	// ErrPanicked is returned by Sync when the closure panicked
	ErrPanicked = errors.New("work item panicked")
)

// Queue is an unbounded two-tier FIFO of closures
type Queue struct {
	mu     sync.Mutex
	high   []func()
	normal []func()
	closed bool

	ready chan struct{}
	loop  atomic.Int64
}

// New creates an empty queue
func New() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Post enqueues f in the normal tier
func (q *Queue) Post(f func()) error {
	return q.push(f, false)
}

// PostHigh enqueues f ahead of all normal work
func (q *Queue) PostHigh(f func()) error {
	return q.push(f, true)
}

func (q *Queue) push(f func(), high bool) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	if high {
		q.high = append(q.high, f)
	} else {
		q.normal = append(q.normal, f)
	}
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Ready is signalled after work is posted. The loop selects on it while it
// waits for the next event.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of pending closures
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.high) + len(q.normal)
}

// pop takes the next closure. When the queue is empty and closing is set the
// queue is marked closed in the same critical section so nothing slips in
// between the last item and the close.
func (q *Queue) pop(closing bool) (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch {
	case len(q.high) > 0:
		f := q.high[0]
		q.high[0] = nil
		q.high = q.high[1:]
		return f, true
	case len(q.normal) > 0:
		f := q.normal[0]
		q.normal[0] = nil
		q.normal = q.normal[1:]
		return f, true
	}
	if closing {
		q.closed = true
	}
	return nil, false
}

// Drain runs pending work until both tiers are empty, including work posted
// by the closures themselves. It returns the number of closures run.
func (q *Queue) Drain() int {
	n := 0
	for {
		f, ok := q.pop(false)
		if !ok {
			return n
		}
		run(f)
		n++
	}
}

// Close drains everything already posted and then rejects new work with
// ErrClosed. It is idempotent.
func (q *Queue) Close() {
	for {
		f, ok := q.pop(true)
		if !ok {
			return
		}
		run(f)
	}
}

// Closed reports whether Close has completed
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Sync posts f and waits until the loop has run it
func (q *Queue) Sync(ctx context.Context, f func()) error {
	if q.InLoop() {
		return ErrSyncFromLoop
	}

	done := make(chan any, 1)
	err := q.Post(func() {
		defer func() {
			r := recover()
			done <- r
			if r != nil {
				panic(r)
			}
		}()
		f()
	})
	if err != nil {
		return err
	}

	select {
	case r := <-done:
		if r != nil {
			return fmt.Errorf("%w: %v", ErrPanicked, r)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func run(f func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Work item panicked: %v", r)
		}
	}()
	f()
}
