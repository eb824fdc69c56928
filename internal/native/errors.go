package native

import (
	"sync"

	"go.uber.org/multierr"
)

// ErrorQueue collects errors the toolkit raises outside of a direct call, for
// example inside a callback or while answering a request. The application
// drains it after every call into the toolkit.
type ErrorQueue struct {
	mu   sync.Mutex
	errs []error
}

// Push records err. Nil errors are ignored.
func (q *ErrorQueue) Push(err error) {
	if err == nil {
		return
	}
	q.mu.Lock()
	q.errs = append(q.errs, err)
	q.mu.Unlock()
}

// Drain returns all queued errors combined into one and empties the queue
func (q *ErrorQueue) Drain() error {
	q.mu.Lock()
	errs := q.errs
	q.errs = nil
	q.mu.Unlock()
	return multierr.Combine(errs...)
}

// Len returns the number of queued errors
func (q *ErrorQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.errs)
}
