// Package handle wraps native resources that must be released exactly once.
package handle

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrAlreadyClosed is returned by a second Close
	ErrAlreadyClosed = errors.New("handle already closed")
	// ErrUseAfterClose is returned by Get after Close
	ErrUseAfterClose = errors.New("handle used after close")
)

// Handle owns a native resource of type T. The deinitializer runs on the first
// Close only.
type Handle[T any] struct {
	mu     sync.Mutex
	name   string
	value  T
	deinit func(T) error
	closed bool
}

// New wraps value. deinit may be nil.
func New[T any](name string, value T, deinit func(T) error) *Handle[T] {
	return &Handle[T]{name: name, value: value, deinit: deinit}
}

// Get returns the resource while the handle is open
func (h *Handle[T]) Get() (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		var zero T
		return zero, fmt.Errorf("%s: %w", h.name, ErrUseAfterClose)
	}
	return h.value, nil
}

// With runs f with the resource while holding the handle open
func (h *Handle[T]) With(f func(T) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("%s: %w", h.name, ErrUseAfterClose)
	}
	return f(h.value)
}

// Close releases the resource
func (h *Handle[T]) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("%s: %w", h.name, ErrAlreadyClosed)
	}
	h.closed = true

	var zero T
	v := h.value
	h.value = zero
	if h.deinit == nil {
		return nil
	}
	if err := h.deinit(v); err != nil {
		return fmt.Errorf("failed to release %s: %w", h.name, err)
	}
	return nil
}

// Closed reports whether Close was called
func (h *Handle[T]) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Handle[T]) String() string {
	if h.Closed() {
		return h.name + " (closed)"
	}
	return h.name
}
