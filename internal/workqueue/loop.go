package workqueue

import "github.com/petermattis/goid"

// BindLoop marks the calling goroutine as the event loop
func (q *Queue) BindLoop() {
	q.loop.Store(goid.Get())
}

// UnbindLoop clears the loop goroutine
func (q *Queue) UnbindLoop() {
	q.loop.Store(0)
}

// InLoop reports whether the caller runs on the bound loop goroutine
func (q *Queue) InLoop() bool {
	id := q.loop.Load()
	return id != 0 && id == goid.Get()
}
