package workqueue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_DrainOrder(t *testing.T) {
	q := New()
	var order []string

	require.NoError(t, q.Post(func() { order = append(order, "n1") }))
	require.NoError(t, q.Post(func() {
		order = append(order, "n2")
		_ = q.PostHigh(func() { order = append(order, "h-from-n2") })
		_ = q.Post(func() { order = append(order, "n-from-n2") })
	}))
	require.NoError(t, q.PostHigh(func() { order = append(order, "h1") }))
	require.NoError(t, q.Post(func() { order = append(order, "n3") }))

	n := q.Drain()

	assert.Equal(t, 6, n)
	assert.Equal(t, []string{"h1", "n1", "n2", "h-from-n2", "n3", "n-from-n2"}, order)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_CloseDrainsThenRejects(t *testing.T) {
	q := New()
	ran := 0
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Post(func() { ran++ }))
	}
	require.NoError(t, q.PostHigh(func() { ran++ }))

	q.Close()

	assert.Equal(t, 4, ran)
	assert.True(t, q.Closed())
	assert.ErrorIs(t, q.Post(func() { ran++ }), ErrClosed)
	assert.ErrorIs(t, q.PostHigh(func() { ran++ }), ErrClosed)
	assert.Equal(t, 0, q.Drain())
	assert.Equal(t, 4, ran)

	// idempotent
	q.Close()
}

func TestQueue_CloseRunsWorkPostedWhileClosing(t *testing.T) {
	q := New()
	ran := false
	require.NoError(t, q.Post(func() {
		assert.NoError(t, q.Post(func() { ran = true }))
	}))

	q.Close()
	assert.True(t, ran)
}

func TestQueue_PanicIsContained(t *testing.T) {
	q := New()
	after := false
	require.NoError(t, q.Post(func() { panic("boom") }))
	require.NoError(t, q.Post(func() { after = true }))

	assert.NotPanics(t, func() { q.Drain() })
	assert.True(t, after)
}

func TestQueue_Ready(t *testing.T) {
	q := New()
	select {
	case <-q.Ready():
		t.Fatal("ready before any post")
	default:
	}

	require.NoError(t, q.Post(func() {}))
	require.NoError(t, q.Post(func() {}))

	select {
	case <-q.Ready():
	default:
		t.Fatal("not ready after post")
	}
}

// startLoop drains q on its own goroutine until stop is closed
func startLoop(t *testing.T, q *Queue) (stop func()) {
	t.Helper()
	done := make(chan struct{})
	bound := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.BindLoop()
		defer q.UnbindLoop()
		close(bound)
		for {
			select {
			case <-done:
				q.Close()
				return
			case <-q.Ready():
				q.Drain()
			}
		}
	}()
	<-bound
	return func() {
		close(done)
		wg.Wait()
	}
}

func TestQueue_Sync(t *testing.T) {
	q := New()
	stop := startLoop(t, q)
	defer stop()

	var inLoop bool
	err := q.Sync(context.Background(), func() { inLoop = q.InLoop() })
	require.NoError(t, err)
	assert.True(t, inLoop)
	assert.False(t, q.InLoop())
}

func TestQueue_SyncPanic(t *testing.T) {
	q := New()
	stop := startLoop(t, q)
	defer stop()

	err := q.Sync(context.Background(), func() { panic("bad") })
	assert.ErrorIs(t, err, ErrPanicked)
}

func TestQueue_SyncFromLoop(t *testing.T) {
	q := New()
	stop := startLoop(t, q)
	defer stop()

	var inner error
	require.NoError(t, q.Sync(context.Background(), func() {
		inner = q.Sync(context.Background(), func() {})
	}))
	assert.ErrorIs(t, inner, ErrSyncFromLoop)
}

func TestQueue_SyncContext(t *testing.T) {
	q := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := q.Sync(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_SyncAfterClose(t *testing.T) {
	q := New()
	q.Close()
	assert.ErrorIs(t, q.Sync(context.Background(), func() {}), ErrClosed)
}

func TestQueue_InLoop(t *testing.T) {
	q := New()
	assert.False(t, q.InLoop(), "no loop bound")

	q.BindLoop()
	assert.True(t, q.InLoop())

	other := make(chan bool)
	go func() { other <- q.InLoop() }()
	assert.False(t, <-other)

	q.UnbindLoop()
	assert.False(t, q.InLoop())
}
