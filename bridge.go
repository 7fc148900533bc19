// Package sluice bridges a push-style producer to a single pull-style
// consumer. A producer hands items to a [Bridge] one call at a time and is
// never blocked; the consumer drains them in push order through a one-shot
// [Cursor], suspending only while the bridge is live and empty.
package sluice

import (
	"errors"
	"sync"

	"github.com/teenjuna/sluice/internal/fifo"
)

var (
	// ErrConsumed is returned by [Bridge.Cursor] when the consumer side has
	// already been obtained.
	ErrConsumed = errors.New("bridge already consumed")
	// ErrDisposed is returned by observer registration once the bridge has
	// reached its terminal state.
	ErrDisposed = errors.New("bridge already disposed")
)

// Disposal reasons, also used as the label values of the disposals metric.
const (
	disposalCompleted = "completed"
	disposalErrored   = "errored"
	disposalAbandoned = "abandoned"
)

// A Bridge transfers items from a push-style producer to a single pull-style
// consumer. Producer calls ([Bridge.Push], [Bridge.Fail], [Bridge.Close])
// never block and are safe from any goroutine, including callbacks fired by
// the bridge itself. The consumer side is obtained at most once via
// [Bridge.Cursor].
//
// The buffer between the two sides is unbounded: a producer outrunning its
// consumer grows memory, it is never throttled.
type Bridge[Item any] struct {
	cfg *config[Item]

	mu       sync.Mutex
	items    *fifo.Queue[Item]
	err      error
	done     bool
	disposed bool
	consumed bool

	// wake holds at most one token. A token sent while nobody waits is
	// picked up by the next suspension instead of being lost, which is what
	// makes the empty-buffer suspension race-free.
	wake chan struct{}

	onPull     []func(remaining int)
	onDisposed []func()
}

// New creates a bridge with an empty buffer. Items can be pushed before the
// consumer attaches.
func New[Item any](options ...Option[Item]) *Bridge[Item] {
	cfg := newConfig(options...)
	return &Bridge[Item]{
		cfg:   cfg,
		items: fifo.New[Item](cfg.capacity),
		wake:  make(chan struct{}, 1),
	}
}

// Push appends an item to the buffer and wakes a suspended consumption step.
// It returns the buffer length after insertion. Once the bridge is closed,
// failed or disposed, Push accepts nothing and returns (0, false).
func (b *Bridge[Item]) Push(item Item) (int, bool) {
	b.mu.Lock()
	if b.done || b.err != nil || b.disposed {
		b.mu.Unlock()
		return 0, false
	}

	b.items.Push(item)
	n := b.items.Len()
	b.cfg.metrics.pushes.Inc()
	b.cfg.metrics.depth.Set(float64(n))
	b.mu.Unlock()

	b.signal()
	return n, true
}

// Fail records err and wakes a suspended consumption step. The next step
// raises err to the consumer ahead of any buffered items, which are then
// discarded, not delivered. Only the first error is kept; Fail does nothing
// once the bridge is closed, failed or disposed, or when err is nil.
func (b *Bridge[Item]) Fail(err error) {
	if err == nil {
		return
	}

	b.mu.Lock()
	if b.done || b.err != nil || b.disposed {
		b.mu.Unlock()
		return
	}
	b.err = err
	b.mu.Unlock()

	b.signal()
}

// Close marks the producer side as finished: once the buffer drains, the
// consumption loop completes instead of suspending forever. Close is
// idempotent and does not discard buffered items.
func (b *Bridge[Item]) Close() {
	b.mu.Lock()
	if b.done || b.disposed {
		b.mu.Unlock()
		return
	}
	b.done = true
	b.mu.Unlock()

	b.signal()
}

// Cursor returns the consumer side of the bridge. A bridge is consumed at
// most once: every call after the first returns [ErrConsumed].
func (b *Bridge[Item]) Cursor() (*Cursor[Item], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed {
		return nil, ErrConsumed
	}
	b.consumed = true

	return &Cursor[Item]{
		bridge: b,
		stop:   make(chan struct{}),
	}, nil
}

// OnPull registers fn to be called once per delivered item with the number
// of items left in the buffer, measured at removal. Callbacks run
// synchronously on the consumer's goroutine in registration order. OnPull
// returns [ErrDisposed] once the bridge has reached its terminal state; a
// nil fn panics.
func (b *Bridge[Item]) OnPull(fn func(remaining int)) error {
	if fn == nil {
		panic("observer can't be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disposed {
		return ErrDisposed
	}
	b.onPull = append(b.onPull, fn)
	return nil
}

// OnDisposed registers fn to be called exactly once when the bridge reaches
// its terminal state: the buffer drained after [Bridge.Close], an error from
// [Bridge.Fail] was raised, or the consumer abandoned the cursor. It returns
// [ErrDisposed] if that has already happened; a nil fn panics.
func (b *Bridge[Item]) OnDisposed(fn func()) error {
	if fn == nil {
		panic("observer can't be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disposed {
		return ErrDisposed
	}
	b.onDisposed = append(b.onDisposed, fn)
	return nil
}

// Len returns the number of buffered, not yet delivered items.
func (b *Bridge[Item]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items.Len()
}

// Disposed reports whether the bridge has reached its terminal state.
func (b *Bridge[Item]) Disposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}

func (b *Bridge[Item]) signal() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// disposeLocked moves the bridge to its terminal state: remaining items are
// discarded and observer lists are emptied. Must be called with b.mu held
// and only while b.disposed is false. The returned callbacks are fired by
// the caller after releasing the lock.
func (b *Bridge[Item]) disposeLocked(reason string) []func() {
	b.disposed = true

	if discarded := b.items.Len(); discarded > 0 {
		b.cfg.metrics.discards.Add(float64(discarded))
	}
	b.items.Reset()
	b.cfg.metrics.depth.Set(0)
	b.cfg.metrics.disposals.WithLabelValues(reason).Inc()

	fns := b.onDisposed
	b.onDisposed = nil
	b.onPull = nil
	return fns
}
