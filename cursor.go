package sluice

import (
	"context"
	"iter"
	"slices"
	"time"
)

// A Cursor is the pull side of a [Bridge], obtained once via [Bridge.Cursor].
// Each [Cursor.Next] call runs one consumption step; [Cursor.All] adapts the
// cursor to a range-over-func sequence.
//
// A Cursor is meant for a single consumer: its methods must not be called
// concurrently. The one exception is [Cursor.Close], which may be called
// from another goroutine to abandon a suspended [Cursor.Next].
type Cursor[Item any] struct {
	bridge *Bridge[Item]

	// stop is closed by the Close call that disposes the bridge; it releases
	// a Next suspended on the wake signal from another goroutine.
	stop chan struct{}

	// err is the producer error once a step has raised it. Guarded by
	// bridge.mu so Err stays safe even when misused across goroutines.
	err error
}

// Next runs one consumption step, blocking while the bridge is live and its
// buffer empty. It returns, in this priority order:
//
//   - (zero, false, err) when the producer called [Bridge.Fail]: the bridge
//     is disposed first, and buffered items are discarded, even those pushed
//     before the error;
//   - (item, true, nil) for the oldest buffered item;
//   - (zero, false, nil) when the buffer is empty after [Bridge.Close], or
//     at any point after [Cursor.Close];
//   - (zero, false, ctx.Err()) when ctx ends during suspension. This does
//     not dispose the bridge: the cursor remains usable, and only
//     [Cursor.Close] abandons it.
//
// Results are sticky once the bridge is disposed: further calls keep
// returning the same terminal value.
func (c *Cursor[Item]) Next(ctx context.Context) (Item, bool, error) {
	var zero Item
	b := c.bridge

	for {
		b.mu.Lock()

		if b.disposed {
			err := c.err
			b.mu.Unlock()
			return zero, false, err
		}

		if err := b.err; err != nil {
			c.err = err
			fns := b.disposeLocked(disposalErrored)
			b.mu.Unlock()

			for _, fn := range fns {
				fn()
			}
			return zero, false, err
		}

		if item, ok := b.items.Pop(); ok {
			remaining := b.items.Len()
			pulls := slices.Clone(b.onPull)
			b.cfg.metrics.deliveries.Inc()
			b.cfg.metrics.depth.Set(float64(remaining))
			b.mu.Unlock()

			for _, fn := range pulls {
				fn(remaining)
			}
			return item, true, nil
		}

		if b.done {
			fns := b.disposeLocked(disposalCompleted)
			b.mu.Unlock()

			for _, fn := range fns {
				fn()
			}
			return zero, false, nil
		}

		b.mu.Unlock()

		start := time.Now()
		select {
		case <-b.wake:
			b.cfg.metrics.waitDuration.Observe(time.Since(start).Seconds())
		case <-c.stop:
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}
}

// Close abandons the cursor: the bridge is disposed, undelivered items are
// discarded, and a [Cursor.Next] suspended on another goroutine is released.
// Close is idempotent and always returns nil.
func (c *Cursor[Item]) Close() error {
	b := c.bridge

	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return nil
	}
	fns := b.disposeLocked(disposalAbandoned)
	close(c.stop)
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

// All returns the remaining items as a single-use sequence over
// [Cursor.Next]. Breaking out of the range abandons the cursor as if
// [Cursor.Close] was called. When the range ends on its own, [Cursor.Err]
// reports whether a producer error stopped it.
func (c *Cursor[Item]) All() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for {
			item, ok, err := c.Next(context.Background())
			if err != nil || !ok {
				return
			}
			if !yield(item) {
				c.Close()
				return
			}
		}
	}
}

// Err returns the producer error raised by this cursor. It stays nil until a
// consumption step observes the error, including after an abandonment that
// left the error unobserved.
func (c *Cursor[Item]) Err() error {
	c.bridge.mu.Lock()
	defer c.bridge.mu.Unlock()
	return c.err
}
