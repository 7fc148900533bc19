// Package fifo implements the unbounded first-in-first-out buffer behind a
// bridge. It is not safe for concurrent use; the bridge serializes access.
package fifo

// compactAt is the minimum number of consumed slots before Pop considers
// shifting the live items back to the front of the backing slice.
const compactAt = 64

// Queue is a slice-backed FIFO with a moving head index. Popped slots are
// zeroed so delivered items are not retained, and the backing slice is
// compacted once the consumed prefix dominates it, keeping memory
// proportional to the number of undelivered items.
type Queue[T any] struct {
	items []T
	head  int
}

// New returns an empty queue. The capacity is a preallocation hint and may
// be zero.
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0, capacity),
	}
}

// Push appends an item to the tail of the queue.
func (q *Queue[T]) Push(item T) {
	q.items = append(q.items, item)
}

// Pop removes and returns the item at the head of the queue. The second
// return value is false if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.head == len(q.items) {
		return zero, false
	}

	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactAt && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return item, true
}

// Len returns the number of undelivered items in the queue.
func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

// Reset discards all items from the queue, keeping the backing slice.
func (q *Queue[T]) Reset() {
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}
