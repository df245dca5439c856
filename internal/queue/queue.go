// Package queue implements a FIFO worklist over a ring buffer.
// Every item is queued at most once during worklist lifetime, which makes it suitable for graph walks.
package queue

const minSize = 3

type Queue[T comparable] struct {
	items      []T
	size       int // len(items) - 1, always 2^n - 1
	head, tail int
	seen       map[T]bool
	zero       T
}

// New returns worklist containing distinct items in given order.
func New[T comparable](items ...T) *Queue[T] {
	q := &Queue[T]{
		size: computeSize(len(items)),
		seen: make(map[T]bool, len(items)),
	}
	q.items = make([]T, q.size+1)
	for _, item := range items {
		q.Push(item)
	}
	return q
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

// Seen reports whether item was ever pushed.
func (q *Queue[T]) Seen(item T) bool {
	return q.seen[item]
}

// Push appends item unless it was pushed before, returns true if item is appended.
func (q *Queue[T]) Push(item T) bool {
	if q.seen[item] {
		return false
	}

	q.seen[item] = true
	q.items[q.tail] = item
	q.tail = (q.tail + 1) & q.size
	if q.tail == q.head {
		q.grow()
	}
	return true
}

// Pop removes and returns the first item, false if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}

	res := q.items[q.head]
	q.items[q.head] = q.zero
	q.head = (q.head + 1) & q.size
	return res, true
}

func computeSize(length int) int {
	if length <= minSize {
		return minSize
	}

	length |= length >> 1
	length |= length >> 2
	length |= length >> 4
	length |= length >> 8
	return length | length>>16
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.size+1)<<1)
	copy(items, q.items[q.head:])
	if q.head > 0 {
		copy(items[q.size+1-q.head:], q.items[:q.head])
	}
	q.head = 0
	q.tail = q.size + 1
	q.size = q.size + q.tail
	q.items = items
}
