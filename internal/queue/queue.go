// Package queue provides a generic thread-safe FIFO used by the relational
// storage backends to batch row inserts.
package queue

import "sync"

// Queue accumulates items from any number of producers; a single consumer
// drains them in insertion order.
type Queue[T any] struct {
	mu      sync.Mutex
	pending []T
}

func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends items in order.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	q.pending = append(q.pending, items...)
	q.mu.Unlock()
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Drain hands back everything queued so far and resets the queue. Items
// pushed while the caller processes the batch land in the next drain.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	return batch
}
