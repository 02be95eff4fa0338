// Package waitq implements the unbounded FIFO pool of pending delivery
// slots shared by the handles of the vend package.
//
// A Queue is a synchronized shell around a plain queue: producers push
// values one at a time, and a consumer removes everything present in a
// single atomic drain pass. Closing the queue rejects later pushes and
// surrenders whatever was still queued so the caller can dispose of it.
package waitq

import (
	"errors"
	"sync"

	"github.com/creachadair/mds/queue"
)

// ErrClosed is the sentinel error reported by operations on a closed queue.
var ErrClosed = errors.New("queue is closed")

// A Queue is an unbounded multi-producer, multi-consumer FIFO queue.
// The methods of a Queue are safe for concurrent use by multiple
// goroutines. Use New to construct a Queue.
type Queue[T any] struct {
	mu     sync.Mutex
	vals   *queue.Queue[T]
	closed bool
}

// New constructs a new open, empty queue.
func New[T any]() *Queue[T] { return &Queue[T]{vals: queue.New[T]()} }

// Push appends v to the end of the queue. It reports ErrClosed if the
// queue has been closed, and otherwise never blocks beyond the queue lock.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.vals.Add(v)
	return nil
}

// Drain removes and returns all the values currently in the queue, oldest
// first, or nil if the queue is empty. A value pushed concurrently with a
// drain pass is either included in that pass or left for a later one,
// never lost.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.drainLocked()
}

func (q *Queue[T]) drainLocked() []T {
	var all []T
	for {
		v, ok := q.vals.Pop()
		if !ok {
			return all
		}
		all = append(all, v)
	}
}

// Len reports the number of values currently in the queue. Under concurrent
// use the count is advisory, as it may be out of date once the lock is
// released.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.vals.Len()
}

// Close marks the queue closed, then removes and returns whatever it still
// held, oldest first. After Close, Push reports ErrClosed and Drain reports
// nothing. If the queue was already closed, Close reports ErrClosed with no
// values.
func (q *Queue[T]) Close() ([]T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, ErrClosed
	}
	q.closed = true
	return q.drainLocked(), nil
}
