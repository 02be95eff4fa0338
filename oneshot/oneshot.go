// Package oneshot implements a single-use channel that conveys one value
// from a Sender to its linked Receiver.
package oneshot

import (
	"context"
	"errors"
	"sync"
)

// ErrAbandoned is the sentinel error reported by a Receiver whose linked
// Sender was closed before delivering a value.
var ErrAbandoned = errors.New("sender closed without sending")

// New creates a linked Sender/Receiver pair that conveys a single value of
// type T. A pair is resolved by the first of: the sender delivering a value,
// the sender closing without one, or the receiver giving up waiting. Once
// resolved, the outcome of a pair never changes.
func New[T any]() (*Sender[T], *Receiver[T]) {
	c := &cell[T]{done: make(chan struct{})}
	return &Sender[T]{c: c}, &Receiver[T]{c: c}
}

// A cell is the state shared by a linked pair.
type cell[T any] struct {
	// μ protects the fields below. The done channel is closed only while μ
	// is held, so an observer of its closure also observes the final state.
	μ         sync.Mutex
	value     T    // the delivered value, valid only if delivered is true
	delivered bool // a value was delivered
	resolved  bool // the pair was resolved: delivered or abandoned
	gone      bool // the receiver quit waiting; the pair can no longer resolve

	done chan struct{} // closed when the pair is resolved
}

// outcome reports the result of a resolved pair.
func (c *cell[T]) outcome() (T, error) {
	if c.delivered {
		return c.value, nil
	}
	var zero T
	return zero, ErrAbandoned
}

// A Sender is the producing half of a pair created by New.
type Sender[T any] struct {
	c *cell[T]
}

// Send delivers v to the linked receiver and reports whether the delivery
// was accepted. Delivery is refused if the receiver already gave up waiting,
// or if the pair was already resolved by an earlier Send or Close.
func (s *Sender[T]) Send(v T) bool {
	c := s.c
	c.μ.Lock()
	defer c.μ.Unlock()

	if c.resolved || c.gone {
		return false
	}
	c.value = v
	c.delivered = true
	c.resolved = true
	close(c.done)
	return true
}

// Close abandons the pair without delivering a value, causing a pending or
// future Receive to report ErrAbandoned. Close after a successful Send, after
// the receiver has given up, or after an earlier Close, has no effect.
func (s *Sender[T]) Close() {
	c := s.c
	c.μ.Lock()
	defer c.μ.Unlock()

	if c.resolved || c.gone {
		return
	}
	c.resolved = true
	close(c.done)
}

// A Receiver is the consuming half of a pair created by New.
type Receiver[T any] struct {
	c *cell[T]
}

// Receive blocks until the pair is resolved or ctx ends. It returns the
// delivered value, or ErrAbandoned if the sender closed without delivering
// one. If ctx ends before the pair is resolved, Receive returns a zero value
// and ctx.Err(), and the pair is dead: a later Send will report false.
//
// A pair that was already resolved when ctx ended wins over the cancellation,
// and Receive reports its outcome. Calling Receive again after resolution
// reports the same outcome.
func (r *Receiver[T]) Receive(ctx context.Context) (T, error) {
	c := r.c
	select {
	case <-c.done:
		// No lock needed: done is closed after the final state write.
		return c.outcome()

	case <-ctx.Done():
		c.μ.Lock()
		defer c.μ.Unlock()
		if c.resolved {
			return c.outcome()
		}
		c.gone = true
		var zero T
		return zero, ctx.Err()
	}
}
