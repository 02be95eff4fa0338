// Package vend implements a one-shot distribution primitive shared by a
// vendor and any number of customers. Customers line up for the next
// available value, and the vendor hands a copy of one value to everyone in
// line at that moment. Values are not buffered: a customer that lines up
// after a value was handed out has missed it, and a value sent while nobody
// is waiting is quietly discarded.
//
// Vendor and Customer are lightweight handles sharing a single waiting
// pool. Copy them freely; all copies are equivalent.
package vend

import (
	"errors"

	"github.com/creachadair/vend/internal/waitq"
	"github.com/creachadair/vend/oneshot"
)

var (
	// ErrClosed is the sentinel error reported by a request that could not
	// enter the waiting pool because the vendor was closed.
	ErrClosed = errors.New("vendor is closed")

	// ErrAbandoned is the sentinel error reported by a pending request whose
	// delivery slot was discarded before a value reached it, for example
	// because the vendor was closed while the request was waiting.
	ErrAbandoned = errors.New("request abandoned")
)

// A Vendor distributes values among the customers waiting on its pool.
// A Vendor is a lightweight handle, and copies of it share one pool: copies
// may send concurrently, and each waiting customer is still served by
// exactly one of the racing sends.
//
// The zero Vendor is not ready for use; construct one with NewVendor.
type Vendor[T any] struct {
	waiters *waitq.Queue[*oneshot.Sender[T]]
}

// NewVendor constructs a new Vendor with an empty waiting pool.
func NewVendor[T any]() Vendor[T] {
	return Vendor[T]{waiters: waitq.New[*oneshot.Sender[T]]()}
}

// Customer returns a new customer handle waiting on v's pool. Handles are
// independent: every pending Request occupies its own slot in the pool, no
// matter which customer handle it came from.
func (v Vendor[T]) Customer() Customer[T] { return Customer[T]{waiters: v.waiters} }

// Send hands a copy of value to each customer that was waiting in the pool
// when Send claimed it. If no customer is waiting, the value is discarded.
// Send never blocks and never fails: a customer that quit waiting simply
// does not take its copy, and the vendor is not told how many copies were
// taken.
func (v Vendor[T]) Send(value T) {
	for _, s := range v.waiters.Drain() {
		s.Send(value) // a refused delivery means the customer quit; skip it
	}
}

// Waiters reports the number of requests currently waiting in the pool.
// The count is a snapshot that may be stale as soon as it is returned, fit
// for opportunistic checks but not for correctness decisions.
func (v Vendor[T]) Waiters() int { return v.waiters.Len() }

// HasWaiters reports whether any request is currently waiting in the pool.
// It has the same advisory character as Waiters.
func (v Vendor[T]) HasWaiters() bool { return v.Waiters() > 0 }

// Close closes the waiting pool. Each request pending at that moment fails
// with ErrAbandoned, later requests fail with ErrClosed, and values sent
// after Close are discarded. Close reports ErrClosed if the pool was
// already closed.
//
// Close is not part of the ordinary exchange: a Vendor that is merely
// dropped leaves its customers free to keep waiting on the shared pool.
func (v Vendor[T]) Close() error {
	left, err := v.waiters.Close()
	if err != nil {
		return ErrClosed
	}
	for _, s := range left {
		s.Close()
	}
	return nil
}
