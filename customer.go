package vend

import (
	"context"
	"errors"

	"github.com/creachadair/vend/internal/waitq"
	"github.com/creachadair/vend/oneshot"
)

// A Customer lines up for values distributed by the Vendor that created it.
// A Customer is a lightweight handle, and copies of it share the vendor's
// pool while remaining independent customers.
//
// The zero Customer is not ready for use; obtain one from Vendor.Customer.
type Customer[T any] struct {
	waiters *waitq.Queue[*oneshot.Sender[T]]
}

// Request joins the waiting pool and blocks until the vendor delivers a
// value, the request is abandoned, or ctx ends.
//
// On delivery, Request returns the customer's copy of the value. If the
// pool was closed before the request could join it, Request reports
// ErrClosed; if the slot was discarded undelivered because the vendor
// closed the pool, it reports ErrAbandoned. If ctx ends first, Request
// returns ctx.Err() and leaves its slot behind: the slot is claimed and
// discarded by the next send, which neither fails nor blocks on it.
func (c Customer[T]) Request(ctx context.Context) (T, error) {
	snd, rcv := oneshot.New[T]()
	if err := c.waiters.Push(snd); err != nil {
		var zero T
		return zero, ErrClosed
	}
	v, err := rcv.Receive(ctx)
	if errors.Is(err, oneshot.ErrAbandoned) {
		return v, ErrAbandoned
	}
	return v, err
}
