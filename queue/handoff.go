package queue

import (
	"context"
	"errors"
	"io"
	"iter"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Enqueue once Done has been called.
var ErrClosed = errors.New("queue: closed")

// Handoff is a zero-capacity queue with a single consumer. At most one item is
// in flight at any time: a producer acquires the slot, places its item and waits
// until the consumer acknowledges it.
//
// The zero value is not usable; create one with NewHandoff.
type Handoff[T any] struct {
	// sem is held by the producer whose item is in flight.
	sem  chan struct{}
	slot chan T
	ack  chan struct{}
	done chan struct{}

	// mu orders placements in slot against Done.
	mu      sync.Mutex
	closed  bool
	once    sync.Once
	drained atomic.Bool
}

// NewHandoff creates an open Handoff.
func NewHandoff[T any]() *Handoff[T] {
	return &Handoff[T]{
		sem:  make(chan struct{}, 1),
		slot: make(chan T, 1),
		ack:  make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Enqueue hands item to the consumer and blocks until the consumer has taken it.
//
// It returns ErrClosed if Done was called before the item could be placed. If
// ctx is canceled while waiting, Enqueue tries to withdraw the item and returns
// ctx.Err(); when the consumer has already taken it, the handoff counts as
// successful and nil is returned instead.
//
// Enqueue may be called from many goroutines. Their items are taken in the
// order the producers win the slot, which is not specified.
func (q *Handoff[T]) Enqueue(ctx context.Context, item T) error {
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-q.done:
		return ErrClosed
	default:
	}

	select {
	case q.sem <- struct{}{}:
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.sem
		return ErrClosed
	}
	q.slot <- item
	q.mu.Unlock()

	select {
	case <-q.ack:
		<-q.sem
		return nil
	case <-ctx.Done():
		select {
		case <-q.slot:
			<-q.sem
			return ctx.Err()
		default:
			// The consumer won the race for the item.
			<-q.ack
			<-q.sem
			return nil
		}
	}
}

// Take blocks until an item is available and returns it. Once Done has been
// called and no item is left in flight, Take returns io.EOF. It returns
// ctx.Err() if ctx is canceled first.
//
// Take must only be called from a single goroutine.
func (q *Handoff[T]) Take(ctx context.Context) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case item := <-q.slot:
		q.ack <- struct{}{}
		return item, nil

	case <-q.done:
		// Placements happen before Done under mu, so anything still in the
		// slot is visible here.
		select {
		case item := <-q.slot:
			q.ack <- struct{}{}
			return item, nil
		default:
			q.drained.Store(true)
			return zero, io.EOF
		}

	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// All returns a sequence that calls Take until it returns an error. The
// sequence ends after Done once the in-flight item has been consumed, or when
// ctx is canceled.
func (q *Handoff[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, err := q.Take(ctx)
			if err != nil {
				return
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Done marks the end of the stream. It is safe to call more than once. Blocked
// producers that have not placed their item return ErrClosed, and a blocked
// consumer is woken to drain the last item or see io.EOF.
func (q *Handoff[T]) Done() {
	q.once.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.done)
		q.mu.Unlock()
	})
}

// Closing returns a channel that is closed when Done is called.
func (q *Handoff[T]) Closing() <-chan struct{} {
	return q.done
}

// State reports the current lifecycle state.
func (q *Handoff[T]) State() State {
	select {
	case <-q.done:
	default:
		return Open
	}
	if q.drained.Load() {
		return Closed
	}
	return Closing
}
