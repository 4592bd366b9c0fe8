package source

import (
	"context"
	"errors"
)

// ErrNilChannel is returned by FromChannel when the input channel is nil.
var ErrNilChannel = errors.New("source: input channel cannot be nil")

// Enqueuer accepts items one at a time. *chunker.Chunker and *queue.Handoff
// implement it.
type Enqueuer[T any] interface {
	Enqueue(ctx context.Context, item T) error
}

// FromChannel enqueues every item received from in until in is closed. It
// returns the number of items accepted and the first Enqueue error, or
// ctx.Err() if ctx is canceled while waiting for the next item. Items remaining
// in the channel after an error are left unread.
func FromChannel[T any](ctx context.Context, in <-chan T, dst Enqueuer[T]) (int, error) {
	if in == nil {
		return 0, ErrNilChannel
	}

	var n int
	for {
		select {
		case item, ok := <-in:
			if !ok {
				return n, nil
			}
			if err := dst.Enqueue(ctx, item); err != nil {
				return n, err
			}
			n++

		case <-ctx.Done():
			return n, ctx.Err()
		}
	}
}

// FromSlice enqueues items in order. It returns the number of items accepted
// and the first Enqueue error.
func FromSlice[T any](ctx context.Context, items []T, dst Enqueuer[T]) (int, error) {
	for i, item := range items {
		if err := dst.Enqueue(ctx, item); err != nil {
			return i, err
		}
	}
	return len(items), nil
}
