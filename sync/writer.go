package sync

import (
	"context"
	"errors"
	"sync"

	"github.com/MasterOfBinary/gochunk/chunker"
)

// ErrDiscarded is delivered for an item that the chunker took but never wrote,
// which only happens after a sizer failure.
var ErrDiscarded = errors.New("sync: item discarded")

// Writer provides synchronous writes that are batched behind the scenes.
type Writer[T any] struct {
	chunker *chunker.Chunker[*request[T]]

	mu     sync.Mutex
	closed bool
}

// NewWriter creates a Writer. sizer and write are called with the caller's
// items exactly as they would be by a chunker.Chunker created with the same
// arguments.
func NewWriter[T any](ctx context.Context, limits chunker.Limits, sizer chunker.SizerFunc[T], write chunker.WriterFunc[T], opts ...chunker.Option) (*Writer[T], error) {
	if sizer == nil {
		return nil, chunker.ErrNilSizer
	}
	if write == nil {
		return nil, chunker.ErrNilWriter
	}

	sizeRequest := func(ctx context.Context, req *request[T]) (float64, error) {
		return sizer(ctx, req.item)
	}
	writeRequests := func(ctx context.Context, reqs []*request[T]) error {
		items := make([]T, len(reqs))
		for i, req := range reqs {
			items[i] = req.item
		}

		err := write(ctx, items)

		// Same error for every request in the batch
		for _, req := range reqs {
			req.send(err)
		}
		return err
	}

	c, err := chunker.New(ctx, limits, sizeRequest, writeRequests, opts...)
	if err != nil {
		return nil, err
	}

	return &Writer[T]{chunker: c}, nil
}

// Submit queues item and returns a channel that receives the result of the
// batch that carries it. Submit blocks like chunker.Chunker.Enqueue, until the
// item has been taken, but not until it has been written.
func (w *Writer[T]) Submit(ctx context.Context, item T) (<-chan error, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if w.Closed() {
		return nil, chunker.ErrClosed
	}

	req := newRequest(item)
	if err := w.chunker.Enqueue(ctx, req); err != nil {
		return nil, err
	}
	return req.result, nil
}

// Write queues item and blocks until the batch carrying it has been written or
// ctx is canceled. It returns the writer's error for that batch. Canceling ctx
// after the item was queued does not withdraw it.
func (w *Writer[T]) Write(ctx context.Context, item T) error {
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := w.Submit(ctx, item)
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-w.chunker.Done():
		// Every write has finished, so a missing result means the item was
		// dropped after a sizer failure.
		select {
		case err := <-result:
			return err
		default:
			return ErrDiscarded
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Errors returns every batch error recorded so far.
func (w *Writer[T]) Errors() []error {
	return w.chunker.Errors()
}

// Close stops accepting items, writes any remaining items and waits for the last batch to finish,
// releasing callers blocked in Write. It returns the chunker's OnIdle error.
// Calling Close more than once is safe.
func (w *Writer[T]) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	return w.chunker.OnIdle(ctx)
}

// Closed reports whether Close has been called.
func (w *Writer[T]) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
