package chunker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MasterOfBinary/gochunk/queue"
)

// SizerFunc returns the size of an item, in the same unit as Limits.SizeLimit.
// It is called exactly once per item, before the item is added to a batch. It
// may block. An error, a negative size or NaN stops the Chunker.
type SizerFunc[T any] func(ctx context.Context, item T) (float64, error)

// WriterFunc writes a batch of items. It is called with a non-empty batch that
// respects the Limits, except that a single item larger than SizeLimit is
// written on its own. It is never called concurrently for the same Chunker. A
// returned error is recorded and the Chunker carries on with the next batch;
// the batch is not retried.
type WriterFunc[T any] func(ctx context.Context, items []T) error

// State is the lifecycle state of a Chunker.
type State int

const (
	// Running accepts items.
	Running State = iota
	// Draining no longer accepts items and is writing what is left.
	Draining
	// Idle has stopped its background goroutine. It never runs again.
	Idle
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// pending is an immutable snapshot of the pending batch, published for readers
// outside the background goroutine.
type pending struct {
	count int
	size  float64
}

// Chunker collects items into batches bounded by Limits and writes them with a
// WriterFunc from a single background goroutine.
//
// To create a Chunker, call New. The background goroutine starts immediately
// and runs until OnIdle is called, or until the context passed to New is
// canceled.
//
// All methods are safe for concurrent use.
type Chunker[T any] struct {
	ctx    context.Context
	limits Limits
	sizer  SizerFunc[T]
	writer WriterFunc[T]
	logger Logger
	stats  StatsCollector

	queue *queue.Handoff[T]
	done  chan struct{}

	// Only the background goroutine touches these.
	items   []T
	size    float64
	batches uint64

	snapshot atomic.Pointer[pending]

	mu    sync.Mutex
	errs  []error
	fault error
}

// New creates a Chunker and starts its background goroutine.
//
// ctx is passed to every SizerFunc and WriterFunc call. Canceling it tears the
// Chunker down without writing pending items, and an item mid-handoff at that
// moment is dropped even though its Enqueue returns nil. Use OnIdle for a clean
// shutdown.
func New[T any](ctx context.Context, limits Limits, sizer SizerFunc[T], writer WriterFunc[T], opts ...Option) (*Chunker[T], error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if sizer == nil {
		return nil, ErrNilSizer
	}
	if writer == nil {
		return nil, ErrNilWriter
	}
	if ctx == nil {
		ctx = context.Background()
	}

	o := buildOptions(opts)
	c := &Chunker[T]{
		ctx:    ctx,
		limits: limits,
		sizer:  sizer,
		writer: writer,
		logger: o.logger,
		stats:  o.stats,
		queue:  queue.NewHandoff[T](),
		done:   make(chan struct{}),
	}
	c.snapshot.Store(&pending{})

	go c.run()

	return c, nil
}

// Enqueue hands item to the background goroutine. It blocks until the item has
// been taken, not until it has been written, so a slow writer slows producers
// down.
//
// Enqueue returns an error matching ErrClosed once OnIdle has been called or
// the Chunker has stopped, and ctx.Err() if ctx is canceled before the item was
// taken. Writer failures are never returned here; see Errors.
func (c *Chunker[T]) Enqueue(ctx context.Context, item T) error {
	err := c.queue.Enqueue(ctx, item)
	if errors.Is(err, queue.ErrClosed) {
		return errEngineClosed
	}
	return err
}

// OnIdle stops accepting items and waits until every item already taken has
// been written, including the final partial batch. It must be called before
// relying on Errors or before the program exits, or items may be lost.
//
// OnIdle may be called more than once; later calls return immediately without
// writing anything. It returns a *SizerError if the Chunker stopped on a sizer
// failure, the error of the context passed to New if it was canceled first, or
// ctx.Err() if ctx is canceled while waiting.
func (c *Chunker[T]) OnIdle(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.queue.Done()

	select {
	case <-c.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fault
}

// Done returns a channel that is closed when the background goroutine exits.
func (c *Chunker[T]) Done() <-chan struct{} {
	return c.done
}

// State reports the lifecycle state of the Chunker.
func (c *Chunker[T]) State() State {
	select {
	case <-c.done:
		return Idle
	default:
	}
	if c.queue.State() != queue.Open {
		return Draining
	}
	return Running
}

// Limits returns the limits the Chunker was created with.
func (c *Chunker[T]) Limits() Limits {
	return c.limits
}

// PendingCount returns the number of items waiting in the current batch. The
// value may already be stale when it is returned.
func (c *Chunker[T]) PendingCount() int {
	return c.snapshot.Load().count
}

// PendingSize returns the summed size of the items in the current batch. The
// value may already be stale when it is returned.
func (c *Chunker[T]) PendingSize() float64 {
	return c.snapshot.Load().size
}

// Pending returns PendingCount and PendingSize from the same snapshot.
func (c *Chunker[T]) Pending() (count int, size float64) {
	p := c.snapshot.Load()
	return p.count, p.size
}

// Errors returns a copy of the writer errors recorded so far, in the order the
// failed batches were written. The errors are the values the WriterFunc
// returned. The list only grows, and is final once OnIdle has returned.
//
// The list is never trimmed, so a long-lived Chunker with a constantly failing
// writer keeps every error in memory.
func (c *Chunker[T]) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.errs...)
}

// run is the background goroutine. It takes items until the queue is drained,
// then writes whatever is left.
func (c *Chunker[T]) run() {
	defer close(c.done)
	// Releases producers if the loop exits early.
	defer c.queue.Done()

	c.logger.Info("Chunker started: count limit %d, size limit %g", c.limits.CountLimit, c.limits.SizeLimit)

	var taken uint64
	for {
		item, err := c.queue.Take(c.ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.setFault(err)
			dropped := c.drain()
			c.logger.Warn("Chunker stopped with %d item(s) pending, %d dropped mid-handoff: %v", len(c.items), dropped, err)
			return
		}
		taken++

		size, err := c.sizer(c.ctx, item)
		if err == nil && (size < 0 || math.IsNaN(size)) {
			err = fmt.Errorf("%w: %g", ErrInvalidSize, size)
		}
		if err != nil {
			c.abort(err)
			return
		}

		c.add(item, size)
	}

	if len(c.items) > 0 {
		c.flush(FlushFinal)
	}

	c.logger.Info("Chunker idle: %d item(s) in %d batch(es), %d writer error(s)",
		taken, c.batches, len(c.Errors()))
}

// add appends item to the pending batch, writing the batch before or after as
// required by the limits.
func (c *Chunker[T]) add(item T, size float64) {
	switch {
	case len(c.items) == c.limits.CountLimit:
		c.flush(FlushCount)
	case len(c.items) > 0 && c.size+size > c.limits.SizeLimit:
		c.flush(FlushSize)
	}

	if size > c.limits.SizeLimit {
		c.logger.Warn("Item of size %g exceeds size limit %g; writing it as a batch of one", size, c.limits.SizeLimit)
		c.stats.RecordOversizedItem()
	}

	c.items = append(c.items, item)
	c.size += size
	c.publish()
	c.stats.RecordItemAccepted(size)

	if len(c.items) == c.limits.CountLimit {
		c.flush(FlushCount)
	}
}

// flush hands the pending batch to the writer. Pending state is reset before
// the writer is called, so readers see an empty batch while it runs.
func (c *Chunker[T]) flush(reason FlushReason) {
	batch, size := c.items, c.size
	c.items = nil
	c.size = 0
	c.publish()

	if len(batch) == 0 {
		return
	}

	c.batches++
	c.logger.Debug("Writing batch %d: %d item(s), size %g, reason %s", c.batches, len(batch), size, reason)
	c.stats.RecordFlushStart(len(batch), size, reason)

	start := time.Now()
	err := c.writer(c.ctx, batch)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Batch %d: writer error: %v", c.batches, err)
		c.stats.RecordSinkError()
		c.mu.Lock()
		c.errs = append(c.errs, err)
		c.mu.Unlock()
	}
	c.stats.RecordFlushComplete(len(batch), duration)
}

// abort stops the Chunker after a sizer failure. Items accepted so far are
// still written; the failed item and anything mid-handoff are discarded.
func (c *Chunker[T]) abort(err error) {
	c.logger.Error("Sizer error, stopping: %v", err)
	c.stats.RecordSizerError()

	discarded := 1 + c.drain()

	if len(c.items) > 0 {
		c.flush(FlushFinal)
	}

	c.setFault(&SizerError{Err: err, Discarded: discarded})
}

// drain closes the queue and takes whatever is mid-handoff, so that no
// producer stays blocked. It returns the number of items dropped.
func (c *Chunker[T]) drain() int {
	c.queue.Done()
	var n int
	for {
		if _, err := c.queue.Take(context.Background()); err != nil {
			return n
		}
		n++
	}
}

func (c *Chunker[T]) publish() {
	c.snapshot.Store(&pending{count: len(c.items), size: c.size})
}

func (c *Chunker[T]) setFault(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault == nil {
		c.fault = err
	}
}
