package chunker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// record is a test item with a fixed size.
type record struct {
	ID   int
	Size float64
}

func sizeOf(_ context.Context, r record) (float64, error) {
	return r.Size, nil
}

// recordingWriter remembers every batch it was called with. It can delay each
// call and fail with Err.
type recordingWriter struct {
	Delay time.Duration
	Err   error

	mu       sync.Mutex
	batches  [][]record
	inFlight int32
	overlap  int32
}

func (w *recordingWriter) Write(_ context.Context, items []record) error {
	if atomic.AddInt32(&w.inFlight, 1) > 1 {
		atomic.StoreInt32(&w.overlap, 1)
	}
	defer atomic.AddInt32(&w.inFlight, -1)

	w.mu.Lock()
	w.batches = append(w.batches, append([]record(nil), items...))
	w.mu.Unlock()

	if w.Delay > 0 {
		time.Sleep(w.Delay)
	}
	return w.Err
}

func (w *recordingWriter) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.batches)
}

func (w *recordingWriter) Batches() [][]record {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]record, len(w.batches))
	copy(out, w.batches)
	return out
}

func (w *recordingWriter) Overlapped() bool {
	return atomic.LoadInt32(&w.overlap) == 1
}

func records(sizes ...float64) []record {
	out := make([]record, len(sizes))
	for i, s := range sizes {
		out[i] = record{ID: i, Size: s}
	}
	return out
}

func ids(batch []record) []int {
	out := make([]int, len(batch))
	for i, r := range batch {
		out[i] = r.ID
	}
	return out
}
