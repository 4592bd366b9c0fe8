package chunker

import (
	"errors"
	"fmt"

	"github.com/MasterOfBinary/gochunk/queue"
)

var (
	// ErrClosed is returned by Enqueue once the Chunker has started shutting
	// down. The returned error also matches queue.ErrClosed.
	ErrClosed = errors.New("chunker: closed")

	// ErrInvalidLimits is returned by New when Limits.Validate fails.
	ErrInvalidLimits = errors.New("chunker: invalid limits")

	// ErrNilSizer is returned by New when no SizerFunc is given.
	ErrNilSizer = errors.New("chunker: sizer cannot be nil")

	// ErrNilWriter is returned by New when no WriterFunc is given.
	ErrNilWriter = errors.New("chunker: writer cannot be nil")

	// ErrInvalidSize is wrapped in a SizerError when the SizerFunc reports a
	// negative or NaN size.
	ErrInvalidSize = errors.New("chunker: invalid item size")
)

var errEngineClosed = fmt.Errorf("%w: %w", ErrClosed, queue.ErrClosed)

// SizerError is returned by OnIdle when the SizerFunc failed. The Chunker stops
// at the first sizer failure.
type SizerError struct {
	Err error

	// Discarded is the number of items that were taken from the queue but never
	// written: the item the sizer failed on, plus any item that was mid-handoff
	// when the Chunker stopped.
	Discarded int
}

func (e *SizerError) Error() string {
	return fmt.Sprintf("sizer error: %v (%d item(s) discarded)", e.Err, e.Discarded)
}

func (e *SizerError) Unwrap() error {
	return e.Err
}
