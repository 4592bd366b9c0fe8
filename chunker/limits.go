package chunker

import (
	"fmt"
	"math"
)

// Limits holds the hard constraints of the writer. They are fixed when the
// Chunker is created.
type Limits struct {
	// CountLimit is the maximum number of items in a batch. A batch is written
	// as soon as it holds CountLimit items.
	CountLimit int `json:"countLimit" yaml:"countLimit"`

	// SizeLimit is the maximum sum of item sizes in a batch, in whatever unit the
	// SizerFunc reports. The pending batch is written before an item that would
	// push it over SizeLimit is added.
	SizeLimit float64 `json:"sizeLimit" yaml:"sizeLimit"`
}

// Validate checks that both limits are positive.
func (l Limits) Validate() error {
	if l.CountLimit <= 0 {
		return fmt.Errorf("%w: CountLimit must be positive, got %d", ErrInvalidLimits, l.CountLimit)
	}
	if l.SizeLimit <= 0 || math.IsNaN(l.SizeLimit) {
		return fmt.Errorf("%w: SizeLimit must be positive, got %g", ErrInvalidLimits, l.SizeLimit)
	}
	return nil
}
