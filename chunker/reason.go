package chunker

// FlushReason tells why a batch was written.
type FlushReason int

const (
	// FlushCount means the batch reached CountLimit.
	FlushCount FlushReason = iota
	// FlushSize means the next item would have pushed the batch over SizeLimit.
	FlushSize
	// FlushFinal means the input ended, or the Chunker stopped on a sizer
	// failure, with items still pending.
	FlushFinal
)

// String returns the string representation of the reason.
func (r FlushReason) String() string {
	switch r {
	case FlushCount:
		return "count"
	case FlushSize:
		return "size"
	case FlushFinal:
		return "final"
	default:
		return "unknown"
	}
}
