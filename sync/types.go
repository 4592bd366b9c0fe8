package sync

// request carries one item through the chunker together with the channel its
// result is delivered on.
type request[T any] struct {
	item   T
	result chan error
}

func newRequest[T any](item T) *request[T] {
	return &request[T]{
		item:   item,
		result: make(chan error, 1),
	}
}

func (r *request[T]) send(err error) {
	select {
	case r.result <- err:
	default:
		// Already answered
	}
}
