package queue

// State is the lifecycle state of a Handoff. Transitions only go forward:
// Open, then Closing, then Closed.
type State int

const (
	// Open accepts new items.
	Open State = iota
	// Closing rejects new items, but an item mid-handoff may still be taken.
	Closing
	// Closed has been drained; Take only returns io.EOF.
	Closed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
