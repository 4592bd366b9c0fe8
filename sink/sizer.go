package sink

import (
	"context"
	"encoding/json"

	"github.com/MasterOfBinary/gochunk/chunker"
)

// JSONSizer returns a SizerFunc that measures an item by the number of bytes
// of its JSON encoding. Items that cannot be encoded fail the sizer, which
// stops the chunker.
func JSONSizer[T any]() chunker.SizerFunc[T] {
	return func(_ context.Context, item T) (float64, error) {
		b, err := json.Marshal(item)
		if err != nil {
			return 0, err
		}
		return float64(len(b)), nil
	}
}

// BytesSizer measures a payload by its length.
func BytesSizer(_ context.Context, b []byte) (float64, error) {
	return float64(len(b)), nil
}

// StringSizer measures a string by its length in bytes.
func StringSizer(_ context.Context, s string) (float64, error) {
	return float64(len(s)), nil
}
