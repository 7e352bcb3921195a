package codec

// Codec converts between a Go value and the bytes the cache stores.
//
// Implementations must be deterministic: encoding equal values must yield equal
// bytes, because compare-and-swap style cache operations compare encoded bytes.
// Decode must not retain b.
type Codec[T any] interface {
	// Encode serializes v into a new byte slice
	Encode(v T) ([]byte, error)
	// Decode deserializes b into a value
	Decode(b []byte) (T, error)
}

// Funcs adapts a pair of functions to the Codec interface
type Funcs[T any] struct {
	EncodeFn func(v T) ([]byte, error)
	DecodeFn func(b []byte) (T, error)
}

func (f Funcs[T]) Encode(v T) ([]byte, error) { return f.EncodeFn(v) }

func (f Funcs[T]) Decode(b []byte) (T, error) { return f.DecodeFn(b) }
