package codec

import (
	"bytes"
	"encoding/gob"
)

// Gob returns a codec using Go's binary gob format.
// Every value is encoded with a fresh encoder, so the type description is part of
// each value. Do not use it for types containing maps, their gob encoding is not
// deterministic.
func Gob[T any]() Codec[T] {
	return gobCodecImpl[T]{}
}

// gobCodecImpl implements the Codec interface using gob encoding
type gobCodecImpl[T any] struct{}

func (gobCodecImpl[T]) Encode(v T) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodecImpl[T]) Decode(b []byte) (T, error) {
	var v T
	dec := gob.NewDecoder(bytes.NewReader(b))
	err := dec.Decode(&v)
	return v, err
}
