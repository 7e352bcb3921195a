package codec

import "encoding/json"

// JSON returns a codec using json encoding.
// Values containing maps encode deterministically since encoding/json sorts map keys.
func JSON[T any]() Codec[T] {
	return jsonCodecImpl[T]{}
}

// jsonCodecImpl implements the Codec interface using json encoding
type jsonCodecImpl[T any] struct{}

func (jsonCodecImpl[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodecImpl[T]) Decode(b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}
