package codec

import (
	"encoding/binary"
	"fmt"
)

// Bytes returns a codec that stores byte slices as they are (copied)
func Bytes() Codec[[]byte] {
	return bytesCodecImpl{}
}

// String returns a codec that stores strings as their UTF-8 bytes
func String() Codec[string] {
	return stringCodecImpl{}
}

// Uint64 returns a codec that stores uint64 values as 8 big endian bytes.
// Big endian keeps the byte order equal to the numeric order.
func Uint64() Codec[uint64] {
	return uint64CodecImpl{}
}

// Int64 returns a codec that stores int64 values as 8 big endian bytes
func Int64() Codec[int64] {
	return int64CodecImpl{}
}

// --------------------------------------------------------------------------
// Implementations (docu see codec.Codec)
// --------------------------------------------------------------------------

type bytesCodecImpl struct{}

func (bytesCodecImpl) Encode(v []byte) ([]byte, error) {
	return append(make([]byte, 0, len(v)), v...), nil
}

func (bytesCodecImpl) Decode(b []byte) ([]byte, error) {
	return append(make([]byte, 0, len(b)), b...), nil
}

type stringCodecImpl struct{}

func (stringCodecImpl) Encode(v string) ([]byte, error) { return []byte(v), nil }

func (stringCodecImpl) Decode(b []byte) (string, error) { return string(b), nil }

type uint64CodecImpl struct{}

func (uint64CodecImpl) Encode(v uint64) ([]byte, error) {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), v), nil
}

func (uint64CodecImpl) Decode(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("uint64 codec: expected 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

type int64CodecImpl struct{}

func (int64CodecImpl) Encode(v int64) ([]byte, error) {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), uint64(v)), nil
}

func (int64CodecImpl) Decode(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("int64 codec: expected 8 bytes, got %d", len(b))
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}
