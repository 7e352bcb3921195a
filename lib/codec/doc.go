// Package codec provides the byte codecs the cache uses for keys and values.
//
// The cache never inspects Go values: the caller hands it a Codec[K] for keys and a
// Codec[V] for values, and only the encoded bytes reach the storage tiers.
//
// Key Components:
//
//   - Codec[T]: Encode / Decode pair. Encodings must be deterministic, equal values
//     must produce equal bytes.
//
//   - Bytes, String, Uint64, Int64: fixed codecs for the common primitive types.
//
//   - JSON[T]: json encoding, human-readable, useful for debugging.
//
//   - Gob[T]: Go's gob encoding for arbitrary structs without maps.
//
//   - Funcs[T]: adapts two plain functions to a Codec.
//
// Thread Safety:
//
//	All codecs in this package are stateless and safe for concurrent use.
package codec
