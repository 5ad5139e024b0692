// Package pkey implements the fixed-layout composite keys the positional
// index is built on: (token, record, previous_token) and its reverse
// mirror (record, token). Encodings are fixed-width and big-endian so
// that byte-lexicographic order on the encoded key matches the natural
// numeric order of the encoded value, the same convention the teacher
// uses for its own object keys (big-endian id+type tuples).
package pkey

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

// Codec encodes a fixed-size value to/from a fixed-width byte string
// that preserves the value's natural order under byte-lexicographic
// comparison. Size is constant across all values of T.
type Codec[T any] struct {
	Size    int
	Encode  func(T) []byte
	Decode  func([]byte) T
}

// Comparator is an injectable total order over T, used wherever the
// index needs to compare two decoded values rather than their encodings
// (e.g. a caller-supplied ordering for a custom record type).
type Comparator[T any] func(a, b T) int

// Uint64Codec encodes uint64 as 8 big-endian bytes. This is the default
// codec for hashed tokens (the hash generator's native output width).
var Uint64Codec = Codec[uint64]{
	Size: 8,
	Encode: func(v uint64) []byte {
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, v)
		return b
	},
	Decode: func(b []byte) uint64 {
		return binary.BigEndian.Uint64(b)
	},
}

// Uint32Codec encodes uint32 as 4 big-endian bytes.
var Uint32Codec = Codec[uint32]{
	Size: 4,
	Encode: func(v uint32) []byte {
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, v)
		return b
	},
	Decode: func(b []byte) uint32 {
		return binary.BigEndian.Uint32(b)
	},
}

// Int64Codec encodes int64 as 8 big-endian bytes with the sign bit
// flipped, so that byte order matches signed numeric order.
var Int64Codec = Codec[int64]{
	Size: 8,
	Encode: func(v int64) []byte {
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(v)^(1<<63))
		return b
	},
	Decode: func(b []byte) int64 {
		return int64(binary.BigEndian.Uint64(b) ^ (1 << 63))
	},
}

// Ordered builds a Comparator for any ordered numeric type from its
// native operators, the same constraints.Ordered generalization the
// teacher uses for its binary-heap comparisons.
func Ordered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Uint64Comparator is the default total order for uint64 tokens/records.
func Uint64Comparator(a, b uint64) int { return Ordered(a, b) }

// Uint32Comparator is the default total order for uint32 records.
func Uint32Comparator(a, b uint32) int { return Ordered(a, b) }

// Int64Comparator is the default total order for int64 records.
func Int64Comparator(a, b int64) int { return Ordered(a, b) }
