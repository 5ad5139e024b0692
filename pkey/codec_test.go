package pkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedComparators(t *testing.T) {
	assert.Equal(t, -1, Uint64Comparator(1, 2))
	assert.Equal(t, 0, Uint64Comparator(5, 5))
	assert.Equal(t, 1, Uint64Comparator(9, 3))

	assert.Equal(t, -1, Uint32Comparator(1, 2))
	assert.Equal(t, 1, Uint32Comparator(9, 3))

	assert.Equal(t, -1, Int64Comparator(-5, 5))
	assert.Equal(t, 1, Int64Comparator(5, -5))
}

func TestCodecRoundTripsPreserveOrder(t *testing.T) {
	a, b := Uint64Codec.Encode(10), Uint64Codec.Encode(20)
	assert.Less(t, string(a), string(b))
	assert.Equal(t, uint64(10), Uint64Codec.Decode(a))

	sa, sb := Int64Codec.Encode(-1), Int64Codec.Encode(1)
	assert.Less(t, string(sa), string(sb), "sign-flipped encoding must keep negative values ordered before positive")
	assert.Equal(t, int64(-1), Int64Codec.Decode(sa))
}
