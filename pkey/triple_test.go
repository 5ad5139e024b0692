package pkey

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriplesKeyRoundTrip(t *testing.T) {
	tr := Triples[uint64, uint64]{Token: Uint64Codec, Record: Uint64Codec}
	key := tr.Key(42, 7, 0)
	token, record, prev := tr.Decode(key)
	assert.Equal(t, uint64(42), token)
	assert.Equal(t, uint64(7), record)
	assert.Equal(t, uint64(0), prev)
}

func TestTriplesOrderMatchesNumericOrder(t *testing.T) {
	tr := Triples[uint64, uint64]{Token: Uint64Codec, Record: Uint64Codec}
	lower := tr.Key(1, 0, 0)
	higher := tr.Key(2, 0, 0)
	assert.True(t, bytes.Compare(lower, higher) < 0)
}

func TestTokenPrefixMatchesAllRecordsForToken(t *testing.T) {
	tr := Triples[uint64, uint64]{Token: Uint64Codec, Record: Uint64Codec}
	prefix := tr.TokenPrefix(9)
	key := tr.Key(9, 123, 0)
	assert.True(t, HasPrefix(key, prefix))
	other := tr.Key(10, 123, 0)
	assert.False(t, HasPrefix(other, prefix))
}

func TestReversesKeyRoundTrip(t *testing.T) {
	rv := Reverses[uint64, uint64]{Record: Uint64Codec, Token: Uint64Codec}
	key := rv.Key(5, 99)
	record, token := rv.Decode(key)
	assert.Equal(t, uint64(5), record)
	assert.Equal(t, uint64(99), token)
	assert.True(t, HasPrefix(key, rv.RecordPrefix(5)))
}
