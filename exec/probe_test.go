package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContainsAllSkipsTombstonedOccurrenceWithLiveOneRemaining
// reproduces "cat fox cat": tokCat occurs at prev=0 and again at
// prev=tokFox. Tombstoning the prev=0 occurrence (the one a single
// SeekGE lands on first) must not make containment for tokCat
// disappear, since the prev=tokFox occurrence is still live.
func TestContainsAllSkipsTombstonedOccurrenceWithLiveOneRemaining(t *testing.T) {
	s := openTestStore(t)
	put(t, s, tokCat, 1, 0)
	put(t, s, tokFox, 1, tokCat)
	put(t, s, tokCat, 1, tokFox)
	require.NoError(t, s.ForceDelete(keys.Key(tokCat, 1, 0)))

	verify, err := s.Forward(nil, nil)
	require.NoError(t, err)
	defer verify.Close()

	b := base[uint64, uint32]{Primary: s, Keys: keys}
	assert.True(t, b.containsAll(verify, []uint64{tokCat, tokFox}, 1, false))
	assert.True(t, b.containsAny(verify, []uint64{tokCat}, 1, false))
}

// TestContainsAllOrderedStillExcludesWhenExactLinkIsGone verifies that
// an ordered (phrase) match is unaffected by the unordered-presence
// fix above: tombstoning the specific triple a phrase chain depends on
// must still exclude the record, even though the token itself remains
// present elsewhere in the document under a different predecessor.
func TestContainsAllOrderedStillExcludesWhenExactLinkIsGone(t *testing.T) {
	s := openTestStore(t)
	put(t, s, tokCat, 1, 0)
	put(t, s, tokFox, 1, tokCat)
	put(t, s, tokCat, 1, tokFox)
	require.NoError(t, s.ForceDelete(keys.Key(tokFox, 1, tokCat)))

	verify, err := s.Forward(nil, nil)
	require.NoError(t, err)
	defer verify.Close()

	b := base[uint64, uint32]{Primary: s, Keys: keys}
	assert.False(t, b.containsAll(verify, []uint64{tokCat, tokFox}, 1, true), "the only cat->fox link was tombstoned")
}

func TestProbeAnySkipsPastTombstonedEntries(t *testing.T) {
	s := openTestStore(t)
	put(t, s, tokCat, 1, 0)
	put(t, s, tokCat, 1, tokFox)
	require.NoError(t, s.ForceDelete(keys.Key(tokCat, 1, 0)))

	verify, err := s.Forward(nil, nil)
	require.NoError(t, err)
	defer verify.Close()

	b := base[uint64, uint32]{Primary: s, Keys: keys}
	assert.True(t, b.probeAny(verify, tokCat, 1))
}

func TestProbeAnyFalseWhenAllOccurrencesTombstoned(t *testing.T) {
	s := openTestStore(t)
	put(t, s, tokCat, 1, 0)
	put(t, s, tokCat, 1, tokFox)
	require.NoError(t, s.ForceDelete(keys.Key(tokCat, 1, 0)))
	require.NoError(t, s.ForceDelete(keys.Key(tokCat, 1, tokFox)))

	verify, err := s.Forward(nil, nil)
	require.NoError(t, err)
	defer verify.Close()

	b := base[uint64, uint32]{Primary: s, Keys: keys}
	assert.False(t, b.probeAny(verify, tokCat, 1))
}
