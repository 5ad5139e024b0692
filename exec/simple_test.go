package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleSearchSingleToken(t *testing.T) {
	s := openTestStore(t)
	sim := NewSimple[uint64, uint32](s, keys, nil)

	putWord(t, s, tokFox, 1)
	putWord(t, s, tokFox, 2)
	putWord(t, s, tokCat, 3)

	got, err := sim.Search(context.Background(), []uint64{tokFox}, nil, false, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, sorted(got))
}

func TestSimpleSearchConjunctionUnordered(t *testing.T) {
	s := openTestStore(t)
	sim := NewSimple[uint64, uint32](s, keys, nil)

	// record1: fox cat cow (cat and cow both present)
	putWord(t, s, tokFox, 1)
	put(t, s, tokCat, 1, tokFox)
	put(t, s, tokCow, 1, tokCat)

	// record2: fox cat only (no cow)
	putWord(t, s, tokFox, 2)
	put(t, s, tokCat, 2, tokFox)

	got, err := sim.Search(context.Background(), []uint64{tokCat, tokCow}, nil, false, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, sorted(got))
}

func TestSimpleSearchRespectsOrder(t *testing.T) {
	s := openTestStore(t)
	sim := NewSimple[uint64, uint32](s, keys, nil)

	// record1: cat cow (ordered: cat then cow)
	putWord(t, s, tokCat, 1)
	put(t, s, tokCow, 1, tokCat)

	// record2: cow cat (reverse order)
	putWord(t, s, tokCow, 2)
	put(t, s, tokCat, 2, tokCow)

	got, err := sim.Search(context.Background(), []uint64{tokCat, tokCow}, nil, true, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, sorted(got))
}

func TestSimpleSearchWithFacetFilter(t *testing.T) {
	s := openTestStore(t)
	sim := NewSimple[uint64, uint32](s, keys, nil)

	putWord(t, s, tokCat, 1)
	putFacet(t, s, facetBooks, 1)

	putWord(t, s, tokCat, 2)
	putFacet(t, s, facetClothing, 2)

	got, err := sim.Search(context.Background(), []uint64{tokCat}, nil, false, []uint64{facetBooks}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, sorted(got))
}

func TestSimpleSearchFacetOnlyLookup(t *testing.T) {
	s := openTestStore(t)
	sim := NewSimple[uint64, uint32](s, keys, nil)

	putFacet(t, s, facetBooks, 1)
	putFacet(t, s, facetBooks, 2)
	putFacet(t, s, facetClothing, 3)

	got, err := sim.Search(context.Background(), nil, nil, false, []uint64{facetBooks}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, sorted(got))
}

func TestSimpleSearchEmptyQueryReturnsNoResults(t *testing.T) {
	s := openTestStore(t)
	sim := NewSimple[uint64, uint32](s, keys, nil)

	got, err := sim.Search(context.Background(), nil, nil, false, nil, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSimpleSearchPagination(t *testing.T) {
	s := openTestStore(t)
	sim := NewSimple[uint64, uint32](s, keys, nil)

	for _, r := range []uint32{1, 2, 3, 4} {
		putWord(t, s, tokFox, r)
	}

	got, err := sim.Search(context.Background(), []uint64{tokFox}, nil, false, nil, 1, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSimpleSearchSkipsTombstones(t *testing.T) {
	s := openTestStore(t)
	sim := NewSimple[uint64, uint32](s, keys, nil)

	putWord(t, s, tokFox, 1)
	putWord(t, s, tokFox, 2)
	require.NoError(t, s.ForceDelete(keys.Key(tokFox, 1, 0)))

	got, err := sim.Search(context.Background(), []uint64{tokFox}, nil, false, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, sorted(got))
}

func TestSimpleSearchCancellationReturnsPartial(t *testing.T) {
	s := openTestStore(t)
	sim := NewSimple[uint64, uint32](s, keys, nil)

	for _, r := range []uint32{1, 2, 3} {
		putWord(t, s, tokFox, r)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := sim.Search(ctx, []uint64{tokFox}, nil, false, nil, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
