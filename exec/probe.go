// Package exec implements the probe-and-verify search executors: Simple
// for a fixed conjunction of tokens plus an optional facet OR-set, and
// Advanced for an arbitrary Boolean/facet query tree.
package exec

import (
	"github.com/pixlabs/pix/pkey"
	"github.com/pixlabs/pix/store"
)

// base holds what both executors need to talk to the primary index:
// the store handle and the key codec pair.
type base[T, R comparable] struct {
	Primary store.Store
	Keys    pkey.Triples[T, R]
}

func isTombstoned(v []byte) bool {
	return len(v) > 0 && v[0] == pkey.TombstoneByte
}

// probe seeks verify to the exact key (token, record, seekPrev) and
// reports whether that specific triple is live. Used only where
// seekPrev names the one predecessor a match must chain through
// (ordered verification from the second token onward, or a facet's
// self-referential previous_token): since a
// (token, record, prev) triple is unique, there is no other live entry
// to find by scanning past a tombstone at that exact key.
func (b base[T, R]) probe(verify store.Iterator, token T, record R, seekPrev T) (gotPrev T, ok bool) {
	key := b.Keys.Key(token, record, seekPrev)
	if !verify.SeekGE(key) || !verify.Valid() {
		return gotPrev, false
	}
	gotTok, gotRec, gotPrev := b.Keys.Decode(verify.Key())
	if gotTok != token || gotRec != record || gotPrev != seekPrev {
		return gotPrev, false
	}
	if isTombstoned(verify.Value()) {
		return gotPrev, false
	}
	return gotPrev, true
}

// probeAny reports whether record carries any live (token, record, *)
// triple, regardless of previous-token. A token can recur in one record
// under different predecessors (e.g. "cat fox cat"); only one of those
// occurrences may be tombstoned by an edit, so presence must keep
// scanning forward across the (token, record) prefix past tombstoned
// entries rather than stopping at the first key found.
func (b base[T, R]) probeAny(verify store.Iterator, token T, record R) bool {
	prefix := b.Keys.RecordSeekKey(token, record)
	for ok := verify.SeekGE(prefix); ok; ok = verify.Next() {
		if !pkey.HasPrefix(verify.Key(), prefix) {
			return false
		}
		if !isTombstoned(verify.Value()) {
			return true
		}
	}
	return false
}

// containsAll verifies that record carries every token in tokens, in
// the given order when respectOrder is set (chaining through the
// previous-token component), or independently otherwise. The first
// token in the sequence carries no ordering constraint of its own —
// only from the second token on does a match require the immediately
// preceding query token to be that token's actual prev_token, so only
// that chained check uses the exact-key probe; every other check is a
// plain presence check via probeAny.
func (b base[T, R]) containsAll(verify store.Iterator, tokens []T, record R, respectOrder bool) bool {
	var prev T
	havePrev := false
	for _, tk := range tokens {
		if !respectOrder || !havePrev {
			if !b.probeAny(verify, tk, record) {
				return false
			}
		} else {
			if _, ok := b.probe(verify, tk, record, prev); !ok {
				return false
			}
		}
		if respectOrder {
			prev = tk
			havePrev = true
		}
	}
	return true
}

// containsAllFacets verifies that record carries every facet token in
// tokens via its self-referential (t, R, t) triple.
func (b base[T, R]) containsAllFacets(verify store.Iterator, tokens []T, record R) bool {
	for _, tk := range tokens {
		if _, ok := b.probe(verify, tk, record, tk); !ok {
			return false
		}
	}
	return true
}

// containsAny reports whether record carries at least one of tokens.
// For facets, presence requires the self-referential (t, R, t) triple;
// otherwise presence under any previous-token value counts.
func (b base[T, R]) containsAny(verify store.Iterator, tokens []T, record R, isFacet bool) bool {
	for _, tk := range tokens {
		if isFacet {
			if _, ok := b.probe(verify, tk, record, tk); ok {
				return true
			}
			continue
		}
		if b.probeAny(verify, tk, record) {
			return true
		}
	}
	return false
}
