package exec

import (
	"testing"

	"github.com/pixlabs/pix/pkey"
	"github.com/pixlabs/pix/store"
	"github.com/pixlabs/pix/testutil"
)

// keys is the shared Triples codec used by the executor tests: uint64
// tokens (as hashed words would be), uint32 records.
var keys = pkey.Triples[uint64, uint32]{Token: pkey.Uint64Codec, Record: pkey.Uint32Codec}

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.Open(testutil.TempDir(t, "exec"), store.Options{}, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// put writes a live triple (token, record, prev) into the given store.
func put(t *testing.T, s store.Store, token uint64, record uint32, prev uint64) {
	t.Helper()
	if err := s.Upsert(keys.Key(token, record, prev), []byte{pkey.LiveByte}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
}

// putWord seeds a triple for a word at the start of a document (prev is
// the 0 "no previous token" sentinel).
func putWord(t *testing.T, s store.Store, token uint64, record uint32) {
	put(t, s, token, record, 0)
}

// putFacet seeds a facet triple, whose previous_token always equals its
// own token.
func putFacet(t *testing.T, s store.Store, token uint64, record uint32) {
	put(t, s, token, record, token)
}
