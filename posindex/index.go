// Package posindex is the durable positional index: a primary store of
// (token, record, previous_token) triples, an optional reverse
// (record, token) mirror used to accelerate whole-record deletion, and
// the two search executors that read through it.
package posindex

import (
	"context"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pixlabs/pix/exec"
	"github.com/pixlabs/pix/ixerrors"
	"github.com/pixlabs/pix/pixlog"
	"github.com/pixlabs/pix/pkey"
	"github.com/pixlabs/pix/query"
	"github.com/pixlabs/pix/store"
)

// liveTriplesCacheSize bounds the recordHasLiveTriples cache, the same
// order of magnitude as the teacher's own hash-index cache.
const liveTriplesCacheSize = 10000

// liveTriplesKey identifies one (token, record) pair's cached liveness
// verdict. Any write touching that pair invalidates the entry.
type liveTriplesKey[T, R comparable] struct {
	Token  T
	Record R
}

// Index owns the primary (and optional secondary) stores, the two
// search executors over the primary, and the open/read-only/dropped
// lifecycle spec'd for the core.
type Index[T, R comparable] struct {
	mu sync.RWMutex

	primary   store.Store
	secondary store.Store // nil when the reverse mirror is disabled

	keys    pkey.Triples[T, R]
	reverse pkey.Reverses[R, T]

	simple   *exec.Simple[T, R]
	advanced *exec.Advanced[T, R]

	liveTriples *lru.Cache[liveTriplesKey[T, R], bool]

	log      pixlog.Logger
	readOnly bool
	dropped  bool
}

// Open creates or reopens a positional index rooted at dataPath, with
// the primary tree under "<dataPath>/index1" and, when useSecondary is
// set, the reverse mirror under "<dataPath>/index2" — the persisted
// layout spec'd for the core.
func Open[T, R comparable](
	dataPath string,
	keys pkey.Triples[T, R],
	reverse pkey.Reverses[R, T],
	useSecondary bool,
	primaryOpts, secondaryOpts store.Options,
	log pixlog.Logger,
) (*Index[T, R], error) {
	if log == nil {
		log = pixlog.Noop()
	}
	primary, err := store.Open(filepath.Join(dataPath, "index1"), primaryOpts, log)
	if err != nil {
		return nil, err
	}

	var secondary store.Store
	if useSecondary {
		sec, err := store.Open(filepath.Join(dataPath, "index2"), secondaryOpts, log)
		if err != nil {
			primary.Close()
			return nil, err
		}
		secondary = sec
	}

	cache, err := lru.New[liveTriplesKey[T, R], bool](liveTriplesCacheSize)
	if err != nil {
		primary.Close()
		if secondary != nil {
			secondary.Close()
		}
		return nil, err
	}

	return &Index[T, R]{
		primary:     primary,
		secondary:   secondary,
		keys:        keys,
		reverse:     reverse,
		simple:      exec.NewSimple[T, R](primary, keys, log),
		advanced:    exec.NewAdvanced[T, R](primary, keys, log),
		liveTriples: cache,
		log:         log,
	}, nil
}

func (ix *Index[T, R]) checkOpen() error {
	if ix.dropped {
		return ixerrors.ErrIndexDropped
	}
	return nil
}

func (ix *Index[T, R]) checkWritable() error {
	if err := ix.checkOpen(); err != nil {
		return err
	}
	if ix.readOnly {
		return ixerrors.ErrReadOnly
	}
	return nil
}

// IsReadOnly reports whether mutations are currently rejected.
func (ix *Index[T, R]) IsReadOnly() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.readOnly
}

// IsIndexDropped reports whether Drop has already run.
func (ix *Index[T, R]) IsIndexDropped() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dropped
}

// SetReadOnly flips the read-only flag; it is the only operation
// permitted to run on an otherwise read-only index besides reads.
func (ix *Index[T, R]) SetReadOnly(readOnly bool) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.checkOpen(); err != nil {
		return err
	}
	ix.readOnly = readOnly
	return nil
}

// Upsert inserts or overwrites the triple (token, record, prev). If the
// secondary mirror is enabled, it also ensures (record, token) is
// present there.
func (ix *Index[T, R]) Upsert(token T, record R, prev T) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.checkWritable(); err != nil {
		return err
	}
	if err := ix.primary.Upsert(ix.keys.Key(token, record, prev), []byte{pkey.LiveByte}); err != nil {
		return err
	}
	ix.invalidateLiveTriples(token, record)
	if ix.secondary != nil {
		if err := ix.secondary.TryAdd(ix.reverse.Key(record, token), []byte{pkey.LiveByte}); err != nil {
			return err
		}
	}
	return nil
}

// Delete writes a tombstone for the triple (token, record, prev). When
// the secondary mirror is enabled, the (record, token) reverse entry is
// also tombstoned once no other live triple for that (token, record)
// pair remains — a document can repeat the same word after a different
// predecessor, so a single triple's deletion does not always retire the
// whole (record, token) mapping.
func (ix *Index[T, R]) Delete(token T, record R, prev T) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.checkWritable(); err != nil {
		return err
	}
	if err := ix.primary.ForceDelete(ix.keys.Key(token, record, prev)); err != nil {
		return err
	}
	ix.invalidateLiveTriples(token, record)
	if ix.secondary == nil {
		return nil
	}
	stillLive, err := ix.recordHasLiveTriples(token, record)
	if err != nil {
		return err
	}
	if !stillLive {
		return ix.secondary.ForceDelete(ix.reverse.Key(record, token))
	}
	return nil
}

// recordHasLiveTriples reports whether any live (token, record, *) triple
// remains, caching the verdict since it is reconsulted on every triple
// deletion for the same token/record pair. invalidateLiveTriples must be
// called by every write that could change the answer.
func (ix *Index[T, R]) recordHasLiveTriples(token T, record R) (bool, error) {
	key := liveTriplesKey[T, R]{Token: token, Record: record}
	if v, ok := ix.liveTriples.Get(key); ok {
		return v, nil
	}

	prefix := ix.keys.RecordSeekKey(token, record)
	upper := pkey.PrefixUpperBound(prefix)
	it, err := ix.primary.Forward(prefix, upper)
	if err != nil {
		return false, err
	}
	defer it.Close()
	live := false
	for ok := it.SeekGE(prefix); ok; ok = it.Next() {
		if !pkey.HasPrefix(it.Key(), prefix) {
			break
		}
		if !isTombstoned(it.Value()) {
			live = true
			break
		}
	}
	ix.liveTriples.Add(key, live)
	return live, nil
}

func (ix *Index[T, R]) invalidateLiveTriples(token T, record R) {
	ix.liveTriples.Remove(liveTriplesKey[T, R]{Token: token, Record: record})
}

func isTombstoned(v []byte) bool {
	return len(v) > 0 && v[0] == pkey.TombstoneByte
}

// AddFacet writes the self-referential facet triple (token, record,
// token) for a hashed "name:value" token.
func (ix *Index[T, R]) AddFacet(record R, token T) error {
	return ix.Upsert(token, record, token)
}

// DeleteFacet tombstones the self-referential facet triple.
func (ix *Index[T, R]) DeleteFacet(record R, token T) error {
	return ix.Delete(token, record, token)
}

// TokenPrev pairs a token with the token immediately preceding it in a
// document's sequence, the unit DeleteTokens operates on.
type TokenPrev[T any] struct {
	Token T
	Prev  T
}

// DeleteTokens removes exactly the triples named by pairs, returning
// how many were actually live (and thus physically tombstoned).
func (ix *Index[T, R]) DeleteTokens(record R, pairs []TokenPrev[T]) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.checkWritable(); err != nil {
		return 0, err
	}
	count := 0
	for _, p := range pairs {
		v, found, err := ix.primary.TryGet(ix.keys.Key(p.Token, record, p.Prev))
		if err != nil {
			return count, err
		}
		if !found || isTombstoned(v) {
			continue
		}
		if err := ix.primary.ForceDelete(ix.keys.Key(p.Token, record, p.Prev)); err != nil {
			return count, err
		}
		count++
		ix.invalidateLiveTriples(p.Token, record)
		if ix.secondary != nil {
			stillLive, err := ix.recordHasLiveTriples(p.Token, record)
			if err != nil {
				return count, err
			}
			if !stillLive {
				if err := ix.secondary.ForceDelete(ix.reverse.Key(record, p.Token)); err != nil {
					return count, err
				}
			}
		}
	}
	return count, nil
}

// DeleteRecord removes every triple whose record component equals
// record, returning how many were tombstoned. It uses the secondary
// mirror's seek-chase path when enabled, or a full primary scan
// otherwise — both code paths leave the index in the identical
// post-condition.
func (ix *Index[T, R]) DeleteRecord(record R) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.checkWritable(); err != nil {
		return 0, err
	}
	if ix.secondary != nil {
		return ix.deleteRecordWithSecondary(record)
	}
	return ix.deleteRecordFullScan(record)
}

func (ix *Index[T, R]) deleteRecordFullScan(record R) (int, error) {
	it, err := ix.primary.Forward(nil, nil)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	count := 0
	for ok := it.SeekGE(nil); ok; ok = it.Next() {
		tok, rec, _ := ix.keys.Decode(it.Key())
		if rec != record {
			continue
		}
		if isTombstoned(it.Value()) {
			continue
		}
		if err := ix.primary.ForceDelete(it.Key()); err != nil {
			return count, err
		}
		ix.invalidateLiveTriples(tok, rec)
		count++
	}
	return count, nil
}

func (ix *Index[T, R]) deleteRecordWithSecondary(record R) (int, error) {
	prefix := ix.reverse.RecordPrefix(record)
	upper := pkey.PrefixUpperBound(prefix)
	it, err := ix.secondary.Forward(prefix, upper)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	count := 0
	for ok := it.SeekGE(prefix); ok; ok = it.Next() {
		if !pkey.HasPrefix(it.Key(), prefix) {
			break
		}
		_, token := ix.reverse.Decode(it.Key())
		if isTombstoned(it.Value()) {
			continue
		}

		n, err := ix.deleteAllForTokenRecord(token, record)
		if err != nil {
			return count, err
		}
		count += n

		if err := ix.secondary.ForceDelete(it.Key()); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (ix *Index[T, R]) deleteAllForTokenRecord(token T, record R) (int, error) {
	prefix := ix.keys.RecordSeekKey(token, record)
	upper := pkey.PrefixUpperBound(prefix)
	it, err := ix.primary.Forward(prefix, upper)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	count := 0
	for ok := it.SeekGE(prefix); ok; ok = it.Next() {
		if !pkey.HasPrefix(it.Key(), prefix) {
			break
		}
		if isTombstoned(it.Value()) {
			continue
		}
		if err := ix.primary.ForceDelete(it.Key()); err != nil {
			return count, err
		}
		ix.invalidateLiveTriples(token, record)
		count++
	}
	return count, nil
}

// SimpleSearch delegates to the fixed-conjunction-plus-facet-OR
// executor.
func (ix *Index[T, R]) SimpleSearch(
	ctx context.Context,
	tokens []T,
	firstLookAt *T,
	respectOrder bool,
	facets []T,
	skip, limit int,
) ([]R, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if err := ix.checkOpen(); err != nil {
		return nil, err
	}
	return ix.simple.Search(ctx, tokens, firstLookAt, respectOrder, facets, skip, limit)
}

// Search delegates to the arbitrary-Boolean-tree executor.
func (ix *Index[T, R]) Search(ctx context.Context, root *query.QueryNode[T], skip, limit int) ([]R, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if err := ix.checkOpen(); err != nil {
		return nil, err
	}
	return ix.advanced.Search(ctx, root, skip, limit)
}

// EvictToDisk flushes both stores' in-memory state.
func (ix *Index[T, R]) EvictToDisk(ctx context.Context) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if err := ix.checkOpen(); err != nil {
		return err
	}
	if err := ix.primary.EvictToDisk(ctx); err != nil {
		return err
	}
	if ix.secondary != nil {
		return ix.secondary.EvictToDisk(ctx)
	}
	return nil
}

// TryCancelBackgroundThreads asks both stores' maintenance threads to stop.
func (ix *Index[T, R]) TryCancelBackgroundThreads() error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if err := ix.primary.TryCancelBackgroundThreads(); err != nil {
		return err
	}
	if ix.secondary != nil {
		return ix.secondary.TryCancelBackgroundThreads()
	}
	return nil
}

// WaitForBackgroundThreads blocks until both stores quiesce or ctx ends.
func (ix *Index[T, R]) WaitForBackgroundThreads(ctx context.Context) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if err := ix.primary.WaitForBackgroundThreads(ctx); err != nil {
		return err
	}
	if ix.secondary != nil {
		return ix.secondary.WaitForBackgroundThreads(ctx)
	}
	return nil
}

// Drop is the terminal one-way latch: cancel and wait for maintenance
// threads, flip read-only, destroy both on-disk trees, and mark the
// index dropped. Every subsequent operation fails with ErrIndexDropped.
func (ix *Index[T, R]) Drop() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.dropped {
		return ixerrors.ErrIndexDropped
	}
	_ = ix.primary.TryCancelBackgroundThreads()
	if ix.secondary != nil {
		_ = ix.secondary.TryCancelBackgroundThreads()
	}
	_ = ix.primary.WaitForBackgroundThreads(context.Background())
	if ix.secondary != nil {
		_ = ix.secondary.WaitForBackgroundThreads(context.Background())
	}
	ix.readOnly = true

	if err := ix.primary.Destroy(); err != nil {
		return err
	}
	if ix.secondary != nil {
		if err := ix.secondary.Destroy(); err != nil {
			return err
		}
	}
	ix.dropped = true
	return nil
}

// Dispose releases both stores' resources without removing their
// on-disk trees — a graceful shutdown, as opposed to Drop's destructive
// one.
func (ix *Index[T, R]) Dispose() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.dropped {
		return nil
	}
	if err := ix.primary.Close(); err != nil {
		return err
	}
	if ix.secondary != nil {
		return ix.secondary.Close()
	}
	return nil
}
