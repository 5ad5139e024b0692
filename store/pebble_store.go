package store

import (
	"bytes"
	"context"
	"os"

	"github.com/cockroachdb/pebble"

	"github.com/pixlabs/pix/pixlog"
	"github.com/pixlabs/pix/pkey"
)

// PebbleStore is the default Store/Maintainer implementation, backed by
// github.com/cockroachdb/pebble the same way the teacher backs its own
// object log: pebble.Open with an explicit pebble.Options, a dedicated
// pebble.Cache sized by the caller, and plain byte-slice keys/values
// with no merge operator (the index never needs read-modify-write merges,
// only whole-value overwrites and tombstones).
type PebbleStore struct {
	db     *pebble.DB
	cache  *pebble.Cache
	path   string
	log    pixlog.Logger
	cancel chan struct{}
}

var writeOpts = &pebble.WriteOptions{Sync: false}

// Open creates or opens a pebble-backed store rooted at path.
func Open(path string, opts Options, log pixlog.Logger) (*PebbleStore, error) {
	opts.setDefaults()
	if log == nil {
		log = pixlog.Noop()
	}
	cache := pebble.NewCache(opts.BlockCacheSizeBytes)
	pebbleOpts := &pebble.Options{
		Cache: cache,
	}
	if opts.Configure != nil {
		opts.Configure(pebbleOpts)
	}
	db, err := pebble.Open(path, pebbleOpts)
	if err != nil {
		cache.Unref()
		return nil, err
	}
	log.Info("opened store", "path", path)
	return &PebbleStore{db: db, cache: cache, path: path, log: log, cancel: make(chan struct{})}, nil
}

func (s *PebbleStore) Upsert(k, v []byte) error {
	return s.db.Set(k, v, writeOpts)
}

func (s *PebbleStore) TryAdd(k, v []byte) error {
	_, found, err := s.TryGet(k)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	return s.db.Set(k, v, writeOpts)
}

func (s *PebbleStore) ForceDelete(k []byte) error {
	return s.db.Set(k, []byte{pkey.TombstoneByte}, writeOpts)
}

func (s *PebbleStore) TryGet(k []byte) ([]byte, bool, error) {
	v, closer, err := s.db.Get(k)
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()
	if len(v) > 0 && v[0] == pkey.TombstoneByte {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *PebbleStore) Forward(lower, upper []byte) (Iterator, error) {
	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	return &forwardIterator{it: it}, nil
}

func (s *PebbleStore) Reverse(lower, upper []byte) (Iterator, error) {
	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	return &reverseIterator{it: it}, nil
}

func (s *PebbleStore) EvictToDisk(ctx context.Context) error {
	return s.db.Flush()
}

// TryCancelBackgroundThreads closes the store's cancel channel; a second
// call is a no-op. Pebble's own compactions and flushes are not stopped
// by it.
func (s *PebbleStore) TryCancelBackgroundThreads() error {
	select {
	case <-s.cancel:
	default:
		close(s.cancel)
	}
	return nil
}

// WaitForBackgroundThreads returns at once: ctx.Err() if ctx is already
// done, nil otherwise. It does not wait for pebble's own compactions.
func (s *PebbleStore) WaitForBackgroundThreads(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (s *PebbleStore) Destroy() error {
	if err := s.Close(); err != nil {
		return err
	}
	return os.RemoveAll(s.path)
}

func (s *PebbleStore) Close() error {
	err := s.db.Close()
	s.cache.Unref()
	return err
}

// forwardIterator adapts pebble's ascending iterator to Iterator.
type forwardIterator struct{ it *pebble.Iterator }

func (f *forwardIterator) SeekGE(key []byte) bool { return f.it.SeekGE(key) }
func (f *forwardIterator) Next() bool              { return f.it.Next() }
func (f *forwardIterator) Valid() bool             { return f.it.Valid() }
func (f *forwardIterator) Key() []byte             { return f.it.Key() }
func (f *forwardIterator) Value() []byte           { return f.it.Value() }
func (f *forwardIterator) Close() error            { return f.it.Close() }

// reverseIterator adapts pebble's iterator for descending traversal.
// SeekGE(key) positions at the largest key <= key (the natural meaning
// of "seek" when walking backwards); Next steps towards smaller keys.
type reverseIterator struct{ it *pebble.Iterator }

func (r *reverseIterator) SeekGE(key []byte) bool {
	if r.it.SeekGE(key) {
		if bytes.Equal(r.it.Key(), key) {
			return true
		}
		return r.it.Prev()
	}
	return r.it.Last()
}

func (r *reverseIterator) Next() bool     { return r.it.Prev() }
func (r *reverseIterator) Valid() bool    { return r.it.Valid() }
func (r *reverseIterator) Key() []byte    { return r.it.Key() }
func (r *reverseIterator) Value() []byte  { return r.it.Value() }
func (r *reverseIterator) Close() error   { return r.it.Close() }
