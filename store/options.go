package store

import "github.com/cockroachdb/pebble"

// Options configures a PebbleStore, mirroring the nesting the teacher
// uses for its own replica Options: a handful of named knobs plus an
// escape hatch for directly tweaking the underlying library's options.
type Options struct {
	// BlockCacheLifetimeMS is accepted but not read: the store runs no
	// time-based eviction, and the block cache evicts only by size
	// (BlockCacheSizeBytes).
	BlockCacheLifetimeMS int64
	// BlockCacheSizeBytes sizes the shared pebble.Cache backing this
	// store. 0 uses pebble's built-in default (8 MiB).
	BlockCacheSizeBytes int64
	// Configure, if set, is called with the pebble.Options this store
	// is about to open with, after the above knobs have been applied,
	// so callers can reach settings this struct doesn't surface.
	Configure func(*pebble.Options)
}

func (o *Options) setDefaults() {
	if o.BlockCacheSizeBytes == 0 {
		o.BlockCacheSizeBytes = 8 << 20
	}
}
