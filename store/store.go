// Package store defines the ordered key-value contract the positional
// index is built on, and a pebble-backed implementation of it.
package store

import "context"

// Iterator walks a key range in store order. A zero-value Iterator is
// never valid; obtain one from Store.Forward/Store.Reverse. Callers
// must Close an iterator once done with it.
type Iterator interface {
	// SeekGE repositions the iterator at the first key >= key.
	SeekGE(key []byte) bool
	// Next advances to the next key in iteration order.
	Next() bool
	// Valid reports whether the iterator currently rests on an entry.
	Valid() bool
	// Key returns the current key. Only valid to call when Valid().
	Key() []byte
	// Value returns the current value. Only valid to call when Valid().
	Value() []byte
	// Close releases the iterator's resources.
	Close() error
}

// Store is the ordered KV contract the index reads and writes through.
// Keys are opaque fixed-layout byte strings; ordering is whatever byte-
// lexicographic order the caller's key encoding implies.
type Store interface {
	// Upsert writes v at k unconditionally, replacing any prior value.
	Upsert(k, v []byte) error
	// TryAdd writes v at k only if k is absent or tombstoned; it is a
	// no-op, not an error, when the live key already exists.
	TryAdd(k, v []byte) error
	// ForceDelete overwrites k with the tombstone value, leaving the key
	// physically present but logically absent.
	ForceDelete(k []byte) error
	// TryGet reads the value at k. found is false for an absent or
	// tombstoned key.
	TryGet(k []byte) (v []byte, found bool, err error)

	// Forward returns an iterator over [lower, upper) in ascending
	// key order. A nil upper means unbounded.
	Forward(lower, upper []byte) (Iterator, error)
	// Reverse returns an iterator over [lower, upper) in descending
	// key order.
	Reverse(lower, upper []byte) (Iterator, error)

	Maintainer
}

// Maintainer groups the lifecycle operations a long-lived store needs
// beyond plain reads/writes.
type Maintainer interface {
	// EvictToDisk flushes any in-memory state to durable storage.
	EvictToDisk(ctx context.Context) error
	// TryCancelBackgroundThreads asks background maintenance (e.g.
	// compaction) to stop; it does not block for completion.
	TryCancelBackgroundThreads() error
	// WaitForBackgroundThreads blocks until background maintenance has
	// quiesced or ctx is done.
	WaitForBackgroundThreads(ctx context.Context) error
	// Destroy closes the store and removes its on-disk tree.
	Destroy() error
	// Close releases the store's resources without removing data.
	Close() error
}
