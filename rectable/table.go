// Package rectable is the dual-key record-mapping table: a peripheral
// utility (not part of the core search engine) that maps indexed
// records to an external value and back, persisted as the
// "rectable1"/"rectable2" trees named in the core's persisted layout.
// It is deliberately not wired into the query planner.
package rectable

import (
	"path/filepath"

	"github.com/pixlabs/pix/pixlog"
	"github.com/pixlabs/pix/pkey"
	"github.com/pixlabs/pix/store"
)

// Table maps records to an external value and back, via two stores
// kept in lockstep: forward (record -> value) under "rectable1",
// reverse (value -> record) under "rectable2".
type Table[R, V comparable] struct {
	forward store.Store
	reverse store.Store

	recordCodec pkey.Codec[R]
	valueCodec  pkey.Codec[V]

	log pixlog.Logger
}

// Open creates or reopens a record-mapping table rooted at dataPath.
func Open[R, V comparable](
	dataPath string,
	recordCodec pkey.Codec[R],
	valueCodec pkey.Codec[V],
	forwardOpts, reverseOpts store.Options,
	log pixlog.Logger,
) (*Table[R, V], error) {
	if log == nil {
		log = pixlog.Noop()
	}
	forward, err := store.Open(filepath.Join(dataPath, "rectable1"), forwardOpts, log)
	if err != nil {
		return nil, err
	}
	reverse, err := store.Open(filepath.Join(dataPath, "rectable2"), reverseOpts, log)
	if err != nil {
		forward.Close()
		return nil, err
	}
	return &Table[R, V]{
		forward:     forward,
		reverse:     reverse,
		recordCodec: recordCodec,
		valueCodec:  valueCodec,
		log:         log,
	}, nil
}

// Put records the (record, value) association in both directions,
// overwriting any prior mapping this record or value held.
func (t *Table[R, V]) Put(record R, value V) error {
	if prior, found, err := t.GetByRecord(record); err == nil && found && prior != value {
		if err := t.reverse.ForceDelete(t.valueCodec.Encode(prior)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	if priorRecord, found, err := t.GetByValue(value); err != nil {
		return err
	} else if found && priorRecord != record {
		if err := t.forward.ForceDelete(t.recordCodec.Encode(priorRecord)); err != nil {
			return err
		}
	}
	if err := t.forward.Upsert(t.recordCodec.Encode(record), t.valueCodec.Encode(value)); err != nil {
		return err
	}
	return t.reverse.Upsert(t.valueCodec.Encode(value), t.recordCodec.Encode(record))
}

// GetByRecord looks up the external value mapped to record.
func (t *Table[R, V]) GetByRecord(record R) (V, bool, error) {
	var zero V
	v, found, err := t.forward.TryGet(t.recordCodec.Encode(record))
	if err != nil || !found {
		return zero, false, err
	}
	return t.valueCodec.Decode(v), true, nil
}

// GetByValue looks up the record mapped to an external value.
func (t *Table[R, V]) GetByValue(value V) (R, bool, error) {
	var zero R
	v, found, err := t.reverse.TryGet(t.valueCodec.Encode(value))
	if err != nil || !found {
		return zero, false, err
	}
	return t.recordCodec.Decode(v), true, nil
}

// Delete removes record's mapping in both directions, if present.
func (t *Table[R, V]) Delete(record R) error {
	value, found, err := t.GetByRecord(record)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if err := t.forward.ForceDelete(t.recordCodec.Encode(record)); err != nil {
		return err
	}
	return t.reverse.ForceDelete(t.valueCodec.Encode(value))
}

// Close releases both underlying stores without removing their
// on-disk trees.
func (t *Table[R, V]) Close() error {
	if err := t.forward.Close(); err != nil {
		return err
	}
	return t.reverse.Close()
}

// Destroy closes both stores and removes their on-disk trees.
func (t *Table[R, V]) Destroy() error {
	if err := t.forward.Destroy(); err != nil {
		return err
	}
	return t.reverse.Destroy()
}
