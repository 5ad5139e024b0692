// Package ixerrors provides the shared pix error definitions.
package ixerrors

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

var (
	// ErrIndexDropped is returned by any operation attempted after Drop.
	ErrIndexDropped = errors.New("pix: index dropped")

	// ErrReadOnly is returned by mutating operations on a read-only index.
	ErrReadOnly = errors.New("pix: index is read-only")

	// ErrUnexpectedToken is returned when a query string violates the
	// grammar at a non-tolerated site.
	ErrUnexpectedToken = errors.New("pix: unexpected token")

	// ErrInvalidConfiguration is returned at construction time for
	// bad options, e.g. a negative minimum token length.
	ErrInvalidConfiguration = errors.New("pix: invalid configuration")

	// ErrAlreadyOpen names the "store already open" condition. No
	// operation in this module returns it.
	ErrAlreadyOpen = errors.New("pix: already open")

	// ErrClosed names the "store is closed" condition. No operation in
	// this module returns it.
	ErrClosed = errors.New("pix: store is closed")

	// ErrNotFound aliases the backing store's not-found sentinel so
	// callers do not need to import the store package to compare it.
	ErrNotFound = pebble.ErrNotFound
)
