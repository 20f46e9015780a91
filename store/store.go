// Package store defines the byte-ordered key-value interface that encoded
// keys are persisted in, together with adapters for several engines. Every
// backend uses its engine's default bytewise comparator.
package store

import (
	"errors"

	"github.com/bsm/ordkey"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("store: not found")

var errClosed = errors.New("store: is closed")

// Range restricts iteration to keys in [Start, Limit).
// A nil Start means the beginning of the keyspace, a nil Limit its end.
type Range struct {
	Start []byte
	Limit []byte
}

// PrefixRange returns the range of all keys starting with prefix.
func PrefixRange(prefix []byte) *Range {
	return &Range{
		Start: append([]byte(nil), prefix...),
		Limit: ordkey.PrefixEnd(prefix),
	}
}

func (r *Range) start() []byte {
	if r == nil {
		return nil
	}
	return r.Start
}

func (r *Range) limit() []byte {
	if r == nil {
		return nil
	}
	return r.Limit
}

// below reports whether key lies before the range limit.
func (r *Range) below(key []byte) bool {
	lim := r.limit()
	return lim == nil || ordkey.Compare(key, lim) < 0
}

// Iterator iterates over key/value pairs in ascending key order.
type Iterator interface {
	// Next advances the iterator and returns true if successful.
	Next() bool
	// Key returns the current key. It may only be used until the next call
	// to Next.
	Key() []byte
	// Value returns the current value. It may only be used until the next
	// call to Next.
	Value() []byte
	// Err returns the first error encountered, if any.
	Err() error
	// Release releases the iterator. It must be called exactly once.
	Release()
}

// Reader provides read access to a byte-ordered keyspace.
type Reader interface {
	// Get returns a copy of the value stored under key or ErrNotFound.
	Get(key []byte) ([]byte, error)
	// NewIterator returns an iterator over the given range. A nil range
	// iterates over all keys.
	NewIterator(rng *Range) Iterator
}

// Store is a mutable Reader.
type Store interface {
	Reader

	// Put stores value under key, replacing any existing value.
	Put(key, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key []byte) error
	// Close releases all resources.
	Close() error
}

// --------------------------------------------------------------------

type errIterator struct{ err error }

func (i errIterator) Next() bool    { return false }
func (i errIterator) Key() []byte   { return nil }
func (i errIterator) Value() []byte { return nil }
func (i errIterator) Err() error    { return i.err }
func (i errIterator) Release()      {}
