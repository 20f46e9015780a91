package index

import (
	"errors"

	"github.com/bsm/ordkey"
	"github.com/bsm/ordkey/store"
)

var errReleased = errors.New("index: cursor is released")

// Cursor iterates over index entries in tuple order.
type Cursor struct {
	it     store.Iterator
	schema *ordkey.Schema
	skip   int

	tuple ordkey.Tuple
	err   error
}

// Next advances the cursor and returns true if successful.
// Entries that cannot be decoded stop the cursor with an error.
func (c *Cursor) Next() bool {
	if c.err != nil || c.it == nil {
		return false
	}
	if !c.it.Next() {
		return false
	}

	key := c.it.Key()
	if len(key) < c.skip {
		c.err = ordkey.ErrFraming
		return false
	}

	c.tuple, c.err = c.schema.Decode(key[c.skip:])
	return c.err == nil
}

// Tuple returns the decoded tuple of the current entry.
func (c *Cursor) Tuple() ordkey.Tuple {
	if c.it == nil {
		return nil
	}
	return c.tuple
}

// Key returns the encoded tuple of the current entry, without the index
// prefix. It is only valid until the next call to Next.
func (c *Cursor) Key() []byte {
	if c.it == nil {
		return nil
	}
	if key := c.it.Key(); len(key) >= c.skip {
		return key[c.skip:]
	}
	return nil
}

// Value returns the value of the current entry. It is only valid until the
// next call to Next.
func (c *Cursor) Value() []byte {
	if c.it == nil {
		return nil
	}
	return c.it.Value()
}

// Err returns the first error encountered, if any.
func (c *Cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	if c.it == nil {
		return nil
	}
	return c.it.Err()
}

// Release releases the cursor. Accessors return nil afterwards.
func (c *Cursor) Release() {
	if c.it != nil {
		c.it.Release()
		c.it = nil
	}
	c.tuple = nil
	if c.err == nil {
		c.err = errReleased
	}
}
