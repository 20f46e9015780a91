// Package index maps typed tuples onto a byte-ordered store.
//
// Tuples are encoded with a schema so that the store's key order equals the
// schema's tuple order, which allows ordered scans over leading columns.
package index

import (
	"errors"

	"github.com/bsm/ordkey"
	"github.com/bsm/ordkey/store"
)

var (
	// ErrReadOnly is returned when writing to an index created with NewReader.
	ErrReadOnly = errors.New("index: is read-only")

	// ErrNotFound is returned when a tuple does not exist.
	ErrNotFound = store.ErrNotFound
)

// Options configure an index.
type Options struct {
	// Prefix namespaces all keys of the index within the store.
	// Default: none.
	Prefix []byte
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}
	oo.Prefix = append([]byte(nil), oo.Prefix...)
	return &oo
}

// Index stores values under encoded tuples.
type Index struct {
	r      store.Reader
	w      store.Store
	schema *ordkey.Schema
	o      *Options
}

// New creates an index on top of a store.
func New(st store.Store, schema *ordkey.Schema, o *Options) *Index {
	return &Index{r: st, w: st, schema: schema, o: o.norm()}
}

// NewReader creates a read-only index. Put and Delete fail with ErrReadOnly.
func NewReader(r store.Reader, schema *ordkey.Schema, o *Options) *Index {
	return &Index{r: r, schema: schema, o: o.norm()}
}

// Schema returns the index schema.
func (x *Index) Schema() *ordkey.Schema { return x.schema }

// Put stores value under t.
func (x *Index) Put(t ordkey.Tuple, value []byte) error {
	if x.w == nil {
		return ErrReadOnly
	}

	key, err := x.key(t)
	if err != nil {
		return err
	}
	return x.w.Put(key, value)
}

// Get returns the value stored under t or ErrNotFound.
func (x *Index) Get(t ordkey.Tuple) ([]byte, error) {
	key, err := x.key(t)
	if err != nil {
		return nil, err
	}
	return x.r.Get(key)
}

// Delete removes t.
func (x *Index) Delete(t ordkey.Tuple) error {
	if x.w == nil {
		return ErrReadOnly
	}

	key, err := x.key(t)
	if err != nil {
		return err
	}
	return x.w.Delete(key)
}

// Scan returns a cursor over all entries whose leading columns equal prefix.
// An empty prefix scans the whole index.
func (x *Index) Scan(prefix ordkey.Tuple) *Cursor {
	pfx, err := x.bound(prefix)
	if err != nil {
		return &Cursor{err: err}
	}

	// a complete tuple only matches its own key
	if len(prefix) == x.schema.NumColumns() {
		return x.newCursor(&store.Range{Start: pfx, Limit: append(pfx[:len(pfx):len(pfx)], 0)})
	}
	return x.newCursor(store.PrefixRange(pfx))
}

// ScanRange returns a cursor over the entries from start (inclusive) to
// limit (exclusive). Both may be partial tuples: a partial start includes
// and a partial limit excludes all entries whose leading columns equal it.
// A nil start or limit leaves that side of the range open.
func (x *Index) ScanRange(start, limit ordkey.Tuple) *Cursor {
	rng := new(store.Range)

	if start != nil {
		key, err := x.bound(start)
		if err != nil {
			return &Cursor{err: err}
		}
		rng.Start = key
	} else if len(x.o.Prefix) != 0 {
		rng.Start = x.o.Prefix
	}

	if limit != nil {
		key, err := x.bound(limit)
		if err != nil {
			return &Cursor{err: err}
		}
		rng.Limit = key
	} else if len(x.o.Prefix) != 0 {
		rng.Limit = ordkey.PrefixEnd(x.o.Prefix)
	}

	return x.newCursor(rng)
}

func (x *Index) newCursor(rng *store.Range) *Cursor {
	return &Cursor{
		it:     x.r.NewIterator(rng),
		schema: x.schema,
		skip:   len(x.o.Prefix),
	}
}

func (x *Index) key(t ordkey.Tuple) ([]byte, error) {
	dst := make([]byte, len(x.o.Prefix), len(x.o.Prefix)+16)
	copy(dst, x.o.Prefix)
	return x.schema.Append(dst, t)
}

func (x *Index) bound(t ordkey.Tuple) ([]byte, error) {
	pfx, err := x.schema.EncodePrefix(t)
	if err != nil {
		return nil, err
	}
	return append(append([]byte(nil), x.o.Prefix...), pfx...), nil
}
