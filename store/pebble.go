package store

import (
	"github.com/cockroachdb/pebble"
)

// Pebble is a Store backed by pebble.
type Pebble struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a pebble database in dir.
func OpenPebble(dir string, o *pebble.Options) (*Pebble, error) {
	if o == nil {
		o = &pebble.Options{}
	}

	db, err := pebble.Open(dir, o)
	if err != nil {
		return nil, err
	}
	return &Pebble{db: db}, nil
}

// Get implements Reader.
func (s *Pebble) Get(key []byte) ([]byte, error) {
	val, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), val...), nil
}

// NewIterator implements Reader.
func (s *Pebble) NewIterator(rng *Range) Iterator {
	return &pebbleIterator{
		it: s.db.NewIter(&pebble.IterOptions{
			LowerBound: rng.start(),
			UpperBound: rng.limit(),
		}),
	}
}

// Put implements Store.
func (s *Pebble) Put(key, value []byte) error {
	return s.db.Set(key, value, pebble.Sync)
}

// Delete implements Store.
func (s *Pebble) Delete(key []byte) error {
	return s.db.Delete(key, pebble.Sync)
}

// Close implements Store.
func (s *Pebble) Close() error {
	return s.db.Close()
}

// --------------------------------------------------------------------

type pebbleIterator struct {
	it      *pebble.Iterator
	started bool
	err     error
}

func (i *pebbleIterator) Next() bool {
	if i.it == nil {
		return false
	}
	if !i.started {
		i.started = true
		return i.it.First()
	}
	return i.it.Next()
}

func (i *pebbleIterator) Key() []byte   { return i.it.Key() }
func (i *pebbleIterator) Value() []byte { return i.it.Value() }

func (i *pebbleIterator) Err() error {
	if i.err != nil {
		return i.err
	}
	if i.it == nil {
		return nil
	}
	return i.it.Error()
}

func (i *pebbleIterator) Release() {
	if i.it == nil {
		return
	}
	i.err = i.it.Close()
	i.it = nil
}
