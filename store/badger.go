package store

import (
	"github.com/dgraph-io/badger"
)

// Badger is a Store backed by badger.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger database. Options must have Dir
// and ValueDir set, see badger.DefaultOptions.
func OpenBadger(opts badger.Options) (*Badger, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

// Get implements Reader.
func (s *Badger) Get(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	return val, err
}

// NewIterator implements Reader. The iterator holds a read transaction
// until it is released.
func (s *Badger) NewIterator(rng *Range) Iterator {
	txn := s.db.NewTransaction(false)
	return &badgerIterator{
		txn: txn,
		it:  txn.NewIterator(badger.DefaultIteratorOptions),
		rng: rng,
	}
}

// Put implements Store.
func (s *Badger) Put(key, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete implements Store.
func (s *Badger) Delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Close implements Store.
func (s *Badger) Close() error {
	return s.db.Close()
}

// --------------------------------------------------------------------

type badgerIterator struct {
	txn *badger.Txn
	it  *badger.Iterator
	rng *Range

	started bool
	key     []byte
	val     []byte
	err     error
}

func (i *badgerIterator) Next() bool {
	if i.it == nil || i.err != nil {
		return false
	}

	if !i.started {
		i.started = true
		if start := i.rng.start(); start != nil {
			i.it.Seek(start)
		} else {
			i.it.Rewind()
		}
	} else {
		i.it.Next()
	}

	if !i.it.Valid() {
		return false
	}

	item := i.it.Item()
	if !i.rng.below(item.Key()) {
		return false
	}

	i.key = append(i.key[:0], item.Key()...)
	if i.val, i.err = item.ValueCopy(i.val[:0]); i.err != nil {
		return false
	}
	return true
}

func (i *badgerIterator) Key() []byte   { return i.key }
func (i *badgerIterator) Value() []byte { return i.val }
func (i *badgerIterator) Err() error    { return i.err }

func (i *badgerIterator) Release() {
	if i.it == nil {
		return
	}
	i.it.Close()
	i.txn.Discard()
	i.it, i.txn = nil, nil
}
