package store

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is a Store backed by goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) a LevelDB database at path.
func OpenLevelDB(path string, o *opt.Options) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, o)
	if err != nil {
		return nil, err
	}
	return NewLevelDB(db), nil
}

// NewLevelDB wraps an open database. Closing the store closes db.
func NewLevelDB(db *leveldb.DB) *LevelDB {
	return &LevelDB{db: db}
}

// Get implements Reader.
func (s *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return val, err
}

// NewIterator implements Reader.
func (s *LevelDB) NewIterator(rng *Range) Iterator {
	var slice *util.Range
	if rng != nil {
		slice = &util.Range{Start: rng.Start, Limit: rng.Limit}
	}
	return levelIterator{s.db.NewIterator(slice, nil)}
}

// Put implements Store.
func (s *LevelDB) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

// Delete implements Store.
func (s *LevelDB) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

// Close implements Store.
func (s *LevelDB) Close() error {
	return s.db.Close()
}

// --------------------------------------------------------------------

type levelIterator struct{ iterator.Iterator }

func (i levelIterator) Err() error { return i.Error() }
