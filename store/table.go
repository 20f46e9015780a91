package store

import (
	"github.com/bsm/ordkey/table"
)

// Table is a read-only view of a table file.
type Table struct {
	r *table.Reader
}

// NewTable wraps a table reader.
func NewTable(r *table.Reader) *Table {
	return &Table{r: r}
}

// Get implements Reader.
func (t *Table) Get(key []byte) ([]byte, error) {
	val, err := t.r.Get(key)
	if err == table.ErrNotFound {
		return nil, ErrNotFound
	}
	return val, err
}

// NewIterator implements Reader.
func (t *Table) NewIterator(rng *Range) Iterator {
	it, err := t.r.Seek(rng.start())
	if err != nil {
		return errIterator{err: err}
	}
	return &tableIterator{it: it, rng: rng}
}

// --------------------------------------------------------------------

type tableIterator struct {
	it   *table.Iterator
	rng  *Range
	done bool
}

func (i *tableIterator) Next() bool {
	if i.done {
		return false
	}
	if !i.it.Next() || !i.rng.below(i.it.Key()) {
		i.done = true
		return false
	}
	return true
}

func (i *tableIterator) Key() []byte   { return i.it.Key() }
func (i *tableIterator) Value() []byte { return i.it.Value() }

func (i *tableIterator) Err() error {
	if i.it == nil {
		return nil
	}
	return i.it.Err()
}

func (i *tableIterator) Release() {
	if i.it == nil {
		return
	}
	i.it.Release()
	i.it = nil
	i.done = true
}
