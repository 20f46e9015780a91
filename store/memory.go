package store

import (
	"sync"

	"github.com/bsm/ordkey"
	"github.com/google/btree"
)

type memItem struct {
	key, val []byte
}

func lessMemItem(a, b memItem) bool {
	return ordkey.Compare(a.key, b.key) < 0
}

// Memory is an in-memory Store backed by a B-tree. Iterators operate on
// a copy-on-write snapshot and are not affected by subsequent writes.
type Memory struct {
	tree *btree.BTreeG[memItem]
	lock sync.RWMutex
	size int
}

// NewMemory creates a new, empty in-memory store with the given B-tree
// degree. Values < 2 select a default.
func NewMemory(degree int) *Memory {
	if degree < 2 {
		degree = 32
	}
	return &Memory{
		tree: btree.NewG[memItem](degree, lessMemItem),
	}
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.tree == nil {
		return 0
	}
	return m.tree.Len()
}

// Size returns the approximate number of bytes held by keys and values.
func (m *Memory) Size() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.size
}

// Get implements Reader.
func (m *Memory) Get(key []byte) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.tree == nil {
		return nil, errClosed
	}

	item, ok := m.tree.Get(memItem{key: key})
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), item.val...), nil
}

// Put implements Store.
func (m *Memory) Put(key, value []byte) error {
	item := memItem{
		key: append([]byte(nil), key...),
		val: append([]byte(nil), value...),
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if m.tree == nil {
		return errClosed
	}

	if old, ok := m.tree.ReplaceOrInsert(item); ok {
		m.size -= len(old.key) + len(old.val)
	}
	m.size += len(item.key) + len(item.val)
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(key []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.tree == nil {
		return errClosed
	}

	if old, ok := m.tree.Delete(memItem{key: key}); ok {
		m.size -= len(old.key) + len(old.val)
	}
	return nil
}

// NewIterator implements Reader.
func (m *Memory) NewIterator(rng *Range) Iterator {
	// Clone mutates the copy-on-write state of the source tree.
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.tree == nil {
		return errIterator{err: errClosed}
	}
	return &memIterator{
		tree: m.tree.Clone(),
		rng:  rng,
		next: rng.start(),
	}
}

// Close implements Store.
func (m *Memory) Close() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.tree == nil {
		return errClosed
	}
	m.tree = nil
	m.size = 0
	return nil
}

// --------------------------------------------------------------------

const memBatchSize = 64

type memIterator struct {
	tree *btree.BTreeG[memItem]
	rng  *Range

	next  []byte // seek position of the next batch
	skip  bool   // skip the first item of the next batch if equal to next
	batch []memItem
	cur   memItem
	done  bool
}

func (i *memIterator) Next() bool {
	if i.done {
		return false
	}

	if len(i.batch) == 0 && !i.fill() {
		i.done = true
		return false
	}

	i.cur, i.batch = i.batch[0], i.batch[1:]
	return true
}

func (i *memIterator) fill() bool {
	i.batch = i.batch[:0]

	visit := func(item memItem) bool {
		if i.skip && ordkey.Compare(item.key, i.next) == 0 {
			return true
		}
		if !i.rng.below(item.key) {
			return false
		}
		i.batch = append(i.batch, item)
		return len(i.batch) < memBatchSize
	}

	if i.next == nil {
		i.tree.Ascend(visit)
	} else {
		i.tree.AscendGreaterOrEqual(memItem{key: i.next}, visit)
	}

	if len(i.batch) == 0 {
		return false
	}
	i.next = i.batch[len(i.batch)-1].key
	i.skip = true
	return true
}

func (i *memIterator) Key() []byte   { return i.cur.key }
func (i *memIterator) Value() []byte { return i.cur.val }
func (i *memIterator) Err() error    { return nil }

func (i *memIterator) Release() {
	i.tree = nil
	i.batch = nil
	i.done = true
}
