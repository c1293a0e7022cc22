package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree is the degree of every cache tree. Caches live for a single
// transaction or block, so they stay small.
const btreeDegree = 2

// BTreeCacheable gives any KVStore a btree backed CacheWrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache whose writes reach the store only on Write.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an empty store kept entirely in memory.
func MemStore() CacheableKVStore {
	var base EmptyKVStore
	return NewBTreeCacheWrap(base, base.NewBatch(), nil)
}

// ShowOpser lists the operations recorded so far, in order.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore is a MemStore that also records every write made to it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	var base EmptyKVStore
	log := NewNonAtomicBatch(base)
	return NewBTreeCacheWrap(base, log, nil), log
}

// BTreeCacheWrap keeps pending writes in a btree on top of a read only
// parent. Every write is also queued in batch, which is flushed by Write.
type BTreeCacheWrap struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap creates a cache over parent that writes through batch.
// Nested caches share the free list of their parent; pass nil to allocate a
// new one.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:   btree.NewWithFreeList(btreeDegree, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

// CacheWrap stacks another cache on top of this one.
func (c BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c, c.NewBatch(), c.free)
}

// NewBatch returns a batch writing into this cache.
func (c BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes all pending writes to the parent and empties the cache.
func (c BTreeCacheWrap) Write() error {
	err := c.batch.Write()
	c.Discard()
	return err
}

// Discard drops all pending writes.
func (c BTreeCacheWrap) Discard() {
	// returns the nodes to the free list
	for c.tree.DeleteMin() != nil {
	}
	if b, ok := c.batch.(*NonAtomicBatch); ok {
		b.ops = nil
	}
}

func (c BTreeCacheWrap) Set(key, value []byte) error {
	c.tree.ReplaceOrInsert(entry{key: key, value: value})
	return c.batch.Set(key, value)
}

func (c BTreeCacheWrap) Delete(key []byte) error {
	c.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return c.batch.Delete(key)
}

func (c BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := c.cached(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return c.parent.Get(key)
}

func (c BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := c.cached(key); ok {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

func (c BTreeCacheWrap) cached(key []byte) (entry, bool) {
	item := c.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// Iterator walks [start, end) in ascending order, merging pending writes
// with the parent content.
func (c BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(c.entries(start, end, true), parent, true)
}

// ReverseIterator is Iterator in descending order.
func (c BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(c.entries(start, end, false), parent, false)
}

// entries returns the cached entries in [start, end). A nil bound leaves
// that side of the range open.
func (c BTreeCacheWrap) entries(start, end []byte, ascending bool) []entry {
	var res []entry
	visit := func(item btree.Item) bool {
		e := item.(entry)
		if end != nil && bytes.Compare(e.key, end) >= 0 {
			return !ascending
		}
		if start != nil && bytes.Compare(e.key, start) < 0 {
			return ascending
		}
		res = append(res, e)
		return true
	}
	if ascending {
		if start == nil {
			c.tree.Ascend(visit)
		} else {
			c.tree.AscendGreaterOrEqual(entry{key: start}, visit)
		}
	} else {
		if end == nil {
			c.tree.Descend(visit)
		} else {
			c.tree.DescendLessOrEqual(entry{key: end}, visit)
		}
	}
	return res
}

// entry is a pending write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
