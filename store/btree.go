package store

import (
	"bytes"

	"github.com/google/btree"
)

// BTreeCacheable gives any KVStore a btree backed CacheWrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, NewNonAtomicBatch(b.KVStore), nil)
}

// MemStore returns an empty in-memory store. Nothing is persisted.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap keeps pending writes in a btree in front of a read only
// parent. Every write is also recorded in the batch, which is flushed to
// the parent on Write.
type BTreeCacheWrap struct {
	pending *btree.BTree
	free    *btree.FreeList
	parent  ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns an empty cache over parent. Nested caches pass
// their free list down so btree nodes are recycled; nil allocates a new one.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		pending: btree.NewWithFreeList(2, free),
		free:    free,
		parent:  parent,
		batch:   batch,
	}
}

func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending changes to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending changes. The nodes go back to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.pending.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.pending.ReplaceOrInsert(cacheEntry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.pending.ReplaceOrInsert(cacheEntry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		return e.value, nil
	}
	return b.parent.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.parent.Has(key)
}

func (b BTreeCacheWrap) lookup(key []byte) (cacheEntry, bool) {
	item := b.pending.Get(cacheEntry{key: key})
	if item == nil {
		return cacheEntry{}, false
	}
	return item.(cacheEntry), true
}

// Iterator walks [start, end) in ascending order, merging pending changes
// with the parent content.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(collectRange(b.pending, start, end), parent, true), nil
}

// ReverseIterator walks [start, end) in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	entries := collectRange(b.pending, start, end)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return newMergeIterator(entries, parent, false), nil
}

// cacheEntry is a pending change. A deleted entry hides the parent value.
type cacheEntry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cacheEntry{}

func (e cacheEntry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(cacheEntry).key) < 0
}
