package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/coffer/errors"
)

// collectRange returns all btree items with a key in [start, end) in
// ascending order. Nil start or end means the range is open on that side.
func collectRange(bt *btree.BTree, start, end []byte) []cacheEntry {
	var entries []cacheEntry
	insert := func(item btree.Item) bool {
		entries = append(entries, item.(cacheEntry))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(cacheEntry{key: end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(cacheEntry{key: start}, insert)
	default:
		bt.AscendRange(cacheEntry{key: start}, cacheEntry{key: end}, insert)
	}
	return entries
}

// mergeIterator combines the cached items with the parent iterator.
// Cached items override parent values for the same key and deleted items
// hide them.
type mergeIterator struct {
	cache  []cacheEntry
	parent Iterator

	// Parent item that was read but not yet returned.
	peeked       bool
	pkey, pvalue []byte
	pdone        bool

	ascending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cache []cacheEntry, parent Iterator, ascending bool) *mergeIterator {
	return &mergeIterator{
		cache:     cache,
		parent:    parent,
		ascending: ascending,
	}
}

func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if err := m.peekParent(); err != nil {
			return nil, nil, err
		}

		if len(m.cache) == 0 {
			if m.pdone {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache wrap")
			}
			return m.takeParent()
		}

		head := m.cache[0]
		if !m.pdone {
			cmp := bytes.Compare(head.key, m.pkey)
			if !m.ascending {
				cmp = -cmp
			}
			if cmp > 0 {
				return m.takeParent()
			}
			if cmp == 0 {
				// Cached value shadows the parent one.
				m.peeked = false
			}
		}

		m.cache = m.cache[1:]
		if !head.deleted {
			return head.key, head.value, nil
		}
	}
}

func (m *mergeIterator) peekParent() error {
	if m.peeked || m.pdone {
		return nil
	}
	k, v, err := m.parent.Next()
	switch {
	case err == nil:
		m.peeked = true
		m.pkey, m.pvalue = k, v
		return nil
	case errors.ErrIteratorDone.Is(err):
		m.pdone = true
		return nil
	default:
		return err
	}
}

func (m *mergeIterator) takeParent() ([]byte, []byte, error) {
	m.peeked = false
	return m.pkey, m.pvalue, nil
}

func (m *mergeIterator) Release() {
	m.parent.Release()
	m.cache = nil
}
