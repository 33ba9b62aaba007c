package store

import (
	"github.com/iov-one/coffer/errors"
)

// SliceIterator iterates over models already loaded in memory.
type SliceIterator struct {
	data []Model
	pos  int
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Next() (key, value []byte, err error) {
	if s.pos >= len(s.data) {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice iterator")
	}
	m := s.data[s.pos]
	s.pos++
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.data = nil
}

// EmptyKVStore holds nothing and drops all writes. MemStore caches on top
// of it.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error)  { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)    { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error { return nil }
func (EmptyKVStore) Delete([]byte) error         { return nil }

func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// Op is a recorded write: a set, or a delete of the key.
type Op struct {
	key    []byte
	value  []byte
	delete bool
}

func SetOp(key, value []byte) Op { return Op{key: key, value: value} }
func DelOp(key []byte) Op        { return Op{key: key, delete: true} }

// Apply replays the write on out.
func (o Op) Apply(out SetDeleter) error {
	if o.delete {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch records writes and replays them in order on Write. A
// failure halfway leaves the earlier writes applied, so it only serves
// in-memory layers.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write replays all recorded writes and empties the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}
