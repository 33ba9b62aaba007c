package orm

import (
	"bytes"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

const indexPrefix = "_i."

// Indexer returns the secondary index value of an object. A nil value
// leaves the object out of the index.
type Indexer func(Object) ([]byte, error)

// Index maps an indexed value to the primary keys of the objects holding
// it. A unique index stores a single key, otherwise the keys are kept as a
// sorted MultiRef under one db entry.
type Index struct {
	name    string
	prefix  []byte
	unique  bool
	indexer Indexer
	refKey  func([]byte) []byte
}

var _ coffer.QueryHandler = Index{}

// NewIndex returns an index stored under _i.<name>:. refKey maps a primary
// key to the db key of the object, as used by Query.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	if !isBucketName(name) {
		panic("illegal index name: " + name)
	}
	return Index{
		name:    name,
		prefix:  []byte(indexPrefix + name + ":"),
		unique:  unique,
		indexer: indexer,
		refKey:  refKey,
	}
}

func (i Index) Name() string {
	return i.name
}

// IndexKey returns the db key for the indexed value. The result never
// shares memory with the index prefix.
func (i Index) IndexKey(value []byte) []byte {
	key := make([]byte, 0, len(i.prefix)+len(value))
	return append(append(key, i.prefix...), value...)
}

// Update moves the reference of an object when it is saved or deleted.
// A nil prev is an insert, a nil save a delete. An update must keep the
// primary key.
func (i Index) Update(db coffer.KVStore, prev Object, save Object) error {
	if err := i.CheckUpdate(db, prev, save); err != nil {
		return err
	}
	before, after, err := i.values(prev, save)
	if err != nil || (prev != nil && save != nil && bytes.Equal(before, after)) {
		return err
	}
	if prev != nil {
		if err := i.remove(db, before, prev.Key()); err != nil {
			return err
		}
	}
	if save != nil {
		return i.insert(db, after, save.Key())
	}
	return nil
}

// CheckUpdate fails the same way Update would, without writing anything.
func (i Index) CheckUpdate(db coffer.ReadOnlyKVStore, prev Object, save Object) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	}
	if prev != nil && save != nil && !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrState, "cannot modify the primary key of an object")
	}
	before, after, err := i.values(prev, save)
	switch {
	case err != nil:
		return err
	case save == nil || !i.unique || len(after) == 0:
		return nil
	case prev != nil && bytes.Equal(before, after):
		return nil
	}
	taken, err := db.Has(i.IndexKey(after))
	if err != nil {
		return err
	}
	if taken {
		return errors.Wrap(errors.ErrDuplicate, i.name)
	}
	return nil
}

func (i Index) values(prev, save Object) (before, after []byte, err error) {
	if prev != nil {
		if before, err = i.indexer(prev); err != nil {
			return nil, nil, err
		}
	}
	if save != nil {
		if after, err = i.indexer(save); err != nil {
			return nil, nil, err
		}
	}
	return before, after, nil
}

// GetAt returns the primary keys stored for the indexed value.
func (i Index) GetAt(db coffer.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.IndexKey(value))
	if err != nil || raw == nil {
		return nil, err
	}
	return i.refs(raw)
}

// GetPrefix returns the primary keys of all indexed values starting with
// prefix.
func (i Index) GetPrefix(db coffer.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	models, err := queryPrefix(db, i.IndexKey(prefix))
	if err != nil {
		return nil, err
	}
	var all [][]byte
	for _, m := range models {
		refs, err := i.refs(m.Value)
		if err != nil {
			return nil, err
		}
		all = append(all, refs...)
	}
	return all, nil
}

func (i Index) refs(raw []byte) ([][]byte, error) {
	if i.unique {
		return [][]byte{raw}, nil
	}
	var m MultiRef
	if err := m.Unmarshal(raw); err != nil {
		return nil, err
	}
	return m.Refs, nil
}

// Query resolves the references of the index to the stored objects.
func (i Index) Query(db coffer.ReadOnlyKVStore, mod string, data []byte) ([]coffer.Model, error) {
	var refs [][]byte
	var err error
	switch mod {
	case coffer.KeyQueryMod:
		refs, err = i.GetAt(db, data)
	case coffer.PrefixQueryMod:
		refs, err = i.GetPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "not implemented: %s", mod)
	}
	if err != nil || len(refs) == 0 {
		return nil, err
	}

	res := make([]coffer.Model, len(refs))
	for n, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res[n] = coffer.Pair(key, value)
	}
	return res, nil
}

func (i Index) remove(db coffer.KVStore, value []byte, pk []byte) error {
	if len(value) == 0 {
		return nil
	}
	key := i.IndexKey(value)
	cur, err := db.Get(key)
	switch {
	case err != nil:
		return err
	case cur == nil:
		return errors.Wrap(errors.ErrNotFound, "cannot remove index from nothing")
	case i.unique && !bytes.Equal(cur, pk):
		return errors.Wrap(errors.ErrNotFound, "cannot remove index from invalid object")
	case i.unique:
		return db.Delete(key)
	}

	var m MultiRef
	if err := m.Unmarshal(cur); err != nil {
		return err
	}
	if err := m.Remove(pk); err != nil {
		return err
	}
	if m.Size() == 0 {
		return db.Delete(key)
	}
	return i.store(db, key, &m)
}

func (i Index) insert(db coffer.KVStore, value []byte, pk []byte) error {
	if len(value) == 0 {
		return nil
	}
	key := i.IndexKey(value)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}

	var m MultiRef
	if cur != nil {
		if err := m.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := m.Add(pk); err != nil {
		return err
	}
	return i.store(db, key, &m)
}

func (i Index) store(db coffer.KVStore, key []byte, m *MultiRef) error {
	raw, err := m.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}
