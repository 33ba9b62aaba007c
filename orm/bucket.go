/*
Package orm splits the key value store into buckets. A bucket holds one
type of object under a "<name>:" prefix, optionally maintains secondary
indexes over them and hands out id sequences. Buckets and indexes can be
mounted on the query router.
*/
package orm

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

// SeqID names the default id sequence of a bucket.
const SeqID = "id"

var isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// Bucket stores objects of the proto type under its prefix. Type safe
// wrappers, like the vault buckets, embed it.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Index
}

var _ coffer.QueryHandler = Bucket{}

// NewBucket panics on a name that is not 3 to 20 lower case letters or
// underscores.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{name: name, prefix: []byte(name + ":"), proto: proto}
}

func (b Bucket) Name() string {
	return b.name
}

// Register mounts the bucket under "/<path>" and each index under
// "/<path>/<index>". An empty path uses the bucket name.
func (b Bucket) Register(path string, r coffer.QueryRouter) {
	if path == "" {
		path = b.name
	}
	root := "/" + path
	r.Register(root, b)
	for name, idx := range b.indexes {
		r.Register(root+"/"+name, idx)
	}
}

// Query returns the object stored under data, or with the prefix modifier
// all objects whose key starts with data.
func (b Bucket) Query(db coffer.ReadOnlyKVStore, mod string, data []byte) ([]coffer.Model, error) {
	switch mod {
	case coffer.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	case coffer.KeyQueryMod:
	default:
		return nil, errors.Wrapf(errors.ErrInput, "not implemented: %s", mod)
	}
	key := b.DBKey(data)
	value, err := db.Get(key)
	if err != nil || value == nil {
		return nil, err
	}
	return []coffer.Model{coffer.Pair(key, value)}, nil
}

// DBKey returns the prefixed key in a newly allocated slice.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// Get loads the object stored under key. A missing object is nil without
// an error.
func (b Bucket) Get(db coffer.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(raw); err != nil {
		return nil, err
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates the object, updates the indexes and writes it.
func (b Bucket) Save(db coffer.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if raw == nil {
		raw = []byte{}
	}
	if err := b.updateIndexes(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

// Delete removes the object and its index entries.
func (b Bucket) Delete(db coffer.KVStore, key []byte) error {
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b Bucket) updateIndexes(db coffer.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil || (prev == nil && next == nil) {
		return err
	}
	names := make([]string, 0, len(b.indexes))
	for name := range b.indexes {
		names = append(names, name)
	}
	sort.Strings(names)

	// Nothing is written unless every index accepts the change.
	for _, name := range names {
		if err := b.indexes[name].CheckUpdate(db, prev, next); err != nil {
			return err
		}
	}
	for _, name := range names {
		if err := b.indexes[name].Update(db, prev, next); err != nil {
			return err
		}
	}
	return nil
}

// Sequence returns the named id sequence of this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex returns a copy of the bucket maintaining one more index.
// Registering the same name twice panics.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, i := range b.indexes {
		indexes[n] = i
	}
	indexes[name] = NewIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = indexes
	return b
}

// GetIndexed returns the objects the named index holds for key.
func (b Bucket) GetIndexed(db coffer.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, name)
	}
	refs, err := idx.GetAt(db, key)
	if err != nil || len(refs) == 0 {
		return nil, err
	}
	objs := make([]Object, len(refs))
	for i, ref := range refs {
		obj, err := b.Get(db, ref)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, errors.Wrapf(errors.ErrState, "index points to missing %X", ref)
		}
		objs[i] = obj
	}
	return objs, nil
}
