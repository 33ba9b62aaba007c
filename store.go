package coffer

// ReadOnlyKVStore is the read side of a store. Get returns nil for a
// missing key.
type ReadOnlyKVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// Iterator walks [start, end) in ascending key order. A nil bound
	// leaves that side open. The range must not be written to while the
	// iterator is in use.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks [start, end) in descending key order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side shared by stores and batches. Keys and
// values passed in must not be modified afterwards.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
}

// Iterator returns one key value pair per Next call and ErrIteratorDone
// after the last one. Release must be called when done:
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Release()
//	for {
//		key, value, err := it.Next()
//		if errors.ErrIteratorDone.Is(err) {
//			break
//		}
//		...
//	}
type Iterator interface {
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can open a cache layer over itself. Writes to the layer
// stay invisible to the store until written down, similar to an SQL
// savepoint.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a cache layer. Write applies its changes to the parent,
// Discard drops them. Layers can be nested.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent root store. Changes are made through a
// CacheWrap and persisted as a new version by Commit.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap
	Commit() (CommitID, error)
	// LoadLatestVersion loads the last complete commit, also after a
	// crash during the last one.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
