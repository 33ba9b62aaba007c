package store

import "github.com/iov-one/coffer"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = coffer.ReadOnlyKVStore
type SetDeleter = coffer.SetDeleter
type KVStore = coffer.KVStore
type Iterator = coffer.Iterator
type CacheableKVStore = coffer.CacheableKVStore
type KVCacheWrap = coffer.KVCacheWrap
type CommitKVStore = coffer.CommitKVStore
type CommitID = coffer.CommitID
type Model = coffer.Model

// Batch can write multiple ops atomically to an underlying KVStore
type Batch interface {
	SetDeleter
	Write() error
}
