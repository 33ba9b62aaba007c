package app

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

// CommitStore keeps two cache layers over the committed state: one
// collecting the writes of the block being delivered and one for the
// mempool checks. Commit persists the first and resets both.
type CommitStore struct {
	committed coffer.CommitKVStore
	deliver   coffer.KVCacheWrap
	check     coffer.KVCacheWrap
}

// NewCommitStore loads the latest version of store. A store that cannot
// be loaded leaves the node unusable, so it panics.
func NewCommitStore(store coffer.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (coffer.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit writes the delivered block down and commits it. Pending check
// state is dropped, the mempool is rechecked against the new state.
func (cs *CommitStore) Commit() (coffer.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return coffer.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() coffer.CacheableKVStore   { return cs.check }
func (cs *CommitStore) DeliverStore() coffer.CacheableKVStore { return cs.deliver }

// chainIDKey lives in the _cf: namespace reserved for node data.
const chainIDKey = "_cf:chainID"

// mustLoadChainID returns the stored chain id, empty before genesis.
func mustLoadChainID(kv coffer.ReadOnlyKVStore) string {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(v)
}

// saveChainID stores the chain id once, at genesis.
func saveChainID(kv coffer.KVStore, chainID string) error {
	if !coffer.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	key := []byte(chainIDKey)
	switch exists, err := kv.Has(key); {
	case err != nil:
		return errors.Wrap(err, "load chainId")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	return errors.Wrap(kv.Set(key, []byte(chainID)), "save chainId")
}
