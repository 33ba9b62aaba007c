package app

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. The
// application must register the raw "/" query (see orm.RegisterQuery), so
// that buckets can read its state without direct access to the database.
type ABCIStore struct {
	app  abci.Application
	path string
}

var _ coffer.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading the committed state of the app.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app, path: "/"}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query(a.path, key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d results for a key query", len(models))
	}
}

// Has returns true if the given key is in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator attempts to do a range iteration over the store,
// We only support prefix queries in the abci server for now.
// This client only supports listing everything...
func (a *ABCIStore) Iterator(start, end []byte) (coffer.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "iterator only implemented for entire range")
	}
	models, err := a.query(a.path+"?"+coffer.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is the Iterator in descending order.
func (a *ABCIStore) ReverseIterator(start, end []byte) (coffer.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "iterator only implemented for entire range")
	}
	models, err := a.query(a.path+"?"+coffer.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) query(path string, data []byte) ([]coffer.Model, error) {
	res := a.app.Query(abci.RequestQuery{
		Path: path,
		Data: data,
	})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.Wrapf(errors.ErrDatabase, "query %s: %d %s", path, res.Code, res.Log)
	}
	return toModels(res.Key, res.Value)
}

func toModels(keys, values []byte) ([]coffer.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
