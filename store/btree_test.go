package store

import (
	"testing"

	"github.com/iov-one/coffer/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeStore(t *testing.T) {
	NewTestSuite(makeBase).Run(t)
}

func TestSliceIterator(t *testing.T) {
	const size = 10

	models := make([]Model, size)
	for i := range models {
		models[i] = Model{Key: []byte{byte(size - i)}, Value: []byte{byte(i)}}
	}

	// no sorting, the slice order is kept
	iter := NewSliceIterator(models)
	for i := 0; i < size; i++ {
		k, v, err := iter.Next()
		require.NoError(t, err)
		assert.Equal(t, models[i].Key, k)
		assert.Equal(t, models[i].Value, v)
	}
	_, _, err := iter.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))

	// iterator is empty after release
	trash := NewSliceIterator(models)
	trash.Release()
	_, _, err = trash.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))
}

func TestNestedCacheDiscard(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))

	outer := base.CacheWrap()
	inner := outer.CacheWrap()
	require.NoError(t, inner.Set([]byte("b"), []byte("2")))
	require.NoError(t, inner.Write())

	got, err := outer.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)

	outer.Discard()
	got, err = base.Get([]byte("b"))
	require.NoError(t, err)
	assert.Nil(t, got)
}
