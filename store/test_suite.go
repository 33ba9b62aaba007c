package store

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/coffer/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStoreConstructor returns an empty store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// TestSuite runs the behaviour every CacheableKVStore implementation must
// share against stores produced by the constructor.
type TestSuite struct {
	makeBase TestStoreConstructor
}

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// Run executes all checks as subtests.
func (s *TestSuite) Run(t *testing.T) {
	t.Run("cache layers", s.CacheLayers)
	t.Run("cache overrides parent", s.CacheOverrides)
	t.Run("iteration", s.Iteration)
}

// CacheLayers checks that writes are only visible in the layer they were
// made in until written down, and gone once discarded.
func (s *TestSuite) CacheLayers(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	wallet, balance := []byte("wallet:alice"), []byte("100")
	s.AssertGetHas(t, base, wallet, nil, false)
	require.NoError(t, base.Set(wallet, balance))
	s.AssertGetHas(t, base, wallet, balance, true)

	pending, tx := []byte("vaulttx:0"), []byte("pending")
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, wallet, balance, true)
	require.NoError(t, cache.Set(pending, tx))
	s.AssertGetHas(t, cache, pending, tx, true)
	s.AssertGetHas(t, base, pending, nil, false)
	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, pending, tx, true)

	discarded := base.CacheWrap()
	require.NoError(t, discarded.Set([]byte("vaulttx:1"), []byte("lost")))
	require.NoError(t, discarded.Delete(wallet))
	discarded.Discard()
	s.AssertGetHas(t, base, wallet, balance, true)
	s.AssertGetHas(t, base, []byte("vaulttx:1"), nil, false)

	deleting := base.CacheWrap()
	require.NoError(t, deleting.Delete(wallet))
	s.AssertGetHas(t, deleting, wallet, nil, false)
	s.AssertGetHas(t, base, wallet, balance, true)
	require.NoError(t, deleting.Write())
	s.AssertGetHas(t, base, wallet, nil, false)
	s.AssertGetHas(t, base, pending, tx, true)
}

// CacheOverrides checks that a child overrides and deletes parent values
// and that writing it down yields the child view.
func (s *TestSuite) CacheOverrides(t *testing.T) {
	parent, cleanup := s.makeBase()
	defer cleanup()

	for _, op := range []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("b"), []byte("2"))} {
		require.NoError(t, op.Apply(parent))
	}
	child := parent.CacheWrap()
	for _, op := range []Op{SetOp([]byte("a"), []byte("11")), DelOp([]byte("b")), SetOp([]byte("c"), []byte("3"))} {
		require.NoError(t, op.Apply(child))
	}

	parentView := map[string]string{"a": "1", "b": "2", "c": ""}
	childView := map[string]string{"a": "11", "b": "", "c": "3"}
	s.assertView(t, parent, parentView)
	s.assertView(t, child, childView)
	require.NoError(t, child.Write())
	s.assertView(t, parent, childView)
}

func (s *TestSuite) assertView(t testing.TB, kv ReadOnlyKVStore, view map[string]string) {
	t.Helper()
	for k, v := range view {
		if v == "" {
			s.AssertGetHas(t, kv, []byte(k), nil, false)
		} else {
			s.AssertGetHas(t, kv, []byte(k), []byte(v), true)
		}
	}
}

// Iteration checks forward and reverse ranges over a cache layer merged
// with its parent, including overwritten and deleted keys.
func (s *TestSuite) Iteration(t *testing.T) {
	models := make([]Model, 30)
	for i := range models {
		models[i] = Model{
			Key:   []byte(fmt.Sprintf("key:%03d", i)),
			Value: []byte(fmt.Sprintf("value:%d", i)),
		}
	}
	overwritten := Model{Key: models[5].Key, Value: []byte("changed")}

	cases := map[string]struct {
		parent []Op
		child  []Op
		want   []Model
	}{
		"child only": {
			child: setOps(models...),
			want:  models,
		},
		"parent only": {
			parent: setOps(models...),
			want:   models,
		},
		"split between layers": {
			parent: setOps(models[:15]...),
			child:  setOps(models[15:]...),
			want:   models,
		},
		"child overwrites and deletes": {
			parent: setOps(models...),
			child: append(setOps(overwritten),
				DelOp(models[0].Key), DelOp(models[12].Key), DelOp(models[29].Key), DelOp([]byte("key:missing"))),
			want: concat(models[1:5], []Model{overwritten}, models[6:12], models[13:29]),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			for _, op := range tc.parent {
				require.NoError(t, op.Apply(base))
			}
			child := base.CacheWrap()
			for _, op := range tc.child {
				require.NoError(t, op.Apply(child))
			}

			n := len(tc.want)
			ranges := []struct {
				start, end []byte
				want       []Model
			}{
				{nil, nil, tc.want},
				{tc.want[3].Key, nil, tc.want[3:]},
				{nil, tc.want[n-4].Key, tc.want[:n-4]},
				{tc.want[2].Key, tc.want[9].Key, tc.want[2:9]},
				{tc.want[4].Key, tc.want[4].Key, nil},
			}
			for _, r := range ranges {
				it, err := child.Iterator(r.start, r.end)
				require.NoError(t, err)
				assertIteration(t, it, r.want)

				it, err = child.ReverseIterator(r.start, r.end)
				require.NoError(t, err)
				assertIteration(t, it, reversed(r.want))
			}
		})
	}
}

func assertIteration(t testing.TB, it Iterator, want []Model) {
	t.Helper()
	defer it.Release()
	for i, m := range want {
		key, value, err := it.Next()
		require.NoError(t, err)
		require.Equal(t, string(m.Key), string(key), "position %d", i)
		assert.Equal(t, m.Value, value)
	}
	_, _, err := it.Next()
	require.True(t, errors.ErrIteratorDone.Is(err), "want end of iteration, got %+v", err)
}

// AssertGetHas checks both Get and Has for the key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.NoError(t, err)
	assert.Equal(t, has, exists)
}

func setOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func concat(parts ...[]Model) []Model {
	var res []Model
	for _, p := range parts {
		res = append(res, p...)
	}
	sort.Slice(res, func(i, j int) bool { return bytes.Compare(res[i].Key, res[j].Key) < 0 })
	return res
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
