package orm

import (
	"testing"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		start  []byte
		end    []byte
	}{
		"empty":          {nil, nil, nil},
		"simple":         {[]byte("abc"), []byte("abc"), []byte("abd")},
		"carry":          {[]byte{1, 255}, []byte{1, 255}, []byte{2, 0}},
		"open ended":     {[]byte{255, 255}, []byte{255, 255}, nil},
		"inner overflow": {[]byte{7, 255, 255}, []byte{7, 255, 255}, []byte{8, 0, 0}},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
		})
	}
}

func TestRawQuery(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, db.Set([]byte("abc"), []byte("1")))
	require.NoError(t, db.Set([]byte("abd"), []byte("2")))
	require.NoError(t, db.Set([]byte("b"), []byte("3")))

	qr := coffer.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/")
	require.NotNil(t, h)

	res, err := h.Query(db, coffer.KeyQueryMod, []byte("abd"))
	require.NoError(t, err)
	assert.Equal(t, []coffer.Model{coffer.Pair([]byte("abd"), []byte("2"))}, res)

	res, err = h.Query(db, coffer.KeyQueryMod, []byte("missing"))
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = h.Query(db, coffer.PrefixQueryMod, []byte("ab"))
	require.NoError(t, err)
	assert.Len(t, res, 2)

	_, err = h.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))
}
