package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	cases := map[string]struct {
		bucket     string
		name       string
		increments int64
	}{
		"short run":         {"abc", "id", 3},
		"other name":        {"abc", "more", 11},
		"over one byte":     {"def", "id", 300},
		"same bucket again": {"abc", "id", 5},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s := NewSequence(tc.bucket, tc.name)
			start, err := s.Peek(db)
			require.NoError(t, err)

			var prev []byte
			for i := int64(0); i < tc.increments; i++ {
				val, err := s.NextVal(db)
				require.NoError(t, err)
				assert.Equal(t, start+i, DecodeSequence(val))
				if prev != nil {
					assert.Equal(t, 1, bytes.Compare(val, prev))
				}
				prev = val
			}

			next, err := s.Peek(db)
			require.NoError(t, err)
			assert.Equal(t, start+tc.increments, next)
		})
	}
}

func TestSequenceStartsAtZero(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("txs", SeqID)

	first, err := s.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first)

	second, err := s.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second)
}

func TestEncodeSequence(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, EncodeSequence(258))
	assert.Equal(t, int64(258), DecodeSequence([]byte{0, 0, 0, 0, 0, 0, 1, 2}))
	assert.Equal(t, int64(0), DecodeSequence(nil))
}
