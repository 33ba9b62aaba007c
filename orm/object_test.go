package orm

import (
	"testing"

	"github.com/iov-one/coffer/errors"
	"github.com/stretchr/testify/assert"
)

func TestSimpleObjClone(t *testing.T) {
	obj := NewSimpleObj([]byte("key"), &Counter{Count: 3})
	assert.NoError(t, obj.Validate())

	cpy := obj.Clone()
	assert.Equal(t, []byte("key"), cpy.Key())
	// values are not copied, clones are destinations to load into
	assert.Equal(t, int64(0), cpy.Value().(*Counter).Count)

	cpy.SetKey([]byte("other"))
	assert.Equal(t, []byte("key"), obj.Key())

	empty := NewSimpleObj(nil, &Counter{})
	assert.True(t, errors.ErrEmpty.Is(empty.Validate()))
}
