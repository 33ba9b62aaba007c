package app

import (
	"context"
	"testing"

	"github.com/iov-one/coffer/coffertest"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &coffertest.Handler{}
	bad := &coffertest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	}
	r.Handle("vault/good", good)
	r.Handle("vault/bad", bad)

	assert.Panics(t, func() { r.Handle("vault/good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })

	ctx := context.Background()
	db := store.MemStore()
	txFor := func(path string) *coffertest.Tx {
		return &coffertest.Tx{Msg: &coffertest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, db, txFor("vault/good"))
	require.NoError(t, err)
	_, err = r.Deliver(ctx, db, txFor("vault/good"))
	require.NoError(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, db, txFor("vault/bad"))
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 1, bad.CallCount())

	_, err = r.Deliver(ctx, db, txFor("vault/missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(ctx, db, txFor("vault/missing"))
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = r.Deliver(ctx, db, &coffertest.Tx{Err: errors.ErrMsg})
	assert.True(t, errors.ErrMsg.Is(err))
	assert.Equal(t, 2, good.CallCount())
}
