package coffertest

import (
	"context"
	"testing"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	a, b, c := NewCondition(), NewCondition(), NewCondition()
	auth := &Auth{Signer: a, Signers: []coffer.Condition{b}}
	ctx := context.Background()

	assert.Equal(t, []coffer.Condition{b, a}, auth.GetConditions(ctx))
	assert.True(t, auth.HasAddress(ctx, a.Address()))
	assert.True(t, auth.HasAddress(ctx, b.Address()))
	assert.False(t, auth.HasAddress(ctx, c.Address()))
}

func TestCtxAuth(t *testing.T) {
	a, b := NewCondition(), NewCondition()
	auth := &CtxAuth{Key: "auth"}
	ctx := context.Background()
	assert.Empty(t, auth.GetConditions(ctx))

	ctx = auth.SetConditions(ctx, a)
	assert.Equal(t, []coffer.Condition{a}, auth.GetConditions(ctx))
	assert.True(t, auth.HasAddress(ctx, a.Address()))
	assert.False(t, auth.HasAddress(ctx, b.Address()))

	other := &CtxAuth{Key: "other"}
	assert.Empty(t, other.GetConditions(ctx))
}

func TestDecoratedHandler(t *testing.T) {
	var (
		hn  Handler
		dc  Decorator
		db  = store.MemStore()
		ctx = context.Background()
	)
	h := Decorate(&hn, &dc)

	_, err := h.Check(ctx, db, &Tx{})
	require.NoError(t, err)
	_, err = h.Deliver(ctx, db, &Tx{})
	require.NoError(t, err)
	assert.Equal(t, 2, hn.CallCount())
	assert.Equal(t, 2, dc.CallCount())

	dc.DeliverErr = errors.ErrUnauthorized
	_, err = h.Deliver(ctx, db, &Tx{})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 1, hn.DeliverCallCount())
	assert.Equal(t, 2, dc.DeliverCallCount())
}

func TestWriteHandler(t *testing.T) {
	db := store.MemStore()
	h := &WriteHandler{Key: []byte("k"), Value: []byte("v"), Err: errors.ErrState}

	_, err := h.Deliver(context.Background(), db, &Tx{})
	assert.True(t, errors.ErrState.Is(err))

	val, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}
