package utils

import (
	"context"
	"testing"

	"github.com/iov-one/coffer/coffertest"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	tx := &coffertest.Tx{Msg: &coffertest.Msg{RoutePath: "metrics/test"}}

	success := txCount.WithLabelValues("deliver", "metrics/test", "0")
	failure := txCount.WithLabelValues("deliver", "metrics/test", "2")
	checked := txCount.WithLabelValues("check", "metrics/test", "0")
	before := testutil.ToFloat64(success)

	_, err := NewMetrics().Deliver(ctx, db, tx, &coffertest.Handler{})
	assert.NoError(t, err)
	_, err = NewMetrics().Deliver(ctx, db, tx, &coffertest.Handler{DeliverErr: errors.ErrUnauthorized})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = NewMetrics().Check(ctx, db, tx, &coffertest.Handler{})
	assert.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(success))
	assert.Equal(t, float64(1), testutil.ToFloat64(failure))
	assert.Equal(t, float64(1), testutil.ToFloat64(checked))
}
