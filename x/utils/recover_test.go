package utils

import (
	"context"
	"testing"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/coffertest"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	cases := map[string]struct {
		handler coffer.Handler
		wantErr *errors.Error
		wantLog string
	}{
		"panic with a string": {
			handler: coffertest.PanicHandler{Value: "vault corrupted"},
			wantErr: errors.ErrPanic,
			wantLog: "vault corrupted",
		},
		"panic with an error": {
			handler: coffertest.PanicHandler{Value: errors.ErrState},
			wantErr: errors.ErrPanic,
			wantLog: "invalid state",
		},
		"no panic passes through": {
			handler: &coffertest.Handler{},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			db := store.MemStore()
			r := NewRecovery()

			_, cerr := r.Check(ctx, db, &coffertest.Tx{}, tc.handler)
			_, derr := r.Deliver(ctx, db, &coffertest.Tx{}, tc.handler)
			if tc.wantErr == nil {
				require.NoError(t, cerr)
				require.NoError(t, derr)
				return
			}
			for _, err := range []error{cerr, derr} {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				assert.Contains(t, err.Error(), tc.wantLog)
			}
		})
	}
}
