package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/coffertest"
	"github.com/iov-one/coffer/crypto"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	const chainID = "vault-chain"
	owner := crypto.GenPrivKeyEd25519()
	cosigner := crypto.GenPrivKeyEd25519()

	sign := func(t *testing.T, tx *StdTx, key crypto.Signer, seq int64) *StdSignature {
		sig, err := SignTx(key, tx, chainID, seq)
		require.NoError(t, err)
		return sig
	}

	cases := map[string]struct {
		// signs returns the signatures for each delivered tx in order.
		signs       func(t *testing.T, tx *StdTx) [][]*StdSignature
		wantErr     *errors.Error
		wantSigners []coffer.Condition
	}{
		"unsigned": {
			signs: func(t *testing.T, tx *StdTx) [][]*StdSignature {
				return [][]*StdSignature{nil}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"single signer": {
			signs: func(t *testing.T, tx *StdTx) [][]*StdSignature {
				return [][]*StdSignature{{sign(t, tx, owner, 0)}}
			},
			wantSigners: []coffer.Condition{owner.PublicKey().Condition()},
		},
		"two signers keep their order": {
			signs: func(t *testing.T, tx *StdTx) [][]*StdSignature {
				return [][]*StdSignature{{sign(t, tx, cosigner, 0), sign(t, tx, owner, 0)}}
			},
			wantSigners: []coffer.Condition{cosigner.PublicKey().Condition(), owner.PublicKey().Condition()},
		},
		"replayed signature": {
			signs: func(t *testing.T, tx *StdTx) [][]*StdSignature {
				sig := sign(t, tx, owner, 0)
				return [][]*StdSignature{{sig}, {sig}}
			},
			wantErr: ErrInvalidSequence,
		},
		"consecutive nonces": {
			signs: func(t *testing.T, tx *StdTx) [][]*StdSignature {
				return [][]*StdSignature{{sign(t, tx, owner, 0)}, {sign(t, tx, owner, 1)}}
			},
			wantSigners: []coffer.Condition{owner.PublicKey().Condition()},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := coffer.WithChainID(context.Background(), chainID)
			checkDB := store.MemStore()
			deliverDB := store.MemStore()
			tx := NewStdTx([]byte("vault/vote"))

			var checkErr, deliverErr error
			var checked, delivered SigCheckHandler
			for _, set := range tc.signs(t, tx) {
				tx.Signatures = set
				_, checkErr = NewDecorator().Check(ctx, checkDB, tx, &checked)
				_, deliverErr = NewDecorator().Deliver(ctx, deliverDB, tx, &delivered)
			}

			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(checkErr), "got %+v", checkErr)
				assert.True(t, tc.wantErr.Is(deliverErr), "got %+v", deliverErr)
				return
			}
			require.NoError(t, checkErr)
			require.NoError(t, deliverErr)
			assert.Equal(t, tc.wantSigners, checked.Signers)
			assert.Equal(t, tc.wantSigners, delivered.Signers)
		})
	}
}

func TestDecoratorIgnoresUnsignedTx(t *testing.T) {
	var h coffertest.Handler
	ctx := coffer.WithChainID(context.Background(), "vault-chain")
	_, err := NewDecorator().Deliver(ctx, store.MemStore(), &coffertest.Tx{}, &h)
	require.NoError(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestDecoratorChargesGas(t *testing.T) {
	const chainID = "vault-chain"
	ctx := coffer.WithChainID(context.Background(), chainID)
	tx := NewStdTx([]byte("vault/submit"))
	for _, key := range []crypto.Signer{crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()} {
		sig, err := SignTx(key, tx, chainID, 0)
		require.NoError(t, err)
		tx.Signatures = append(tx.Signatures, sig)
	}

	res, err := NewDecorator().Check(ctx, store.MemStore(), tx, new(SigCheckHandler))
	require.NoError(t, err)
	assert.Equal(t, int64(2*signatureVerifyCost), res.GasAllocated)
}
