/*
Package sigs checks the ed25519 signatures of a transaction and keeps a
nonce per signer against replays. Verified signers are put in the context
for the handlers down the stack.
*/
package sigs

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

// Every verified signature adds this much to the gas of CheckTx.
const signatureVerifyCost = 500

// RegisterQuery exposes the signer accounts as "/auth".
func RegisterQuery(qr coffer.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator requires at least one valid signature on every SignedTx.
// Transactions that cannot carry signatures pass unchanged.
type Decorator struct{}

var _ coffer.Decorator = Decorator{}

func NewDecorator() Decorator {
	return Decorator{}
}

func (d Decorator) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx, next coffer.Checker) (*coffer.CheckResult, error) {
	ctx, n, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += int64(n * signatureVerifyCost)
	return res, nil
}

func (d Decorator) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx, next coffer.Deliverer) (*coffer.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// authenticate verifies the signatures, increments the signer nonces and
// returns the context carrying the signers along with their number.
func (Decorator) authenticate(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (coffer.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	signers, err := VerifyTxSignatures(db, stx, coffer.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}
