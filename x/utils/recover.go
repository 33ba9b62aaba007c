package utils

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

// Recovery converts a panic further down the stack into an ErrPanic error,
// so a single broken transaction fails instead of halting the node.
type Recovery struct{}

var _ coffer.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx, next coffer.Checker) (_ *coffer.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx, next coffer.Deliverer) (_ *coffer.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
