package utils

import (
	"github.com/iov-one/coffer"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key holding the path of the delivered message, so
// clients can subscribe to all vault/vote transactions for example.
const ActionKey = "action"

// ActionTagger tags every successfully delivered transaction with the
// path of its message.
type ActionTagger struct{}

var _ coffer.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx, next coffer.Checker) (*coffer.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx, next coffer.Deliverer) (*coffer.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())})
	return res, nil
}
