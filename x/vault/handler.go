package vault

import (
	"strconv"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/orm"
	"github.com/iov-one/coffer/x"
	"github.com/iov-one/coffer/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	initializeCost int64 = 200
	submitCost     int64 = 100
	voteCost       int64 = 50
	triggerCost    int64 = 100
)

// Result tags.
const (
	TagRoute         = "vault.route"
	TagTransactionID = "vault.tx"
	TagExecuted      = "vault.executed"
	TagDrained       = "vault.drained"
)

// RegisterRoutes registers all vault handlers.
func RegisterRoutes(r coffer.Registry, auth x.Authenticator, control *Controller) {
	r.Handle(pathInitialize, &InitializeHandler{auth: auth, control: control})
	r.Handle(pathSubmit, &SubmitHandler{auth: auth, control: control})
	r.Handle(pathVote, &VoteHandler{auth: auth, control: control})
	r.Handle(pathTrigger, &TriggerHandler{auth: auth, control: control})
}

// RegisterQuery exposes the vault as "/vault" and the voted transactions as
// "/vaulttx" with the "/vaulttx/recipient" index.
func RegisterQuery(qr coffer.QueryRouter) {
	NewVaultBucket().Register("vault", qr)
	NewTransactionBucket().Register("vaulttx", qr)
}

// InitializeHandler creates the vault.
type InitializeHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ coffer.Handler = (*InitializeHandler)(nil)

func (h *InitializeHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &coffer.CheckResult{GasAllocated: initializeCost}, nil
}

func (h *InitializeHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}
	v, err := h.control.Initialize(db, msg.Owners, msg.Threshold, height)
	if err != nil {
		return nil, err
	}
	coffer.GetLogger(ctx).Info("vault initialized", "owners", len(v.Owners), "threshold", v.Threshold)
	return &coffer.DeliverResult{}, nil
}

func (h *InitializeHandler) validate(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*InitializeMsg, error) {
	var msg InitializeMsg
	if err := coffer.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if len(conf.Admin) != 0 && !h.auth.HasAddress(ctx, conf.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature missing")
	}
	return &msg, nil
}

// SubmitHandler routes transfers through petty cash or voting.
type SubmitHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ coffer.Handler = (*SubmitHandler)(nil)

func (h *SubmitHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &coffer.CheckResult{GasAllocated: submitCost}, nil
}

// Deliver returns the route in Data, 1 for petty cash and 0 for voting.
func (h *SubmitHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	caller, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}
	sub, err := h.control.Submit(db, caller, msg.Recipient, msg.Amount, height)
	if err != nil {
		return nil, err
	}

	res := &coffer.DeliverResult{
		Data: orm.EncodeSequence(int64(sub.Route)),
		Tags: []common.KVPair{{Key: []byte(TagRoute), Value: []byte(sub.Route.String())}},
	}
	switch sub.Route {
	case RoutePettyCash:
		observeTransfer(routePettyCash, msg.Amount)
		coffer.GetLogger(ctx).Info("petty cash transfer",
			"recipient", msg.Recipient, "amount", cash.Format(msg.Amount))
	case RouteVoting:
		pendingCount.Inc()
		id := strconv.FormatInt(sub.TransactionID, 10)
		res.Tags = append(res.Tags, common.KVPair{Key: []byte(TagTransactionID), Value: []byte(id)})
		coffer.GetLogger(ctx).Info("transaction awaits votes",
			"id", id, "recipient", msg.Recipient, "amount", cash.Format(msg.Amount))
	}
	return res, nil
}

func (h *SubmitHandler) validate(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (coffer.Address, *SubmitTransactionMsg, error) {
	var msg SubmitTransactionMsg
	if err := coffer.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.RequireMainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	if _, err := h.control.ownedVault(db, caller); err != nil {
		return nil, nil, err
	}
	return caller, &msg, nil
}

// VoteHandler approves pending transactions.
type VoteHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ coffer.Handler = (*VoteHandler)(nil)

func (h *VoteHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &coffer.CheckResult{GasAllocated: voteCost}, nil
}

// Deliver returns the number of approvals in Data and reports the
// execution in the tags.
func (h *VoteHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	caller, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}
	vtx, err := h.control.Vote(db, caller, int64(msg.TransactionID), height)
	if err != nil {
		return nil, err
	}
	if vtx.Executed {
		observeTransfer(routeVoted, vtx.Amount)
		coffer.GetLogger(ctx).Info("transaction executed",
			"id", msg.TransactionID, "recipient", vtx.Recipient, "amount", cash.Format(vtx.Amount))
	}
	return &coffer.DeliverResult{
		Data: orm.EncodeSequence(int64(len(vtx.Approvals))),
		Tags: []common.KVPair{
			{Key: []byte(TagTransactionID), Value: []byte(strconv.FormatUint(msg.TransactionID, 10))},
			{Key: []byte(TagExecuted), Value: []byte(strconv.FormatBool(vtx.Executed))},
		},
	}, nil
}

func (h *VoteHandler) validate(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (coffer.Address, *VoteMsg, error) {
	var msg VoteMsg
	if err := coffer.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.RequireMainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	if _, err := h.control.ownedVault(db, caller); err != nil {
		return nil, nil, err
	}
	return caller, &msg, nil
}

// TriggerHandler drains the vault after a long owner inactivity.
type TriggerHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ coffer.Handler = (*TriggerHandler)(nil)

func (h *TriggerHandler) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &coffer.CheckResult{GasAllocated: triggerCost}, nil
}

func (h *TriggerHandler) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	height, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}
	drained, err := h.control.TriggerDeadManSwitch(db, caller, height)
	if err != nil {
		return nil, err
	}
	observeTransfer(routeSwitch, drained)
	coffer.GetLogger(ctx).Info("dead man's switch triggered", "amount", cash.Format(drained))
	return &coffer.DeliverResult{
		Tags: []common.KVPair{
			{Key: []byte(TagDrained), Value: []byte(strconv.FormatUint(drained, 10))},
		},
	}, nil
}

func (h *TriggerHandler) validate(ctx coffer.Context, tx coffer.Tx) (coffer.Address, error) {
	var msg TriggerDeadManSwitchMsg
	if err := coffer.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.RequireMainSigner(ctx, h.auth)
	if err != nil {
		return nil, errors.Wrap(ErrLivenessDenied, err.Error())
	}
	return caller, nil
}

func blockHeight(ctx coffer.Context) (int64, error) {
	height, ok := coffer.GetHeight(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrState, "block height not set")
	}
	return height, nil
}
