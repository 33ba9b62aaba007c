package sigs

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/coffertest"
)

// StdTx is a minimal signed transaction carrying raw bytes.
type StdTx struct {
	coffertest.Tx
	Data       []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(data []byte) *StdTx {
	return &StdTx{
		Tx:   coffertest.Tx{Msg: &coffertest.Msg{RoutePath: "test", Serialized: data}},
		Data: data,
	}
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Data, nil
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []coffer.Condition
}

var _ coffer.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx coffer.Context, store coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &coffer.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx coffer.Context, store coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &coffer.DeliverResult{}, nil
}
