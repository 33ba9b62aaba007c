package app

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/crypto"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/x/cash"
	"github.com/iov-one/coffer/x/sigs"
	"github.com/iov-one/coffer/x/vault"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// RegisterCodec registers every message this application routes, so it
// can be carried by a Tx.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterInterface((*coffer.Msg)(nil), nil)
	cdc.RegisterConcrete(&cash.SendMsg{}, "cash/send", nil)
	cdc.RegisterConcrete(&vault.InitializeMsg{}, "vault/initialize", nil)
	cdc.RegisterConcrete(&vault.SubmitTransactionMsg{}, "vault/submit", nil)
	cdc.RegisterConcrete(&vault.VoteMsg{}, "vault/vote", nil)
	cdc.RegisterConcrete(&vault.TriggerDeadManSwitchMsg{}, "vault/trigger", nil)
}

// Tx carries one message along with the signatures authorizing it.
type Tx struct {
	Msg        coffer.Msg
	Signatures []*sigs.StdSignature
}

// make sure tx fulfills all interfaces
var _ coffer.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps a message in an unsigned transaction.
func NewTx(msg coffer.Msg) *Tx {
	return &Tx{Msg: msg}
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (coffer.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the message, failing when none is set.
func (tx *Tx) GetMsg() (coffer.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "tx has no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures on the tx.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes is the tx encoded without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	return cdc.MarshalBinaryBare(Tx{Msg: tx.Msg})
}

// Sign appends a signature of signer for the given chain and sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Marshal encodes the tx with amino.
func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

// Unmarshal decodes an amino encoded tx.
func (tx *Tx) Unmarshal(bz []byte) error {
	if len(bz) == 0 {
		return errors.Wrap(errors.ErrInput, "empty tx")
	}
	if err := cdc.UnmarshalBinaryBare(bz, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
