package cash

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves funds from one wallet to another. Sending to the vault
// account address is a deposit.
type SendMsg struct {
	Source      coffer.Address
	Destination coffer.Address
	Amount      uint64
	Memo        string
}

var _ coffer.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var err error
	if s.Amount == 0 {
		err = errors.Wrap(ErrInvalidAmount, "non-positive SendMsg")
	}
	err = errors.AppendField(err, "Source", s.Source.Validate())
	err = errors.AppendField(err, "Destination", s.Destination.Validate())
	if len(s.Memo) > maxMemoSize {
		err = errors.Append(err, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	return err
}

// Marshal encodes the message with amino.
func (s *SendMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

// Unmarshal decodes an amino encoded message.
func (s *SendMsg) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, s); err != nil {
		return errors.Wrap(errors.ErrMsg, err.Error())
	}
	return nil
}
