package vault

import (
	"math"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

const (
	pathInitialize = "vault/initialize"
	pathSubmit     = "vault/submit"
	pathVote       = "vault/vote"
	pathTrigger    = "vault/trigger"
)

// InitializeMsg creates the vault. It can succeed only once.
type InitializeMsg struct {
	Owners    []coffer.Address
	Threshold uint32
}

var _ coffer.Msg = (*InitializeMsg)(nil)

// Path returns the routing path for this message
func (InitializeMsg) Path() string {
	return pathInitialize
}

// Validate requires distinct owners and 1 <= threshold <= len(owners).
func (m *InitializeMsg) Validate() error {
	if len(m.Owners) == 0 {
		return errors.Wrap(ErrInvalidThreshold, "no owners")
	}
	if m.Threshold == 0 || int(m.Threshold) > len(m.Owners) {
		return errors.Wrapf(ErrInvalidThreshold, "threshold %d with %d owners", m.Threshold, len(m.Owners))
	}
	var err error
	for i, o := range m.Owners {
		if e := o.Validate(); e != nil {
			err = errors.Append(err, errors.Wrapf(e, "owner %d", i))
		}
	}
	if err != nil {
		return err
	}
	_, err = sortOwners(m.Owners)
	return err
}

// Marshal encodes the message with amino.
func (m *InitializeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

// Unmarshal decodes an amino encoded message.
func (m *InitializeMsg) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, m); err != nil {
		return errors.Wrap(errors.ErrMsg, err.Error())
	}
	return nil
}

// SubmitTransactionMsg requests a transfer out of the vault.
type SubmitTransactionMsg struct {
	Recipient coffer.Address
	Amount    uint64
}

var _ coffer.Msg = (*SubmitTransactionMsg)(nil)

// Path returns the routing path for this message
func (SubmitTransactionMsg) Path() string {
	return pathSubmit
}

// Validate requires a recipient. Any amount, including zero, is accepted.
func (m *SubmitTransactionMsg) Validate() error {
	return errors.AppendField(nil, "Recipient", m.Recipient.Validate())
}

// Marshal encodes the message with amino.
func (m *SubmitTransactionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

// Unmarshal decodes an amino encoded message.
func (m *SubmitTransactionMsg) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, m); err != nil {
		return errors.Wrap(errors.ErrMsg, err.Error())
	}
	return nil
}

// VoteMsg approves a pending transaction.
type VoteMsg struct {
	TransactionID uint64
}

var _ coffer.Msg = (*VoteMsg)(nil)

// Path returns the routing path for this message
func (VoteMsg) Path() string {
	return pathVote
}

// Validate rejects ids that no sequence can produce.
func (m *VoteMsg) Validate() error {
	if m.TransactionID > math.MaxInt64 {
		return errors.Field("TransactionID", errors.ErrInput, "out of range")
	}
	return nil
}

// Marshal encodes the message with amino.
func (m *VoteMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

// Unmarshal decodes an amino encoded message.
func (m *VoteMsg) Unmarshal(bz []byte) error {
	if len(bz) == 0 {
		*m = VoteMsg{}
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(bz, m); err != nil {
		return errors.Wrap(errors.ErrMsg, err.Error())
	}
	return nil
}

// TriggerDeadManSwitchMsg drains the vault to the backup beneficiary.
type TriggerDeadManSwitchMsg struct{}

var _ coffer.Msg = (*TriggerDeadManSwitchMsg)(nil)

// Path returns the routing path for this message
func (TriggerDeadManSwitchMsg) Path() string {
	return pathTrigger
}

// Validate always succeeds.
func (*TriggerDeadManSwitchMsg) Validate() error {
	return nil
}

// Marshal encodes the message with amino.
func (m *TriggerDeadManSwitchMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

// Unmarshal accepts only the empty encoding.
func (m *TriggerDeadManSwitchMsg) Unmarshal(bz []byte) error {
	if len(bz) != 0 {
		return errors.Wrap(errors.ErrMsg, "unexpected payload")
	}
	return nil
}
