package cash

import (
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet is the balance of a single address.
type Wallet struct {
	Balance uint64
}

var _ orm.Model = (*Wallet)(nil)

// Validate always succeeds, any balance is valid.
func (w *Wallet) Validate() error {
	return nil
}

// Copy makes a new wallet with the same balance
func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{Balance: w.Balance}
}

// Marshal encodes the wallet with amino.
func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

// Unmarshal decodes an amino encoded wallet.
func (w *Wallet) Unmarshal(bz []byte) error {
	if len(bz) == 0 {
		*w = Wallet{}
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(bz, w); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// NewBucket returns the bucket holding all wallets, keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
