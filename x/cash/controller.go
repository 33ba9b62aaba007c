package cash

import (
	"math"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/orm"
)

// Controller is the functionality needed by cash.Handler and other
// extensions that move funds, such as the vault.
type Controller interface {
	Balance(db coffer.ReadOnlyKVStore, addr coffer.Address) (uint64, error)
	MoveCoins(db coffer.KVStore, src, dest coffer.Address, amount uint64) error
	CoinMint(db coffer.KVStore, dest coffer.Address, amount uint64) error
}

// BaseController is the default implementation, storing wallets in a bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the given wallet bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the balance of the address. An address that never
// received funds has a zero balance.
func (c BaseController) Balance(db coffer.ReadOnlyKVStore, addr coffer.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return w.Balance, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// MoveCoins moves the given amount from src to dest.
// It fails if src does not hold enough funds. Moving zero is allowed and
// leaves the state unchanged.
func (c BaseController) MoveCoins(db coffer.KVStore, src, dest coffer.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	have, err := c.Balance(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if have < amount {
		return errors.Wrapf(ErrInsufficientFunds, "have %s, want %s", Format(have), Format(amount))
	}
	if amount == 0 || src.Equals(dest) {
		return nil
	}
	if err := c.save(db, src, have-amount); err != nil {
		return err
	}
	return c.add(db, dest, amount)
}

// CoinMint adds the given amount to the destination wallet, creating it
// if needed. Fails if it overflows the wallet.
func (c BaseController) CoinMint(db coffer.KVStore, dest coffer.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return c.add(db, dest, amount)
}

func (c BaseController) add(db coffer.KVStore, addr coffer.Address, amount uint64) error {
	have, err := c.Balance(db, addr)
	if err != nil {
		return err
	}
	if have > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "wallet %s", addr)
	}
	return c.save(db, addr, have+amount)
}

// save stores the new balance. Empty wallets are removed.
func (c BaseController) save(db coffer.KVStore, addr coffer.Address, balance uint64) error {
	if balance == 0 {
		if err := c.bucket.Delete(db, addr); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	_, err := c.bucket.Put(db, addr, &Wallet{Balance: balance})
	return err
}

// Format renders an amount with thousands separators.
func Format(amount uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(amount))
}
