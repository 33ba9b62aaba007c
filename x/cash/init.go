package cash

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use coffer.Address, so address in hex, not base64
type GenesisAccount struct {
	Address coffer.Address `json:"address"`
	Balance uint64         `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ coffer.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts coffer.Options, kv coffer.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	control := NewController(NewBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := control.CoinMint(kv, acct.Address, acct.Balance); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
