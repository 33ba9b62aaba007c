package vault

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/gconf"
	"github.com/iov-one/coffer/x/cash"
)

const optKey = "vault"

// GenesisVault creates the vault at genesis, in place of InitializeMsg.
type GenesisVault struct {
	Owners    []coffer.Address `json:"owners"`
	Threshold uint32           `json:"threshold"`
}

// Initializer stores the configuration found under conf.vault and, when
// present, creates the vault described under the vault key.
type Initializer struct{}

var _ coffer.Initializer = Initializer{}

// FromGenesis will parse the vault configuration from genesis and save it
// to the database. A genesis without a vault configuration is accepted.
func (Initializer) FromGenesis(opts coffer.Options, kv coffer.KVStore) error {
	conf := DefaultConfiguration()
	switch err := gconf.InitConfig(kv, opts, packageName, &conf); {
	case errors.ErrNotFound.Is(err):
		if len(opts[optKey]) != 0 {
			return errors.Wrap(err, "vault requires a configuration")
		}
		return nil
	case err != nil:
		return err
	}

	var gen *GenesisVault
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	if gen == nil {
		return nil
	}
	msg := InitializeMsg{Owners: gen.Owners, Threshold: gen.Threshold}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "genesis vault")
	}
	control := NewController(cash.NewController(cash.NewBucket()))
	if _, err := control.Initialize(kv, msg.Owners, msg.Threshold, 0); err != nil {
		return errors.Wrap(err, "genesis vault")
	}
	return nil
}
