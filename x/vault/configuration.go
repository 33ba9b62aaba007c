package vault

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/gconf"
)

const packageName = "vault"

const (
	// DefaultPettyCashLimit is the smallest amount that requires voting.
	DefaultPettyCashLimit uint64 = 100000000
	// DefaultInactivityLimit is about one year of ten minute blocks.
	DefaultInactivityLimit int64 = 52560
)

// Configuration holds the vault parameters that are fixed at genesis.
type Configuration struct {
	// Admin, when set, is the only address allowed to initialize the
	// vault.
	Admin coffer.Address `json:"admin,omitempty"`
	// PettyCashLimit is the amount from which transfers must be voted.
	PettyCashLimit uint64 `json:"petty_cash_limit"`
	// InactivityLimit is the number of blocks without an owner action
	// after which the dead man's switch can be triggered.
	InactivityLimit int64 `json:"inactivity_limit"`
	// BackupBeneficiary receives the whole balance when the switch is
	// triggered.
	BackupBeneficiary coffer.Address `json:"backup_beneficiary"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration returns a configuration with the default limits and
// no beneficiary. It does not validate until a beneficiary is set.
func DefaultConfiguration() Configuration {
	return Configuration{
		PettyCashLimit:  DefaultPettyCashLimit,
		InactivityLimit: DefaultInactivityLimit,
	}
}

// Validate ensures the configuration can be used by a vault.
func (c *Configuration) Validate() error {
	var err error
	if c.InactivityLimit <= 0 {
		err = errors.Append(err, errors.Field("InactivityLimit", errors.ErrInput, "must be positive"))
	}
	err = errors.AppendField(err, "BackupBeneficiary", c.BackupBeneficiary.Validate())
	if len(c.Admin) != 0 {
		err = errors.AppendField(err, "Admin", c.Admin.Validate())
	}
	return err
}

// Marshal encodes the configuration with amino.
func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

// Unmarshal decodes an amino encoded configuration.
func (c *Configuration) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, c); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// loadConf returns the stored configuration.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
