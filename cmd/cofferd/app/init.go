package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/crypto"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/x/cash"
	"github.com/iov-one/coffer/x/vault"
)

// DefaultBalance is the amount given to the funded account of a dev genesis.
const DefaultBalance uint64 = 1000000000000

// AppState is the genesis app_state understood by the initializers.
type AppState struct {
	Cash  []cash.GenesisAccount `json:"cash"`
	Conf  Conf                  `json:"conf"`
	Vault *vault.GenesisVault   `json:"vault,omitempty"`
}

// Conf holds the extension configurations.
type Conf struct {
	Vault vault.Configuration `json:"vault"`
}

// GenInitOptions will produce the options for a dev mode genesis: one rich
// account and a vault configuration with default limits.
//
// Arguments are optional: [funded address] [backup beneficiary address].
// Missing addresses are generated and their keys printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	if len(args) > 2 {
		return nil, errors.Wrap(errors.ErrInput, "usage: init [funded address] [backup address]")
	}
	addrs := make([]coffer.Address, 2)
	for i := range addrs {
		if i < len(args) {
			addr, err := coffer.ParseAddress(args[i])
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d", i+1)
			}
			addrs[i] = addr
			continue
		}
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
		addrs[i] = addr
	}
	if addrs[0].Equals(addrs[1]) {
		return nil, errors.Wrap(errors.ErrInput, "funded and backup address must differ")
	}

	conf := vault.DefaultConfiguration()
	conf.BackupBeneficiary = addrs[1]
	state := AppState{
		Cash: []cash.GenesisAccount{{Address: addrs[0], Balance: DefaultBalance}},
		Conf: Conf{Vault: conf},
	}
	return json.MarshalIndent(state, "", "  ")
}

type output struct {
	Address coffer.Address     `json:"address"`
	Pubkey  *crypto.PublicKey  `json:"pub_key"`
	Secret  *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
func GenerateCoinKey() (coffer.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Address: addr, Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(keys), nil
}
