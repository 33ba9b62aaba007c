package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/coffer/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// FlagHome is the viper key and flag holding the node directory.
	FlagHome = "home"
	// FlagChainID sets the chain id of a newly created genesis file.
	FlagChainID = "chain-id"
)

// GenOptions can parse command-line arguments to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd writes the application state into the genesis file found under
// the home directory, creating a minimal genesis file when none exists.
// A genesis file created by tendermint init keeps its validators.
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [args...]",
		Short: "Initialize app_state in the genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return InitGenesis(viper.GetString(FlagHome), viper.GetString(FlagChainID), gen, logger, args)
		},
	}
	cmd.Flags().String(FlagChainID, "", "chain id used when creating a new genesis file (random by default)")
	viper.BindPFlag(FlagChainID, cmd.Flags().Lookup(FlagChainID))
	return cmd
}

// InitGenesis sets app_state of home/config/genesis.json to the options
// produced by gen.
func InitGenesis(home, chainID string, gen GenOptions, logger log.Logger, args []string) error {
	if home == "" {
		return errors.Wrap(errors.ErrInput, "home directory required")
	}
	options, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "generate app_state")
	}

	genFile := GenesisFile(home)
	if fileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
	} else {
		if err := os.MkdirAll(filepath.Dir(genFile), 0755); err != nil {
			return errors.Wrap(err, "config directory")
		}
		if err := writeGenesis(genFile, newGenesisDoc(chainID)); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genFile)
	}
	return addGenesisOptions(genFile, options)
}

// GenesisFile returns the location of the genesis file in home.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func newGenesisDoc(chainID string) GenesisDoc {
	if chainID == "" {
		chainID = fmt.Sprintf("coffer-%v", cmn.RandStr(6))
	}
	id, _ := json.Marshal(chainID)
	created, _ := json.Marshal(time.Now().UTC())
	return GenesisDoc{
		"genesis_time": created,
		"chain_id":     id,
	}
}

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read genesis")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	doc["app_state"] = options
	return writeGenesis(filename, doc)
}

func writeGenesis(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
