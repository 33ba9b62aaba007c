package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/commands/server"
	"github.com/iov-one/coffer/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log_level"

	envPrefix = "COFFER"
)

// RootCmd returns the cofferd command tree. Every flag can also be set in
// the config file or through a COFFER_ prefixed environment variable.
func RootCmd(logger *levelLogger, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "cofferd",
		Short:         "Multisig vault node",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(viper.GetString(flagConfig), viper.GetString(server.FlagHome)); err != nil {
				return err
			}
			return logger.SetLevel(viper.GetString(flagLogLevel))
		},
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".coffer")
	root.PersistentFlags().String(server.FlagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().String(flagConfig, "", "config file (default is $home/config/cofferd.toml)")
	root.PersistentFlags().String(flagLogLevel, "info", "log level: debug, info, error or none")
	for _, name := range []string{server.FlagHome, flagConfig, flagLogLevel} {
		viper.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(
		server.InitCmd(genOptions, logger),
		server.StartCmd(appGenerator, logger),
		versionCmd(out),
	)
	return root
}

// loadConfig reads the config file if one is given or found in home.
func loadConfig(file, home string) error {
	if file == "" {
		file = filepath.Join(home, "config", "cofferd.toml")
		if _, err := os.Stat(file); os.IsNotExist(err) {
			return nil
		}
	}
	viper.SetConfigFile(file)
	if err := viper.ReadInConfig(); err != nil {
		return errors.Wrapf(errors.ErrInput, "config %s: %s", file, err)
	}
	return nil
}

func versionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(out, coffer.Version())
		},
	}
}

// levelLogger is a logger whose level is set once flags are parsed.
type levelLogger struct {
	base log.Logger
	log.Logger
}

var _ log.Logger = (*levelLogger)(nil)

func newLogger(w io.Writer) *levelLogger {
	base := log.NewTMLogger(log.NewSyncWriter(w)).With("module", "coffer")
	return &levelLogger{base: base, Logger: base}
}

// SetLevel filters out messages below the given level.
func (l *levelLogger) SetLevel(level string) error {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	l.Logger = log.NewFilter(l.base, opt)
	return nil
}
