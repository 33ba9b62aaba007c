package main

import (
	"fmt"
	"os"

	"github.com/iov-one/coffer/cmd/cofferd/app"
	"github.com/iov-one/coffer/commands/server"
)

func main() {
	logger := newLogger(os.Stdout)
	if err := RootCmd(logger, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

var (
	genOptions   server.GenOptions   = app.GenInitOptions
	appGenerator server.AppGenerator = app.GenerateApp
)
