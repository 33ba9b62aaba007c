/*
Package app links together all the various components
to construct the coffer application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/app"
	"github.com/iov-one/coffer/commands/server"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/orm"
	"github.com/iov-one/coffer/store/iavl"
	"github.com/iov-one/coffer/x"
	"github.com/iov-one/coffer/x/cash"
	"github.com/iov-one/coffer/x/sigs"
	"github.com/iov-one/coffer/x/utils"
	"github.com/iov-one/coffer/x/vault"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Name is reported by abci.Info.
const Name = "coffer"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to cash and the vault.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	wallets := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, wallets)
	vault.RegisterRoutes(r, authFn, vault.NewController(wallets))
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth", "/vault", "/vaulttx" and "/"
func QueryRouter() coffer.QueryRouter {
	r := coffer.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		vault.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Initializers load the genesis app_state.
func Initializers() coffer.Initializer {
	return coffer.ChainInitializers(
		cash.Initializer{},
		vault.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() coffer.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(name string, h coffer.Handler, tx coffer.TxDecoder, kv coffer.CommitKVStore, debug bool) app.BaseApp {
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background()).
		WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (coffer.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	kv, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	return kv, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "data", "coffer.db")
	}
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	application := Application(Name, Stack(), TxDecoder, kv, options.Debug)
	application.WithLogger(options.Logger)
	return application, nil
}
