package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp is the storage half of the ABCI application: genesis, block
// boundaries, commits and queries. BaseApp embeds it and adds transaction
// processing.
//
// Info, InitChain and Commit have no way to report a failure to
// tendermint, so they panic on error.
type StoreApp struct {
	name   string
	logger log.Logger
	debug  bool

	store       *CommitStore
	initializer coffer.Initializer
	queryRouter coffer.QueryRouter

	// chainID is empty until genesis was loaded.
	chainID string

	// baseContext lives as long as the app, blockContext is rebuilt on
	// every BeginBlock.
	baseContext  coffer.Context
	blockContext coffer.Context
}

// NewStoreApp opens the store and restores chain id and height from it.
// It panics if the store cannot be loaded.
func NewStoreApp(name string, store coffer.CommitKVStore, queryRouter coffer.QueryRouter, baseContext coffer.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s.WithLogger(log.NewNopLogger())

	if s.chainID = mustLoadChainID(s.DeliverStore()); s.chainID != "" {
		s.baseContext = coffer.WithChainID(s.baseContext, s.chainID)
	}
	s.blockContext = coffer.WithHeight(s.baseContext, s.mustCommitInfo().Version)
	return s
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the initializer called with the genesis app_state.
func (s *StoreApp) WithInit(init coffer.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug stops redacting internal errors from query responses.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger sets the logger of the app and of every handler context.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = coffer.WithLogger(s.baseContext, logger)
	return s
}

func (s *StoreApp) BlockContext() coffer.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() coffer.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() coffer.CacheableKVStore {
	return s.store.CheckStore()
}

func (s *StoreApp) mustCommitInfo() coffer.CommitID {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	return info
}

// loadGenesis stores the chain id and hands the app_state to the
// initializer. It runs once, on the very first start of the chain.
func (s *StoreApp) loadGenesis(appStateBytes []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "appState previously loaded for chain: %s", s.chainID)
	}
	if len(appStateBytes) == 0 {
		return errors.Wrap(errors.ErrState, "app_state not set in genesis.json, please initialize application before launching the blockchain")
	}
	var appState coffer.Options
	if err := json.Unmarshal(appStateBytes, &appState); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = coffer.WithChainID(s.baseContext, chainID)
	// CheckTx may arrive before the first BeginBlock.
	s.blockContext = coffer.WithHeight(s.baseContext, s.mustCommitInfo().Version)

	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(appState, s.DeliverStore())
}

// Info reports the last committed height and app hash so tendermint can
// replay the missing blocks.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info := s.mustCommitInfo()
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          coffer.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query reads the last committed state. The path selects the handler,
// "/wallets" or "/vaulttx/recipient" for example, and may end with
// "?prefix" for a prefix query. Key and Value of the response are both
// ResultSets of the same length, also for a single match.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	h := s.queryRouter.Handler(path)
	if h == nil {
		return s.queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path: %v", req.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return s.queryError(err)
	}
	if req.Height != 0 && req.Height != info.Version {
		return s.queryError(errors.Wrapf(errors.ErrInput, "height %d not available, latest is %d", req.Height, info.Version))
	}

	db := s.store.committed.CacheWrap()
	defer db.Discard()
	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return s.queryError(err)
	}

	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return s.queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return s.queryError(err)
	}
	return abci.ResponseQuery{Height: info.Version, Key: keys, Value: values}
}

// splitPath separates the query modifier following a "?".
func splitPath(full string) (path, mod string) {
	if i := strings.Index(full, "?"); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func (s *StoreApp) queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, s.debug)
	return abci.ResponseQuery{Code: code, Log: log}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock exposes the header and height of the new block to handlers.
// The vault reads the height to track owner activity.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := coffer.WithHeader(s.baseContext, req.Header)
	s.blockContext = coffer.WithHeight(ctx, req.Header.GetHeight())
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
