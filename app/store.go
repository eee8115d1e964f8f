package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed
// to perform queries and handshakes.
//
// It should be embedded in another struct for CheckTx,
// DeliverTx and initializing state from the genesis.
// Errors on ABCI steps that take no user input are handled as panics,
// there is no way to recover from them gracefully.
type StoreApp struct {
	logger log.Logger

	// name is what is returned from abci.Info
	name string

	// Database state (committed, check, deliver....)
	store *CommitStore

	// Code to initialize from a genesis file
	initializer paystream.Initializer

	// How to handle queries
	queryRouter paystream.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in parseAppState
	chainID string

	// blockInfo is valid for the current block and reset on BeginBlock
	blockInfo paystream.BlockInfo
}

// NewStoreApp initializes this app into a ready state with some defaults
//
// panics if unable to properly load the state from the given store
func NewStoreApp(name string, store paystream.CommitKVStore, queryRouter paystream.QueryRouter) *StoreApp {
	cs, err := NewCommitStore(store)
	if err != nil {
		panic(err)
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		logger:      log.NewNopLogger(),
	}

	chainID, err := loadChainID(s.DeliverStore())
	if err != nil {
		panic(err)
	}
	s.chainID = chainID

	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	last, err := loadBlockTime(s.DeliverStore())
	if err != nil {
		panic(err)
	}
	header := abci.Header{Height: info.Version}
	if !last.IsZero() {
		header.Time = last.Time()
	}
	s.blockInfo = s.newBlockInfo(header)
	return s
}

// GetChainID returns the current chainID
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init paystream.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// parseAppState is called from InitChain, the first time the chain
// starts, and not on restarts.
func (s *StoreApp) parseAppState(data []byte, chainID string, init paystream.Initializer) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrInvalidState, "app state previously loaded for chain %s", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrInvalidState, "app_state not set in genesis.json, please initialize application before launching the blockchain")
	}

	var appState paystream.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	if init == nil {
		return nil
	}
	return init.FromGenesis(appState, s.DeliverStore())
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.blockInfo = s.newBlockInfo(s.blockInfo.Header())
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockInfo returns the information about the block currently processed.
func (s *StoreApp) BlockInfo() paystream.BlockInfo {
	return s.blockInfo
}

func (s *StoreApp) newBlockInfo(header abci.Header) paystream.BlockInfo {
	if s.chainID == "" {
		// Before genesis there is no chain to run transactions for.
		return paystream.BlockInfo{}
	}
	info, err := paystream.NewBlockInfo(header, s.chainID, s.logger)
	if err != nil {
		panic(err)
	}
	return info
}

// DeliverStore returns the current DeliverTx cache for methods
func (s *StoreApp) DeliverStore() paystream.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the current CheckTx cache for methods
func (s *StoreApp) CheckStore() paystream.CacheableKVStore {
	return s.store.CheckStore()
}

// Info implements abci.Application. It returns the height and hash,
// as well as the abci name and version.
//
// The height is the block that holds the transactions, not the apphash itself.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}

	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		Version:          paystream.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption - ABCI
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

/*
Query gets data from the app store.
A query request has the following elements:
* Path - the type of query
* Data - what to query, interpreted based on Path
* Height - ignored, the last committed state is always used

Path may be "/<bucket>" or "/<bucket>/<index>", optionally followed by
"?<mod>" to change how Data is interpreted.

Key and Value in Results are always serialized ResultSet
objects, able to support 0 to N values. They must be the
same size. This makes things a little more difficult for
simple queries, but provides a consistent interface.
*/
func (s *StoreApp) Query(reqQuery abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(reqQuery.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q, known paths: %s",
			path, strings.Join(s.queryRouter.Paths(), ", ")))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := qh.Query(db, mod, reqQuery.Data)
	if err != nil {
		return queryError(err)
	}

	var res abci.ResponseQuery
	res.Height = info.Version
	if res.Key, err = EncodeResults(ResultsFromKeys(models)); err != nil {
		return queryError(err)
	}
	if res.Value, err = EncodeResults(ResultsFromValues(models)); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{
		Log:  log,
		Code: code,
	}
}

// Commit implements abci.Application
func (s *StoreApp) Commit() abci.ResponseCommit {
	commitID, err := s.store.Commit()
	if err != nil {
		panic(err)
	}

	s.logger.Debug("Commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)
	return abci.ResponseCommit{Data: commitID.Hash}
}

// InitChain implements ABCI
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId, s.initializer); err != nil {
		// Read comment on type header
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock implements ABCI
// Sets up blockInfo and records the block time for restarts.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.blockInfo = s.newBlockInfo(req.Header)
	if !req.Header.Time.IsZero() {
		if err := saveBlockTime(s.DeliverStore(), paystream.AsUnixTime(req.Header.Time)); err != nil {
			panic(err)
		}
	}
	return abci.ResponseBeginBlock{}
}

// EndBlock - ABCI
func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
