package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp owns the committed state and answers every ABCI call that does
// not execute a transaction: Info, Query, InitChain, BeginBlock, EndBlock
// and Commit. BaseApp embeds it and adds CheckTx and DeliverTx.
//
// InitChain, Info and Commit cannot report a failure through ABCI, so
// they panic on error and tendermint stops the node.
type StoreApp struct {
	name   string
	debug  bool
	logger log.Logger

	store       *CommitStore
	queries     weave.QueryRouter
	initializer weave.Initializer

	// chainID is empty until InitChain ran once. It is persisted, so a
	// restarted node reads it back from the store.
	chainID string

	// base lives as long as the process, block is rebuilt on BeginBlock.
	base  weave.Context
	block weave.Context
}

// NewStoreApp wraps the store and restores the chain id and height of
// the last commit.
func NewStoreApp(name string, kv weave.CommitKVStore, queries weave.QueryRouter, ctx weave.Context) (*StoreApp, error) {
	cs, err := NewCommitStore(kv)
	if err != nil {
		return nil, err
	}
	s := &StoreApp{
		name:    name,
		store:   cs,
		queries: queries,
		base:    ctx,
	}
	s.WithLogger(log.NewNopLogger())

	id, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	if id != "" {
		s.setChainID(id)
	}

	info, err := cs.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	s.block = weave.WithHeight(s.base, info.Version)
	return s, nil
}

func (s *StoreApp) setChainID(id string) {
	s.chainID = id
	s.base = weave.WithChainID(s.base, id)
	if s.block != nil {
		s.block = weave.WithChainID(s.block, id)
	}
}

// GetChainID is empty before genesis.
func (s *StoreApp) GetChainID() string { return s.chainID }

// WithInit sets the genesis loader used by InitChain.
func (s *StoreApp) WithInit(init weave.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug makes query failures report the full error.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger replaces the logger, including the one carried by the
// contexts handed to handlers.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.base = weave.WithLogger(s.base, logger)
	if s.block != nil {
		s.block = weave.WithLogger(s.block, logger)
	}
	return s
}

func (s *StoreApp) Logger() log.Logger { return s.logger }

// BlockContext carries chain id, height and block time of the block
// being processed.
func (s *StoreApp) BlockContext() weave.Context { return s.block }

func (s *StoreApp) DeliverStore() weave.CacheableKVStore { return s.store.DeliverStore() }

func (s *StoreApp) CheckStore() weave.CacheableKVStore { return s.store.CheckStore() }

// loadGenesis runs once per chain. A second call fails with ErrImmutable
// so that a replayed InitChain cannot reset balances.
func (s *StoreApp) loadGenesis(raw []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "genesis already loaded for chain %s", s.chainID)
	}
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}
	var opts weave.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "app_state: %s", err)
	}
	db := s.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, db)
}

// Info reports the last committed height and app hash so tendermint can
// decide how many blocks to replay.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("info", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          weave.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

// Query reads from the last committed state. The path names a bucket,
// "/escrows" for example, and a "?prefix" suffix turns the lookup into a
// prefix scan over the data. Key and Value of the response are encoded
// ResultSets of equal length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	res, err := s.query(req)
	if err != nil {
		return weave.QueryError(err, s.debug)
	}
	return res
}

func (s *StoreApp) query(req abci.RequestQuery) (abci.ResponseQuery, error) {
	var res abci.ResponseQuery
	path, mod, err := weave.ParseQueryPath(req.Path)
	if err != nil {
		return res, err
	}
	h := s.queries.Handler(path)
	if h == nil {
		return res, errors.Wrapf(errors.ErrNotFound, "query path %q", path)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		return res, err
	}
	models, err := h.Query(s.store.CommittedStore(), mod, req.Data)
	if err != nil {
		return res, err
	}
	res.Height = info.Version
	if res.Key, err = marshalResults(ResultsFromKeys(models)); err != nil {
		return res, err
	}
	res.Value, err = marshalResults(ResultsFromValues(models))
	return res, err
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("commit", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock resets the block context. Deadlines are compared against
// this header time, never against the local clock.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := weave.WithHeight(s.base, req.Header.GetHeight())
	s.block = weave.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock leaves the validator set untouched.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
