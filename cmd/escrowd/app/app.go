// Package app assembles the escrowd node: extensions, decorators, the
// query router and the persistent store.
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store/iavl"
	"github.com/iov-one/escrowd/x"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/currency"
	"github.com/iov-one/escrowd/x/escrow"
	"github.com/iov-one/escrowd/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator accepts ed25519 signatures only.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain wraps every message handler. The order matters: logging sees
// the error produced by a recovered panic.
//
// Signatures are optional because anyone, signed or not, may trigger an
// escrow execution. Handlers that need an owner check it themselves.
func Chain(metrics prometheus.Registerer) app.Decorators {
	return app.ChainDecorators(
		app.NewLogging(),
		app.NewRecovery(),
		app.NewMetrics(metrics),
		sigs.NewDecorator().AllowMissingSigs(),
	)
}

// Router dispatches cash and escrow messages. Both extensions move funds
// through the same bank.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController(cash.NewAccountBucket(), cash.NewReserveBucket())
	cash.RegisterRoutes(r, authFn, bank)
	escrow.RegisterRoutes(r, authFn, bank)
	return r
}

// QueryRouter serves "/escrows", "/accounts", "/reserves", "/tokens"
// and "/auth".
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		escrow.RegisterQuery,
		cash.RegisterQuery,
		currency.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis loaders of all extensions. Currencies
// go first as both accounts and escrows reference them.
func Initializers() weave.Initializer {
	return app.ChainInitializers(
		&currency.Initializer{},
		cash.Initializer{},
		escrow.Initializer{},
	)
}

// Stack is the handler given to BaseApp.
func Stack(metrics prometheus.Registerer) weave.Handler {
	return Chain(metrics).WithHandler(Router(Authenticator()))
}

// Application opens the store at dbPath and returns the ABCI
// application. An empty dbPath keeps all state in memory.
func Application(name string, h weave.Handler, tx weave.TxDecoder, dbPath string, debug bool, logger log.Logger) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	store.WithInit(Initializers()).WithLogger(logger)
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore maps a path such as "data/state.db" to a leveldb
// database "state" in "data". leveldb adds the ".db" extension itself.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q", dbPath)
	}
	abs = strings.TrimSuffix(abs, filepath.Ext(abs))
	return iavl.NewCommitStore(filepath.Dir(abs), filepath.Base(abs))
}
