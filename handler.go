package weave

import (
	"encoding/json"

	"github.com/tendermint/tendermint/libs/common"
)

// Handler processes the messages of one or more paths, for example
// escrow/confirm or escrow/execute. Check validates a transaction for the
// mempool, Deliver executes it in a block.
type Handler interface {
	Checker
	Deliverer
}

type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around a handler, adding a concern shared by all messages
// such as authentication or logging. It must call next to continue.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths. Handle panics on a path that is
// invalid or already bound.
type Registry interface {
	Handle(Msg, Handler)
}

// CheckResult is the outcome of a successful Check. Failures are errors.
type CheckResult struct {
	Data         []byte
	Log          string
	GasAllocated int64
}

// DeliverResult is the outcome of a successful Deliver. Data holds a
// machine readable result, such as the address that received funds. Tags
// index the transaction.
type DeliverResult struct {
	Data []byte
	Log  string
	Tags []common.KVPair
}

// Options is the genesis app state, one raw JSON value per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the value of key into obj. A missing key leaves obj
// untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
