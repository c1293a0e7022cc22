package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a StoreApp that also executes transactions.
//
// A transaction runs on its own cache of the block store and its writes
// reach the block only when the handler succeeds. A failed transaction
// therefore changes nothing, not even the signer sequence.
type BaseApp struct {
	*StoreApp
	decoder weave.TxDecoder
	handler weave.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(store *StoreApp, decoder weave.TxDecoder, handler weave.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	var res *weave.DeliverResult
	err := b.run(raw, "deliver_tx", b.DeliverStore(), func(ctx weave.Context, db weave.KVStore, tx weave.Tx) (err error) {
		res, err = b.handler.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return weave.DeliverTxError(err, b.debug)
	}
	return res.ToABCI()
}

func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	var res *weave.CheckResult
	err := b.run(raw, "check_tx", b.CheckStore(), func(ctx weave.Context, db weave.KVStore, tx weave.Tx) (err error) {
		res, err = b.handler.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return weave.CheckTxError(err, b.debug)
	}
	return res.ToABCI()
}

// run decodes raw and calls exec on a fresh cache of block, which is
// written only if exec succeeds.
func (b BaseApp) run(
	raw []byte,
	call string,
	block weave.CacheableKVStore,
	exec func(weave.Context, weave.KVStore, weave.Tx) error,
) error {
	tx, err := b.decode(raw)
	if err != nil {
		return err
	}
	ctx := weave.WithLogInfo(b.BlockContext(), "call", call, "path", weave.GetPath(tx))

	cache := block.CacheWrap()
	if err := exec(ctx, cache, tx); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "write tx changes")
}

// decode turns a decoder panic into an error.
func (b BaseApp) decode(raw []byte) (tx weave.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
