package weave

import (
	"github.com/iov-one/escrowd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ToABCI is the response of a successful DeliverTx. A nil result is an
// empty response.
func (d *DeliverResult) ToABCI() abci.ResponseDeliverTx {
	if d == nil {
		return abci.ResponseDeliverTx{}
	}
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags}
}

// ToABCI is the response of a successful CheckTx.
func (c *CheckResult) ToABCI() abci.ResponseCheckTx {
	if c == nil {
		return abci.ResponseCheckTx{}
	}
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverTxError is the response of a failed DeliverTx. Outside of debug
// mode errors without a code are reported as internal errors.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: failureLog("cannot deliver tx", code, log)}
}

// CheckTxError is DeliverTxError for CheckTx.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseCheckTx{Code: code, Log: failureLog("cannot check tx", code, log)}
}

// QueryError is the response of a failed query.
func QueryError(err error, debug bool) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: log}
}

func failureLog(action string, code uint32, log string) string {
	if code == errors.SuccessABCICode {
		return log
	}
	return action + ": " + log
}
