package app

import (
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging is a decorator that writes one log entry per processed
// transaction, together with its duration and result.
type Logging struct{}

var _ weave.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs failures as info and successes as debug.
func (Logging) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logger := resultLogger(ctx, start, err)
	if err != nil {
		logger.Info("check failed")
	} else {
		logger.Debug("check passed", "log", res.Log)
	}
	return res, err
}

// Deliver logs failures as error and successes as info.
func (Logging) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	logger := resultLogger(ctx, start, err)
	if err != nil {
		logger.Error("deliver failed")
	} else {
		logger.Info("delivered", "log", res.Log)
	}
	return res, err
}

func resultLogger(ctx weave.Context, start time.Time, err error) log.Logger {
	logger := weave.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)
	if err != nil {
		logger = logger.With("err", err)
	}
	return logger
}

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ weave.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (Recovery) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (_ *weave.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (Recovery) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (_ *weave.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
