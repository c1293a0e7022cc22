package weave

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/iov-one/escrowd/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is the standard context. The helpers below attach block data.
type Context = context.Context

type ctxKey int

const (
	heightKey ctxKey = iota
	chainIDKey
	blockTimeKey
	loggerKey
)

// DefaultLogger is returned by GetLogger when no logger was set.
var DefaultLogger = log.NewNopLogger()

// IsValidChainID reports whether the id is 6 to 20 letters, digits, dashes
// or underscores.
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// WithHeight sets the block height. It panics if a height is already set.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("block height already set")
	}
	return context.WithValue(ctx, heightKey, height)
}

// GetHeight returns false if no height was set.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(heightKey).(int64)
	return h, ok
}

// WithChainID sets the chain id. It panics if the id is invalid or already
// set.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(chainIDKey) != nil {
		panic("chain id already set")
	}
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("invalid chain id %q", chainID))
	}
	return context.WithValue(ctx, chainIDKey, chainID)
}

// GetChainID panics if the chain id was never set. Every context built by
// the application has one.
func GetChainID(ctx Context) string {
	id, ok := ctx.Value(chainIDKey).(string)
	if !ok {
		panic("chain id not set")
	}
	return id
}

// WithBlockTime sets the time of the block being processed. Deadlines are
// compared against this time only, never against the local clock.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, blockTimeKey, t)
}

// BlockTime fails with ErrHuman when no block time, or a zero one, is set.
func BlockTime(ctx Context) (time.Time, error) {
	t, ok := ctx.Value(blockTimeKey).(time.Time)
	switch {
	case !ok:
		return time.Time{}, errors.Wrap(errors.ErrHuman, "no block time in context")
	case t.IsZero():
		return time.Time{}, errors.Wrap(errors.ErrHuman, "zero block time")
	}
	return t, nil
}

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}

// WithLogInfo adds key value pairs to every following log line.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}
