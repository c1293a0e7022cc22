package app

import (
	"reflect"

	"github.com/iov-one/escrowd"
)

// Decorators is an ordered list of decorators waiting for the handler they
// will wrap. The first decorator runs first.
//
//	stack := app.ChainDecorators(
//		app.NewLogging(),
//		app.NewRecovery(),
//		metrics,
//		sigs.NewDecorator().AllowMissingSigs(),
//	).WithHandler(router)
type Decorators struct {
	chain []weave.Decorator
}

// ChainDecorators skips nil decorators, typed nil pointers included, so
// that optional ones can be passed unconditionally.
func ChainDecorators(chain ...weave.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new list with more decorators appended. The receiver is
// left unchanged.
func (d Decorators) Chain(more ...weave.Decorator) Decorators {
	chain := append([]weave.Decorator(nil), d.chain...)
	for _, dec := range more {
		if !isNil(dec) {
			chain = append(chain, dec)
		}
	}
	return Decorators{chain: chain}
}

func isNil(d weave.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns h wrapped by every decorator.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = decorated{dec: d.chain[i], next: h}
	}
	return h
}

// decorated is a handler that runs dec around next.
type decorated struct {
	dec  weave.Decorator
	next weave.Handler
}

func (s decorated) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return s.dec.Check(ctx, db, tx, s.next)
}

func (s decorated) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return s.dec.Deliver(ctx, db, tx, s.next)
}
