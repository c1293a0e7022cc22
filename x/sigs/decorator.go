/*
Package sigs verifies transaction signatures and keeps the per signer
sequence that protects against replays.
*/
package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// RegisterQuery exposes the signer state as "/auth".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of a SignedTx and makes the signers
// available to Authenticate for the rest of the stack.
type Decorator struct {
	optional bool
}

var _ weave.Decorator = Decorator{}

// NewDecorator rejects transactions without a signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets unsigned transactions through with no signers.
// Signatures that are present must still be valid.
func (d Decorator) AllowMissingSigs() Decorator {
	d.optional = true
	return d
}

func (d Decorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	ctx, err := d.withSigners(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d Decorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	ctx, err := d.withSigners(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d Decorator) withSigners(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Context, error) {
	signed, ok := tx.(SignedTx)
	if !ok {
		if !d.optional {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "%T cannot carry signatures", tx)
		}
		return ctx, nil
	}
	signers, err := VerifyTxSignatures(db, signed, weave.GetChainID(ctx))
	if err != nil {
		return nil, err
	}
	if len(signers) == 0 && !d.optional {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
