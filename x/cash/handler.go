package cash

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x"
	"github.com/iov-one/escrowd/x/currency"
)

// RegisterRoutes routes SendMsg to a handler bound to control.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, control BaseController) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery exposes balances under "/accounts" and currency reserves
// under "/reserves".
func RegisterQuery(qr weave.QueryRouter) {
	NewAccountBucket().Register("accounts", qr)
	NewReserveBucket().Register("reserves", qr)
}

// SendHandler moves funds out of an account on behalf of its owner.
type SendHandler struct {
	auth    x.Authenticator
	control BaseController
}

var _ weave.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control BaseController) SendHandler {
	return SendHandler{auth: auth, control: control}
}

// Check does not look at balances. An underfunded send only fails in
// Deliver.
func (h SendHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.authorize(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	send, err := h.authorize(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	decimals, err := currency.Decimals(db, send.Ticker)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(db, send.Source, send.Destination, send.Ticker, send.Amount, decimals, send.owner.Owner()); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

// authorizedSend is a SendMsg whose source owner signed the transaction.
type authorizedSend struct {
	*SendMsg
	owner x.OwnerCapability
}

func (h SendHandler) authorize(ctx weave.Context, db weave.KVStore, tx weave.Tx) (authorizedSend, error) {
	msg := new(SendMsg)
	if err := weave.LoadMsg(tx, msg); err != nil {
		return authorizedSend{}, errors.Wrap(err, "load msg")
	}
	src, err := h.control.Account(db, msg.Source)
	if err != nil {
		return authorizedSend{}, err
	}
	owner, err := x.RequireOwner(ctx, h.auth, src.Owner)
	if err != nil {
		return authorizedSend{}, errors.Wrap(err, "source account owner")
	}
	return authorizedSend{SendMsg: msg, owner: owner}, nil
}
