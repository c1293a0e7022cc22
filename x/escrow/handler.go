package escrow

import (
	"encoding/hex"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	confirmDeliveryCost int64 = 50
	// Execution may be sent unsigned. It allocates gas like any other
	// message.
	checkAndExecuteCost int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r weave.Registry, auth x.Authenticator, bank Bank) {
	ctrl := NewController(NewBucket(), bank)
	r.Handle(&ConfirmDeliveryMsg{}, ConfirmDeliveryHandler{auth: auth, ctrl: ctrl})
	r.Handle(&CheckAndExecuteMsg{}, CheckAndExecuteHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// ConfirmDeliveryHandler sets the confirmation flag of an escrow.
type ConfirmDeliveryHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = ConfirmDeliveryHandler{}

// Check ensures the maker signed the message and the escrow can still be
// confirmed.
func (h ConfirmDeliveryHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, escrow, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := x.RequireOwner(ctx, h.auth, escrow.Maker); err != nil {
		return nil, err
	}
	if escrow.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "escrow %X", msg.EscrowId)
	}
	return &weave.CheckResult{GasAllocated: confirmDeliveryCost}, nil
}

// Deliver confirms the escrow.
func (h ConfirmDeliveryHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, escrow, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	owner, err := x.RequireOwner(ctx, h.auth, escrow.Maker)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.ConfirmDelivery(db, owner, msg.EscrowId); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: escrowTags(msg.EscrowId, "confirm")}, nil
}

func (h ConfirmDeliveryHandler) validate(db weave.KVStore, tx weave.Tx) (*ConfirmDeliveryMsg, *Escrow, error) {
	var msg ConfirmDeliveryMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := h.ctrl.bucket.Get(db, msg.EscrowId)
	if err != nil {
		return nil, nil, err
	}
	return &msg, escrow, nil
}

// CheckAndExecuteHandler executes an escrow. Anybody can send this message.
type CheckAndExecuteHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = CheckAndExecuteHandler{}

// Check runs all the execution checks without moving any funds.
func (h CheckAndExecuteHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg CheckAndExecuteMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, _, err := h.ctrl.Prepare(ctx, db, msg.request()); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: checkAndExecuteCost}, nil
}

// Deliver moves the deposit and marks the escrow as executed.
func (h CheckAndExecuteHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg CheckAndExecuteMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	trigger := x.AnyTrigger(ctx, h.auth)
	res, err := h.ctrl.CheckAndExecute(ctx, db, trigger, msg.request())
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Data: res.Destination,
		Log:  string(res.Branch),
		Tags: escrowTags(msg.EscrowId, string(res.Branch)),
	}, nil
}

func escrowTags(id []byte, action string) []common.KVPair {
	return []common.KVPair{
		{Key: []byte("escrow"), Value: []byte(hex.EncodeToString(id))},
		{Key: []byte("action"), Value: []byte(action)},
	}
}
