package escrow

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/currency"
)

// Bank is the asset transfer service used to move the custodied funds.
type Bank interface {
	cash.Controller
	Account(db weave.ReadOnlyKVStore, addr weave.Address) (*cash.Account, error)
}

// Branch is the outcome chosen by an execution.
type Branch string

const (
	Release Branch = "release"
	Refund  Branch = "refund"
)

// ExecuteRequest references the escrow to execute together with all the
// accounts taking part in the execution.
type ExecuteRequest struct {
	EscrowID    []byte
	Custody     weave.Address
	Ticker      string
	Beneficiary weave.Address
	Refund      weave.Address
}

// Execution describes a successful escrow execution.
type Execution struct {
	Escrow      *Escrow
	Branch      Branch
	Destination weave.Address
	Amount      uint64
}

// Controller implements the escrow state transitions.
type Controller struct {
	bucket Bucket
	bank   Bank
}

// NewController returns a controller that stores escrows in given bucket and
// moves funds using given bank.
func NewController(bucket Bucket, bank Bank) Controller {
	return Controller{
		bucket: bucket,
		bank:   bank,
	}
}

// ConfirmDelivery marks the escrow as confirmed. Only the maker can confirm.
// Confirming an already confirmed escrow is a successful no-op.
func (c Controller) ConfirmDelivery(db weave.KVStore, owner x.OwnerCapability, escrowID []byte) (*Escrow, error) {
	escrow, err := c.bucket.Get(db, escrowID)
	if err != nil {
		return nil, err
	}
	if !owner.Grants(escrow.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can confirm the delivery")
	}
	if escrow.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "escrow %X", escrowID)
	}
	if escrow.BuyerConfirmed {
		return escrow, nil
	}
	escrow.BuyerConfirmed = true
	if err := c.bucket.Save(db, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	return escrow, nil
}

// Prepare runs all the checks of CheckAndExecute without modifying the
// state. It returns the escrow and the branch an execution would take.
func (c Controller) Prepare(ctx weave.Context, db weave.ReadOnlyKVStore, req ExecuteRequest) (*Escrow, Branch, error) {
	escrow, err := c.bucket.Get(db, req.EscrowID)
	if err != nil {
		return nil, "", err
	}
	if escrow.Executed {
		return nil, "", errors.Wrapf(ErrAlreadyExecuted, "escrow %X", req.EscrowID)
	}

	branch := Release
	if !escrow.BuyerConfirmed {
		expired, err := weave.IsExpired(ctx, escrow.Deadline)
		if err != nil {
			return nil, "", errors.Wrap(err, "block time")
		}
		if !expired {
			return nil, "", errors.Wrapf(ErrNotReady, "not confirmed and deadline %s not reached", escrow.Deadline)
		}
		branch = Refund
	}

	if err := c.checkAccounts(db, escrow, req); err != nil {
		return nil, "", err
	}
	return escrow, branch, nil
}

// checkAccounts ensures that accounts referenced by the request match the
// escrow. Custody ownership is not checked here: the bank accepts only the
// derived authority of the escrow as the custody owner.
func (c Controller) checkAccounts(db weave.ReadOnlyKVStore, escrow *Escrow, req ExecuteRequest) error {
	if req.Ticker != escrow.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "escrow holds %s, not %s", escrow.Ticker, req.Ticker)
	}

	custody, err := c.bank.Account(db, req.Custody)
	if err != nil {
		return errors.Wrap(err, "custody")
	}
	if custody.Ticker != escrow.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "custody holds %s", custody.Ticker)
	}

	refund, err := c.bank.Account(db, req.Refund)
	if err != nil {
		return errors.Wrap(err, "refund")
	}
	if refund.Ticker != escrow.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "refund account holds %s", refund.Ticker)
	}
	if !refund.Owner.Equals(escrow.Maker) {
		return errors.Wrap(errors.ErrInput, "refund account is not owned by the maker")
	}

	beneficiary, err := c.bank.Account(db, req.Beneficiary)
	if err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	if beneficiary.Ticker != escrow.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "beneficiary account holds %s", beneficiary.Ticker)
	}
	if len(escrow.Beneficiary) != 0 && !beneficiary.Owner.Equals(escrow.Beneficiary) {
		return errors.Wrap(errors.ErrInput, "beneficiary account is not owned by the escrow beneficiary")
	}
	return nil
}

// CheckAndExecute releases or refunds the deposit, retires the custody
// account and marks the escrow as executed.
//
// The state is modified only when all steps succeed. A failure after a
// successful transfer leaves the store dirty, so the caller must run it on a
// cache that is discarded on error.
func (c Controller) CheckAndExecute(ctx weave.Context, db weave.KVStore, trigger x.TriggerCapability, req ExecuteRequest) (*Execution, error) {
	escrow, branch, err := c.Prepare(ctx, db, req)
	if err != nil {
		return nil, err
	}

	decimals, err := currency.Decimals(db, escrow.Ticker)
	if err != nil {
		return nil, errors.Wrap(err, "asset")
	}

	dest := req.Beneficiary
	if branch == Refund {
		dest = req.Refund
	}
	authority := escrow.Authority().Address()

	if err := c.bank.Transfer(db, req.Custody, dest, escrow.Ticker, escrow.Deposit, decimals, authority); err != nil {
		return nil, errors.Wrap(err, "cannot move the deposit")
	}
	if err := c.bank.RetireAccount(db, req.Custody, escrow.Maker, authority); err != nil {
		return nil, errors.Wrap(err, "cannot retire the custody account")
	}

	escrow.Executed = true
	if err := c.bucket.Save(db, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	weave.GetLogger(ctx).Info("escrow executed",
		"escrow", escrow.Maker.String(),
		"nonce", escrow.Nonce,
		"branch", string(branch),
		"keeper", trigger.Caller())

	return &Execution{
		Escrow:      escrow,
		Branch:      branch,
		Destination: dest,
		Amount:      escrow.Deposit,
	}, nil
}
