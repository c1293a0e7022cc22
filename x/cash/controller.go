package cash

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/currency"
)

// Controller is the asset transfer service. Both operations require the
// authorizer to be exactly the owner recorded on the account.
type Controller interface {
	// Transfer moves amount of given asset between two existing accounts
	// holding that asset. Declared decimals must match the registered
	// precision of the asset.
	Transfer(db weave.KVStore, from, to weave.Address, ticker string, amount uint64, decimals uint32, authorizer weave.Address) error

	// RetireAccount deletes an empty account and credits its reserve to
	// the residual destination.
	RetireAccount(db weave.KVStore, account, residualDest, authorizer weave.Address) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	accounts AccountBucket
	reserves ReserveBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given buckets.
func NewController(accounts AccountBucket, reserves ReserveBucket) BaseController {
	return BaseController{
		accounts: accounts,
		reserves: reserves,
	}
}

// Transfer moves the given amount from one account to another. It fails if
// any of the accounts does not exist, holds a different asset, if the
// destination is locked or if the source balance is not sufficient.
func (c BaseController) Transfer(
	db weave.KVStore,
	from, to weave.Address,
	ticker string,
	amount uint64,
	decimals uint32,
	authorizer weave.Address,
) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non positive transfer")
	}
	if from.Equals(to) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same account")
	}

	src, err := c.accounts.Get(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := c.accounts.Get(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}

	if !src.Owner.Equals(authorizer) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the owner of %s", authorizer, from)
	}

	if src.Ticker != ticker {
		return errors.Wrapf(errors.ErrCurrency, "source holds %s, not %s", src.Ticker, ticker)
	}
	if dst.Ticker != ticker {
		return errors.Wrapf(errors.ErrCurrency, "destination holds %s, not %s", dst.Ticker, ticker)
	}
	if dst.Locked {
		return errors.Wrapf(errors.ErrState, "account %s is locked", to)
	}
	registered, err := currency.Decimals(db, ticker)
	if err != nil {
		return errors.Wrap(err, "asset")
	}
	if registered != decimals {
		return errors.Wrapf(errors.ErrInput, "%s uses %d decimals, got %d", ticker, registered, decimals)
	}

	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, want %d", src.Amount, amount)
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	src.Amount -= amount
	dst.Amount += amount

	if err := c.accounts.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.accounts.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

// RetireAccount deletes an account that holds no assets. Its reserve is
// credited to residualDest.
func (c BaseController) RetireAccount(db weave.KVStore, account, residualDest, authorizer weave.Address) error {
	acc, err := c.accounts.Get(db, account)
	if err != nil {
		return err
	}
	if !acc.Owner.Equals(authorizer) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the owner of %s", authorizer, account)
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account holds %d %s", acc.Amount, acc.Ticker)
	}
	if err := residualDest.Validate(); err != nil {
		return errors.Wrap(err, "residual destination")
	}
	if acc.Reserve > 0 {
		if err := c.reserves.Credit(db, residualDest, acc.Reserve); err != nil {
			return errors.Wrap(err, "release reserve")
		}
	}
	if err := c.accounts.Delete(db, account); err != nil {
		return errors.Wrap(err, "delete account")
	}
	return nil
}

// Account returns the account stored under given address.
func (c BaseController) Account(db weave.ReadOnlyKVStore, addr weave.Address) (*Account, error) {
	return c.accounts.Get(db, addr)
}

// ReserveBalance returns the reserve released to given identity so far.
func (c BaseController) ReserveBalance(db weave.ReadOnlyKVStore, addr weave.Address) (uint64, error) {
	return c.reserves.Balance(db, addr)
}
