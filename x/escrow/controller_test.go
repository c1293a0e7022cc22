package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/iov-one/escrowd/weavetest/assert"
	"github.com/iov-one/escrowd/x"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/currency"
)

const (
	deadline   weave.UnixTime = 1600000000
	deposit    uint64         = 1000
	rentAmount uint64         = 2039280
)

// fixture is a store with a single escrow of 1000 IOV and all the accounts
// required to execute it.
type fixture struct {
	db          weave.CacheableKVStore
	bank        cash.BaseController
	ctrl        Controller
	maker       weave.Condition
	beneficiary weave.Condition
	keeper      weave.Condition
	escrowID    []byte
	custody     weave.Address
	makerAcc    weave.Address
	benefAcc    weave.Address
}

type fixtureOpt func(*Escrow)

func newFixture(t testing.TB, opts ...fixtureOpt) *fixture {
	t.Helper()

	f := &fixture{
		db:          store.MemStore(),
		bank:        cash.NewController(cash.NewAccountBucket(), cash.NewReserveBucket()),
		maker:       weavetest.NewCondition(),
		beneficiary: weavetest.NewCondition(),
		keeper:      weavetest.NewCondition(),
	}
	f.ctrl = NewController(NewBucket(), f.bank)

	info := &currency.TokenInfo{Metadata: &weave.Metadata{Schema: 1}, Name: "IOV token", Decimals: 9}
	if err := currency.NewTokenInfoBucket().Save(f.db, "IOV", info); err != nil {
		t.Fatalf("cannot register currency: %s", err)
	}

	escrow := &Escrow{
		Metadata: &weave.Metadata{Schema: 1},
		Nonce:    7,
		Maker:    f.maker.Address(),
		Ticker:   "IOV",
		Deposit:  deposit,
		Deadline: deadline,
		Bump:     uint32(CanonicalBump),
	}
	for _, fn := range opts {
		fn(escrow)
	}
	if err := NewBucket().Save(f.db, escrow); err != nil {
		t.Fatalf("cannot save escrow: %s", err)
	}
	f.escrowID = RecordKey(escrow.Maker, escrow.Nonce)

	f.custody = f.createAccount(t, Authority(f.maker.Address(), 7, CanonicalBump).Address(), deposit, rentAmount)
	custody, err := f.bank.Account(f.db, f.custody)
	assert.Nil(t, err)
	custody.Locked = true
	assert.Nil(t, cash.NewAccountBucket().Put(f.db, f.custody, custody))
	f.makerAcc = f.createAccount(t, f.maker.Address(), 0, 0)
	f.benefAcc = f.createAccount(t, f.beneficiary.Address(), 0, 0)
	return f
}

func (f *fixture) createAccount(t testing.TB, owner weave.Address, amount, reserve uint64) weave.Address {
	t.Helper()
	addr := weavetest.RandomAddr(t)
	acc := &cash.Account{
		Metadata: &weave.Metadata{Schema: 1},
		Owner:    owner,
		Ticker:   "IOV",
		Amount:   amount,
		Reserve:  reserve,
	}
	if err := cash.NewAccountBucket().Create(f.db, addr, acc); err != nil {
		t.Fatalf("cannot create account: %s", err)
	}
	return addr
}

func (f *fixture) request() ExecuteRequest {
	return ExecuteRequest{
		EscrowID:    f.escrowID,
		Custody:     f.custody,
		Ticker:      "IOV",
		Beneficiary: f.benefAcc,
		Refund:      f.makerAcc,
	}
}

func (f *fixture) escrow(t testing.TB) *Escrow {
	t.Helper()
	e, err := NewBucket().Get(f.db, f.escrowID)
	assert.Nil(t, err)
	return e
}

func (f *fixture) balance(t testing.TB, addr weave.Address) uint64 {
	t.Helper()
	acc, err := f.bank.Account(f.db, addr)
	assert.Nil(t, err)
	return acc.Amount
}

func (f *fixture) confirm(t testing.TB) {
	t.Helper()
	owner, err := x.RequireOwner(context.Background(), &weavetest.Auth{Signer: f.maker}, f.maker.Address())
	assert.Nil(t, err)
	_, err = f.ctrl.ConfirmDelivery(f.db, owner, f.escrowID)
	assert.Nil(t, err)
}

func (f *fixture) execute(now weave.UnixTime) (*Execution, error) {
	ctx := weave.WithBlockTime(context.Background(), now.Time())
	trigger := x.AnyTrigger(ctx, &weavetest.Auth{Signer: f.keeper})
	return f.ctrl.CheckAndExecute(ctx, f.db, trigger, f.request())
}

func confirmed(e *Escrow) { e.BuyerConfirmed = true }

func TestExecuteBeforeDeadlineIsNotReady(t *testing.T) {
	for _, now := range []weave.UnixTime{deadline - 1, deadline} {
		f := newFixture(t)
		before := f.escrow(t)

		_, err := f.execute(now)
		assert.IsErr(t, ErrNotReady, err)

		assert.Equal(t, before, f.escrow(t))
		assert.Equal(t, deposit, f.balance(t, f.custody))
		assert.Equal(t, uint64(0), f.balance(t, f.makerAcc))
		assert.Equal(t, uint64(0), f.balance(t, f.benefAcc))
	}
}

func TestExecuteAfterDeadlineRefunds(t *testing.T) {
	f := newFixture(t)

	res, err := f.execute(deadline + 1)
	assert.Nil(t, err)
	assert.Equal(t, Refund, res.Branch)
	assert.Equal(t, f.makerAcc, res.Destination)
	assert.Equal(t, deposit, res.Amount)

	assert.Equal(t, deposit, f.balance(t, f.makerAcc))
	assert.Equal(t, uint64(0), f.balance(t, f.benefAcc))
	_, err = f.bank.Account(f.db, f.custody)
	assert.IsErr(t, errors.ErrNotFound, err)
	rent, err := f.bank.ReserveBalance(f.db, f.maker.Address())
	assert.Nil(t, err)
	assert.Equal(t, rentAmount, rent)
	assert.Equal(t, true, f.escrow(t).Executed)
}

func TestExecuteConfirmedReleasesBeforeDeadline(t *testing.T) {
	f := newFixture(t, confirmed)

	res, err := f.execute(deadline - 100)
	assert.Nil(t, err)
	assert.Equal(t, Release, res.Branch)
	assert.Equal(t, f.benefAcc, res.Destination)

	assert.Equal(t, deposit, f.balance(t, f.benefAcc))
	assert.Equal(t, uint64(0), f.balance(t, f.makerAcc))
	_, err = f.bank.Account(f.db, f.custody)
	assert.IsErr(t, errors.ErrNotFound, err)
	rent, err := f.bank.ReserveBalance(f.db, f.maker.Address())
	assert.Nil(t, err)
	assert.Equal(t, rentAmount, rent)
	assert.Equal(t, true, f.escrow(t).Executed)
}

func TestExecuteTwiceFails(t *testing.T) {
	f := newFixture(t, confirmed)

	_, err := f.execute(deadline - 100)
	assert.Nil(t, err)
	executed := f.escrow(t)

	_, err = f.execute(deadline - 99)
	assert.IsErr(t, ErrAlreadyExecuted, err)
	_, err = f.execute(deadline + 1000)
	assert.IsErr(t, ErrAlreadyExecuted, err)

	assert.Equal(t, executed, f.escrow(t))
	assert.Equal(t, deposit, f.balance(t, f.benefAcc))
	rent, err := f.bank.ReserveBalance(f.db, f.maker.Address())
	assert.Nil(t, err)
	assert.Equal(t, rentAmount, rent)
}

func TestLateConfirmationOverridesDeadline(t *testing.T) {
	f := newFixture(t)

	// Confirmation after the deadline is still accepted.
	f.confirm(t)
	assert.Equal(t, true, f.escrow(t).BuyerConfirmed)

	res, err := f.execute(deadline + 6)
	assert.Nil(t, err)
	assert.Equal(t, Release, res.Branch)
	assert.Equal(t, deposit, f.balance(t, f.benefAcc))
	assert.Equal(t, uint64(0), f.balance(t, f.makerAcc))
}

func TestExecuteWithoutBlockTime(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.CheckAndExecute(context.Background(), f.db, x.TriggerCapability{}, f.request())
	assert.IsErr(t, errors.ErrHuman, err)
	assert.Equal(t, false, f.escrow(t).Executed)
}

func TestConfirmDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("only the maker", func(t *testing.T) {
		f := newFixture(t)
		intruder, err := x.RequireOwner(ctx, &weavetest.Auth{Signer: f.keeper}, f.keeper.Address())
		assert.Nil(t, err)
		before := f.escrow(t)

		_, err = f.ctrl.ConfirmDelivery(f.db, intruder, f.escrowID)
		assert.IsErr(t, errors.ErrUnauthorized, err)
		_, err = f.ctrl.ConfirmDelivery(f.db, x.OwnerCapability{}, f.escrowID)
		assert.IsErr(t, errors.ErrUnauthorized, err)
		assert.Equal(t, before, f.escrow(t))
	})

	t.Run("idempotent", func(t *testing.T) {
		f := newFixture(t)
		f.confirm(t)
		first := f.escrow(t)
		f.confirm(t)
		assert.Equal(t, first, f.escrow(t))
		assert.Equal(t, true, first.BuyerConfirmed)
	})

	t.Run("executed escrow", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.execute(deadline + 1)
		assert.Nil(t, err)

		owner, err := x.RequireOwner(ctx, &weavetest.Auth{Signer: f.maker}, f.maker.Address())
		assert.Nil(t, err)
		_, err = f.ctrl.ConfirmDelivery(f.db, owner, f.escrowID)
		assert.IsErr(t, ErrAlreadyExecuted, err)
		assert.Equal(t, false, f.escrow(t).BuyerConfirmed)
	})

	t.Run("unknown escrow", func(t *testing.T) {
		f := newFixture(t)
		owner, err := x.RequireOwner(ctx, &weavetest.Auth{Signer: f.maker}, f.maker.Address())
		assert.Nil(t, err)
		_, err = f.ctrl.ConfirmDelivery(f.db, owner, RecordKey(f.maker.Address(), 8))
		assert.IsErr(t, errors.ErrNotFound, err)
	})
}

func TestExecuteValidatesAccounts(t *testing.T) {
	cases := map[string]struct {
		opts    []fixtureOpt
		modify  func(testing.TB, *fixture, *ExecuteRequest)
		wantErr *errors.Error
	}{
		"wrong ticker": {
			modify:  func(t testing.TB, f *fixture, r *ExecuteRequest) { r.Ticker = "ETH" },
			wantErr: errors.ErrCurrency,
		},
		"refund account not owned by the maker": {
			modify:  func(t testing.TB, f *fixture, r *ExecuteRequest) { r.Refund = f.benefAcc },
			wantErr: errors.ErrInput,
		},
		"missing custody": {
			modify:  func(t testing.TB, f *fixture, r *ExecuteRequest) { r.Custody = weavetest.RandomAddr(t) },
			wantErr: errors.ErrNotFound,
		},
		"missing beneficiary": {
			opts:    []fixtureOpt{confirmed},
			modify:  func(t testing.TB, f *fixture, r *ExecuteRequest) { r.Beneficiary = weavetest.RandomAddr(t) },
			wantErr: errors.ErrNotFound,
		},
		"custody that is not owned by the authority": {
			opts:    []fixtureOpt{confirmed},
			modify:  func(t testing.TB, f *fixture, r *ExecuteRequest) { r.Custody = f.makerAcc },
			wantErr: errors.ErrUnauthorized,
		},
		"bound beneficiary mismatch": {
			opts: []fixtureOpt{confirmed, func(e *Escrow) {
				e.Beneficiary = weavetest.NewCondition().Address()
			}},
			wantErr: errors.ErrInput,
		},
		"unbound beneficiary accepts any account": {
			opts: []fixtureOpt{confirmed},
			modify: func(t testing.TB, f *fixture, r *ExecuteRequest) {
				r.Beneficiary = f.createAccount(t, f.keeper.Address(), 0, 0)
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, tc.opts...)
			req := f.request()
			if tc.modify != nil {
				tc.modify(t, f, &req)
			}
			before := f.escrow(t)

			ctx := weave.WithBlockTime(context.Background(), (deadline + 1).Time())
			_, err := f.ctrl.CheckAndExecute(ctx, f.db, x.TriggerCapability{}, req)
			if tc.wantErr == nil {
				assert.Nil(t, err)
				assert.Equal(t, true, f.escrow(t).Executed)
				return
			}
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, before, f.escrow(t))
			assert.Equal(t, deposit, f.balance(t, f.custody))
		})
	}
}

func TestBoundBeneficiaryReceivesRelease(t *testing.T) {
	f := newFixture(t, confirmed)
	escrow := f.escrow(t)
	escrow.Beneficiary = f.beneficiary.Address()
	assert.Nil(t, NewBucket().Save(f.db, escrow))

	res, err := f.execute(deadline - 1)
	assert.Nil(t, err)
	assert.Equal(t, f.benefAcc, res.Destination)
	assert.Equal(t, deposit, f.balance(t, f.benefAcc))
}

func TestTamperedAuthorityIsRejected(t *testing.T) {
	cases := map[string]func(*Escrow){
		"bump":  func(e *Escrow) { e.Bump = uint32(CanonicalBump) - 1 },
		"nonce": func(e *Escrow) { e.Nonce++ },
	}
	for testName, tamper := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, confirmed)
			escrow := f.escrow(t)
			assert.Nil(t, NewBucket().Delete(f.db, f.escrowID))
			tamper(escrow)
			assert.Nil(t, NewBucket().Save(f.db, escrow))
			f.escrowID = RecordKey(escrow.Maker, escrow.Nonce)

			_, err := f.execute(deadline - 1)
			assert.IsErr(t, errors.ErrUnauthorized, err)
			assert.Equal(t, false, f.escrow(t).Executed)
			assert.Equal(t, deposit, f.balance(t, f.custody))
			assert.Equal(t, uint64(0), f.balance(t, f.benefAcc))
		})
	}
}

func TestFailedExecutionIsDiscarded(t *testing.T) {
	f := newFixture(t, confirmed)
	// Transfers cannot credit a locked custody, so the surplus is written
	// directly. The deposit transfer succeeds but the custody account
	// cannot be retired.
	acc, err := f.bank.Account(f.db, f.custody)
	assert.Nil(t, err)
	acc.Amount = deposit + 1
	assert.Nil(t, cash.NewAccountBucket().Put(f.db, f.custody, acc))

	cache := f.db.CacheWrap()
	ctx := weave.WithBlockTime(context.Background(), (deadline - 1).Time())
	_, err = f.ctrl.CheckAndExecute(ctx, cache, x.TriggerCapability{}, f.request())
	assert.IsErr(t, errors.ErrState, err)
	cache.Discard()

	assert.Equal(t, false, f.escrow(t).Executed)
	assert.Equal(t, deposit+1, f.balance(t, f.custody))
	assert.Equal(t, uint64(0), f.balance(t, f.benefAcc))
}

func TestDepositIntoCustodyIsRejected(t *testing.T) {
	cases := map[string]struct {
		opts       []fixtureOpt
		now        weave.UnixTime
		wantBranch Branch
	}{
		"refund":  {now: deadline + 1, wantBranch: Refund},
		"release": {opts: []fixtureOpt{confirmed}, now: deadline - 1, wantBranch: Release},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, tc.opts...)
			outsider := weavetest.NewCondition().Address()
			src := f.createAccount(t, outsider, 5, 0)

			err := f.bank.Transfer(f.db, src, f.custody, "IOV", 1, 9, outsider)
			assert.IsErr(t, errors.ErrState, err)
			assert.Equal(t, deposit, f.balance(t, f.custody))
			assert.Equal(t, uint64(5), f.balance(t, src))

			res, err := f.execute(tc.now)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBranch, res.Branch)
			assert.Equal(t, deposit, res.Amount)
			assert.Equal(t, true, f.escrow(t).Executed)
		})
	}
}

func TestConservation(t *testing.T) {
	for _, opts := range [][]fixtureOpt{nil, {confirmed}} {
		f := newFixture(t, opts...)
		total := f.balance(t, f.custody) + f.balance(t, f.makerAcc) + f.balance(t, f.benefAcc)

		_, err := f.execute(deadline + 1)
		assert.Nil(t, err)

		after := f.balance(t, f.makerAcc) + f.balance(t, f.benefAcc)
		assert.Equal(t, total, after)
		assert.Equal(t, deposit, after)
	}
}
