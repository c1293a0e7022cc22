package cash

import (
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/iov-one/escrowd/weavetest/assert"
	"github.com/iov-one/escrowd/x/currency"
)

// newTestStore returns a store with IOV (9 decimals) and ETH (18 decimals)
// registered.
func newTestStore(t testing.TB) weave.CacheableKVStore {
	t.Helper()
	db := store.MemStore()
	tokens := currency.NewTokenInfoBucket()
	for ticker, dec := range map[string]uint32{"IOV": 9, "ETH": 18} {
		info := &currency.TokenInfo{Metadata: &weave.Metadata{Schema: 1}, Name: ticker + " token", Decimals: dec}
		if err := tokens.Save(db, ticker, info); err != nil {
			t.Fatalf("cannot register %s: %s", ticker, err)
		}
	}
	return db
}

func createAccount(t testing.TB, db weave.KVStore, owner weave.Address, ticker string, amount, reserve uint64) weave.Address {
	t.Helper()
	addr := weavetest.RandomAddr(t)
	acc := &Account{
		Metadata: &weave.Metadata{Schema: 1},
		Owner:    owner,
		Ticker:   ticker,
		Amount:   amount,
		Reserve:  reserve,
	}
	if err := NewAccountBucket().Create(db, addr, acc); err != nil {
		t.Fatalf("cannot create account: %s", err)
	}
	return addr
}

func lock(t testing.TB, db weave.KVStore, addr weave.Address) {
	t.Helper()
	bucket := NewAccountBucket()
	acc, err := bucket.Get(db, addr)
	if err != nil {
		t.Fatalf("cannot load account: %s", err)
	}
	acc.Locked = true
	if err := bucket.Put(db, addr, acc); err != nil {
		t.Fatalf("cannot lock account: %s", err)
	}
}

func TestTransfer(t *testing.T) {
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	cases := map[string]struct {
		amount      uint64
		ticker      string
		decimals    uint32
		authorizer  func(owner weave.Address) weave.Address
		srcTicker   string
		dstTicker   string
		srcAmount   uint64
		dstAmount   uint64
		missingDest bool
		srcLocked   bool
		dstLocked   bool
		wantErr     *errors.Error
		wantSrc     uint64
		wantDst     uint64
	}{
		"move everything": {
			amount: 1000, ticker: "IOV", decimals: 9,
			srcTicker: "IOV", dstTicker: "IOV", srcAmount: 1000, dstAmount: 5,
			wantSrc: 0, wantDst: 1005,
		},
		"move part": {
			amount: 400, ticker: "IOV", decimals: 9,
			srcTicker: "IOV", dstTicker: "IOV", srcAmount: 1000,
			wantSrc: 600, wantDst: 400,
		},
		"wrong authorizer": {
			amount: 1, ticker: "IOV", decimals: 9,
			authorizer: func(weave.Address) weave.Address { return bob },
			srcTicker:  "IOV", dstTicker: "IOV", srcAmount: 1000,
			wantErr: errors.ErrUnauthorized, wantSrc: 1000,
		},
		"zero amount": {
			amount: 0, ticker: "IOV", decimals: 9,
			srcTicker: "IOV", dstTicker: "IOV", srcAmount: 1000,
			wantErr: errors.ErrAmount, wantSrc: 1000,
		},
		"insufficient balance": {
			amount: 1001, ticker: "IOV", decimals: 9,
			srcTicker: "IOV", dstTicker: "IOV", srcAmount: 1000,
			wantErr: errors.ErrInsufficientAmount, wantSrc: 1000,
		},
		"source holds other asset": {
			amount: 1, ticker: "IOV", decimals: 9,
			srcTicker: "ETH", dstTicker: "IOV", srcAmount: 1000,
			wantErr: errors.ErrCurrency, wantSrc: 1000,
		},
		"destination holds other asset": {
			amount: 1, ticker: "IOV", decimals: 9,
			srcTicker: "IOV", dstTicker: "ETH", srcAmount: 1000,
			wantErr: errors.ErrCurrency, wantSrc: 1000,
		},
		"decimals mismatch": {
			amount: 1, ticker: "IOV", decimals: 18,
			srcTicker: "IOV", dstTicker: "IOV", srcAmount: 1000,
			wantErr: errors.ErrInput, wantSrc: 1000,
		},
		"missing destination": {
			amount: 1, ticker: "IOV", decimals: 9,
			srcTicker: "IOV", srcAmount: 1000, missingDest: true,
			wantErr: errors.ErrNotFound, wantSrc: 1000,
		},
		"locked destination": {
			amount: 1, ticker: "IOV", decimals: 9,
			srcTicker: "IOV", dstTicker: "IOV", srcAmount: 1000, dstAmount: 1000,
			dstLocked: true,
			wantErr:   errors.ErrState, wantSrc: 1000, wantDst: 1000,
		},
		"locked source pays out": {
			amount: 1000, ticker: "IOV", decimals: 9,
			srcTicker: "IOV", dstTicker: "IOV", srcAmount: 1000,
			srcLocked: true,
			wantSrc:   0, wantDst: 1000,
		},
		"destination overflow": {
			amount: 2, ticker: "IOV", decimals: 9,
			srcTicker: "IOV", dstTicker: "IOV", srcAmount: 10, dstAmount: ^uint64(0) - 1,
			wantErr: errors.ErrOverflow, wantSrc: 10, wantDst: ^uint64(0) - 1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTestStore(t)
			ctrl := NewController(NewAccountBucket(), NewReserveBucket())

			src := createAccount(t, db, alice, tc.srcTicker, tc.srcAmount, 0)
			var dst weave.Address
			if tc.missingDest {
				dst = weavetest.RandomAddr(t)
			} else {
				dst = createAccount(t, db, bob, tc.dstTicker, tc.dstAmount, 0)
			}
			if tc.srcLocked {
				lock(t, db, src)
			}
			if tc.dstLocked {
				lock(t, db, dst)
			}

			authorizer := alice
			if tc.authorizer != nil {
				authorizer = tc.authorizer(alice)
			}

			err := ctrl.Transfer(db, src, dst, tc.ticker, tc.amount, tc.decimals, authorizer)
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}

			got, err := ctrl.Account(db, src)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantSrc, got.Amount)
			if !tc.missingDest {
				got, err := ctrl.Account(db, dst)
				assert.Nil(t, err)
				assert.Equal(t, tc.wantDst, got.Amount)
			}
		})
	}
}

func TestTransferToSelf(t *testing.T) {
	db := newTestStore(t)
	ctrl := NewController(NewAccountBucket(), NewReserveBucket())
	owner := weavetest.NewCondition().Address()
	acc := createAccount(t, db, owner, "IOV", 10, 0)

	err := ctrl.Transfer(db, acc, acc, "IOV", 5, 9, owner)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestRetireAccount(t *testing.T) {
	owner := weavetest.NewCondition().Address()
	maker := weavetest.NewCondition().Address()

	cases := map[string]struct {
		amount      uint64
		reserve     uint64
		prevReserve uint64
		authorizer  weave.Address
		wantErr     *errors.Error
		wantReserve uint64
	}{
		"empty account is retired": {
			reserve:     2039280,
			authorizer:  owner,
			wantReserve: 2039280,
		},
		"reserve is added to existing balance": {
			reserve:     100,
			prevReserve: 50,
			authorizer:  owner,
			wantReserve: 150,
		},
		"no reserve": {
			authorizer: owner,
		},
		"non empty account": {
			amount:     1,
			reserve:    100,
			authorizer: owner,
			wantErr:    errors.ErrState,
		},
		"not the owner": {
			reserve:    100,
			authorizer: maker,
			wantErr:    errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTestStore(t)
			ctrl := NewController(NewAccountBucket(), NewReserveBucket())
			if tc.prevReserve > 0 {
				assert.Nil(t, NewReserveBucket().Credit(db, maker, tc.prevReserve))
			}
			acc := createAccount(t, db, owner, "IOV", tc.amount, tc.reserve)

			err := ctrl.RetireAccount(db, acc, maker, tc.authorizer)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				_, err := ctrl.Account(db, acc)
				assert.Nil(t, err)
				return
			}
			assert.Nil(t, err)

			_, err = ctrl.Account(db, acc)
			assert.IsErr(t, errors.ErrNotFound, err)
			balance, err := ctrl.ReserveBalance(db, maker)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantReserve, balance)
		})
	}
}

func TestRetireMissingAccount(t *testing.T) {
	db := newTestStore(t)
	ctrl := NewController(NewAccountBucket(), NewReserveBucket())
	owner := weavetest.NewCondition().Address()

	err := ctrl.RetireAccount(db, weavetest.RandomAddr(t), owner, owner)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestCreateDuplicatedAccount(t *testing.T) {
	db := newTestStore(t)
	owner := weavetest.NewCondition().Address()
	addr := createAccount(t, db, owner, "IOV", 1, 0)

	acc := &Account{Metadata: &weave.Metadata{Schema: 1}, Owner: owner, Ticker: "IOV"}
	err := NewAccountBucket().Create(db, addr, acc)
	assert.IsErr(t, errors.ErrDuplicate, err)
}
