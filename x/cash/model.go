package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
	"github.com/iov-one/escrowd/x/currency"
)

const (
	// AccountBucketName is where we store the holding accounts
	AccountBucketName = "cash"
	// ReserveBucketName is where we store the released reserves
	ReserveBucketName = "reserve"
)

// Account is a holding account of a single asset type.
type Account struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner is the only address that can authorize moving funds out of
	// this account or retiring it.
	Owner  weave.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	Ticker string        `protobuf:"bytes,3,opt,name=ticker,proto3" json:"ticker,omitempty"`
	Amount uint64        `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
	// Reserve is the native balance locked by the account existence. It is
	// released when the account is retired.
	Reserve uint64 `protobuf:"varint,5,opt,name=reserve,proto3" json:"reserve,omitempty"`
	// Locked accounts accept no incoming transfers. Their balance only
	// changes when the owner moves funds out.
	Locked bool `protobuf:"varint,6,opt,name=locked,proto3" json:"locked,omitempty"`
}

func (m *Account) Reset()         { *m = Account{} }
func (m *Account) String() string { return proto.CompactTextString(m) }
func (*Account) ProtoMessage()    {}

var _ orm.Model = (*Account)(nil)

// Validate ensures the account is well formed.
func (a *Account) Validate() error {
	if err := a.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if !currency.IsTicker(a.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", a.Ticker)
	}
	return nil
}

// Reserve is the native balance released to an identity by retired
// accounts.
type Reserve struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Amount   uint64          `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Reserve) Reset()         { *m = Reserve{} }
func (m *Reserve) String() string { return proto.CompactTextString(m) }
func (*Reserve) ProtoMessage()    {}

var _ orm.Model = (*Reserve)(nil)

func (r *Reserve) Validate() error {
	return errors.Wrap(r.Metadata.Validate(), "metadata")
}

// AccountBucket is a type-safe wrapper around orm.ModelBucket
type AccountBucket struct {
	orm.ModelBucket
}

// NewAccountBucket initializes an AccountBucket with default name
func NewAccountBucket() AccountBucket {
	return AccountBucket{
		ModelBucket: orm.NewModelBucket(AccountBucketName, &Account{}),
	}
}

// Get returns the account stored under given address or ErrNotFound.
func (b AccountBucket) Get(db weave.ReadOnlyKVStore, addr weave.Address) (*Account, error) {
	var acc Account
	if err := b.One(db, addr, &acc); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &acc, nil
}

// Create stores a new account. It fails with ErrDuplicate if an account
// with that address already exists.
func (b AccountBucket) Create(db weave.KVStore, addr weave.Address, acc *Account) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "account address")
	}
	switch err := b.Has(db, addr); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return b.Put(db, addr, acc)
}

// ReserveBucket is a type-safe wrapper around orm.ModelBucket
type ReserveBucket struct {
	orm.ModelBucket
}

// NewReserveBucket initializes a ReserveBucket with default name
func NewReserveBucket() ReserveBucket {
	return ReserveBucket{
		ModelBucket: orm.NewModelBucket(ReserveBucketName, &Reserve{}),
	}
}

// Balance returns the reserve balance of given identity. Unknown identities
// have a zero balance.
func (b ReserveBucket) Balance(db weave.ReadOnlyKVStore, addr weave.Address) (uint64, error) {
	var r Reserve
	switch err := b.One(db, addr, &r); {
	case err == nil:
		return r.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Credit adds given amount to the reserve balance of an identity.
func (b ReserveBucket) Credit(db weave.KVStore, addr weave.Address, amount uint64) error {
	balance, err := b.Balance(db, addr)
	if err != nil {
		return err
	}
	total := balance + amount
	if total < balance {
		return errors.Wrap(errors.ErrOverflow, "reserve balance")
	}
	r := Reserve{
		Metadata: &weave.Metadata{Schema: 1},
		Amount:   total,
	}
	return b.Put(db, addr, &r)
}
