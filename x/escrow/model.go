package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
	"github.com/iov-one/escrowd/x/currency"
)

// Escrow is the state of a single escrow, stored under RecordKey.
type Escrow struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Nonce distinguishes escrows created by the same maker.
	Nonce uint64        `protobuf:"varint,2,opt,name=nonce,proto3" json:"nonce,omitempty"`
	Maker weave.Address `protobuf:"bytes,3,opt,name=maker,proto3" json:"maker,omitempty"`
	// Ticker is the asset held in custody.
	Ticker string `protobuf:"bytes,4,opt,name=ticker,proto3" json:"ticker,omitempty"`
	// Legacy fields are stored but never used.
	LegacyCounterTicker string `protobuf:"bytes,5,opt,name=legacy_counter_ticker,json=legacyCounterTicker,proto3" json:"legacy_counter_ticker,omitempty"`
	LegacyReceiveAmount uint64 `protobuf:"varint,6,opt,name=legacy_receive_amount,json=legacyReceiveAmount,proto3" json:"legacy_receive_amount,omitempty"`
	// Deposit is the amount held by the custody account until execution.
	Deposit        uint64         `protobuf:"varint,7,opt,name=deposit,proto3" json:"deposit,omitempty"`
	BuyerConfirmed bool           `protobuf:"varint,8,opt,name=buyer_confirmed,json=buyerConfirmed,proto3" json:"buyer_confirmed,omitempty"`
	Deadline       weave.UnixTime `protobuf:"varint,9,opt,name=deadline,proto3" json:"deadline,omitempty"`
	Executed       bool           `protobuf:"varint,10,opt,name=executed,proto3" json:"executed,omitempty"`
	Bump           uint32         `protobuf:"varint,11,opt,name=bump,proto3" json:"bump,omitempty"`
	// Beneficiary, when set, must own the account the deposit is released
	// to. An empty value accepts any account holding the asset.
	Beneficiary weave.Address `protobuf:"bytes,12,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
}

func (m *Escrow) Reset()         { *m = Escrow{} }
func (m *Escrow) String() string { return proto.CompactTextString(m) }
func (*Escrow) ProtoMessage()    {}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if !currency.IsTicker(e.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", e.Ticker)
	}
	if e.Deposit == 0 {
		return errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}
	if e.Deadline == 0 {
		// Zero deadline is a valid value that dates to 1970-01-01. Most
		// likely value was not provided and a zero value remained.
		return errors.Wrap(errors.ErrInput, "deadline is required")
	}
	if err := e.Deadline.Validate(); err != nil {
		return errors.Wrap(err, "invalid deadline value")
	}
	if e.Bump > 255 {
		return errors.Wrapf(errors.ErrInput, "bump %d out of range", e.Bump)
	}
	if len(e.Beneficiary) != 0 {
		if err := e.Beneficiary.Validate(); err != nil {
			return errors.Wrap(err, "beneficiary")
		}
	}
	return nil
}

// Bucket is a type-safe wrapper around orm.ModelBucket
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for escrows. Keys are created with RecordKey so
// a prefix query with the maker address returns all escrows of that maker.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket("escrow", &Escrow{}),
	}
}

// Get loads the escrow stored under given key. ErrNotFound is returned if it
// does not exist.
func (b Bucket) Get(db weave.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var e Escrow
	if err := b.One(db, id, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %X", id)
	}
	return &e, nil
}

// Save stores the escrow under the key derived from its maker and nonce.
func (b Bucket) Save(db weave.KVStore, e *Escrow) error {
	return b.Put(db, RecordKey(e.Maker, e.Nonce), e)
}
