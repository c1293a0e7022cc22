package currency

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
)

// MaxDecimals is the biggest precision an asset can declare.
const MaxDecimals = 18

var (
	isTokenName = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{3,32}$`).MatchString

	// IsTicker returns true if given string is a valid asset identifier.
	IsTicker = regexp.MustCompile(`^[A-Z][A-Z0-9]{2}[A-Z0-9]?$`).MatchString
)

// TokenInfo describes a fungible asset type. It is stored under its ticker.
type TokenInfo struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Name     string          `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Decimals uint32          `protobuf:"varint,3,opt,name=decimals,proto3" json:"decimals,omitempty"`
}

func (m *TokenInfo) Reset()         { *m = TokenInfo{} }
func (m *TokenInfo) String() string { return proto.CompactTextString(m) }
func (*TokenInfo) ProtoMessage()    {}

var _ orm.Model = (*TokenInfo)(nil)

func (t *TokenInfo) Validate() error {
	if err := t.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if !isTokenName(t.Name) {
		return errors.Wrapf(errors.ErrState, "invalid token name %v", t.Name)
	}
	if t.Decimals > MaxDecimals {
		return errors.Wrapf(ErrInvalidDecimals, "%d", t.Decimals)
	}
	return nil
}

// TokenInfoBucket stores TokenInfo instances, using ticker name (currency
// symbol) as the key.
type TokenInfoBucket struct {
	orm.ModelBucket
}

func NewTokenInfoBucket() *TokenInfoBucket {
	return &TokenInfoBucket{
		ModelBucket: orm.NewModelBucket("tokeninfo", &TokenInfo{}),
	}
}

// Register registers this bucket for queries as "/tokens".
func (b *TokenInfoBucket) Register(qr weave.QueryRouter) {
	b.ModelBucket.Register("tokens", qr)
}

// RegisterQuery will register the token info bucket as "/tokens"
func RegisterQuery(qr weave.QueryRouter) {
	NewTokenInfoBucket().Register(qr)
}

// Get returns information about given asset type. ErrNotFound is returned if
// the ticker was never registered.
func (b *TokenInfoBucket) Get(db weave.ReadOnlyKVStore, ticker string) (*TokenInfo, error) {
	var info TokenInfo
	if err := b.One(db, []byte(ticker), &info); err != nil {
		return nil, errors.Wrapf(err, "ticker %q", ticker)
	}
	return &info, nil
}

// Save registers a new asset type. Registering the same ticker twice is not
// allowed.
func (b *TokenInfoBucket) Save(db weave.KVStore, ticker string, info *TokenInfo) error {
	if !IsTicker(ticker) {
		return errors.Wrapf(errors.ErrCurrency, "ticker %q", ticker)
	}
	switch err := b.Has(db, []byte(ticker)); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "ticker %q", ticker)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return b.Put(db, []byte(ticker), info)
}

// Decimals returns the precision declared for given asset type.
func Decimals(db weave.ReadOnlyKVStore, ticker string) (uint32, error) {
	info, err := NewTokenInfoBucket().Get(db, ticker)
	if err != nil {
		return 0, err
	}
	return info.Decimals, nil
}
