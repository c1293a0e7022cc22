package cash

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// GenesisAccount is an account of the "cash" genesis section. Addresses
// are written in hex.
type GenesisAccount struct {
	Address weave.Address `json:"address"`
	Owner   weave.Address `json:"owner"`
	Ticker  string        `json:"ticker"`
	Amount  uint64        `json:"amount"`
	Reserve uint64        `json:"reserve"`
}

// Initializer creates the genesis accounts.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cash genesis: %s", err)
	}
	bucket := NewAccountBucket()
	for i, a := range accounts {
		acc := Account{
			Metadata: &weave.Metadata{Schema: 1},
			Owner:    a.Owner,
			Ticker:   a.Ticker,
			Amount:   a.Amount,
			Reserve:  a.Reserve,
		}
		if err := bucket.Create(db, a.Address, &acc); err != nil {
			return errors.Wrapf(err, "cash account %d", i)
		}
	}
	return nil
}
