package currency

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// genesisToken is an entry of the "currencies" genesis section.
type genesisToken struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Decimals uint32 `json:"decimals"`
}

// Initializer registers the genesis currencies.
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

func (*Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var tokens []genesisToken
	if err := opts.ReadOptions("currencies", &tokens); err != nil {
		return errors.Wrapf(errors.ErrInput, "currencies genesis: %s", err)
	}
	bucket := NewTokenInfoBucket()
	for _, t := range tokens {
		info := TokenInfo{
			Metadata: &weave.Metadata{Schema: 1},
			Name:     t.Name,
			Decimals: t.Decimals,
		}
		if err := bucket.Save(db, t.Ticker, &info); err != nil {
			return err
		}
	}
	return nil
}
