package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Genesis holds the fields of a tendermint genesis file read by the
// application. Everything else in the file is ignored.
type Genesis struct {
	ChainID  string        `json:"chain_id"`
	AppState weave.Options `json:"app_state"`
}

func LoadGenesis(path string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "genesis file")
	}
	gen := new(Genesis)
	if err := json.Unmarshal(raw, gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	return gen, nil
}

// ChainInitializers runs every initializer against the same options, in
// the given order. The first failure aborts the genesis.
func ChainInitializers(inits ...weave.Initializer) weave.Initializer {
	return initializers(inits)
}

type initializers []weave.Initializer

func (all initializers) FromGenesis(opts weave.Options, db weave.KVStore) error {
	for _, ini := range all {
		if err := ini.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}

// Keys under the "_wv:" prefix belong to the application itself and
// never collide with a bucket name.
var chainIDKey = []byte("_wv:chainID")

func loadChainID(db weave.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID writes the chain id exactly once.
func saveChainID(db weave.KVStore, id string) error {
	if !weave.IsValidChainID(id) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", id)
	}
	switch ok, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case ok:
		return errors.Wrap(errors.ErrImmutable, "chain id already set")
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(id)), "save chain id")
}
