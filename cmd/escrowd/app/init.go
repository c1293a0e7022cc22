package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/commands/server"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/currency"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Name is reported by the abci Info call.
const Name = "escrowd"

// GenInitOptions produces the genesis app state for a development chain:
// one currency and one funded account.
//
//	escrowd init [ticker] [owner address]
//
// A new key is generated and printed when no owner is given.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
		if !currency.IsTicker(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
		}
	}

	var owner weave.Address
	if len(args) > 1 {
		addr, err := weave.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		owner = addr
	} else {
		addr, keys, err := GenerateKey()
		if err != nil {
			return nil, err
		}
		owner = addr
		fmt.Println(keys)
	}

	state := map[string]interface{}{
		"currencies": []interface{}{
			map[string]interface{}{"ticker": ticker, "name": ticker, "decimals": 9},
		},
		"cash": []cash.GenesisAccount{
			{
				Address: DevAccountAddress(owner, ticker),
				Owner:   owner,
				Ticker:  ticker,
				Amount:  123456789,
			},
		},
		"escrow": []interface{}{},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot serialize app state: %s", err)
	}
	return raw, nil
}

// DevAccountAddress returns the address of the development account of the
// owner for the given ticker.
func DevAccountAddress(owner weave.Address, ticker string) weave.Address {
	return weave.NewCondition("cash", "dev", append([]byte(ticker+"/"), owner...)).Address()
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	return Application(Name, Stack(options.Metrics), app.TxDecoder, options.DBPath, options.Debug, options.Logger)
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateKey returns the address of a new key together with a json
// representation of the key pair.
func GenerateKey() (weave.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrapf(errors.ErrInput, "cannot serialize keys: %s", err)
	}
	return pubKey.Address(), string(keys), nil
}
