package escrow

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/currency"
)

const optKey = "escrow"

// GenesisEscrow is used to parse the json from genesis file. Each entry
// creates an escrow together with its funded custody account.
type GenesisEscrow struct {
	Maker               weave.Address  `json:"maker"`
	Nonce               uint64         `json:"nonce"`
	Ticker              string         `json:"ticker"`
	Deposit             uint64         `json:"deposit"`
	Deadline            weave.UnixTime `json:"deadline"`
	Beneficiary         weave.Address  `json:"beneficiary"`
	Custody             weave.Address  `json:"custody"`
	Reserve             uint64         `json:"reserve"`
	LegacyCounterTicker string         `json:"legacy_counter_ticker"`
	LegacyReceiveAmount uint64         `json:"legacy_receive_amount"`
}

// Initializer fulfils the InitStater interface to load data from
// the genesis file
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis will parse initial escrow info from genesis and save it to the
// database. The custody account of each escrow is created locked, with the
// derived authority as its owner, so that its balance stays equal to the
// deposit until the execution.
func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var escrows []GenesisEscrow
	if err := opts.ReadOptions(optKey, &escrows); err != nil {
		return err
	}

	bucket := NewBucket()
	accounts := cash.NewAccountBucket()
	for i, g := range escrows {
		if _, err := currency.Decimals(db, g.Ticker); err != nil {
			return errors.Wrapf(err, "escrow #%d", i)
		}
		escrow := &Escrow{
			Metadata:            &weave.Metadata{Schema: 1},
			Nonce:               g.Nonce,
			Maker:               g.Maker,
			Ticker:              g.Ticker,
			LegacyCounterTicker: g.LegacyCounterTicker,
			LegacyReceiveAmount: g.LegacyReceiveAmount,
			Deposit:             g.Deposit,
			Deadline:            g.Deadline,
			Bump:                uint32(CanonicalBump),
			Beneficiary:         g.Beneficiary,
		}
		if err := escrow.Validate(); err != nil {
			return errors.Wrapf(err, "escrow #%d", i)
		}
		key := RecordKey(escrow.Maker, escrow.Nonce)
		switch err := bucket.Has(db, key); {
		case err == nil:
			return errors.Wrapf(errors.ErrDuplicate, "escrow #%d", i)
		case !errors.ErrNotFound.Is(err):
			return err
		}
		if err := bucket.Save(db, escrow); err != nil {
			return errors.Wrapf(err, "escrow #%d", i)
		}

		custody := &cash.Account{
			Metadata: &weave.Metadata{Schema: 1},
			Owner:    escrow.Authority().Address(),
			Ticker:   escrow.Ticker,
			Amount:   escrow.Deposit,
			Reserve:  g.Reserve,
			Locked:   true,
		}
		if err := accounts.Create(db, g.Custody, custody); err != nil {
			return errors.Wrapf(err, "escrow #%d custody", i)
		}
	}
	return nil
}
