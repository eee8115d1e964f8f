package bank

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

const optKey = "bank"

// GenesisAccount is used to parse the json from genesis file.
// Address accepts hex, bech32 and condition notation.
type GenesisAccount struct {
	Address  paystream.Address `json:"address"`
	Lamports uint64            `json:"lamports"`
}

// Genesis is the bank section of the genesis file.
type Genesis struct {
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ paystream.Initializer = Initializer{}

// FromGenesis credits every genesis account.
func (Initializer) FromGenesis(opts paystream.Options, kv paystream.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	control := NewController()
	for i, acct := range gen.Accounts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := control.Credit(kv, acct.Address, acct.Lamports); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
