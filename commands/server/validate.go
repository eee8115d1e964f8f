package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/store"
)

// ValidateGenesis loads the app_state of every given genesis file into an
// in memory store and returns the first error.
func ValidateGenesis(ini paystream.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrEmpty, "usage: validate <genesis.json>...")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini paystream.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}

	var genesis struct {
		State paystream.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
