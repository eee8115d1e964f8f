package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/paystream/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// appStateKey is the genesis document field holding the application
	// state.
	appStateKey = "app_state"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

// InitCmd will add the app_state to the genesis file created by
// `tendermint init`. The application passes in a function to generate
// proper state.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := filepath.Join(home, "config", "genesis.json")
	state, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "generate app state")
	}
	if err := addGenesisOptions(genFile, state); err != nil {
		return err
	}
	logger.Info("App state written to genesis", "path", genFile)
	return nil
}

func addGenesisOptions(filename string, state json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read genesis, run `tendermint init` first")
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if _, ok := doc[appStateKey]; ok {
		return errors.Wrap(errors.ErrAlreadyRegistered, fmt.Sprintf("%s in %s", appStateKey, filename))
	}

	doc[appStateKey] = state
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}
