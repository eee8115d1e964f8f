package paystreamd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/commands/server"
	"github.com/iov-one/paystream/crypto"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/x/bank"
	"github.com/iov-one/paystream/x/registry"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// defaultLamports is given to the dev account created by init.
const defaultLamports = 1000000000000

type genesisConf struct {
	Registry registry.Configuration `json:"registry"`
}

type appState struct {
	Conf genesisConf  `json:"conf"`
	Bank bank.Genesis `json:"bank"`
}

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// An address may be given as the first argument, otherwise a new key is
// generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr paystream.Address
	if len(args) > 0 {
		a, err := paystream.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "address")
		}
		if err := a.Validate(); err != nil {
			return nil, errors.Wrap(err, "address")
		}
		addr = a
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		a, keys, err := GenerateKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	state := appState{
		Conf: genesisConf{Registry: registry.DefaultConfiguration()},
		Bank: bank.Genesis{
			Accounts: []bank.GenesisAccount{
				{Address: addr, Lamports: defaultLamports},
			},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, store server.StoreFlags, logger log.Logger, debug bool) (abci.Application, error) {
	opts := StoreOptions{
		Kind:   store.Kind,
		DBPath: DBPath(home),
		DSN:    store.DSN,
	}
	kv, err := CommitKVStore(context.Background(), opts)
	if err != nil {
		return nil, err
	}
	application := Application("paystreamd", Stack(), TxDecoder, kv, debug)
	application.WithLogger(logger)
	return application, nil
}

// DBPath returns the location of the iavl database under given home.
func DBPath(home string) string {
	// db goes in a subdir, but "" -> "" for memdb
	if home == "" {
		return ""
	}
	return filepath.Join(home, "paystream.db")
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateKey returns the address of a new public key, along with a json
// representation of the keys. You can give lamports to this address and
// import the keys in a client to use them.
func GenerateKey() (paystream.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return pubKey.Address(), string(keys), nil
}
