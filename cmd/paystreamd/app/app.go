/*
Package paystreamd links together all the various components
to construct the paystreamd application.
*/
package paystreamd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/app"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/store/iavl"
	"github.com/iov-one/paystream/store/pgstore"
	"github.com/iov-one/paystream/x"
	"github.com/iov-one/paystream/x/bank"
	"github.com/iov-one/paystream/x/registry"
	"github.com/iov-one/paystream/x/sigs"
	"github.com/iov-one/paystream/x/stream"
	"github.com/iov-one/paystream/x/utils"
)

// Store backends supported by CommitKVStore.
const (
	StoreIAVL     = "iavl"
	StorePostgres = "postgres"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to all extensions.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	wallets := bank.NewController()
	users := registry.NewController()
	bank.RegisterRoutes(r, authFn, wallets)
	registry.RegisterRoutes(r, authFn)
	stream.RegisterRoutes(r, authFn, wallets, users)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/nonces", "/users", "/streams"
// and their indexes
func QueryRouter() paystream.QueryRouter {
	r := paystream.NewQueryRouter()
	r.RegisterAll(
		bank.RegisterQuery,
		sigs.RegisterQuery,
		registry.RegisterQuery,
		stream.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() paystream.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializers reads the genesis state of all extensions.
func Initializers() paystream.Initializer {
	return paystream.ChainInitializers(
		registry.Initializer{},
		bank.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h paystream.Handler, tx paystream.TxDecoder, kv paystream.CommitKVStore, debug bool) app.BaseApp {
	store := app.NewStoreApp(name, kv, QueryRouter())
	store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug)
}

// StoreOptions select and configure the state backend.
type StoreOptions struct {
	// Kind is either StoreIAVL or StorePostgres.
	Kind string
	// DBPath is the iavl database path. Empty keeps the state in memory.
	DBPath string
	// DSN is the postgres connection string.
	DSN string
}

// CommitKVStore returns an initialized store that persists the state
// using the configured backend.
func CommitKVStore(ctx context.Context, opts StoreOptions) (paystream.CommitKVStore, error) {
	switch opts.Kind {
	case StorePostgres:
		if opts.DSN == "" {
			return nil, errors.Wrap(errors.ErrInvalidInput, "postgres store requires a dsn")
		}
		kv, err := pgstore.Open(ctx, opts.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "open postgres store")
		}
		return kv, nil
	case StoreIAVL, "":
		// memory backed case, just for testing
		if opts.DBPath == "" {
			return iavl.NewMemCommitStore(), nil
		}
		path, err := filepath.Abs(opts.DBPath)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "database path %q", opts.DBPath)
		}
		// Some external calls accidentally add a ".db", which is now removed
		path = strings.TrimSuffix(path, filepath.Ext(path))
		kv, err := iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
		if err != nil {
			return nil, errors.Wrap(err, "open iavl store")
		}
		return kv, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown store %q", opts.Kind)
	}
}
