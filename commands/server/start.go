package server

import (
	"flag"
	"os"

	"github.com/iov-one/paystream/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind     = "bind"
	flagDebug    = "debug"
	flagStore    = "store"
	flagPgDSN    = "pg-dsn"
	flagLogLevel = "log-level"

	// envPgDSN is read when the -pg-dsn flag is not given.
	envPgDSN = "PAYSTREAM_PG_DSN"
)

// StoreFlags select the state backend of the started application.
type StoreFlags struct {
	Kind string
	DSN  string
}

type startFlags struct {
	bind     string
	debug    bool
	logLevel string
	store    StoreFlags
}

func parseFlags(args []string) (startFlags, error) {
	var f startFlags
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	fs.StringVar(&f.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	fs.BoolVar(&f.debug, flagDebug, false, "call stack returned on error")
	fs.StringVar(&f.logLevel, flagLogLevel, "info", "minimal level of logged messages (debug, info, error)")
	fs.StringVar(&f.store.Kind, flagStore, "iavl", "state backend, iavl or postgres")
	fs.StringVar(&f.store.DSN, flagPgDSN, os.Getenv(envPgDSN), "postgres connection string")
	if err := fs.Parse(args); err != nil {
		return f, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if f.store.Kind == "postgres" && f.store.DSN == "" {
		return f, errors.Wrapf(errors.ErrEmpty, "-%s or %s is required for postgres", flagPgDSN, envPgDSN)
	}
	return f, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, store StoreFlags, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI
// socket until the process is signalled.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	lvl, err := log.AllowLevel(f.logLevel)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	logger = log.NewFilter(logger, lvl)

	// Generate the app in the proper dir
	app, err := gen(home, f.store, logger, f.debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", f.bind, "store", f.store.Kind)

	svr, err := server.NewServer(f.bind, "socket", app)
	if err != nil {
		return errors.Wrap(err, "create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start server")
	}

	cmn.TrapSignal(logger, func() {
		// Cleanup
		svr.Stop()
	})
	// Run forever.
	select {}
}
