package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/paystream"
	paystreamd "github.com/iov-one/paystream/cmd/paystreamd/app"
	"github.com/iov-one/paystream/commands"
	"github.com/iov-one/paystream/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".paystream")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("paystreamd")
	fmt.Println("          Streaming payments node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("validate  Check the app_state of given genesis files")
	fmt.Println("testgen   Write example encodings to given directory")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.paystream")

start flags:
  -bind string       address server listens on (default "tcp://localhost:26658")
  -store string      state backend, iavl or postgres (default "iavl")
  -pg-dsn string     postgres connection string (default $PAYSTREAM_PG_DSN)
  -log-level string  debug, info or error (default "info")
  -debug             call stack returned on error`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "paystream")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(paystreamd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(paystreamd.GenerateApp, logger, *varHome, rest)
	case "validate":
		err = server.ValidateGenesis(paystreamd.Initializers(), rest)
	case "testgen":
		err = commands.TestGenCmd(paystreamd.Examples(), rest)
	case "version":
		fmt.Println(paystream.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
