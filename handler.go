package paystream

import (
	"context"
	"encoding/json"
)

// Handler is a core engine that can process a few specific messages.
// This could represent "create stream" or "withdraw from stream".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx context.Context, info BlockInfo, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx context.Context, info BlockInfo, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication or atomicity to many Handlers
type Decorator interface {
	Check(ctx context.Context, info BlockInfo, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx context.Context, info BlockInfo, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(m Msg, h Handler)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(opts Options, kv KVStore) error
}

// MultiInitializer can be used to combine a number of initializers
// into one.
type MultiInitializer struct {
	inits []Initializer
}

var _ Initializer = MultiInitializer{}

// ChainInitializers combines all initializers into one.
func ChainInitializers(inits ...Initializer) MultiInitializer {
	return MultiInitializer{inits}
}

// FromGenesis runs all initializers in order. It fails on the first error.
func (m MultiInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range m.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
