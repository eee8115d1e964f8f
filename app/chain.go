package app

import (
	"context"
	"reflect"

	"github.com/iov-one/paystream"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []paystream.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    sigs.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(
    myapp.NewRouter(),
  )
*/
func ChainDecorators(chain ...paystream.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...paystream.Decorator) Decorators {
	next := make([]paystream.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dc := range chain {
		if isNil(dc) {
			continue
		}
		next = append(next, dc)
	}
	return Decorators{chain: next}
}

func isNil(d paystream.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h paystream.Handler) paystream.Handler {
	// start wrapping the handler from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler. Simplified version of a closure.
type step struct {
	d    paystream.Decorator
	next paystream.Handler
}

var _ paystream.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx context.Context, info paystream.BlockInfo, store paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	return s.d.Check(ctx, info, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx context.Context, info paystream.BlockInfo, store paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	return s.d.Deliver(ctx, info, store, tx, s.next)
}
