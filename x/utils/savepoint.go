package utils

import (
	"context"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ paystream.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx, next paystream.Checker) (*paystream.CheckResult, error) {
	cstore, ok := db.(paystream.CacheableKVStore)
	if !s.onCheck || !ok {
		return next.Check(ctx, info, db, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Check(ctx, info, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx, next paystream.Deliverer) (*paystream.DeliverResult, error) {
	cstore, ok := db.(paystream.CacheableKVStore)
	if !s.onDeliver || !ok {
		return next.Deliver(ctx, info, db, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, info, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}
