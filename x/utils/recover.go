package utils

import (
	"context"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ paystream.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx, next paystream.Checker) (_ *paystream.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, info, db, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx, next paystream.Deliverer) (_ *paystream.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, info, db, tx)
}
