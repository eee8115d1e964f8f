/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and maintain nonces for replay protection.
*/
package sigs

import (
	"context"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

const signatureVerifyCost = 500

// RegisterQuery will register the nonce bucket as "/nonces"
func RegisterQuery(qr paystream.QueryRouter) {
	NewBucket().Register("nonces", qr)
}

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ paystream.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator,
// which appends the chainID before checking the signature,
// and requires at least one signature to be present
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs allows us to pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx context.Context, info paystream.BlockInfo, store paystream.KVStore, tx paystream.Tx, next paystream.Checker) (*paystream.CheckResult, error) {
	ctx, signers, err := d.authenticate(ctx, info, store, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, info, store, tx)
	if err != nil {
		return nil, err
	}
	// only the valid signatures are charged
	res.GasAllocated += int64(signers * signatureVerifyCost)
	return res, nil
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx context.Context, info paystream.BlockInfo, store paystream.KVStore, tx paystream.Tx, next paystream.Deliverer) (*paystream.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, info, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, info, store, tx)
}

func (d Decorator) authenticate(ctx context.Context, info paystream.BlockInfo, store paystream.KVStore, tx paystream.Tx) (context.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		if d.allowMissingSigs {
			return ctx, 0, nil
		}
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "unsigned transaction")
	}
	signers, err := VerifyTxSignatures(store, stx, info.ChainID())
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}
