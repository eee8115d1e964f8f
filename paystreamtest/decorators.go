package paystreamtest

import (
	"context"

	"github.com/iov-one/paystream"
)

// Decorator is a mock implementation of the paystream.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ paystream.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx, next paystream.Checker) (*paystream.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, info, db, tx)
}

func (d *Decorator) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx, next paystream.Deliverer) (*paystream.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, info, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps given handler with a single decorator.
func Decorate(h paystream.Handler, d paystream.Decorator) paystream.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn paystream.Handler
	dc paystream.Decorator
}

var _ paystream.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	return d.dc.Check(ctx, info, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	return d.dc.Deliver(ctx, info, db, tx, d.hn)
}
