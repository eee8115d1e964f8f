package paystreamtest

import (
	"context"

	"github.com/iov-one/paystream"
)

// Handler is a mock implementation of the paystream.Handler interface that
// counts calls and returns configured results.
type Handler struct {
	checkCall   int
	CheckResult paystream.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult paystream.DeliverResult
	DeliverErr    error
}

var _ paystream.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes the configured key value pair to the store and then
// returns Err, which allows testing rollback behaviour.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ paystream.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &paystream.CheckResult{}, h.Err
}

func (h WriteHandler) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &paystream.DeliverResult{}, h.Err
}

// PanicHandler always panics with given value.
type PanicHandler struct {
	Value interface{}
}

var _ paystream.Handler = PanicHandler{}

func (h PanicHandler) Check(context.Context, paystream.BlockInfo, paystream.KVStore, paystream.Tx) (*paystream.CheckResult, error) {
	panic(h.Value)
}

func (h PanicHandler) Deliver(context.Context, paystream.BlockInfo, paystream.KVStore, paystream.Tx) (*paystream.DeliverResult, error) {
	panic(h.Value)
}
