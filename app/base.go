package app

import (
	"context"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is the full ABCI application: StoreApp for state, queries and
// block handling, plus a decoder and handler stack for transactions.
type BaseApp struct {
	*StoreApp
	decoder paystream.TxDecoder
	handler paystream.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp wires a decoder and a handler stack to the store. With debug
// set, error responses carry the full stack trace.
func NewBaseApp(store *StoreApp, decoder paystream.TxDecoder, handler paystream.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

// CheckTx validates a transaction against the mempool state.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, info, err := b.prepare(raw, "check_tx")
	if err != nil {
		return paystream.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(context.Background(), info, b.CheckStore(), tx)
	return paystream.CheckOrError(res, err, b.debug)
}

// DeliverTx executes a transaction against the block state.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, info, err := b.prepare(raw, "deliver_tx")
	if err != nil {
		return paystream.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(context.Background(), info, b.DeliverStore(), tx)
	return paystream.DeliverOrError(res, err, b.debug)
}

// prepare decodes raw and returns the block info to execute it with. A
// panicking decoder is reported as ErrPanic.
func (b BaseApp) prepare(raw []byte, phase string) (tx paystream.Tx, info paystream.BlockInfo, err error) {
	defer errors.Recover(&err)
	if tx, err = b.decoder(raw); err != nil {
		return nil, info, err
	}
	info = b.BlockInfo().WithLogInfo("call", phase, "path", paystream.GetPath(tx))
	return tx, info, nil
}
