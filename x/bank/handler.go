package bank

import (
	"context"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/x"
)

const sendTxCost = 100

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r paystream.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr paystream.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler will handle sending lamports
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ paystream.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &paystream.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the lamports from source to destination if
// all preconditions are met
func (h SendHandler) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Move(db, msg.Src, msg.Dest, msg.Amount); err != nil {
		return nil, err
	}
	return &paystream.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx context.Context, tx paystream.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := paystream.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Src) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}
