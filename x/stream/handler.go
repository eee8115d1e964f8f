package stream

import (
	"context"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/orm"
	"github.com/iov-one/paystream/x"
	"github.com/iov-one/paystream/x/bank"
	"github.com/iov-one/paystream/x/registry"
)

const (
	createStreamCost   = 300
	fundStreamCost     = 100
	withdrawStreamCost = 100
	cancelStreamCost   = 100
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r paystream.Registry, auth x.Authenticator, wallets bank.Controller, users registry.Controller) {
	bucket := NewBucket()
	r.Handle(&CreateMsg{}, &CreateHandler{auth: auth, bucket: bucket, wallets: wallets, users: users})
	r.Handle(&FundMsg{}, &FundHandler{auth: auth, bucket: bucket, wallets: wallets})
	r.Handle(&WithdrawMsg{}, &WithdrawHandler{auth: auth, bucket: bucket, wallets: wallets})
	r.Handle(&CancelMsg{}, &CancelHandler{auth: auth, bucket: bucket, wallets: wallets})
}

// RegisterQuery exposes streams as "/streams" and "/streams/receiver".
func RegisterQuery(qr paystream.QueryRouter) {
	NewBucket().Register("streams", qr)
}

// CreateHandler opens new streams.
type CreateHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets bank.Controller
	users   registry.Controller
}

var _ paystream.Handler = (*CreateHandler)(nil)

func (h *CreateHandler) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paystream.CheckResult{GasAllocated: createStreamCost}, nil
}

// Deliver escrows the amount and records the stream. The stream id is
// returned as data.
func (h *CreateHandler) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	s := &StreamRecord{
		Authority:       msg.Authority,
		Receiver:        msg.Receiver,
		TotalAmount:     msg.Amount,
		RemainingAmount: msg.Amount,
		StartTime:       info.UnixTime(),
		DurationSeconds: msg.DurationSeconds,
		Status:          StatusActive,
	}
	id, err := h.bucket.Create(db, s)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	if _, err := h.users.AppendStreamRef(db, msg.Authority, id); err != nil {
		return nil, errors.Wrap(err, "cannot reference stream")
	}
	if err := h.wallets.Move(db, msg.Authority, Escrow(id), msg.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot escrow funds")
	}
	info.Logger().Debug("stream created",
		"id", id, "authority", msg.Authority, "receiver", msg.Receiver, "amount", msg.Amount)
	return &paystream.DeliverResult{Data: id}, nil
}

// validate runs every check that can fail before any state is written.
func (h *CreateHandler) validate(ctx context.Context, db paystream.KVStore, tx paystream.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := paystream.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "authority signature missing")
	}
	user, err := h.users.Lookup(db, msg.Authority)
	if err != nil {
		return nil, err
	}
	if !user.HasCapacity() {
		return nil, errors.Wrapf(errors.ErrCapacityExceeded, "%d streams", user.Capacity)
	}
	balance, err := h.wallets.Balance(db, msg.Authority)
	if err != nil {
		return nil, err
	}
	if balance < msg.Amount {
		return nil, errors.Wrapf(errors.ErrInsufficientFunds, "balance %d, amount %d", balance, msg.Amount)
	}
	return &msg, nil
}

// FundHandler adds lamports to a stream without resetting its schedule.
type FundHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets bank.Controller
}

var _ paystream.Handler = (*FundHandler)(nil)

func (h *FundHandler) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paystream.CheckResult{GasAllocated: fundStreamCost}, nil
}

// Deliver increases both the total and remaining amounts. Already vested
// lamports are recomputed over the new total, so the schedule dilutes
// rather than restarts.
func (h *FundHandler) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	s.TotalAmount += msg.Amount
	s.RemainingAmount += msg.Amount
	if err := h.bucket.Put(db, msg.StreamID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	if err := h.wallets.Move(db, s.Authority, Escrow(msg.StreamID), msg.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot escrow funds")
	}
	info.Logger().Debug("stream funded", "id", msg.StreamID, "amount", msg.Amount, "total", s.TotalAmount)
	return &paystream.DeliverResult{}, nil
}

func (h *FundHandler) validate(ctx context.Context, db paystream.KVStore, tx paystream.Tx) (*FundMsg, *StreamRecord, error) {
	var msg FundMsg
	if err := paystream.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	s, err := h.bucket.Load(db, msg.StreamID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, s.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority signature missing")
	}
	if s.Status != StatusActive {
		return nil, nil, errors.Wrapf(errors.ErrInvalidState, "stream is %s", s.Status)
	}
	if s.TotalAmount > maxUint64-msg.Amount {
		return nil, nil, errors.Wrapf(errors.ErrOverflow, "total %d + %d", s.TotalAmount, msg.Amount)
	}
	balance, err := h.wallets.Balance(db, s.Authority)
	if err != nil {
		return nil, nil, err
	}
	if balance < msg.Amount {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientFunds, "balance %d, amount %d", balance, msg.Amount)
	}
	return &msg, s, nil
}

const maxUint64 = ^uint64(0)

// WithdrawHandler releases vested lamports to the receiver.
type WithdrawHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets bank.Controller
}

var _ paystream.Handler = (*WithdrawHandler)(nil)

func (h *WithdrawHandler) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := Payout(s, info.UnixTime(), msg.Amount); err != nil {
		return nil, err
	}
	return &paystream.CheckResult{GasAllocated: withdrawStreamCost}, nil
}

// Deliver transfers min(requested, withdrawable) lamports. The amount
// transferred is returned as an 8 byte big endian value.
func (h *WithdrawHandler) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	payout, err := Payout(s, info.UnixTime(), msg.Amount)
	if err != nil {
		return nil, err
	}
	s.RemainingAmount -= payout
	if err := h.bucket.Put(db, msg.StreamID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	if err := h.wallets.Move(db, Escrow(msg.StreamID), s.Receiver, payout); err != nil {
		return nil, errors.Wrap(err, "cannot release funds")
	}
	info.Logger().Debug("stream withdrawn", "id", msg.StreamID, "payout", payout, "remaining", s.RemainingAmount)
	return &paystream.DeliverResult{Data: orm.EncodeSequence(payout)}, nil
}

func (h *WithdrawHandler) validate(ctx context.Context, db paystream.KVStore, tx paystream.Tx) (*WithdrawMsg, *StreamRecord, error) {
	var msg WithdrawMsg
	if err := paystream.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	s, err := h.bucket.Load(db, msg.StreamID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, s.Receiver) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "receiver signature missing")
	}
	return &msg, s, nil
}

// CancelHandler terminates a stream on behalf of either party.
type CancelHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	wallets bank.Controller
}

var _ paystream.Handler = (*CancelHandler)(nil)

func (h *CancelHandler) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paystream.CheckResult{GasAllocated: cancelStreamCost}, nil
}

// Deliver pays the withdrawable lamports to the receiver, refunds the
// rest to the authority and marks the stream terminated.
func (h *CancelHandler) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	vested, err := Withdrawable(s, info.UnixTime())
	if err != nil {
		return nil, err
	}
	refund := s.RemainingAmount - vested
	escrow := Escrow(msg.StreamID)

	s.RemainingAmount = 0
	s.Status = StatusTerminated
	if err := h.bucket.Put(db, msg.StreamID, s); err != nil {
		return nil, errors.Wrap(err, "cannot store stream")
	}
	if vested > 0 {
		if err := h.wallets.Move(db, escrow, s.Receiver, vested); err != nil {
			return nil, errors.Wrap(err, "cannot pay receiver")
		}
	}
	if refund > 0 {
		if err := h.wallets.Move(db, escrow, s.Authority, refund); err != nil {
			return nil, errors.Wrap(err, "cannot refund authority")
		}
	}
	info.Logger().Debug("stream cancelled", "id", msg.StreamID, "paid", vested, "refunded", refund)
	return &paystream.DeliverResult{}, nil
}

func (h *CancelHandler) validate(ctx context.Context, db paystream.KVStore, tx paystream.Tx) (*CancelMsg, *StreamRecord, error) {
	var msg CancelMsg
	if err := paystream.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	s, err := h.bucket.Load(db, msg.StreamID)
	if err != nil {
		return nil, nil, err
	}
	if !x.HasAnyAddress(ctx, h.auth, s.Authority, s.Receiver) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority or receiver signature missing")
	}
	if s.RemainingAmount == 0 {
		return nil, nil, errors.Wrap(errors.ErrInsufficientFunds, "stream is empty")
	}
	return &msg, s, nil
}
