package stream

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/orm"
)

const (
	pathCreateMsg   = "stream/create"
	pathFundMsg     = "stream/fund"
	pathWithdrawMsg = "stream/withdraw"
	pathCancelMsg   = "stream/cancel"
)

func init() {
	codec.RegisterMsg(&CreateMsg{}, pathCreateMsg)
	codec.RegisterMsg(&FundMsg{}, pathFundMsg)
	codec.RegisterMsg(&WithdrawMsg{}, pathWithdrawMsg)
	codec.RegisterMsg(&CancelMsg{}, pathCancelMsg)
}

var _ paystream.Msg = (*CreateMsg)(nil)

// CreateMsg opens a stream from the authority to the receiver, escrowing
// the full amount.
type CreateMsg struct {
	Authority       paystream.Address `json:"authority"`
	Receiver        paystream.Address `json:"receiver"`
	Amount          uint64            `json:"amount"`
	DurationSeconds uint64            `json:"duration_seconds"`
}

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	errs = errors.AppendField(errs, "Receiver", m.Receiver.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	}
	if m.DurationSeconds == 0 {
		errs = errors.Append(errs, errors.Field("DurationSeconds", errors.ErrInvalidInput, "must be positive"))
	}
	return errs
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return codec.Marshal(m)
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, m)
}

var _ paystream.Msg = (*FundMsg)(nil)

// FundMsg adds lamports to an active stream.
type FundMsg struct {
	StreamID []byte `json:"stream_id"`
	Amount   uint64 `json:"amount"`
}

func (FundMsg) Path() string {
	return pathFundMsg
}

func (m *FundMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "StreamID", orm.ValidateSequence(m.StreamID))
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	}
	return errs
}

func (m *FundMsg) Marshal() ([]byte, error) {
	return codec.Marshal(m)
}

func (m *FundMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, m)
}

var _ paystream.Msg = (*WithdrawMsg)(nil)

// WithdrawMsg releases up to Amount vested lamports to the receiver.
type WithdrawMsg struct {
	StreamID []byte `json:"stream_id"`
	Amount   uint64 `json:"amount"`
}

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

// Validate accepts a zero Amount. Such a request releases nothing and is
// rejected by the handler as ErrNothingVested.
func (m *WithdrawMsg) Validate() error {
	return errors.Field("StreamID", orm.ValidateSequence(m.StreamID), "invalid stream id")
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return codec.Marshal(m)
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, m)
}

var _ paystream.Msg = (*CancelMsg)(nil)

// CancelMsg terminates a stream. Vested lamports go to the receiver and
// the rest back to the authority.
type CancelMsg struct {
	StreamID []byte `json:"stream_id"`
}

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	return errors.Field("StreamID", orm.ValidateSequence(m.StreamID), "invalid")
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return codec.Marshal(m)
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, m)
}
