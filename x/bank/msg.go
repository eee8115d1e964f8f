package bank

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/errors"
)

const (
	pathSendMsg = "bank/send"

	maxMemoSize = 128
)

func init() {
	codec.RegisterMsg(&SendMsg{}, pathSendMsg)
}

// SendMsg moves lamports from the signer to another address.
type SendMsg struct {
	Src    paystream.Address `json:"src"`
	Dest   paystream.Address `json:"dest"`
	Amount uint64            `json:"amount"`
	Memo   string            `json:"memo"`
}

var _ paystream.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Src", m.Src.Validate())
	errs = errors.AppendField(errs, "Dest", m.Dest.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.Wrapf(errors.ErrInvalidInput, "longer than %d", maxMemoSize))
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return codec.Marshal(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, m)
}
