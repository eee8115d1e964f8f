package sigs

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/paystreamtest"
)

// StdTx is a signed transaction carrying a test message.
type StdTx struct {
	paystreamtest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ paystream.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &paystreamtest.Msg{RoutePath: "test/payload", Serialized: payload}
	return &StdTx{Tx: paystreamtest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}
