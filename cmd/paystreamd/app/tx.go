package paystreamd

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/x/sigs"
)

// Tx is the transaction format of the ledger: a single message together
// with the signatures authorizing it.
type Tx struct {
	Msg        paystream.Msg        `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

// make sure tx fulfills all interfaces
var _ paystream.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (paystream.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (paystream.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures of all signers.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. The signatures are not part of
// the signed data.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	return codec.Marshal(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, tx)
}
