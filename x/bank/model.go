/*
Package bank keeps the lamport balances of all addresses: signers, stream
escrows and receivers. It is the value layer the stream ledger settles on.
*/
package bank

import (
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/orm"
)

// BucketName is where we store the balances
const BucketName = "wallets"

// Wallet is the balance of a single address.
type Wallet struct {
	Lamports uint64 `json:"lamports"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate always succeeds, an empty wallet is valid.
func (w *Wallet) Validate() error {
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	return codec.Marshal(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, w)
}

// NewBucket returns the bucket storing wallets by address.
func NewBucket() orm.Bucket {
	return orm.NewBucket(BucketName, &Wallet{})
}
