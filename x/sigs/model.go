package sigs

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/crypto"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/orm"
)

// BucketName is where we store the nonces
const BucketName = "nonces"

// maxSequenceValue is the greatest nonce value a client can represent as
// a javascript number (2^53 - 1).
const maxSequenceValue = (1 << 53) - 1

// UserData is the signer state: its public key, registered with the first
// signature, and the sequence expected in the next signature.
type UserData struct {
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Field("Sequence", ErrInvalidSequence, "negative")
	}
	if u.Sequence > 0 && u.Pubkey == nil {
		return errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	return codec.Marshal(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, u)
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData by signer address.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the state of given key, or initializes one if the key
// never signed before.
func (b Bucket) GetOrCreate(db paystream.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save stores the user under the address of its public key.
func (b Bucket) Save(db paystream.KVStore, u *UserData) error {
	if u.Pubkey == nil {
		return errors.Wrap(errors.ErrEmpty, "pubkey")
	}
	return b.Put(db, u.Pubkey.Address(), u)
}
