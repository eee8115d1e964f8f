package sigs

import (
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/crypto"
	"github.com/iov-one/paystream/errors"
)

// ErrInvalidSequence is returned when the signature nonce does not match
// the expected one.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without its signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of all signers.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature over a transaction, together with the public
// key that created it and the nonce it was created for.
type StdSignature struct {
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature *crypto.Signature `json:"signature"`
	Sequence  int64             `json:"sequence"`
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil || len(s.Pubkey.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil || len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	return codec.Marshal(s)
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, s)
}
