/*
Package crypto provides the ed25519 keys used to sign transactions.

A public key maps to a signature condition ("sigs/ed25519/<key>") and the
address of that condition identifies the signer on the ledger.
*/
package crypto

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we get from signatures.
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use.
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() paystream.Condition
	Address() paystream.Address
}

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

var _ PubKey = (*PublicKey)(nil)

// Verify verifies the signature was created with this message and public key.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if sig == nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a signature condition.
func (p *PublicKey) Condition() paystream.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return paystream.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address of the signature condition.
func (p *PublicKey) Address() paystream.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

func (p *PublicKey) Marshal() ([]byte, error) {
	return codec.Marshal(p)
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, p)
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key.
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if p == nil || len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInvalidInput, "invalid private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

func (p *PrivateKey) Marshal() ([]byte, error) {
	return codec.Marshal(p)
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, p)
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

func (s *Signature) Marshal() ([]byte, error) {
	return codec.Marshal(s)
}

func (s *Signature) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, s)
}

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}
