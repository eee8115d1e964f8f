package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/crypto"
	"github.com/iov-one/paystream/errors"
)

// signVersion prefixes every signed payload. Changing the layout of the
// payload requires a new version.
var signVersion = [4]byte{0, 0xCA, 0xFE, 0}

// BuildSignBytes returns the digest a signer signs for a transaction with
// given sign bytes, on chainID, at sequence seq. The digest is the sha512 of
//
//	version (4) | len(chainID) (1) | chainID | seq (8, big endian) | signBytes
//
// Binding the chain and sequence prevents replay on another chain or a
// second time on the same chain.
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	switch {
	case seq < 0:
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	case !paystream.IsValidChainID(chainID):
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}

	h := sha512.New()
	h.Write(signVersion[:])
	h.Write([]byte{byte(len(chainID))})
	h.Write([]byte(chainID))
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	h.Write(nonce[:])
	h.Write(signBytes)
	return h.Sum(nil), nil
}

// BuildSignBytesTx is BuildSignBytes for the sign bytes of tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return BuildSignBytes(raw, chainID, seq)
}

// SignTx signs tx for chainID with the sequence the signer is expected to
// be at.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: sig, Sequence: seq}, nil
}

// VerifyTxSignatures verifies every signature of tx and returns the signer
// conditions in signature order. It fails on the first invalid signature.
// Each verified signer has its sequence incremented in db.
func VerifyTxSignatures(db paystream.KVStore, tx SignedTx, chainID string) ([]paystream.Condition, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	var signers []paystream.Condition
	for i, sig := range tx.GetSignatures() {
		signer, err := VerifySignature(db, sig, raw, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature verifies a single signature over signBytes and consumes
// its sequence. A signature with a stale or future sequence is rejected
// with ErrInvalidSequence.
func VerifySignature(db paystream.KVStore, sig *StdSignature, signBytes []byte, chainID string) (paystream.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	b := NewBucket()
	user, err := b.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := b.Save(db, user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// NextNonce returns the sequence the next signature of signer must carry.
// Signers that never signed start at zero.
func NextNonce(db paystream.ReadOnlyKVStore, signer paystream.Address) (int64, error) {
	var user UserData
	err := NewBucket().One(db, signer, &user)
	if errors.ErrNotFound.Is(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	return user.Sequence, nil
}
