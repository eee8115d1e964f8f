package sigs

import (
	"testing"

	"github.com/iov-one/paystream/crypto"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	bz := []byte("foobar")
	tx := NewStdTx(bz)

	bz2 := []byte("blast")
	tx2 := NewStdTx(bz2)

	tbz, err := tx.GetSignBytes()
	assert.NoError(t, err)
	assert.Equal(t, bz, tbz)
	tbz2, err := tx2.GetSignBytes()
	assert.NoError(t, err)
	assert.Equal(t, bz2, tbz2)

	// make sure sign bytes match tx
	chainID := "test-sign-bytes"
	c1, err := BuildSignBytesTx(tx, chainID, 17)
	require.NoError(t, err)
	c1a, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.Equal(t, c1, c1a)
	assert.NotEqual(t, bz, c1)

	// make sure sign bytes change on tx, chain_id and seq
	ct, err := BuildSignBytes(bz2, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(bz, "no", 1)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	perm := pub.Condition()

	chainID := "stream-chain-1"
	bz := []byte("pay alice")
	tx := NewStdTx(bz)

	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig13, err := SignTx(priv, tx, chainID, 13)
	require.NoError(t, err)

	// signing should be deterministic
	sig1a, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	assert.Equal(t, sig1, sig1a)

	// the first one must have sequence zero
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// empty sig
	_, err = VerifySignature(kv, new(StdSignature), bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// wrong chain or payload
	_, err = VerifySignature(kv, sig0, bz, "other-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = VerifySignature(kv, sig0, []byte("pay bob"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	nonce, err := NextNonce(kv, perm.Address())
	require.NoError(t, err)
	assert.Equal(t, int64(0), nonce)

	// the proper one works
	signer, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, perm, signer)

	// we cannot replay it
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// or jump ahead
	_, err = VerifySignature(kv, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	signer, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, perm, signer)

	nonce, err = NextNonce(kv, perm.Address())
	require.NoError(t, err)
	assert.Equal(t, int64(2), nonce)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "stream-chain-2"
	priv := crypto.GenPrivKeyEd25519()
	priv2 := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("multi"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig2, err := SignTx(priv2, tx, chainID, 0)
	require.NoError(t, err)

	// no signatures is not an error here
	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	tx.Signatures = []*StdSignature{sig, sig2}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	require.Len(t, signers, 2)
	assert.Equal(t, priv.PublicKey().Condition(), signers[0])
	assert.Equal(t, priv2.PublicKey().Condition(), signers[1])

	// replay fails as a whole
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.Error(t, err)
}

func TestUserDataSequence(t *testing.T) {
	u := &UserData{Pubkey: crypto.GenPrivKeyEd25519().PublicKey(), Sequence: maxSequenceValue}
	err := u.CheckAndIncrementSequence(maxSequenceValue)
	assert.True(t, errors.ErrOverflow.Is(err))

	assert.Error(t, (&UserData{Sequence: -1}).Validate())
	assert.Error(t, (&UserData{Sequence: 3}).Validate())
	assert.NoError(t, (&UserData{}).Validate())
}
