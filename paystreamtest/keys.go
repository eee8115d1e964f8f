/*
Package paystreamtest provides test doubles and helpers shared by the test
suites of all packages.
*/
package paystreamtest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"
	"time"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/crypto"
	abci "github.com/tendermint/tendermint/abci/types"
)

// NewKey returns a random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a random key.
func NewCondition() paystream.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) paystream.Address {
	raw := make([]byte, paystream.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return paystream.Address(raw)
}

// SequenceID returns the encoded sequence value, as produced by the orm
// sequence for the n-th created entity.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// ChainID is used by block infos created by this package.
const ChainID = "test-paystream"

// BlockInfo returns block information for given height and unix time. The
// time is the "now" seen by every handler.
func BlockInfo(t testing.TB, height int64, now paystream.UnixTime) paystream.BlockInfo {
	t.Helper()
	header := abci.Header{
		ChainID: ChainID,
		Height:  height,
		Time:    time.Unix(int64(now), 0).UTC(),
	}
	info, err := paystream.NewBlockInfo(header, ChainID, nil)
	if err != nil {
		t.Fatalf("cannot create block info: %s", err)
	}
	return info
}
