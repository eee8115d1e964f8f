package paystreamd

import (
	"fmt"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/commands"
	"github.com/iov-one/paystream/crypto"
	"github.com/iov-one/paystream/orm"
	"github.com/iov-one/paystream/x/bank"
	"github.com/iov-one/paystream/x/registry"
	"github.com/iov-one/paystream/x/sigs"
	"github.com/iov-one/paystream/x/stream"
)

// exampleChainID is the chain the example transactions are signed for.
const exampleChainID = "paystream-testgen"

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	alice := crypto.PrivKeyEd25519FromSeed(seed(1))
	bob := crypto.PrivKeyEd25519FromSeed(seed(2))
	aliceAddr := alice.PublicKey().Address()
	bobAddr := bob.PublicKey().Address()
	streamID := orm.EncodeSequence(1)

	user := &registry.UserRecord{
		Authority:   aliceAddr,
		DisplayName: "alice",
		Capacity:    registry.DefaultConfiguration().MaxStreams,
		StreamRefs:  [][]byte{streamID},
	}
	record := &stream.StreamRecord{
		Authority:       aliceAddr,
		Receiver:        bobAddr,
		TotalAmount:     10000000,
		RemainingAmount: 5000000,
		StartTime:       paystream.UnixTime(1554120000),
		DurationSeconds: 60,
		Status:          stream.StatusActive,
	}

	msgs := []struct {
		name   string
		signer *crypto.PrivateKey
		msg    paystream.Msg
	}{
		{"register_msg", alice, &registry.RegisterMsg{Authority: aliceAddr, DisplayName: "alice"}},
		{"create_stream_msg", alice, &stream.CreateMsg{Authority: aliceAddr, Receiver: bobAddr, Amount: 10000000, DurationSeconds: 60}},
		{"fund_stream_msg", alice, &stream.FundMsg{StreamID: streamID, Amount: 5000000}},
		{"withdraw_msg", bob, &stream.WithdrawMsg{StreamID: streamID, Amount: 5000000}},
		{"cancel_stream_msg", alice, &stream.CancelMsg{StreamID: streamID}},
		{"send_msg", alice, &bank.SendMsg{Src: aliceAddr, Dest: bobAddr, Amount: 100, Memo: "coffee"}},
	}

	examples := []commands.Example{
		{Filename: "pubkey", Obj: alice.PublicKey()},
		{Filename: "privkey", Obj: alice},
		{Filename: "user", Obj: user},
		{Filename: "stream", Obj: record},
		{Filename: "wallet", Obj: &bank.Wallet{Lamports: defaultLamports}},
		{Filename: "nonce", Obj: &sigs.UserData{Pubkey: alice.PublicKey(), Sequence: 3}},
	}
	for i, m := range msgs {
		tx := &Tx{Msg: m.msg}
		sig, err := sigs.SignTx(m.signer, tx, exampleChainID, int64(i))
		if err != nil {
			panic(fmt.Sprintf("sign %s: %s", m.name, err))
		}
		tx.Signatures = []*sigs.StdSignature{sig}
		examples = append(examples,
			commands.Example{Filename: m.name, Obj: m.msg},
			commands.Example{Filename: "tx_" + m.name, Obj: tx},
		)
	}
	return examples
}

func seed(b byte) []byte {
	s := make([]byte, 32)
	for i := range s {
		s[i] = b
	}
	return s
}
