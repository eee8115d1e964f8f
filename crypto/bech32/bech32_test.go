package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestBech32EncodeDecode(t *testing.T) {
	cases := map[string]struct {
		enc     string
		hrp     string
		payload string
	}{
		"text payload": {
			enc:     "pay1w3jhxapdwpshjmr0v9jq6wqlc9",
			hrp:     "pay",
			payload: "746573742d7061796c6f6164",
		},
		"address sized payload": {
			enc:     "pay1qqqsyqcyq5rqwzqfpg9scrgwpugpzysn58mf06",
			hrp:     "pay",
			payload: "000102030405060708090a0b0c0d0e0f10111213",
		},
		"foreign prefix": {
			enc:     "tiov1w3jhxapdwpshjmr0v9jqymqq4y",
			hrp:     "tiov",
			payload: "746573742d7061796c6f6164",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			want, err := hex.DecodeString(tc.payload)
			if err != nil {
				t.Fatal(err)
			}

			hrp, payload, err := Decode(tc.enc)
			if err != nil {
				t.Fatal(err)
			}
			if hrp != tc.hrp {
				t.Fatalf("want %q hrp, got %q", tc.hrp, hrp)
			}
			if !bytes.Equal(want, payload) {
				t.Logf("want %d", want)
				t.Logf("got  %d", payload)
				t.Fatal("invalid decode")
			}

			enc, err := Encode(hrp, payload)
			if err != nil {
				t.Fatal(err)
			}
			if enc != tc.enc {
				t.Fatalf("want %q, got %q", tc.enc, enc)
			}
		})
	}
}

func TestBech32DecodeInvalidChecksum(t *testing.T) {
	if _, _, err := Decode("pay1w3jhxapdwpshjmr0v9jq6wqlc8"); err == nil {
		t.Fatal("want checksum error")
	}
}
