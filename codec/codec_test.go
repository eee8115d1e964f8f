package codec

import (
	"testing"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingMsg struct {
	Payload []byte `json:"payload"`
}

func (m *pingMsg) Path() string               { return "codec/ping" }
func (m *pingMsg) Validate() error            { return nil }
func (m *pingMsg) Marshal() ([]byte, error)   { return Marshal(m) }
func (m *pingMsg) Unmarshal(raw []byte) error { return Unmarshal(raw, m) }

func init() {
	RegisterMsg(&pingMsg{}, "paystream/codec_test/Ping")
}

type envelope struct {
	Msg paystream.Msg `json:"msg"`
}

func TestMessageInterfaceRoundTrip(t *testing.T) {
	raw, err := Marshal(envelope{Msg: &pingMsg{Payload: []byte("hi")}})
	require.NoError(t, err)

	var got envelope
	require.NoError(t, Unmarshal(raw, &got))
	assert.Equal(t, &pingMsg{Payload: []byte("hi")}, got.Msg)

	js, err := MarshalJSON(envelope{Msg: &pingMsg{}})
	require.NoError(t, err)
	assert.Contains(t, string(js), "paystream/codec_test/Ping")
}

func TestUnmarshalGarbage(t *testing.T) {
	var got envelope
	err := Unmarshal([]byte{0xff, 0xff, 0xff}, &got)
	assert.True(t, errors.ErrInvalidModel.Is(err), "%+v", err)
}
