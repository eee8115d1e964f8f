/*
Package codec holds the binary codec shared by every persisted model,
message and transaction.

Models are encoded as plain amino structs. Messages are registered as
concrete implementations of the paystream.Msg interface so that a
transaction can carry any of them.
*/
package codec

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	amino "github.com/tendermint/go-amino"
)

// Cdc is the application wide codec. Extensions register their messages in
// their init functions.
var Cdc = amino.NewCodec()

func init() {
	Cdc.RegisterInterface((*paystream.Msg)(nil), nil)
}

// RegisterMsg registers a message implementation under given name. Use a
// pointer to the message type.
func RegisterMsg(msg paystream.Msg, name string) {
	Cdc.RegisterConcrete(msg, name, nil)
}

// Marshal serializes given object.
func Marshal(o interface{}) ([]byte, error) {
	bz, err := Cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "marshal %T: %s", o, err)
	}
	return bz, nil
}

// Unmarshal deserializes raw bytes into given object pointer.
func Unmarshal(raw []byte, ptr interface{}) error {
	if err := Cdc.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "unmarshal %T: %s", ptr, err)
	}
	return nil
}

// MarshalJSON serializes given object using the amino JSON format, which
// keeps the registered type name of interface values.
func MarshalJSON(o interface{}) ([]byte, error) {
	bz, err := Cdc.MarshalJSON(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "marshal json %T: %s", o, err)
	}
	return bz, nil
}
